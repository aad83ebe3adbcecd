package models

import "time"

type Role string

const (
	RoleAnalyst string = "analyst"
	RoleLead    string = "lead"
)

type Analyst struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	ChatID    int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `json:"last_name"`
	ShiftType ShiftType `gorm:"type:varchar(20);not null;index" json:"shift_type"`
	Region    string    `gorm:"type:varchar(10);not null;default:'AMR';index" json:"region"`
	Role      string    `gorm:"default:'analyst'" json:"role"` // string instead of Role
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
}

// IsLead reports whether the analyst can approve absences and manage the roster.
func (a *Analyst) IsLead() bool {
	return a.Role == "lead"
}

// SetRole sets the role
func (a *Analyst) SetRole(role Role) {
	a.Role = string(role)
}

// FullName returns the display name used in schedules and notifications.
func (a *Analyst) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// TableName sets the table name in the DB
func (Analyst) TableName() string {
	return "analysts"
}
