package models

import "time"

type ShiftAssignment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_analyst_day;index" json:"day"`
	ShiftType ShiftType `gorm:"type:varchar(20);not null;index" json:"shift_type"`
	AnalystID uint      `gorm:"not null;uniqueIndex:idx_analyst_day;index" json:"analyst_id"`

	// Screener is the elevated-duty role layered on top of the shift.
	IsScreener bool `gorm:"not null;default:false" json:"is_screener"`

	Region    string    `gorm:"type:varchar(10);not null;default:'AMR'" json:"region"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Analyst Analyst `gorm:"foreignKey:AnalystID" json:"analyst"`
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}

// IsWeekendShift reports whether the assignment is the weekend duty category.
func (sa *ShiftAssignment) IsWeekendShift() bool {
	return sa.ShiftType == ShiftTypeWeekend
}

// SameDay checks whether the assignment falls on the given calendar day.
func (sa *ShiftAssignment) SameDay(day time.Time) bool {
	return sa.Day.Year() == day.Year() &&
		sa.Day.Month() == day.Month() &&
		sa.Day.Day() == day.Day()
}

// IsValid checks validity of the assignment data
func (sa *ShiftAssignment) IsValid() bool {
	if sa.AnalystID == 0 {
		return false
	}
	if sa.Day.IsZero() {
		return false
	}
	if !sa.ShiftType.IsValid() {
		return false
	}
	return true
}
