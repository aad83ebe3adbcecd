package models

import "time"

type Absence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnalystID uint      `gorm:"not null;index" json:"analyst_id"`
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// IsPlanned marks absences arranged in advance; planned time off incurs
	// fairness debt even when the category is not vacation.
	IsPlanned    bool   `gorm:"not null;default:false" json:"is_planned"`
	DenialReason string `json:"denial_reason"`
	Notes        string `json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Analyst Analyst `gorm:"foreignKey:AnalystID" json:"analyst"`
}

func (Absence) TableName() string {
	return "absences"
}

const (
	AbsenceTypeVacation   = "vacation"
	AbsenceTypeSickLeave  = "sick_leave"
	AbsenceTypePersonal   = "personal"
	AbsenceTypeEmergency  = "emergency"
	AbsenceTypeTraining   = "training"
	AbsenceTypeConference = "conference"
	AbsenceTypeCompOff    = "comp_off"
)

const (
	AbsenceStatusPending   = "pending"
	AbsenceStatusApproved  = "approved"
	AbsenceStatusRejected  = "rejected"
	AbsenceStatusCancelled = "cancelled"
)

// ValidAbsenceType checks the category against the known set.
func ValidAbsenceType(t string) bool {
	switch t {
	case AbsenceTypeVacation, AbsenceTypeSickLeave, AbsenceTypePersonal,
		AbsenceTypeEmergency, AbsenceTypeTraining, AbsenceTypeConference,
		AbsenceTypeCompOff:
		return true
	}
	return false
}

// DurationInDays returns the inclusive length of the absence in calendar days.
func (a *Absence) DurationInDays() int {
	if a.EndDate.Before(a.StartDate) {
		return 0
	}
	return int(a.EndDate.Sub(a.StartDate).Hours()/24) + 1
}

// Covers reports whether the given day falls inside the absence range.
func (a *Absence) Covers(day time.Time) bool {
	return !day.Before(a.StartDate) && !day.After(a.EndDate)
}

// IsPending / IsApproved / IsRejected status helpers.
func (a *Absence) IsPending() bool  { return a.Status == AbsenceStatusPending }
func (a *Absence) IsApproved() bool { return a.Status == AbsenceStatusApproved }
func (a *Absence) IsRejected() bool { return a.Status == AbsenceStatusRejected }

// SameRequest reports whether another absence is an exact duplicate of this
// one: same type and identical start/end. Duplicates are distinguished from
// overlaps so the caller can point at the existing record.
func (a *Absence) SameRequest(other *Absence) bool {
	return a.Type == other.Type &&
		a.StartDate.Equal(other.StartDate) &&
		a.EndDate.Equal(other.EndDate)
}

// IsValid checks validity of the absence data
func (a *Absence) IsValid() bool {
	if a.AnalystID == 0 {
		return false
	}
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		return false
	}
	if a.EndDate.Before(a.StartDate) {
		return false
	}
	if !ValidAbsenceType(a.Type) {
		return false
	}
	return true
}
