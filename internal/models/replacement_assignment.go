package models

import "time"

// ReplacementAssignment is the audit record written whenever one analyst takes
// over another's shift. The scoring engine also counts recent rows per
// replacement analyst as its fatigue signal.
type ReplacementAssignment struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Reference            string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	OriginalAnalystID    uint      `gorm:"not null;index" json:"original_analyst_id"`
	ReplacementAnalystID uint      `gorm:"not null;index" json:"replacement_analyst_id"`
	Day                  time.Time `gorm:"type:date;not null;index" json:"day"`
	ShiftType            ShiftType `gorm:"type:varchar(20);not null" json:"shift_type"`
	Status               string    `gorm:"type:varchar(10);not null;default:'active'" json:"status"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ReplacementAssignment) TableName() string {
	return "replacement_assignments"
}

const (
	ReplacementStatusActive   = "active"
	ReplacementStatusReversed = "reversed"
)

// IsActive reports whether the replacement still stands.
func (r *ReplacementAssignment) IsActive() bool {
	return r.Status == ReplacementStatusActive
}
