package models

import "time"

// CompOffEntry tracks compensatory time off. Covering weekend or holiday duty
// earns positive days; approving a comp_off absence redeems them.
type CompOffEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnalystID uint      `gorm:"not null;index" json:"analyst_id"`
	Days      float64   `gorm:"not null" json:"days"`
	Reason    string    `gorm:"not null" json:"reason"`
	AbsenceID *uint     `gorm:"index" json:"absence_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CompOffEntry) TableName() string {
	return "comp_off_entries"
}

// IsEarned reports whether the entry added balance.
func (e *CompOffEntry) IsEarned() bool {
	return e.Days > 0
}
