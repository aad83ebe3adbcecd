package models

import "time"

// FairnessDebtEntry is one row of the append-only fairness ledger. Debts are
// stored with a positive amount and stay unresolved until settled; credits
// are stored with a negative amount and are resolved the moment they are
// earned. Entries are never deleted.
type FairnessDebtEntry struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AnalystID  uint       `gorm:"not null;index" json:"analyst_id"`
	Amount     float64    `gorm:"not null" json:"amount"`
	Reason     string     `gorm:"not null" json:"reason"`
	AbsenceID  *uint      `gorm:"index" json:"absence_id"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Analyst Analyst `gorm:"foreignKey:AnalystID" json:"analyst"`
}

func (FairnessDebtEntry) TableName() string {
	return "fairness_debt_entries"
}

// IsDebt reports whether the entry adds to the analyst's owed duty.
func (e *FairnessDebtEntry) IsDebt() bool {
	return e.Amount > 0
}

// IsCredit reports whether the entry records extra duty already performed.
func (e *FairnessDebtEntry) IsCredit() bool {
	return e.Amount < 0
}

// IsOutstanding reports whether a debt still counts toward the net balance.
func (e *FairnessDebtEntry) IsOutstanding() bool {
	return e.IsDebt() && e.ResolvedAt == nil
}
