package models

import "time"

// Conflict describes one detected coverage problem. Conflicts are transient:
// they are computed per request and never persisted.
type Conflict struct {
	Day           time.Time `json:"day"`
	DayKey        string    `json:"day_key"`
	Message       string    `json:"message"`
	Category      string    `json:"category"`
	MissingShifts []string  `json:"missing_shifts"`
	Severity      string    `json:"severity"`
}

const (
	ConflictNoScheduleExists   = "no_schedule_exists"
	ConflictIncompleteSchedule = "incomplete_schedule"
	ConflictNoAnalystAssigned  = "no_analyst_assigned"
	ConflictScreener           = "screener_conflict"
)

const (
	SeverityCritical    = "critical"
	SeverityRecommended = "recommended"
)

// ConflictReport partitions detected conflicts by severity.
type ConflictReport struct {
	Critical    []Conflict `json:"critical"`
	Recommended []Conflict `json:"recommended"`
}

// Total returns the number of conflicts across both partitions.
func (r *ConflictReport) Total() int {
	return len(r.Critical) + len(r.Recommended)
}

// IsClean reports whether the range had no conflicts at all.
func (r *ConflictReport) IsClean() bool {
	return r.Total() == 0
}
