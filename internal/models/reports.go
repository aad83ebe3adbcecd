package models

import "time"

// AssignmentReason explains why the scheduler picked an analyst for a slot.
// WorkWeight is display-only; it never feeds back into selection.
type AssignmentReason struct {
	Primary          string   `json:"primary"`
	SecondaryFactors []string `json:"secondary_factors"`
	WorkWeight       float64  `json:"work_weight"`
}

// ProposedAssignment is a scheduler suggestion for one open (day, shift) slot.
type ProposedAssignment struct {
	Day        time.Time        `json:"day"`
	ShiftType  ShiftType        `json:"shift_type"`
	AnalystID  uint             `json:"analyst_id"`
	IsScreener bool             `json:"is_screener"`
	Strategy   string           `json:"strategy"`
	Reason     AssignmentReason `json:"reason"`
}

// GenerationSummary is returned alongside the proposals of one scheduler run.
type GenerationSummary struct {
	TotalConflicts     int   `json:"total_conflicts"`
	CriticalConflicts  int   `json:"critical_conflicts"`
	AssignmentsNeeded  int   `json:"assignments_needed"`
	AssignmentsCreated int   `json:"assignments_created"`
	AssignmentsSkipped int   `json:"assignments_skipped"`
	UnfilledSlots      int   `json:"unfilled_slots"`
	EstimatedTimeMs    int64 `json:"estimated_time_ms"`
}

// GenerationResult is the full output of one schedule-generation run.
type GenerationResult struct {
	RunID             string               `json:"run_id"`
	ProposedSchedules []ProposedAssignment `json:"proposed_schedules"`
	Summary           GenerationSummary    `json:"summary"`
}

// ReplacementDecision is the selector's answer for one shift slot. A nil
// Candidate means no analyst passed the availability filter; that outcome is
// data for the caller, not an error.
type ReplacementDecision struct {
	Day               time.Time `json:"date"`
	ShiftType         ShiftType `json:"shift_type"`
	OriginalAnalystID uint      `json:"original_analyst_id"`
	Candidate         *Analyst  `json:"candidate,omitempty"`
	Score             float64   `json:"score"`
	Confidence        float64   `json:"confidence"`
	Reasons           []string  `json:"reasons"`
	Concerns          []string  `json:"concerns"`
}

// HasCandidate reports whether a replacement was found.
func (d *ReplacementDecision) HasCandidate() bool {
	return d.Candidate != nil
}

// Coverage risk levels for an absence range.
const (
	CoverageRiskAuto       = "AUTO"
	CoverageRiskManual     = "MANUAL"
	CoverageRiskImpossible = "IMPOSSIBLE"
)

// Recommendations for an absence request.
const (
	RecommendApprove           = "APPROVE"
	RecommendApproveConditions = "APPROVE_WITH_CONDITIONS"
	RecommendReschedule        = "SUGGEST_RESCHEDULE"
	RecommendDeny              = "DENY"
)

// ImpactReport summarizes what approving an absence would do to coverage.
type ImpactReport struct {
	AbsenceID           uint                  `json:"absence_id"`
	TeamAvailabilityPct float64               `json:"team_availability_pct"`
	CoverageRisk        string                `json:"coverage_risk"`
	RotationDisruption  bool                  `json:"rotation_disruption"`
	ReplacementPlan     []ReplacementDecision `json:"replacement_plan"`
	Recommendation      string                `json:"recommendation"`
	Concerns            []string              `json:"concerns"`
}
