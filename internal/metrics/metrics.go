package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every ShiftPlanner metric. main exposes it over /metrics
// when a metrics address is configured.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	DetectionRuns = factory.NewCounter(prometheus.CounterOpts{
		Name: "shiftplanner_detection_runs_total",
		Help: "Number of conflict detection runs.",
	})

	ConflictsDetected = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftplanner_conflicts_detected_total",
		Help: "Conflicts found by the detector, partitioned by severity.",
	}, []string{"severity"})

	AssignmentsProposed = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftplanner_assignments_proposed_total",
		Help: "Assignments proposed by the scheduler, partitioned by strategy.",
	}, []string{"strategy"})

	AssignmentsPersisted = factory.NewCounter(prometheus.CounterOpts{
		Name: "shiftplanner_assignments_persisted_total",
		Help: "Proposed assignments written to storage.",
	})

	SlotsUnfilled = factory.NewCounter(prometheus.CounterOpts{
		Name: "shiftplanner_slots_unfilled_total",
		Help: "Open slots the scheduler could not find a candidate for.",
	})

	GenerationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "shiftplanner_generation_duration_seconds",
		Help:    "Wall time of schedule generation runs.",
		Buckets: prometheus.DefBuckets,
	})

	AbsenceTransitions = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftplanner_absence_transitions_total",
		Help: "Absence request status transitions.",
	}, []string{"status"})

	ReplacementsRecorded = factory.NewCounter(prometheus.CounterOpts{
		Name: "shiftplanner_replacements_recorded_total",
		Help: "Replacement assignments recorded for approved absences.",
	})

	NotificationsFailed = factory.NewCounter(prometheus.CounterOpts{
		Name: "shiftplanner_notifications_failed_total",
		Help: "Notifications that could not be delivered.",
	})
)
