package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/metrics"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"github.com/sirupsen/logrus"
)

// WeekendRule selects how much coverage a weekend day needs.
type WeekendRule string

const (
	// WeekendRuleAny accepts any single assignment, whatever its shift type.
	WeekendRuleAny WeekendRule = "any"
	// WeekendRuleDedicated requires an assignment of the weekend category.
	WeekendRuleDedicated WeekendRule = "dedicated"
)

// DetectorOptions tunes the conflict detector. The zero value is not usable;
// start from DefaultDetectorOptions.
type DetectorOptions struct {
	// BulkEmptyThreshold is the fraction of empty days above which the range
	// is reported as having no schedule at all instead of per-day conflicts.
	BulkEmptyThreshold float64
	WeekendRule        WeekendRule
	// SkipWeekendScreenerChecks drops screener checks on weekend days
	// entirely, for teams whose weekend rotation has no screener role.
	SkipWeekendScreenerChecks bool
}

func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		BulkEmptyThreshold: 0.70,
		WeekendRule:        WeekendRuleAny,
	}
}

type ConflictDetectorService struct {
	scheduleRepo repository.ScheduleRepository
	opts         DetectorOptions
	logger       *logrus.Logger
}

func NewConflictDetectorService(scheduleRepo repository.ScheduleRepository, opts DetectorOptions) *ConflictDetectorService {
	if opts.BulkEmptyThreshold <= 0 || opts.BulkEmptyThreshold > 1 {
		opts.BulkEmptyThreshold = DefaultDetectorOptions().BulkEmptyThreshold
	}
	if opts.WeekendRule == "" {
		opts.WeekendRule = WeekendRuleAny
	}

	return &ConflictDetectorService{
		scheduleRepo: scheduleRepo,
		opts:         opts,
		logger:       logrus.New(),
	}
}

// dayCoverage is what one calendar day looks like in the assignment set.
type dayCoverage struct {
	byType    map[models.ShiftType][]*models.ShiftAssignment
	screeners map[models.ShiftType]int
	total     int
}

// screenerOrder fixes the iteration order over present shift types so two
// runs over the same data emit conflicts in the same order.
var screenerOrder = []models.ShiftType{
	models.ShiftTypeMorning,
	models.ShiftTypeEvening,
	models.ShiftTypeDay,
	models.ShiftTypeWeekend,
}

// DetectRange classifies every day of the inclusive range and returns the
// coverage problems partitioned into critical and recommended.
func (s *ConflictDetectorService) DetectRange(start, end time.Time) (*models.ConflictReport, error) {
	days, err := dateutil.DaysBetween(start, end)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	assignments, err := s.scheduleRepo.ListByDateRange(start, end)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load assignments for detection")
		return nil, err
	}

	report := s.classify(days, assignments)

	metrics.DetectionRuns.Inc()
	metrics.ConflictsDetected.WithLabelValues(models.SeverityCritical).Add(float64(len(report.Critical)))
	metrics.ConflictsDetected.WithLabelValues(models.SeverityRecommended).Add(float64(len(report.Recommended)))

	s.logger.WithFields(logrus.Fields{
		"start":       dateutil.DayKey(start),
		"end":         dateutil.DayKey(end),
		"assignments": len(assignments),
		"critical":    len(report.Critical),
		"recommended": len(report.Recommended),
	}).Info("Conflict detection completed")

	return report, nil
}

func (s *ConflictDetectorService) classify(days []time.Time, assignments []*models.ShiftAssignment) *models.ConflictReport {
	report := &models.ConflictReport{
		Critical:    []models.Conflict{},
		Recommended: []models.Conflict{},
	}

	coverage := buildCoverage(assignments)

	// Count days with nothing scheduled before going per-day
	emptyDays := 0
	for _, day := range days {
		if _, ok := coverage[dateutil.DayKey(day)]; !ok {
			emptyDays++
		}
	}

	// A mostly-empty range means the schedule was never generated. Report
	// that once instead of flooding the caller with one conflict per day.
	emptyRatio := float64(emptyDays) / float64(len(days))
	if len(assignments) == 0 || emptyRatio > s.opts.BulkEmptyThreshold {
		report.Recommended = append(report.Recommended, models.Conflict{
			Day:      days[0],
			DayKey:   dateutil.DayKey(days[0]),
			Category: models.ConflictNoScheduleExists,
			Severity: models.SeverityRecommended,
			Message: fmt.Sprintf("No schedule exists for %s to %s (%d of %d days empty)",
				dateutil.DayKey(days[0]), dateutil.DayKey(days[len(days)-1]), emptyDays, len(days)),
		})
		return report
	}

	var emptyWeekdays []time.Time

	for _, day := range days {
		cov, ok := coverage[dateutil.DayKey(day)]

		if dateutil.IsWeekend(day) {
			if !ok {
				report.Critical = append(report.Critical, models.Conflict{
					Day:      day,
					DayKey:   dateutil.DayKey(day),
					Category: models.ConflictNoAnalystAssigned,
					Severity: models.SeverityCritical,
					Message:  fmt.Sprintf("No analyst assigned on %s %s", day.Weekday(), dateutil.DayKey(day)),
				})
				continue
			}
			s.checkWeekendDay(report, day, cov)
			continue
		}

		if !ok {
			emptyWeekdays = append(emptyWeekdays, day)
			continue
		}
		s.checkWeekday(report, day, cov)
	}

	if len(emptyWeekdays) > 0 {
		keys := make([]string, len(emptyWeekdays))
		for i, day := range emptyWeekdays {
			keys[i] = dateutil.DayKey(day)
		}
		report.Recommended = append(report.Recommended, models.Conflict{
			Day:      emptyWeekdays[0],
			DayKey:   dateutil.DayKey(emptyWeekdays[0]),
			Category: models.ConflictNoAnalystAssigned,
			Severity: models.SeverityRecommended,
			Message:  fmt.Sprintf("No analysts assigned on %d weekday(s): %s", len(emptyWeekdays), strings.Join(keys, ", ")),
		})
	}

	return report
}

// checkWeekday requires both a morning and an evening shift. A full-day
// assignment counts for both. Screener coverage is only checked once the
// day itself is complete.
func (s *ConflictDetectorService) checkWeekday(report *models.ConflictReport, day time.Time, cov *dayCoverage) {
	fullDay := len(cov.byType[models.ShiftTypeDay]) > 0
	hasMorning := fullDay || len(cov.byType[models.ShiftTypeMorning]) > 0
	hasEvening := fullDay || len(cov.byType[models.ShiftTypeEvening]) > 0

	var missing []string
	if !hasMorning {
		missing = append(missing, models.ShiftTypeMorning.DisplayName())
	}
	if !hasEvening {
		missing = append(missing, models.ShiftTypeEvening.DisplayName())
	}

	if len(missing) > 0 {
		report.Critical = append(report.Critical, models.Conflict{
			Day:           day,
			DayKey:        dateutil.DayKey(day),
			Category:      models.ConflictIncompleteSchedule,
			Severity:      models.SeverityCritical,
			MissingShifts: missing,
			Message: fmt.Sprintf("Incomplete schedule on %s: missing %s",
				dateutil.DayKey(day), strings.Join(missing, ", ")),
		})
		return
	}

	for _, shiftType := range screenerOrder {
		if len(cov.byType[shiftType]) == 0 {
			continue
		}
		switch n := cov.screeners[shiftType]; {
		case n == 0:
			report.Critical = append(report.Critical, models.Conflict{
				Day:      day,
				DayKey:   dateutil.DayKey(day),
				Category: models.ConflictScreener,
				Severity: models.SeverityCritical,
				Message: fmt.Sprintf("No screener assigned for %s shift on %s",
					shiftType.DisplayName(), dateutil.DayKey(day)),
			})
		case n > 1:
			report.Recommended = append(report.Recommended, models.Conflict{
				Day:      day,
				DayKey:   dateutil.DayKey(day),
				Category: models.ConflictScreener,
				Severity: models.SeverityRecommended,
				Message: fmt.Sprintf("Multiple screeners (%d) assigned for %s shift on %s",
					n, shiftType.DisplayName(), dateutil.DayKey(day)),
			})
		}
	}
}

// checkWeekendDay applies the configured weekend rule to a day that has at
// least one assignment. A single analyst suffices under the permissive rule;
// the dedicated rule additionally wants the weekend category present.
// Screeners are optional either way, only an excess is flagged.
func (s *ConflictDetectorService) checkWeekendDay(report *models.ConflictReport, day time.Time, cov *dayCoverage) {
	if s.opts.WeekendRule == WeekendRuleDedicated && len(cov.byType[models.ShiftTypeWeekend]) == 0 {
		missing := []string{models.ShiftTypeWeekend.DisplayName()}
		report.Critical = append(report.Critical, models.Conflict{
			Day:           day,
			DayKey:        dateutil.DayKey(day),
			Category:      models.ConflictIncompleteSchedule,
			Severity:      models.SeverityCritical,
			MissingShifts: missing,
			Message: fmt.Sprintf("Incomplete schedule on %s %s: missing %s",
				day.Weekday(), dateutil.DayKey(day), models.ShiftTypeWeekend.DisplayName()),
		})
		return
	}

	if s.opts.SkipWeekendScreenerChecks {
		return
	}

	for _, shiftType := range screenerOrder {
		if len(cov.byType[shiftType]) == 0 {
			continue
		}
		if n := cov.screeners[shiftType]; n > 1 {
			report.Recommended = append(report.Recommended, models.Conflict{
				Day:      day,
				DayKey:   dateutil.DayKey(day),
				Category: models.ConflictScreener,
				Severity: models.SeverityRecommended,
				Message: fmt.Sprintf("Multiple screeners (%d) assigned for %s shift on %s",
					n, shiftType.DisplayName(), dateutil.DayKey(day)),
			})
		}
	}
}

func buildCoverage(assignments []*models.ShiftAssignment) map[string]*dayCoverage {
	coverage := make(map[string]*dayCoverage)

	for _, assignment := range assignments {
		key := dateutil.DayKey(assignment.Day)
		cov, ok := coverage[key]
		if !ok {
			cov = &dayCoverage{
				byType:    make(map[models.ShiftType][]*models.ShiftAssignment),
				screeners: make(map[models.ShiftType]int),
			}
			coverage[key] = cov
		}

		cov.byType[assignment.ShiftType] = append(cov.byType[assignment.ShiftType], assignment)
		cov.total++
		if assignment.IsScreener {
			cov.screeners[assignment.ShiftType]++
		}
	}

	return coverage
}

// FormatReport renders a conflict report for chat display.
func (s *ConflictDetectorService) FormatReport(report *models.ConflictReport) string {
	if report.IsClean() {
		return "✅ No coverage conflicts detected."
	}

	var result strings.Builder

	if len(report.Critical) > 0 {
		result.WriteString(fmt.Sprintf("🔴 *Critical conflicts (%d):*\n", len(report.Critical)))
		for _, c := range report.Critical {
			result.WriteString(fmt.Sprintf("• %s\n", c.Message))
		}
	}

	if len(report.Recommended) > 0 {
		if len(report.Critical) > 0 {
			result.WriteString("\n")
		}
		result.WriteString(fmt.Sprintf("🟡 *Recommended fixes (%d):*\n", len(report.Recommended)))
		for _, c := range report.Recommended {
			result.WriteString(fmt.Sprintf("• %s\n", c.Message))
		}
	}

	return result.String()
}
