package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/metrics"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// openSlot is one (day, shift-type) pair the range is missing.
type openSlot struct {
	day       time.Time
	shiftType models.ShiftType
}

type ScheduleGeneratorService struct {
	scheduleRepo repository.ScheduleRepository
	analystRepo  repository.AnalystRepository
	detector     *ConflictDetectorService
	weekendRule  WeekendRule

	roundRobin AssignmentStrategy
	experience AssignmentStrategy
	holiday    AssignmentStrategy
	workload   AssignmentStrategy

	logger *logrus.Logger
}

func NewScheduleGeneratorService(
	scheduleRepo repository.ScheduleRepository,
	analystRepo repository.AnalystRepository,
	detector *ConflictDetectorService,
	opts DetectorOptions,
) *ScheduleGeneratorService {
	weekendRule := opts.WeekendRule
	if weekendRule == "" {
		weekendRule = WeekendRuleAny
	}

	return &ScheduleGeneratorService{
		scheduleRepo: scheduleRepo,
		analystRepo:  analystRepo,
		detector:     detector,
		weekendRule:  weekendRule,
		roundRobin:   &RoundRobinStrategy{},
		experience:   &ExperienceBasedStrategy{},
		holiday:      &HolidayCoverageStrategy{},
		workload:     &WorkloadBalanceStrategy{},
		logger:       logrus.New(),
	}
}

// GenerateSchedule fills every open slot in the inclusive range and persists
// the proposals in one transaction. Slots with no eligible candidate stay
// open and are counted in the summary, never silently dropped.
func (s *ScheduleGeneratorService) GenerateSchedule(req GenerationRequest) (*models.GenerationResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("invalid generation request: %v", err)
	}

	start := dateutil.Normalize(req.StartDate)
	end := dateutil.Normalize(req.EndDate)
	startedAt := time.Now()

	report, err := s.detector.DetectRange(start, end)
	if err != nil {
		return nil, err
	}

	days, err := dateutil.DaysBetween(start, end)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	assignments, err := s.scheduleRepo.ListByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	roster, err := s.analystRepo.ListActive()
	if err != nil {
		return nil, err
	}

	coverage := buildCoverage(assignments)
	slots := s.collectOpenSlots(days, coverage)

	// Day-level occupancy so one analyst never gets two slots the same day
	assignedOn := make(map[string]map[uint]bool)
	workload := make(map[uint]int)
	for _, assignment := range assignments {
		key := dateutil.DayKey(assignment.Day)
		if assignedOn[key] == nil {
			assignedOn[key] = make(map[uint]bool)
		}
		assignedOn[key][assignment.AnalystID] = true
		workload[assignment.AnalystID]++
	}

	// Screener occupancy per (day, shift-type), counting this run's picks
	screenerOn := make(map[string]int)
	for key, cov := range coverage {
		for shiftType, n := range cov.screeners {
			screenerOn[key+"/"+string(shiftType)] = n
		}
	}

	proposals := []models.ProposedAssignment{}
	unfilled := 0

	for _, slot := range slots {
		candidates := eligibleCandidates(roster, slot, assignedOn[dateutil.DayKey(slot.day)])
		if len(candidates) == 0 {
			s.logger.WithFields(logrus.Fields{
				"day":        dateutil.DayKey(slot.day),
				"shift_type": slot.shiftType,
			}).Warn("No candidate available for open slot")
			unfilled++
			continue
		}

		strategy := s.selectStrategy(slot.day)
		analyst, reason := strategy.Pick(slot.day, candidates)
		if analyst == nil {
			unfilled++
			continue
		}
		reason.WorkWeight = float64(workload[analyst.ID])

		// First fill of a weekday shift also takes the screener role when
		// the day has none for that shift yet
		isScreener := false
		screenerKey := dateutil.DayKey(slot.day) + "/" + string(slot.shiftType)
		if dateutil.IsWeekday(slot.day) && screenerOn[screenerKey] == 0 {
			isScreener = true
			screenerOn[screenerKey]++
		}

		proposals = append(proposals, models.ProposedAssignment{
			Day:        slot.day,
			ShiftType:  slot.shiftType,
			AnalystID:  analyst.ID,
			IsScreener: isScreener,
			Strategy:   strategy.Name(),
			Reason:     reason,
		})

		key := dateutil.DayKey(slot.day)
		if assignedOn[key] == nil {
			assignedOn[key] = make(map[uint]bool)
		}
		assignedOn[key][analyst.ID] = true
		workload[analyst.ID]++

		metrics.AssignmentsProposed.WithLabelValues(strategy.Name()).Inc()
	}

	created, skipped, err := s.persistProposals(proposals, roster)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(startedAt)
	metrics.AssignmentsPersisted.Add(float64(created))
	metrics.SlotsUnfilled.Add(float64(unfilled))
	metrics.GenerationDuration.Observe(elapsed.Seconds())

	result := &models.GenerationResult{
		RunID:             uuid.NewString(),
		ProposedSchedules: proposals,
		Summary: models.GenerationSummary{
			TotalConflicts:     report.Total(),
			CriticalConflicts:  len(report.Critical),
			AssignmentsNeeded:  len(slots),
			AssignmentsCreated: created,
			AssignmentsSkipped: skipped,
			UnfilledSlots:      unfilled,
			EstimatedTimeMs:    elapsed.Milliseconds(),
		},
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"needed":   len(slots),
		"created":  created,
		"skipped":  skipped,
		"unfilled": unfilled,
		"ms":       result.Summary.EstimatedTimeMs,
	}).Info("Schedule generation completed")

	return result, nil
}

// collectOpenSlots walks the range with the same coverage rules the detector
// applies: weekdays need morning and evening (a full-day shift counts for
// both), weekend needs depend on the configured rule.
func (s *ScheduleGeneratorService) collectOpenSlots(days []time.Time, coverage map[string]*dayCoverage) []openSlot {
	var slots []openSlot

	for _, day := range days {
		cov := coverage[dateutil.DayKey(day)]

		if dateutil.IsWeekend(day) {
			switch s.weekendRule {
			case WeekendRuleDedicated:
				if cov == nil || len(cov.byType[models.ShiftTypeWeekend]) == 0 {
					slots = append(slots, openSlot{day: day, shiftType: models.ShiftTypeWeekend})
				}
			default:
				if cov == nil || cov.total == 0 {
					slots = append(slots, openSlot{day: day, shiftType: models.ShiftTypeWeekend})
				}
			}
			continue
		}

		fullDay := cov != nil && len(cov.byType[models.ShiftTypeDay]) > 0
		if fullDay {
			continue
		}
		if cov == nil || len(cov.byType[models.ShiftTypeMorning]) == 0 {
			slots = append(slots, openSlot{day: day, shiftType: models.ShiftTypeMorning})
		}
		if cov == nil || len(cov.byType[models.ShiftTypeEvening]) == 0 {
			slots = append(slots, openSlot{day: day, shiftType: models.ShiftTypeEvening})
		}
	}

	return slots
}

// selectStrategy orders the strategies by day characteristics: holidays get
// the holiday strategy, weekends the experience one, ordinary weekdays
// rotate round-robin. Workload balance is never auto-selected.
func (s *ScheduleGeneratorService) selectStrategy(day time.Time) AssignmentStrategy {
	if dateutil.IsHoliday(day) {
		return s.holiday
	}
	if dateutil.IsWeekend(day) {
		return s.experience
	}
	return s.roundRobin
}

// eligibleCandidates keeps analysts whose fixed category matches the slot
// and who are free that day. Weekend duty rotates across the whole roster,
// so any free analyst qualifies for a weekend slot.
func eligibleCandidates(roster []*models.Analyst, slot openSlot, taken map[uint]bool) []*models.Analyst {
	var candidates []*models.Analyst
	for _, analyst := range roster {
		if taken[analyst.ID] {
			continue
		}
		if slot.shiftType != models.ShiftTypeWeekend && analyst.ShiftType != slot.shiftType {
			continue
		}
		candidates = append(candidates, analyst)
	}
	return candidates
}

func (s *ScheduleGeneratorService) persistProposals(proposals []models.ProposedAssignment, roster []*models.Analyst) (int, int, error) {
	if len(proposals) == 0 {
		return 0, 0, nil
	}

	regionByID := make(map[uint]string, len(roster))
	for _, analyst := range roster {
		regionByID[analyst.ID] = analyst.Region
	}

	records := make([]*models.ShiftAssignment, 0, len(proposals))
	for _, proposal := range proposals {
		records = append(records, &models.ShiftAssignment{
			Day:        proposal.Day,
			ShiftType:  proposal.ShiftType,
			AnalystID:  proposal.AnalystID,
			IsScreener: proposal.IsScreener,
			Region:     regionByID[proposal.AnalystID],
		})
	}

	return s.scheduleRepo.CreateBatch(records)
}

// GetSchedule returns the stored assignments over an inclusive range,
// analysts preloaded, ordered by day then shift type.
func (s *ScheduleGeneratorService) GetSchedule(start, end time.Time) ([]*models.ShiftAssignment, error) {
	start = dateutil.Normalize(start)
	end = dateutil.Normalize(end)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	return s.scheduleRepo.ListByDateRange(start, end)
}

// FormatGenerationResult renders a generation run for chat display.
func (s *ScheduleGeneratorService) FormatGenerationResult(result *models.GenerationResult, analystsByID map[uint]*models.Analyst) string {
	var out strings.Builder

	out.WriteString("🗓 *Schedule generation*\n\n")
	out.WriteString(fmt.Sprintf("Run: `%s`\n", result.RunID))
	out.WriteString(fmt.Sprintf("Conflicts found: %d (%d critical)\n",
		result.Summary.TotalConflicts, result.Summary.CriticalConflicts))
	out.WriteString(fmt.Sprintf("Slots to fill: %d\n", result.Summary.AssignmentsNeeded))
	out.WriteString(fmt.Sprintf("Created: %d, skipped: %d, unfilled: %d\n",
		result.Summary.AssignmentsCreated, result.Summary.AssignmentsSkipped, result.Summary.UnfilledSlots))
	out.WriteString(fmt.Sprintf("Took %d ms\n", result.Summary.EstimatedTimeMs))

	if len(result.ProposedSchedules) > 0 {
		out.WriteString("\n*Assignments:*\n")
		for _, proposal := range result.ProposedSchedules {
			name := fmt.Sprintf("analyst #%d", proposal.AnalystID)
			if analyst, ok := analystsByID[proposal.AnalystID]; ok {
				name = analyst.FullName()
			}
			role := ""
			if proposal.IsScreener {
				role = " 🛡"
			}
			out.WriteString(fmt.Sprintf("• %s %s → %s%s (%s)\n",
				dateutil.DayKey(proposal.Day),
				proposal.ShiftType.DisplayName(),
				name,
				role,
				proposal.Strategy,
			))
		}
	}

	return out.String()
}
