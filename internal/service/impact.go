package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"github.com/sirupsen/logrus"
)

// Availability thresholds for the recommendation, in percent.
const (
	availabilityRescheduleBelow = 50.0
	availabilityConditionsBelow = 70.0
)

type ImpactAnalyzerService struct {
	absenceRepo  repository.AbsenceRepository
	scheduleRepo repository.ScheduleRepository
	analystRepo  repository.AnalystRepository
	selector     *ReplacementSelectorService
	logger       *logrus.Logger
}

func NewImpactAnalyzerService(
	absenceRepo repository.AbsenceRepository,
	scheduleRepo repository.ScheduleRepository,
	analystRepo repository.AnalystRepository,
	selector *ReplacementSelectorService,
) *ImpactAnalyzerService {
	return &ImpactAnalyzerService{
		absenceRepo:  absenceRepo,
		scheduleRepo: scheduleRepo,
		analystRepo:  analystRepo,
		selector:     selector,
		logger:       logrus.New(),
	}
}

// AnalyzeAbsence previews what approving a request would do to coverage:
// the worst-day team availability, a replacement plan for every affected
// shift, and a recommendation for the approver.
func (s *ImpactAnalyzerService) AnalyzeAbsence(absenceID uint) (*models.ImpactReport, error) {
	absence, err := s.absenceRepo.GetByID(absenceID)
	if err != nil {
		return nil, err
	}
	if absence == nil {
		return nil, ErrAbsenceNotFound
	}

	days, err := dateutil.DaysBetween(absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	roster, err := s.analystRepo.ListActive()
	if err != nil {
		return nil, err
	}

	report := &models.ImpactReport{
		AbsenceID:       absence.ID,
		ReplacementPlan: []models.ReplacementDecision{},
		Concerns:        []string{},
	}

	report.TeamAvailabilityPct, err = s.worstDayAvailability(absence, days, roster)
	if err != nil {
		return nil, err
	}

	noCandidate := 0
	lowConfidence := 0

	for _, day := range days {
		assignment, err := s.scheduleRepo.GetByAnalystAndDay(absence.AnalystID, day)
		if err != nil {
			return nil, err
		}
		if assignment == nil {
			continue
		}

		if assignment.IsScreener || assignment.IsWeekendShift() || dateutil.IsWeekend(day) {
			report.RotationDisruption = true
		}

		decision, err := s.selector.SelectReplacement(day, assignment.ShiftType, absence.AnalystID, nil)
		if err != nil {
			return nil, err
		}

		if !decision.HasCandidate() {
			noCandidate++
		} else if decision.Confidence <= confidenceLow {
			lowConfidence++
		}

		report.ReplacementPlan = append(report.ReplacementPlan, *decision)
	}

	switch {
	case noCandidate > 0:
		report.CoverageRisk = models.CoverageRiskImpossible
	case lowConfidence > 0:
		report.CoverageRisk = models.CoverageRiskManual
	default:
		report.CoverageRisk = models.CoverageRiskAuto
	}

	report.Recommendation = recommend(report)

	if noCandidate > 0 {
		report.Concerns = append(report.Concerns,
			fmt.Sprintf("%d of %d affected shifts have no replacement candidate", noCandidate, len(report.ReplacementPlan)))
	}
	if report.TeamAvailabilityPct < availabilityConditionsBelow {
		report.Concerns = append(report.Concerns,
			fmt.Sprintf("team availability drops to %.0f%% on the worst day", report.TeamAvailabilityPct))
	}
	if report.RotationDisruption {
		report.Concerns = append(report.Concerns, "absence disrupts the screener or weekend rotation")
	}

	s.logger.WithFields(logrus.Fields{
		"absence_id":     absence.ID,
		"availability":   report.TeamAvailabilityPct,
		"coverage_risk":  report.CoverageRisk,
		"recommendation": report.Recommendation,
	}).Info("Absence impact analyzed")

	return report, nil
}

// worstDayAvailability finds the lowest same-day share of the roster left
// standing if this absence were approved on top of the ones already granted.
func (s *ImpactAnalyzerService) worstDayAvailability(absence *models.Absence, days []time.Time, roster []*models.Analyst) (float64, error) {
	if len(roster) == 0 {
		return 0, nil
	}

	worst := 100.0
	for _, day := range days {
		absences, err := s.absenceRepo.ListApprovedOnDay(day)
		if err != nil {
			return 0, err
		}

		out := map[uint]bool{absence.AnalystID: true}
		for _, other := range absences {
			out[other.AnalystID] = true
		}

		available := 0
		for _, analyst := range roster {
			if !out[analyst.ID] {
				available++
			}
		}

		pct := float64(available) / float64(len(roster)) * 100
		if pct < worst {
			worst = pct
		}
	}

	return worst, nil
}

func recommend(report *models.ImpactReport) string {
	switch {
	case report.CoverageRisk == models.CoverageRiskImpossible && report.RotationDisruption:
		return models.RecommendDeny
	case report.TeamAvailabilityPct < availabilityRescheduleBelow:
		return models.RecommendReschedule
	case report.CoverageRisk != models.CoverageRiskAuto || report.TeamAvailabilityPct < availabilityConditionsBelow:
		return models.RecommendApproveConditions
	default:
		return models.RecommendApprove
	}
}

// FormatImpactReport renders the analysis for chat display.
func (s *ImpactAnalyzerService) FormatImpactReport(report *models.ImpactReport) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("📊 *Impact of absence #%d*\n\n", report.AbsenceID))
	result.WriteString(fmt.Sprintf("Team availability: %.0f%%\n", report.TeamAvailabilityPct))
	result.WriteString(fmt.Sprintf("Coverage risk: %s\n", report.CoverageRisk))
	result.WriteString(fmt.Sprintf("Recommendation: *%s*\n", report.Recommendation))

	if len(report.ReplacementPlan) > 0 {
		result.WriteString("\n*Replacement plan:*\n")
		for _, decision := range report.ReplacementPlan {
			if decision.HasCandidate() {
				result.WriteString(fmt.Sprintf("• %s %s → %s (confidence %.1f)\n",
					dateutil.DayKey(decision.Day), decision.ShiftType.DisplayName(),
					decision.Candidate.FullName(), decision.Confidence))
			} else {
				result.WriteString(fmt.Sprintf("• %s %s → ⚠️ no candidate\n",
					dateutil.DayKey(decision.Day), decision.ShiftType.DisplayName()))
			}
		}
	}

	if len(report.Concerns) > 0 {
		result.WriteString("\n*Concerns:*\n")
		for _, concern := range report.Concerns {
			result.WriteString(fmt.Sprintf("• %s\n", concern))
		}
	}

	return result.String()
}
