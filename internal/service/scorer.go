package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"github.com/sirupsen/logrus"
)

// Scoring windows and weights. Debt raises a candidate's score, recent
// covering lowers it, a light schedule earns a small bonus.
const (
	historyWindowDays = 14
	fatigueWindowDays = 30

	baseScore         = 50.0
	debtWeight        = 10.0
	fatiguePenalty    = 15.0
	lightScheduleBump = 10.0

	confidenceHigh = 0.9
	confidenceMid  = 0.7
	confidenceLow  = 0.4
)

type ReplacementSelectorService struct {
	analystRepo     repository.AnalystRepository
	scheduleRepo    repository.ScheduleRepository
	absenceRepo     repository.AbsenceRepository
	replacementRepo repository.ReplacementRepository
	ledger          *FairnessLedgerService
	logger          *logrus.Logger
}

func NewReplacementSelectorService(
	analystRepo repository.AnalystRepository,
	scheduleRepo repository.ScheduleRepository,
	absenceRepo repository.AbsenceRepository,
	replacementRepo repository.ReplacementRepository,
	ledger *FairnessLedgerService,
) *ReplacementSelectorService {
	return &ReplacementSelectorService{
		analystRepo:     analystRepo,
		scheduleRepo:    scheduleRepo,
		absenceRepo:     absenceRepo,
		replacementRepo: replacementRepo,
		ledger:          ledger,
		logger:          logrus.New(),
	}
}

type scoredCandidate struct {
	analyst *models.Analyst
	score   float64
	netDebt float64
	covered int64
	recent  int
}

// SelectReplacement ranks every available analyst for a vacated slot and
// returns the best one. "No candidate" is a valid decision, not an error:
// the caller routes it to manual intervention.
func (s *ReplacementSelectorService) SelectReplacement(day time.Time, shiftType models.ShiftType, vacatingAnalystID uint, excludedIDs []uint) (*models.ReplacementDecision, error) {
	day = dateutil.Normalize(day)

	decision := &models.ReplacementDecision{
		Day:               day,
		ShiftType:         shiftType,
		OriginalAnalystID: vacatingAnalystID,
		Reasons:           []string{},
		Concerns:          []string{},
	}

	candidates, err := s.availableCandidates(day, vacatingAnalystID, excludedIDs)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		s.logger.WithFields(logrus.Fields{
			"day":        dateutil.DayKey(day),
			"shift_type": shiftType,
			"vacating":   vacatingAnalystID,
		}).Warn("No replacement candidate available")
		decision.Concerns = append(decision.Concerns, "no eligible replacement found")
		return decision, nil
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		sc, err := s.scoreCandidate(candidate, day)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].analyst.CreatedAt.Equal(scored[j].analyst.CreatedAt) {
			return scored[i].analyst.CreatedAt.Before(scored[j].analyst.CreatedAt)
		}
		return scored[i].analyst.ID < scored[j].analyst.ID
	})

	best := scored[0]
	decision.Candidate = best.analyst
	decision.Score = best.score
	decision.Confidence = confidenceFor(best.score)
	decision.Reasons = explainScore(best)

	if decision.Confidence <= confidenceLow {
		decision.Concerns = append(decision.Concerns, "low confidence in replacement fit")
	}
	if best.covered >= 2 {
		decision.Concerns = append(decision.Concerns,
			fmt.Sprintf("fatigue risk: already covered %d times in the last %d days", best.covered, fatigueWindowDays))
	}

	s.logger.WithFields(logrus.Fields{
		"day":        dateutil.DayKey(day),
		"shift_type": shiftType,
		"candidate":  best.analyst.ID,
		"score":      best.score,
		"confidence": decision.Confidence,
	}).Info("Replacement selected")

	return decision, nil
}

// availableCandidates applies the hard filters: the vacating analyst,
// explicit exclusions, anyone approved-absent that day, and anyone who
// already holds an assignment that day.
func (s *ReplacementSelectorService) availableCandidates(day time.Time, vacatingAnalystID uint, excludedIDs []uint) ([]*models.Analyst, error) {
	roster, err := s.analystRepo.ListActive()
	if err != nil {
		return nil, err
	}

	blocked := map[uint]bool{vacatingAnalystID: true}
	for _, id := range excludedIDs {
		blocked[id] = true
	}

	absences, err := s.absenceRepo.ListApprovedOnDay(day)
	if err != nil {
		return nil, err
	}
	for _, absence := range absences {
		blocked[absence.AnalystID] = true
	}

	assignments, err := s.scheduleRepo.ListByDay(day)
	if err != nil {
		return nil, err
	}
	for _, assignment := range assignments {
		blocked[assignment.AnalystID] = true
	}

	var candidates []*models.Analyst
	for _, analyst := range roster {
		if !blocked[analyst.ID] {
			candidates = append(candidates, analyst)
		}
	}
	return candidates, nil
}

func (s *ReplacementSelectorService) scoreCandidate(analyst *models.Analyst, day time.Time) (scoredCandidate, error) {
	netDebt, err := s.ledger.GetNetDebt(analyst.ID)
	if err != nil {
		return scoredCandidate{}, err
	}

	covered, err := s.replacementRepo.CountActiveSince(analyst.ID, day.AddDate(0, 0, -fatigueWindowDays))
	if err != nil {
		return scoredCandidate{}, err
	}

	recent, err := s.scheduleRepo.ListByAnalystAndDateRange(analyst.ID, day.AddDate(0, 0, -historyWindowDays), day)
	if err != nil {
		return scoredCandidate{}, err
	}

	score := baseScore + debtWeight*netDebt - fatiguePenalty*float64(covered)
	if len(recent) <= 1 {
		score += lightScheduleBump
	}

	return scoredCandidate{
		analyst: analyst,
		score:   score,
		netDebt: netDebt,
		covered: covered,
		recent:  len(recent),
	}, nil
}

func confidenceFor(score float64) float64 {
	switch {
	case score > 80:
		return confidenceHigh
	case score > 50:
		return confidenceMid
	default:
		return confidenceLow
	}
}

func explainScore(sc scoredCandidate) []string {
	reasons := []string{}

	if sc.netDebt > 0 {
		reasons = append(reasons, fmt.Sprintf("owes %.1f days of extra duty", sc.netDebt))
	} else if sc.netDebt < 0 {
		reasons = append(reasons, fmt.Sprintf("holds %.1f days of earned credit", -sc.netDebt))
	}

	if sc.covered == 0 {
		reasons = append(reasons, fmt.Sprintf("has not covered for anyone in the last %d days", fatigueWindowDays))
	} else {
		reasons = append(reasons, fmt.Sprintf("covered %d time(s) in the last %d days", sc.covered, fatigueWindowDays))
	}

	if sc.recent <= 1 {
		reasons = append(reasons, fmt.Sprintf("light schedule over the last %d days", historyWindowDays))
	}

	return reasons
}
