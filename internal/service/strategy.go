package service

import (
	"fmt"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"
)

// Strategy names recorded on proposals and metrics.
const (
	StrategyRoundRobin      = "round_robin"
	StrategyExperienceBased = "experience_based"
	StrategyHolidayCoverage = "holiday_coverage"
	StrategyWorkloadBalance = "workload_balance"
)

// AssignmentStrategy picks one analyst from pre-filtered candidates for a
// slot on the given day. Candidates arrive in roster order (oldest account
// first) and are guaranteed free on that day.
type AssignmentStrategy interface {
	Name() string
	Pick(day time.Time, candidates []*models.Analyst) (*models.Analyst, models.AssignmentReason)
}

// RoundRobinStrategy takes the first free candidate. Fairness comes from the
// caller rotating the roster order, not from this strategy.
type RoundRobinStrategy struct{}

var _ AssignmentStrategy = (*RoundRobinStrategy)(nil)

func (s *RoundRobinStrategy) Name() string {
	return StrategyRoundRobin
}

func (s *RoundRobinStrategy) Pick(day time.Time, candidates []*models.Analyst) (*models.Analyst, models.AssignmentReason) {
	if len(candidates) == 0 {
		return nil, models.AssignmentReason{}
	}

	return candidates[0], models.AssignmentReason{
		Primary: "next available analyst in rotation",
		SecondaryFactors: []string{
			fmt.Sprintf("%d candidate(s) free on %s", len(candidates), dateutil.DayKey(day)),
		},
	}
}

// ExperienceBasedStrategy prefers the analyst with the earliest account
// creation, using tenure as the seniority proxy.
type ExperienceBasedStrategy struct{}

var _ AssignmentStrategy = (*ExperienceBasedStrategy)(nil)

func (s *ExperienceBasedStrategy) Name() string {
	return StrategyExperienceBased
}

func (s *ExperienceBasedStrategy) Pick(day time.Time, candidates []*models.Analyst) (*models.Analyst, models.AssignmentReason) {
	senior := mostSenior(candidates)
	if senior == nil {
		return nil, models.AssignmentReason{}
	}

	return senior, models.AssignmentReason{
		Primary: "most experienced analyst available",
		SecondaryFactors: []string{
			fmt.Sprintf("on the roster since %s", senior.CreatedAt.Format("2006-01-02")),
		},
	}
}

// HolidayCoverageStrategy also selects by seniority but names the holiday,
// since holiday duty is the assignment people question most.
type HolidayCoverageStrategy struct{}

var _ AssignmentStrategy = (*HolidayCoverageStrategy)(nil)

func (s *HolidayCoverageStrategy) Name() string {
	return StrategyHolidayCoverage
}

func (s *HolidayCoverageStrategy) Pick(day time.Time, candidates []*models.Analyst) (*models.Analyst, models.AssignmentReason) {
	senior := mostSenior(candidates)
	if senior == nil {
		return nil, models.AssignmentReason{}
	}

	holiday := dateutil.HolidayName(day)
	if holiday == "" {
		holiday = "public holiday"
	}

	return senior, models.AssignmentReason{
		Primary: fmt.Sprintf("experienced coverage for %s", holiday),
		SecondaryFactors: []string{
			fmt.Sprintf("on the roster since %s", senior.CreatedAt.Format("2006-01-02")),
		},
	}
}

// WorkloadBalanceStrategy spreads slots deterministically by day of month.
// It is never auto-selected; callers opt into it explicitly.
type WorkloadBalanceStrategy struct{}

var _ AssignmentStrategy = (*WorkloadBalanceStrategy)(nil)

func (s *WorkloadBalanceStrategy) Name() string {
	return StrategyWorkloadBalance
}

func (s *WorkloadBalanceStrategy) Pick(day time.Time, candidates []*models.Analyst) (*models.Analyst, models.AssignmentReason) {
	if len(candidates) == 0 {
		return nil, models.AssignmentReason{}
	}

	picked := candidates[day.Day()%len(candidates)]
	return picked, models.AssignmentReason{
		Primary: "deterministic rotation by day of month",
		SecondaryFactors: []string{
			fmt.Sprintf("slot %d of %d", day.Day()%len(candidates), len(candidates)),
		},
	}
}

func mostSenior(candidates []*models.Analyst) *models.Analyst {
	var senior *models.Analyst
	for _, candidate := range candidates {
		if senior == nil ||
			candidate.CreatedAt.Before(senior.CreatedAt) ||
			(candidate.CreatedAt.Equal(senior.CreatedAt) && candidate.ID < senior.ID) {
			senior = candidate
		}
	}
	return senior
}
