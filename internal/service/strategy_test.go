package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
)

func rosterAnalyst(id uint, name string, shiftType models.ShiftType, joined time.Time) *models.Analyst {
	return &models.Analyst{
		ID:        id,
		ChatID:    int64(1000 + id),
		FirstName: name,
		ShiftType: shiftType,
		Region:    "AMR",
		Role:      models.RoleAnalyst,
		Active:    true,
		CreatedAt: joined,
	}
}

func TestRoundRobinStrategy(t *testing.T) {
	strategy := &RoundRobinStrategy{}
	assert.Equal(t, StrategyRoundRobin, strategy.Name())

	joined := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candidates := []*models.Analyst{
		rosterAnalyst(1, "Alice", models.ShiftTypeMorning, joined),
		rosterAnalyst(2, "Bob", models.ShiftTypeMorning, joined),
	}

	picked, reason := strategy.Pick(monday, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, uint(1), picked.ID)
	assert.Equal(t, "next available analyst in rotation", reason.Primary)
	require.Len(t, reason.SecondaryFactors, 1)
	assert.Contains(t, reason.SecondaryFactors[0], "2 candidate(s) free on 2026-03-02")

	picked, reason = strategy.Pick(monday, nil)
	assert.Nil(t, picked)
	assert.Empty(t, reason.Primary)
}

func TestExperienceBasedStrategy(t *testing.T) {
	strategy := &ExperienceBasedStrategy{}
	assert.Equal(t, StrategyExperienceBased, strategy.Name())

	older := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		candidates []*models.Analyst
		wantID     uint
	}{
		"earliest account wins regardless of order": {
			candidates: []*models.Analyst{
				rosterAnalyst(3, "Carol", models.ShiftTypeMorning, newer),
				rosterAnalyst(1, "Alice", models.ShiftTypeMorning, older),
			},
			wantID: 1,
		},
		"equal tenure falls back to the lower id": {
			candidates: []*models.Analyst{
				rosterAnalyst(5, "Eve", models.ShiftTypeMorning, older),
				rosterAnalyst(2, "Bob", models.ShiftTypeMorning, older),
			},
			wantID: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			picked, reason := strategy.Pick(monday, tt.candidates)
			require.NotNil(t, picked)
			assert.Equal(t, tt.wantID, picked.ID)
			assert.Equal(t, "most experienced analyst available", reason.Primary)
		})
	}

	picked, _ := strategy.Pick(monday, nil)
	assert.Nil(t, picked)
}

func TestHolidayCoverageStrategy(t *testing.T) {
	strategy := &HolidayCoverageStrategy{}
	assert.Equal(t, StrategyHolidayCoverage, strategy.Name())

	joined := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	candidates := []*models.Analyst{
		rosterAnalyst(1, "Alice", models.ShiftTypeMorning, joined),
	}

	memorialDay := time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC)
	picked, reason := strategy.Pick(memorialDay, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, "experienced coverage for Memorial Day", reason.Primary)

	// A non-holiday day still produces a usable reason.
	picked, reason = strategy.Pick(monday, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, "experienced coverage for public holiday", reason.Primary)
}

func TestWorkloadBalanceStrategy(t *testing.T) {
	strategy := &WorkloadBalanceStrategy{}
	assert.Equal(t, StrategyWorkloadBalance, strategy.Name())

	joined := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candidates := []*models.Analyst{
		rosterAnalyst(1, "Alice", models.ShiftTypeMorning, joined),
		rosterAnalyst(2, "Bob", models.ShiftTypeMorning, joined),
		rosterAnalyst(3, "Carol", models.ShiftTypeMorning, joined),
	}

	// Day of month modulo candidate count: the 2nd picks index 2, the 3rd
	// wraps to index 0.
	picked, _ := strategy.Pick(monday, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, uint(3), picked.ID)

	picked, _ = strategy.Pick(tuesday, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, uint(1), picked.ID)

	// Same day, same candidates, same pick.
	again, _ := strategy.Pick(monday, candidates)
	assert.Equal(t, uint(3), again.ID)
}
