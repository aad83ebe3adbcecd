package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
)

// The week of 2026-03-02: Monday through Friday are weekdays, the 7th and
// 8th are the weekend.
var (
	monday    = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday   = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	thursday  = time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	friday    = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	saturday  = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
)

func seedAssignment(t *testing.T, repo *fakeScheduleRepo, analystID uint, day time.Time, shiftType models.ShiftType, screener bool) {
	t.Helper()
	err := repo.Create(&models.ShiftAssignment{
		AnalystID:  analystID,
		Day:        day,
		ShiftType:  shiftType,
		IsScreener: screener,
	})
	require.NoError(t, err)
}

// coverWeekday places a morning and an evening analyst with one screener each.
func coverWeekday(t *testing.T, repo *fakeScheduleRepo, day time.Time, firstID uint) {
	t.Helper()
	seedAssignment(t, repo, firstID, day, models.ShiftTypeMorning, true)
	seedAssignment(t, repo, firstID+1, day, models.ShiftTypeEvening, true)
}

func TestDetectRangeCleanWeek(t *testing.T) {
	repo := &fakeScheduleRepo{}
	for i, day := range []time.Time{monday, tuesday, wednesday, thursday, friday} {
		coverWeekday(t, repo, day, uint(1+i*2))
	}
	seedAssignment(t, repo, 20, saturday, models.ShiftTypeWeekend, false)
	seedAssignment(t, repo, 21, sunday, models.ShiftTypeWeekend, false)

	detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
	report, err := detector.DetectRange(monday, sunday)
	require.NoError(t, err)

	assert.True(t, report.IsClean())
	assert.Equal(t, 0, report.Total())
}

func TestDetectRangeEmptyRangeReportsOnce(t *testing.T) {
	repo := &fakeScheduleRepo{}
	detector := NewConflictDetectorService(repo, DefaultDetectorOptions())

	report, err := detector.DetectRange(monday, friday)
	require.NoError(t, err)

	assert.Empty(t, report.Critical)
	require.Len(t, report.Recommended, 1)
	conflict := report.Recommended[0]
	assert.Equal(t, models.ConflictNoScheduleExists, conflict.Category)
	assert.Equal(t, "2026-03-02", conflict.DayKey)
	assert.Contains(t, conflict.Message, "No schedule exists for 2026-03-02 to 2026-03-06")
	assert.Contains(t, conflict.Message, "5 of 5 days empty")
}

func TestDetectRangeBulkEmptyThreshold(t *testing.T) {
	// Ten days starting Monday: 2026-03-02 through 2026-03-11.
	rangeEnd := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	t.Run("above the threshold collapses to one conflict", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		// 2 of 10 days covered, 8 empty: ratio 0.8 > 0.7.
		coverWeekday(t, repo, monday, 1)
		coverWeekday(t, repo, tuesday, 3)

		detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
		report, err := detector.DetectRange(monday, rangeEnd)
		require.NoError(t, err)

		assert.Empty(t, report.Critical)
		require.Len(t, report.Recommended, 1)
		assert.Equal(t, models.ConflictNoScheduleExists, report.Recommended[0].Category)
		assert.Contains(t, report.Recommended[0].Message, "8 of 10 days empty")
	})

	t.Run("exactly the threshold goes per-day", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		// 3 of 10 days covered, 7 empty: ratio 0.7 is not above 0.7.
		coverWeekday(t, repo, monday, 1)
		coverWeekday(t, repo, tuesday, 3)
		coverWeekday(t, repo, wednesday, 5)

		detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
		report, err := detector.DetectRange(monday, rangeEnd)
		require.NoError(t, err)

		// The two empty weekend days each get a critical conflict.
		require.Len(t, report.Critical, 2)
		for _, conflict := range report.Critical {
			assert.Equal(t, models.ConflictNoAnalystAssigned, conflict.Category)
		}
		assert.Equal(t, "2026-03-07", report.Critical[0].DayKey)
		assert.Equal(t, "2026-03-08", report.Critical[1].DayKey)

		// The five empty weekdays aggregate into a single recommendation.
		require.Len(t, report.Recommended, 1)
		assert.Equal(t, models.ConflictNoAnalystAssigned, report.Recommended[0].Category)
		assert.Contains(t, report.Recommended[0].Message, "5 weekday(s)")
		assert.Contains(t, report.Recommended[0].Message, "2026-03-05, 2026-03-06, 2026-03-09, 2026-03-10, 2026-03-11")
	})
}

func TestDetectRangeIncompleteWeekday(t *testing.T) {
	tests := map[string]struct {
		seed        func(t *testing.T, repo *fakeScheduleRepo)
		wantMissing []string
	}{
		"morning only misses evening": {
			seed: func(t *testing.T, repo *fakeScheduleRepo) {
				seedAssignment(t, repo, 1, monday, models.ShiftTypeMorning, true)
			},
			wantMissing: []string{"Evening"},
		},
		"evening only misses morning": {
			seed: func(t *testing.T, repo *fakeScheduleRepo) {
				seedAssignment(t, repo, 1, monday, models.ShiftTypeEvening, true)
			},
			wantMissing: []string{"Morning"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &fakeScheduleRepo{}
			tt.seed(t, repo)

			detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
			report, err := detector.DetectRange(monday, monday)
			require.NoError(t, err)

			require.Len(t, report.Critical, 1)
			conflict := report.Critical[0]
			assert.Equal(t, models.ConflictIncompleteSchedule, conflict.Category)
			assert.Equal(t, tt.wantMissing, conflict.MissingShifts)
			// Screener checks wait until the day is complete.
			assert.Empty(t, report.Recommended)
		})
	}
}

func TestDetectRangeFullDayShiftCoversBothHalves(t *testing.T) {
	repo := &fakeScheduleRepo{}
	seedAssignment(t, repo, 1, monday, models.ShiftTypeDay, true)

	detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
	report, err := detector.DetectRange(monday, monday)
	require.NoError(t, err)

	assert.True(t, report.IsClean())
}

func TestDetectRangeScreenerChecks(t *testing.T) {
	tests := map[string]struct {
		seed            func(t *testing.T, repo *fakeScheduleRepo)
		wantCritical    int
		wantRecommended int
		wantContains    string
	}{
		"missing screener on a complete day is critical": {
			seed: func(t *testing.T, repo *fakeScheduleRepo) {
				seedAssignment(t, repo, 1, monday, models.ShiftTypeMorning, false)
				seedAssignment(t, repo, 2, monday, models.ShiftTypeEvening, true)
			},
			wantCritical: 1,
			wantContains: "No screener assigned for Morning shift on 2026-03-02",
		},
		"duplicate screeners are only a recommendation": {
			seed: func(t *testing.T, repo *fakeScheduleRepo) {
				seedAssignment(t, repo, 1, monday, models.ShiftTypeMorning, true)
				seedAssignment(t, repo, 2, monday, models.ShiftTypeMorning, true)
				seedAssignment(t, repo, 3, monday, models.ShiftTypeEvening, true)
			},
			wantRecommended: 1,
			wantContains:    "Multiple screeners (2) assigned for Morning shift on 2026-03-02",
		},
		"both shifts missing screeners flags each shift": {
			seed: func(t *testing.T, repo *fakeScheduleRepo) {
				seedAssignment(t, repo, 1, monday, models.ShiftTypeMorning, false)
				seedAssignment(t, repo, 2, monday, models.ShiftTypeEvening, false)
			},
			wantCritical: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &fakeScheduleRepo{}
			tt.seed(t, repo)

			detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
			report, err := detector.DetectRange(monday, monday)
			require.NoError(t, err)

			assert.Len(t, report.Critical, tt.wantCritical)
			assert.Len(t, report.Recommended, tt.wantRecommended)
			if tt.wantContains != "" {
				all := append(report.Critical, report.Recommended...)
				require.NotEmpty(t, all)
				assert.Contains(t, all[0].Message, tt.wantContains)
			}
		})
	}
}

func TestDetectRangeWeekendRules(t *testing.T) {
	t.Run("any assignment satisfies the permissive rule", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		seedAssignment(t, repo, 1, saturday, models.ShiftTypeMorning, false)

		detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
		report, err := detector.DetectRange(saturday, saturday)
		require.NoError(t, err)

		assert.True(t, report.IsClean())
	})

	t.Run("dedicated rule wants the weekend category", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		seedAssignment(t, repo, 1, saturday, models.ShiftTypeMorning, false)

		opts := DefaultDetectorOptions()
		opts.WeekendRule = WeekendRuleDedicated
		detector := NewConflictDetectorService(repo, opts)
		report, err := detector.DetectRange(saturday, saturday)
		require.NoError(t, err)

		require.Len(t, report.Critical, 1)
		assert.Equal(t, models.ConflictIncompleteSchedule, report.Critical[0].Category)
		assert.Equal(t, []string{"Weekend"}, report.Critical[0].MissingShifts)
	})

	t.Run("dedicated rule passes with a weekend assignment", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		seedAssignment(t, repo, 1, saturday, models.ShiftTypeWeekend, false)

		opts := DefaultDetectorOptions()
		opts.WeekendRule = WeekendRuleDedicated
		detector := NewConflictDetectorService(repo, opts)
		report, err := detector.DetectRange(saturday, saturday)
		require.NoError(t, err)

		assert.True(t, report.IsClean())
	})

	t.Run("duplicate weekend screeners are flagged", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		seedAssignment(t, repo, 1, saturday, models.ShiftTypeWeekend, true)
		seedAssignment(t, repo, 2, saturday, models.ShiftTypeWeekend, true)

		detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
		report, err := detector.DetectRange(saturday, saturday)
		require.NoError(t, err)

		require.Len(t, report.Recommended, 1)
		assert.Contains(t, report.Recommended[0].Message, "Multiple screeners (2)")
	})

	t.Run("weekend screener checks can be disabled", func(t *testing.T) {
		repo := &fakeScheduleRepo{}
		seedAssignment(t, repo, 1, saturday, models.ShiftTypeWeekend, true)
		seedAssignment(t, repo, 2, saturday, models.ShiftTypeWeekend, true)

		opts := DefaultDetectorOptions()
		opts.SkipWeekendScreenerChecks = true
		detector := NewConflictDetectorService(repo, opts)
		report, err := detector.DetectRange(saturday, saturday)
		require.NoError(t, err)

		assert.True(t, report.IsClean())
	})
}

func TestDetectRangeEmptyWeekendDaysAreCritical(t *testing.T) {
	repo := &fakeScheduleRepo{}
	for i, day := range []time.Time{monday, tuesday, wednesday, thursday, friday} {
		coverWeekday(t, repo, day, uint(1+i*2))
	}

	detector := NewConflictDetectorService(repo, DefaultDetectorOptions())
	report, err := detector.DetectRange(monday, sunday)
	require.NoError(t, err)

	require.Len(t, report.Critical, 2)
	assert.Contains(t, report.Critical[0].Message, "Saturday 2026-03-07")
	assert.Contains(t, report.Critical[1].Message, "Sunday 2026-03-08")
	assert.Empty(t, report.Recommended)
}

func TestDetectRangeInvalidRange(t *testing.T) {
	detector := NewConflictDetectorService(&fakeScheduleRepo{}, DefaultDetectorOptions())

	_, err := detector.DetectRange(friday, monday)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestDetectRangeIsRepeatable(t *testing.T) {
	repo := &fakeScheduleRepo{}
	seedAssignment(t, repo, 1, monday, models.ShiftTypeMorning, false)
	seedAssignment(t, repo, 2, monday, models.ShiftTypeMorning, true)
	seedAssignment(t, repo, 3, monday, models.ShiftTypeEvening, true)
	seedAssignment(t, repo, 4, saturday, models.ShiftTypeWeekend, false)

	detector := NewConflictDetectorService(repo, DefaultDetectorOptions())

	first, err := detector.DetectRange(monday, sunday)
	require.NoError(t, err)
	second, err := detector.DetectRange(monday, sunday)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFormatReport(t *testing.T) {
	detector := NewConflictDetectorService(&fakeScheduleRepo{}, DefaultDetectorOptions())

	clean := &models.ConflictReport{Critical: []models.Conflict{}, Recommended: []models.Conflict{}}
	assert.Equal(t, "✅ No coverage conflicts detected.", detector.FormatReport(clean))

	report := &models.ConflictReport{
		Critical: []models.Conflict{
			{Message: "Incomplete schedule on 2026-03-02: missing Evening"},
		},
		Recommended: []models.Conflict{
			{Message: "Multiple screeners (2) assigned for Morning shift on 2026-03-03"},
		},
	}
	formatted := detector.FormatReport(report)
	assert.Contains(t, formatted, "🔴 *Critical conflicts (1):*")
	assert.Contains(t, formatted, "• Incomplete schedule on 2026-03-02: missing Evening")
	assert.Contains(t, formatted, "🟡 *Recommended fixes (1):*")
}
