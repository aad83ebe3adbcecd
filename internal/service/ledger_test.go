package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
)

func TestCreateDebt(t *testing.T) {
	t.Run("vacation absences incur debt", func(t *testing.T) {
		repo := &fakeDebtRepo{}
		ledger := NewFairnessLedgerService(repo)

		absenceID := uint(7)
		entry, err := ledger.CreateDebt(1, 3.0, "vacation absence #7 (3 days)", &absenceID, models.AbsenceTypeVacation)
		require.NoError(t, err)
		require.NotNil(t, entry)

		assert.Equal(t, 3.0, entry.Amount)
		assert.Equal(t, uint(1), entry.AnalystID)
		require.NotNil(t, entry.AbsenceID)
		assert.Equal(t, uint(7), *entry.AbsenceID)
		assert.True(t, entry.IsDebt())
		assert.True(t, entry.IsOutstanding())
	})

	t.Run("sick leave never incurs debt", func(t *testing.T) {
		repo := &fakeDebtRepo{}
		ledger := NewFairnessLedgerService(repo)

		entry, err := ledger.CreateDebt(1, 2.0, "sick leave", nil, models.AbsenceTypeSickLeave)
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Empty(t, repo.entries)
	})

	t.Run("an empty gate records unconditionally", func(t *testing.T) {
		repo := &fakeDebtRepo{}
		ledger := NewFairnessLedgerService(repo)

		entry, err := ledger.CreateDebt(1, 1.0, "planned training", nil, "")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Len(t, repo.entries, 1)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		ledger := NewFairnessLedgerService(&fakeDebtRepo{})

		_, err := ledger.CreateDebt(1, 0, "zero", nil, models.AbsenceTypeVacation)
		assert.Error(t, err)
		_, err = ledger.CreateDebt(1, -1.5, "negative", nil, models.AbsenceTypeVacation)
		assert.Error(t, err)
	})
}

func TestCreateCredit(t *testing.T) {
	repo := &fakeDebtRepo{}
	ledger := NewFairnessLedgerService(repo)

	entry, err := ledger.CreateCredit(1, 1.5, "weekend coverage", nil)
	require.NoError(t, err)
	require.NotNil(t, entry)

	// Credits are stored negative and settle on creation.
	assert.Equal(t, -1.5, entry.Amount)
	assert.True(t, entry.IsCredit())
	assert.False(t, entry.IsOutstanding())
	assert.NotNil(t, entry.ResolvedAt)

	_, err = ledger.CreateCredit(1, 0, "zero", nil)
	assert.Error(t, err)
}

func TestGetNetDebt(t *testing.T) {
	repo := &fakeDebtRepo{}
	ledger := NewFairnessLedgerService(repo)

	_, err := ledger.CreateDebt(1, 2.0, "vacation", nil, models.AbsenceTypeVacation)
	require.NoError(t, err)
	second, err := ledger.CreateDebt(1, 1.0, "vacation", nil, models.AbsenceTypeVacation)
	require.NoError(t, err)
	_, err = ledger.CreateCredit(1, 0.5, "screener promotion", nil)
	require.NoError(t, err)

	// Another analyst's ledger stays out of the sum.
	_, err = ledger.CreateDebt(2, 4.0, "vacation", nil, models.AbsenceTypeVacation)
	require.NoError(t, err)

	net, err := ledger.GetNetDebt(1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, net)

	// Settling a debt entry removes it from the sum; the credit keeps
	// counting even though it is marked resolved.
	require.NoError(t, ledger.ResolveDebt(second.ID))
	net, err = ledger.GetNetDebt(1)
	require.NoError(t, err)
	assert.Equal(t, 1.5, net)
}

func TestResolveDebt(t *testing.T) {
	repo := &fakeDebtRepo{}
	ledger := NewFairnessLedgerService(repo)

	entry, err := ledger.CreateDebt(1, 1.0, "vacation", nil, models.AbsenceTypeVacation)
	require.NoError(t, err)

	require.NoError(t, ledger.ResolveDebt(entry.ID))

	stored, err := repo.GetByID(entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ResolvedAt)

	// A settled entry cannot settle twice, and unknown ids fail the same way.
	assert.Error(t, ledger.ResolveDebt(entry.ID))
	assert.Error(t, ledger.ResolveDebt(999))
}

func TestCalculateAbsenceDebt(t *testing.T) {
	ledger := NewFairnessLedgerService(&fakeDebtRepo{})

	tests := map[string]struct {
		shiftType  models.ShiftType
		isScreener bool
		want       float64
	}{
		"plain weekday shift":     {models.ShiftTypeMorning, false, 1.0},
		"weekend shift":           {models.ShiftTypeWeekend, false, 1.5},
		"weekday screener":        {models.ShiftTypeEvening, true, 1.5},
		"weekend screener":        {models.ShiftTypeWeekend, true, 2.0},
		"full-day shift":          {models.ShiftTypeDay, false, 1.0},
		"full-day screener shift": {models.ShiftTypeDay, true, 1.5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.CalculateAbsenceDebt(tt.shiftType, tt.isScreener))
		})
	}
}

func TestFormatStatement(t *testing.T) {
	repo := &fakeDebtRepo{}
	ledger := NewFairnessLedgerService(repo)
	analyst := &models.Analyst{ID: 1, FirstName: "Alice", LastName: "Reyes"}

	t.Run("empty ledger", func(t *testing.T) {
		out := ledger.FormatStatement(analyst, nil, 0)
		assert.Contains(t, out, "Fairness ledger for Alice Reyes")
		assert.Contains(t, out, "No ledger entries yet.")
		assert.Contains(t, out, "Net debt: 0.0")
	})

	t.Run("entry markers", func(t *testing.T) {
		_, err := ledger.CreateDebt(1, 2.0, "vacation absence #3", nil, models.AbsenceTypeVacation)
		require.NoError(t, err)
		settled, err := ledger.CreateDebt(1, 1.0, "vacation absence #4", nil, models.AbsenceTypeVacation)
		require.NoError(t, err)
		require.NoError(t, ledger.ResolveDebt(settled.ID))
		_, err = ledger.CreateCredit(1, 0.5, "screener promotion", nil)
		require.NoError(t, err)

		entries, err := ledger.GetStatement(1)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		out := ledger.FormatStatement(analyst, entries, 1.5)
		assert.Contains(t, out, "🔴 2.0 debt")
		assert.Contains(t, out, "⚪ 1.0 debt (settled)")
		assert.Contains(t, out, "🟢 -0.5 credit")
		assert.Contains(t, out, "Net debt: 1.5")
	})
}

func TestCompOffEarnAndBalance(t *testing.T) {
	repo := &fakeCompOffRepo{}
	compOff := NewCompOffService(repo)

	balance, err := compOff.Balance(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	require.NoError(t, compOff.Earn(1, 1.0, "weekend coverage on 2026-03-07", nil))
	require.NoError(t, compOff.Earn(1, 1.0, "weekend coverage on 2026-03-14", nil))

	balance, err = compOff.Balance(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, balance)
}

func TestCompOffRedeem(t *testing.T) {
	repo := &fakeCompOffRepo{}
	compOff := NewCompOffService(repo)

	require.NoError(t, compOff.Earn(1, 2.0, "weekend coverage", nil))

	t.Run("redemption above the balance is refused", func(t *testing.T) {
		err := compOff.Redeem(1, 3.0, "comp-off absence #5", nil)
		assert.ErrorIs(t, err, ErrInsufficientCompOff)

		balance, err := compOff.Balance(1)
		require.NoError(t, err)
		assert.Equal(t, 2.0, balance)
	})

	t.Run("redemption within the balance books negative days", func(t *testing.T) {
		require.NoError(t, compOff.Redeem(1, 1.0, "comp-off absence #5", nil))

		balance, err := compOff.Balance(1)
		require.NoError(t, err)
		assert.Equal(t, 1.0, balance)

		entries, err := repo.ListByAnalyst(1)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, -1.0, entries[1].Days)
		assert.False(t, entries[1].IsEarned())
	})
}
