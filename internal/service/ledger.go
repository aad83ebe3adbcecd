package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"

	"github.com/sirupsen/logrus"
)

type FairnessLedgerService struct {
	debtRepo repository.FairnessDebtRepository
	logger   *logrus.Logger
}

func NewFairnessLedgerService(debtRepo repository.FairnessDebtRepository) *FairnessLedgerService {
	return &FairnessLedgerService{
		debtRepo: debtRepo,
		logger:   logrus.New(),
	}
}

// CreateDebt records that an analyst owes extra duty. Debt is only incurred
// for vacation-type absences: sick leave, emergencies and the rest never
// penalize the analyst, so those calls are a silent no-op.
func (s *FairnessLedgerService) CreateDebt(analystID uint, amount float64, reason string, absenceID *uint, absenceType string) (*models.FairnessDebtEntry, error) {
	if absenceType != "" && absenceType != models.AbsenceTypeVacation {
		s.logger.WithFields(logrus.Fields{
			"analyst_id":   analystID,
			"absence_type": absenceType,
		}).Debug("Skipping debt for non-vacation absence")
		return nil, nil
	}

	if amount <= 0 {
		return nil, fmt.Errorf("debt amount must be positive, got %.2f", amount)
	}

	entry := &models.FairnessDebtEntry{
		AnalystID: analystID,
		Amount:    amount,
		Reason:    reason,
		AbsenceID: absenceID,
	}

	if err := s.debtRepo.Create(entry); err != nil {
		s.logger.WithError(err).Error("Failed to create debt entry")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"analyst_id": analystID,
		"amount":     amount,
		"reason":     reason,
	}).Info("Fairness debt recorded")

	return entry, nil
}

// CreateCredit records extra duty already performed. Credits are settled the
// instant they are earned, so the entry is stored negative and resolved.
func (s *FairnessLedgerService) CreateCredit(analystID uint, amount float64, reason string, absenceID *uint) (*models.FairnessDebtEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %.2f", amount)
	}

	now := time.Now()
	entry := &models.FairnessDebtEntry{
		AnalystID:  analystID,
		Amount:     -amount,
		Reason:     reason,
		AbsenceID:  absenceID,
		ResolvedAt: &now,
	}

	if err := s.debtRepo.Create(entry); err != nil {
		s.logger.WithError(err).Error("Failed to create credit entry")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"analyst_id": analystID,
		"amount":     amount,
		"reason":     reason,
	}).Info("Fairness credit recorded")

	return entry, nil
}

// GetNetDebt returns outstanding debt minus earned credits for an analyst.
func (s *FairnessLedgerService) GetNetDebt(analystID uint) (float64, error) {
	return s.debtRepo.SumNetDebt(analystID)
}

// ResolveDebt marks a single outstanding debt entry as settled.
func (s *FairnessLedgerService) ResolveDebt(entryID uint) error {
	if err := s.debtRepo.Resolve(entryID); err != nil {
		s.logger.WithError(err).WithField("entry_id", entryID).Warn("Failed to resolve debt entry")
		return err
	}

	s.logger.WithField("entry_id", entryID).Info("Debt entry resolved")
	return nil
}

// GetStatement returns all ledger entries for an analyst, oldest first.
func (s *FairnessLedgerService) GetStatement(analystID uint) ([]models.FairnessDebtEntry, error) {
	return s.debtRepo.ListByAnalyst(analystID)
}

// CalculateAbsenceDebt sizes the duty weight of a single covered shift:
// base 1.0, +0.5 for a weekend shift, +0.5 for the screener role.
func (s *FairnessLedgerService) CalculateAbsenceDebt(shiftType models.ShiftType, isScreener bool) float64 {
	debt := 1.0
	if shiftType == models.ShiftTypeWeekend {
		debt += 0.5
	}
	if isScreener {
		debt += 0.5
	}
	return debt
}

// FormatStatement renders an analyst's ledger for chat display.
func (s *FairnessLedgerService) FormatStatement(analyst *models.Analyst, entries []models.FairnessDebtEntry, netDebt float64) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("⚖️ *Fairness ledger for %s*\n\n", analyst.FullName()))

	if len(entries) == 0 {
		result.WriteString("No ledger entries yet.\n")
	}

	for _, entry := range entries {
		marker := "🔴"
		kind := "debt"
		if entry.IsCredit() {
			marker = "🟢"
			kind = "credit"
		} else if !entry.IsOutstanding() {
			marker = "⚪"
			kind = "debt (settled)"
		}

		result.WriteString(fmt.Sprintf("%s %.1f %s — %s (%s)\n",
			marker,
			entry.Amount,
			kind,
			entry.Reason,
			entry.CreatedAt.Format("02.01.2006"),
		))
	}

	result.WriteString(fmt.Sprintf("\n*Net debt: %.1f*", netDebt))
	return result.String()
}
