package service

import (
	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"

	"github.com/sirupsen/logrus"
)

// CompOffBalancer is the compensatory-time contract the absence workflow
// depends on. The concrete implementation is wired at composition time.
type CompOffBalancer interface {
	Balance(analystID uint) (float64, error)
	Earn(analystID uint, days float64, reason string, absenceID *uint) error
	Redeem(analystID uint, days float64, reason string, absenceID *uint) error
}

type CompOffService struct {
	compOffRepo repository.CompOffRepository
	logger      *logrus.Logger
}

var _ CompOffBalancer = (*CompOffService)(nil)

func NewCompOffService(compOffRepo repository.CompOffRepository) *CompOffService {
	return &CompOffService{
		compOffRepo: compOffRepo,
		logger:      logrus.New(),
	}
}

// Balance returns the analyst's current comp-off day balance.
func (s *CompOffService) Balance(analystID uint) (float64, error) {
	return s.compOffRepo.Balance(analystID)
}

// Earn grants comp-off days, typically for covering weekend or holiday duty.
func (s *CompOffService) Earn(analystID uint, days float64, reason string, absenceID *uint) error {
	entry := &models.CompOffEntry{
		AnalystID: analystID,
		Days:      days,
		Reason:    reason,
		AbsenceID: absenceID,
	}

	if err := s.compOffRepo.Create(entry); err != nil {
		s.logger.WithError(err).Error("Failed to record comp-off earning")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"analyst_id": analystID,
		"days":       days,
		"reason":     reason,
	}).Info("Comp-off earned")

	return nil
}

// Redeem spends comp-off days against an approved comp-off absence. The
// balance must cover the full redemption.
func (s *CompOffService) Redeem(analystID uint, days float64, reason string, absenceID *uint) error {
	balance, err := s.compOffRepo.Balance(analystID)
	if err != nil {
		return err
	}

	if balance < days {
		s.logger.WithFields(logrus.Fields{
			"analyst_id": analystID,
			"balance":    balance,
			"requested":  days,
		}).Warn("Comp-off redemption exceeds balance")
		return ErrInsufficientCompOff
	}

	entry := &models.CompOffEntry{
		AnalystID: analystID,
		Days:      -days,
		Reason:    reason,
		AbsenceID: absenceID,
	}

	if err := s.compOffRepo.Create(entry); err != nil {
		s.logger.WithError(err).Error("Failed to record comp-off redemption")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"analyst_id": analystID,
		"days":       days,
	}).Info("Comp-off redeemed")

	return nil
}
