package repository

import (
	"errors"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"

	"gorm.io/gorm"
)

type FairnessDebtRepository interface {
	Create(entry *models.FairnessDebtEntry) error
	GetByID(id uint) (*models.FairnessDebtEntry, error)
	ListByAnalyst(analystID uint) ([]models.FairnessDebtEntry, error)
	ListOutstanding(analystID uint) ([]models.FairnessDebtEntry, error)
	SumNetDebt(analystID uint) (float64, error)
	Resolve(id uint) error
}

type GormFairnessDebtRepository struct {
	db *gorm.DB
}

func NewGormFairnessDebtRepository(db *gorm.DB) (FairnessDebtRepository, error) {
	if err := db.AutoMigrate(&models.FairnessDebtEntry{}); err != nil {
		return nil, err
	}
	return &GormFairnessDebtRepository{db: db}, nil
}

func (r *GormFairnessDebtRepository) Create(entry *models.FairnessDebtEntry) error {
	return r.db.Create(entry).Error
}

func (r *GormFairnessDebtRepository) GetByID(id uint) (*models.FairnessDebtEntry, error) {
	var entry models.FairnessDebtEntry
	err := r.db.First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormFairnessDebtRepository) ListByAnalyst(analystID uint) ([]models.FairnessDebtEntry, error) {
	var entries []models.FairnessDebtEntry
	err := r.db.Where("analyst_id = ?", analystID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *GormFairnessDebtRepository) ListOutstanding(analystID uint) ([]models.FairnessDebtEntry, error) {
	var entries []models.FairnessDebtEntry
	err := r.db.Where("analyst_id = ? AND amount > 0 AND resolved_at IS NULL", analystID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// SumNetDebt totals outstanding debts minus earned credits. Credits are
// stored as negative amounts with resolved_at set, so they always count.
func (r *GormFairnessDebtRepository) SumNetDebt(analystID uint) (float64, error) {
	var net float64
	err := r.db.Model(&models.FairnessDebtEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("analyst_id = ? AND (resolved_at IS NULL OR amount < 0)", analystID).
		Scan(&net).Error
	return net, err
}

func (r *GormFairnessDebtRepository) Resolve(id uint) error {
	now := time.Now()
	result := r.db.Model(&models.FairnessDebtEntry{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Update("resolved_at", &now)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("debt entry not found or already resolved")
	}

	return nil
}
