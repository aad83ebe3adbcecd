package repository

import (
	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"

	"gorm.io/gorm"
)

type CompOffRepository interface {
	Create(entry *models.CompOffEntry) error
	Balance(analystID uint) (float64, error)
	ListByAnalyst(analystID uint) ([]models.CompOffEntry, error)
}

type GormCompOffRepository struct {
	db *gorm.DB
}

func NewGormCompOffRepository(db *gorm.DB) (CompOffRepository, error) {
	if err := db.AutoMigrate(&models.CompOffEntry{}); err != nil {
		return nil, err
	}
	return &GormCompOffRepository{db: db}, nil
}

func (r *GormCompOffRepository) Create(entry *models.CompOffEntry) error {
	return r.db.Create(entry).Error
}

func (r *GormCompOffRepository) Balance(analystID uint) (float64, error) {
	var balance float64
	err := r.db.Model(&models.CompOffEntry{}).
		Select("COALESCE(SUM(days), 0)").
		Where("analyst_id = ?", analystID).
		Scan(&balance).Error
	return balance, err
}

func (r *GormCompOffRepository) ListByAnalyst(analystID uint) ([]models.CompOffEntry, error) {
	var entries []models.CompOffEntry
	err := r.db.Where("analyst_id = ?", analystID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
