package repository

import (
	"errors"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"gorm.io/gorm"
)

type ReplacementRepository interface {
	Create(replacement *models.ReplacementAssignment) error
	GetByReference(reference string) (*models.ReplacementAssignment, error)
	ListByAnalyst(replacementAnalystID uint) ([]models.ReplacementAssignment, error)
	CountActiveSince(replacementAnalystID uint, since time.Time) (int64, error)
	Reverse(reference string) error
}

type GormReplacementRepository struct {
	db *gorm.DB
}

func NewGormReplacementRepository(db *gorm.DB) (ReplacementRepository, error) {
	if err := db.AutoMigrate(&models.ReplacementAssignment{}); err != nil {
		return nil, err
	}
	return &GormReplacementRepository{db: db}, nil
}

func (r *GormReplacementRepository) Create(replacement *models.ReplacementAssignment) error {
	replacement.Day = dateutil.Normalize(replacement.Day)
	return r.db.Create(replacement).Error
}

func (r *GormReplacementRepository) GetByReference(reference string) (*models.ReplacementAssignment, error) {
	var replacement models.ReplacementAssignment
	err := r.db.Where("reference = ?", reference).First(&replacement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &replacement, nil
}

func (r *GormReplacementRepository) ListByAnalyst(replacementAnalystID uint) ([]models.ReplacementAssignment, error) {
	var replacements []models.ReplacementAssignment
	err := r.db.Where("replacement_analyst_id = ?", replacementAnalystID).
		Order("day DESC").
		Find(&replacements).Error
	return replacements, err
}

func (r *GormReplacementRepository) CountActiveSince(replacementAnalystID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ReplacementAssignment{}).
		Where("replacement_analyst_id = ? AND status = ? AND day >= ?",
			replacementAnalystID, models.ReplacementStatusActive, dateutil.Normalize(since)).
		Count(&count).Error
	return count, err
}

func (r *GormReplacementRepository) Reverse(reference string) error {
	result := r.db.Model(&models.ReplacementAssignment{}).
		Where("reference = ? AND status = ?", reference, models.ReplacementStatusActive).
		Update("status", models.ReplacementStatusReversed)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("active replacement not found for reference")
	}

	return nil
}
