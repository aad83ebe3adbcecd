package repository

import (
	"errors"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"

	"gorm.io/gorm"
)

type ShiftDefinitionRepository interface {
	SeedDefaults(region string) error
	ListByRegion(region string) ([]models.ShiftDefinition, error)
	GetByRegionAndType(region string, shiftType models.ShiftType) (*models.ShiftDefinition, error)
}

type GormShiftDefinitionRepository struct {
	db *gorm.DB
}

func NewGormShiftDefinitionRepository(db *gorm.DB) (ShiftDefinitionRepository, error) {
	if err := db.AutoMigrate(&models.ShiftDefinition{}); err != nil {
		return nil, err
	}
	return &GormShiftDefinitionRepository{db: db}, nil
}

// SeedDefaults inserts the standard shift definitions for a region, leaving
// any rows an operator already customized untouched.
func (r *GormShiftDefinitionRepository) SeedDefaults(region string) error {
	for _, def := range models.DefaultShiftDefinitions(region) {
		err := r.db.Where("region = ? AND shift_type = ?", def.Region, def.ShiftType).
			FirstOrCreate(&def).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *GormShiftDefinitionRepository) ListByRegion(region string) ([]models.ShiftDefinition, error) {
	var defs []models.ShiftDefinition
	err := r.db.Where("region = ?", region).
		Order("start_hour ASC").
		Find(&defs).Error
	return defs, err
}

func (r *GormShiftDefinitionRepository) GetByRegionAndType(region string, shiftType models.ShiftType) (*models.ShiftDefinition, error) {
	var def models.ShiftDefinition
	err := r.db.Where("region = ? AND shift_type = ?", region, shiftType).
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}
