package repository

import (
	"errors"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"gorm.io/gorm"
)

type AbsenceRepository interface {
	Create(absence *models.Absence) error
	Update(absence *models.Absence) error
	GetByID(id uint) (*models.Absence, error)
	GetByAnalystID(analystID uint) ([]models.Absence, error)
	FindExact(analystID uint, absenceType string, start, end time.Time) (*models.Absence, error)
	ListOverlapping(analystID uint, start, end time.Time) ([]models.Absence, error)
	ListApprovedOnDay(day time.Time) ([]models.Absence, error)
	ListByStatus(status string) ([]models.Absence, error)
	Delete(id uint) error
}

type GormAbsenceRepository struct {
	db *gorm.DB
}

func NewGormAbsenceRepository(db *gorm.DB) (AbsenceRepository, error) {
	if err := db.AutoMigrate(&models.Absence{}); err != nil {
		return nil, err
	}
	return &GormAbsenceRepository{db: db}, nil
}

func (r *GormAbsenceRepository) Create(absence *models.Absence) error {
	absence.StartDate = dateutil.Normalize(absence.StartDate)
	absence.EndDate = dateutil.Normalize(absence.EndDate)
	return r.db.Create(absence).Error
}

func (r *GormAbsenceRepository) Update(absence *models.Absence) error {
	return r.db.Save(absence).Error
}

func (r *GormAbsenceRepository) GetByID(id uint) (*models.Absence, error) {
	var absence models.Absence
	err := r.db.Preload("Analyst").First(&absence, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &absence, nil
}

func (r *GormAbsenceRepository) GetByAnalystID(analystID uint) ([]models.Absence, error) {
	var absences []models.Absence
	err := r.db.Where("analyst_id = ?", analystID).
		Order("start_date DESC").
		Find(&absences).Error
	return absences, err
}

// FindExact looks for a live request with the same type and exact dates,
// which marks a resubmission of the same absence.
func (r *GormAbsenceRepository) FindExact(analystID uint, absenceType string, start, end time.Time) (*models.Absence, error) {
	var absence models.Absence
	err := r.db.Where("analyst_id = ? AND type = ? AND start_date = ? AND end_date = ? AND status IN ?",
		analystID, absenceType,
		dateutil.Normalize(start), dateutil.Normalize(end),
		[]string{models.AbsenceStatusPending, models.AbsenceStatusApproved}).
		First(&absence).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &absence, nil
}

func (r *GormAbsenceRepository) ListOverlapping(analystID uint, start, end time.Time) ([]models.Absence, error) {
	var absences []models.Absence
	err := r.db.Where("analyst_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
		analystID,
		[]string{models.AbsenceStatusPending, models.AbsenceStatusApproved},
		dateutil.Normalize(end), dateutil.Normalize(start)).
		Order("start_date ASC").
		Find(&absences).Error
	return absences, err
}

func (r *GormAbsenceRepository) ListApprovedOnDay(day time.Time) ([]models.Absence, error) {
	var absences []models.Absence
	d := dateutil.Normalize(day)
	err := r.db.Where("status = ? AND start_date <= ? AND end_date >= ?",
		models.AbsenceStatusApproved, d, d).
		Find(&absences).Error
	return absences, err
}

func (r *GormAbsenceRepository) ListByStatus(status string) ([]models.Absence, error) {
	var absences []models.Absence
	err := r.db.Preload("Analyst").
		Where("status = ?", status).
		Order("start_date ASC").
		Find(&absences).Error
	return absences, err
}

func (r *GormAbsenceRepository) Delete(id uint) error {
	return r.db.Delete(&models.Absence{}, id).Error
}
