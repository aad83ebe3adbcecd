package repository

import (
	"errors"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned when an assignment already exists for the same
// analyst and day.
var ErrSlotTaken = errors.New("assignment slot already taken")

type ScheduleRepository interface {
	Create(assignment *models.ShiftAssignment) error
	CreateBatch(assignments []*models.ShiftAssignment) (created int, skipped int, err error)
	GetByID(id uint) (*models.ShiftAssignment, error)
	GetByAnalystAndDay(analystID uint, day time.Time) (*models.ShiftAssignment, error)
	ListByDay(day time.Time) ([]*models.ShiftAssignment, error)
	ListByDateRange(start, end time.Time) ([]*models.ShiftAssignment, error)
	ListByAnalystAndDateRange(analystID uint, start, end time.Time) ([]*models.ShiftAssignment, error)
	CountByAnalystSince(analystID uint, since time.Time) (int64, error)
	Reassign(id uint, newAnalystID uint) error
	SetScreener(id uint, isScreener bool) error
	DeleteByID(id uint) error
	Exists(analystID uint, day time.Time) (bool, error)
}

type GormScheduleRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormScheduleRepository(db *gorm.DB) (*GormScheduleRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.ShiftAssignment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate shift_assignments table")
		return nil, err
	}

	logger.Info("Schedule repository initialized")

	return &GormScheduleRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormScheduleRepository) Create(assignment *models.ShiftAssignment) error {
	r.logger.WithFields(logrus.Fields{
		"analyst_id": assignment.AnalystID,
		"day":        dateutil.DayKey(assignment.Day),
		"shift_type": assignment.ShiftType,
	}).Info("Creating shift assignment")

	if !assignment.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"analyst_id": assignment.AnalystID,
			"day":        dateutil.DayKey(assignment.Day),
		}).Warn("Invalid shift assignment data")
		return errors.New("invalid shift assignment data")
	}

	assignment.Day = dateutil.Normalize(assignment.Day)

	result := r.db.Create(assignment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			r.logger.WithFields(logrus.Fields{
				"analyst_id": assignment.AnalystID,
				"day":        dateutil.DayKey(assignment.Day),
			}).Warn("Assignment slot already taken")
			return ErrSlotTaken
		}
		r.logger.WithError(result.Error).Error("Failed to create shift assignment")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":         assignment.ID,
		"analyst_id": assignment.AnalystID,
		"day":        dateutil.DayKey(assignment.Day),
	}).Info("Shift assignment created successfully")

	return nil
}

// CreateBatch persists assignments in a single transaction. Slots that are
// already occupied for the same analyst and day are skipped; any other
// failure rolls back the whole batch.
func (r *GormScheduleRepository) CreateBatch(assignments []*models.ShiftAssignment) (int, int, error) {
	created := 0
	skipped := 0

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, assignment := range assignments {
			assignment.Day = dateutil.Normalize(assignment.Day)

			// Occupied slots are not an error for a batch
			var count int64
			if err := tx.Model(&models.ShiftAssignment{}).
				Where("analyst_id = ? AND day = ?", assignment.AnalystID, assignment.Day).
				Count(&count).Error; err != nil {
				return err
			}

			if count > 0 {
				skipped++
				continue
			}

			if err := tx.Create(assignment).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					skipped++
					continue
				}
				return err
			}
			created++
		}
		return nil
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to create assignment batch")
		return 0, 0, err
	}

	r.logger.WithFields(logrus.Fields{
		"created": created,
		"skipped": skipped,
	}).Info("Assignment batch persisted")

	return created, skipped, nil
}

func (r *GormScheduleRepository) GetByID(id uint) (*models.ShiftAssignment, error) {
	var assignment models.ShiftAssignment
	result := r.db.Preload("Analyst").First(&assignment, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Shift assignment not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shift assignment by ID")
		return nil, result.Error
	}

	return &assignment, nil
}

func (r *GormScheduleRepository) GetByAnalystAndDay(analystID uint, day time.Time) (*models.ShiftAssignment, error) {
	var assignment models.ShiftAssignment
	result := r.db.Where("analyst_id = ? AND day = ?", analystID, dateutil.Normalize(day)).
		First(&assignment)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get assignment by analyst and day")
		return nil, result.Error
	}

	return &assignment, nil
}

func (r *GormScheduleRepository) ListByDay(day time.Time) ([]*models.ShiftAssignment, error) {
	var assignments []*models.ShiftAssignment
	result := r.db.Preload("Analyst").
		Where("day = ?", dateutil.Normalize(day)).
		Order("shift_type ASC, id ASC").
		Find(&assignments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list assignments by day")
		return nil, result.Error
	}

	return assignments, nil
}

func (r *GormScheduleRepository) ListByDateRange(start, end time.Time) ([]*models.ShiftAssignment, error) {
	var assignments []*models.ShiftAssignment
	result := r.db.Preload("Analyst").
		Where("day BETWEEN ? AND ?", dateutil.Normalize(start), dateutil.Normalize(end)).
		Order("day ASC, shift_type ASC, id ASC").
		Find(&assignments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list assignments by date range")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"start": dateutil.DayKey(start),
		"end":   dateutil.DayKey(end),
		"count": len(assignments),
	}).Debug("Retrieved assignments by date range")

	return assignments, nil
}

func (r *GormScheduleRepository) ListByAnalystAndDateRange(analystID uint, start, end time.Time) ([]*models.ShiftAssignment, error) {
	var assignments []*models.ShiftAssignment
	result := r.db.Where("analyst_id = ? AND day BETWEEN ? AND ?",
		analystID, dateutil.Normalize(start), dateutil.Normalize(end)).
		Order("day ASC").
		Find(&assignments)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list assignments by analyst and range")
		return nil, result.Error
	}

	return assignments, nil
}

func (r *GormScheduleRepository) CountByAnalystSince(analystID uint, since time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.ShiftAssignment{}).
		Where("analyst_id = ? AND day >= ?", analystID, dateutil.Normalize(since)).
		Count(&count)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to count assignments since date")
		return 0, result.Error
	}

	return count, nil
}

func (r *GormScheduleRepository) Reassign(id uint, newAnalystID uint) error {
	result := r.db.Model(&models.ShiftAssignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"analyst_id": newAnalystID,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSlotTaken
		}
		r.logger.WithError(result.Error).Error("Failed to reassign shift")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("shift assignment not found")
	}

	r.logger.WithFields(logrus.Fields{
		"id":             id,
		"new_analyst_id": newAnalystID,
	}).Info("Shift reassigned")

	return nil
}

func (r *GormScheduleRepository) SetScreener(id uint, isScreener bool) error {
	result := r.db.Model(&models.ShiftAssignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_screener": isScreener,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to set screener flag")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("shift assignment not found")
	}

	return nil
}

func (r *GormScheduleRepository) DeleteByID(id uint) error {
	result := r.db.Delete(&models.ShiftAssignment{}, id)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete shift assignment")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("shift assignment not found")
	}

	r.logger.WithField("id", id).Info("Shift assignment deleted")
	return nil
}

func (r *GormScheduleRepository) Exists(analystID uint, day time.Time) (bool, error) {
	var count int64
	result := r.db.Model(&models.ShiftAssignment{}).
		Where("analyst_id = ? AND day = ?", analystID, dateutil.Normalize(day)).
		Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
