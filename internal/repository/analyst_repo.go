package repository

import (
	"errors"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AnalystRepository interface {
	Create(analyst *models.Analyst) error
	Update(analyst *models.Analyst) error
	GetByID(id uint) (*models.Analyst, error)
	GetByChatID(chatID int64) (*models.Analyst, error)
	GetAll() ([]*models.Analyst, error)
	ListActive() ([]*models.Analyst, error)
	ListActiveByShiftType(shiftType models.ShiftType) ([]*models.Analyst, error)
	SetActive(id uint, active bool) error
	SetRole(chatID int64, role string) error
	Exists(chatID int64) (bool, error)
	GetLeads() ([]*models.Analyst, error)
	GetStats() (int, int, error)
	Close() error
}

type GormAnalystRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAnalystRepository(db *gorm.DB) (*GormAnalystRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Analyst{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate analysts table")
		return nil, err
	}

	logger.Info("Analyst repository initialized")

	return &GormAnalystRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAnalystRepository) Create(analyst *models.Analyst) error {
	r.logger.WithFields(logrus.Fields{
		"chat_id":    analyst.ChatID,
		"shift_type": analyst.ShiftType,
	}).Info("Creating analyst")

	// Check whether this chat is already registered
	existing, err := r.GetByChatID(analyst.ChatID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to check existing analyst")
		return err
	}

	if existing != nil {
		r.logger.WithField("chat_id", analyst.ChatID).Warn("Analyst already registered")
		return errors.New("analyst already registered")
	}

	result := r.db.Create(analyst)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create analyst")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":      analyst.ID,
		"chat_id": analyst.ChatID,
	}).Info("Analyst created successfully")

	return nil
}

func (r *GormAnalystRepository) Update(analyst *models.Analyst) error {
	// Check existence first
	existing, err := r.GetByID(analyst.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		r.logger.WithField("id", analyst.ID).Warn("Analyst not found for update")
		return errors.New("analyst not found")
	}

	result := r.db.Save(analyst)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update analyst")
		return result.Error
	}

	return nil
}

func (r *GormAnalystRepository) GetByID(id uint) (*models.Analyst, error) {
	var analyst models.Analyst
	result := r.db.First(&analyst, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Analyst not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get analyst by ID")
		return nil, result.Error
	}

	return &analyst, nil
}

func (r *GormAnalystRepository) GetByChatID(chatID int64) (*models.Analyst, error) {
	var analyst models.Analyst
	result := r.db.Where("chat_id = ?", chatID).First(&analyst)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("chat_id", chatID).Debug("Analyst not found for chat")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get analyst by chat ID")
		return nil, result.Error
	}

	return &analyst, nil
}

func (r *GormAnalystRepository) GetAll() ([]*models.Analyst, error) {
	var analysts []*models.Analyst
	result := r.db.Order("created_at ASC, id ASC").Find(&analysts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get all analysts")
		return nil, result.Error
	}

	return analysts, nil
}

func (r *GormAnalystRepository) ListActive() ([]*models.Analyst, error) {
	var analysts []*models.Analyst
	result := r.db.Where("active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&analysts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list active analysts")
		return nil, result.Error
	}

	r.logger.WithField("count", len(analysts)).Debug("Retrieved active analysts")
	return analysts, nil
}

func (r *GormAnalystRepository) ListActiveByShiftType(shiftType models.ShiftType) ([]*models.Analyst, error) {
	var analysts []*models.Analyst
	result := r.db.Where("active = ? AND shift_type = ?", true, shiftType).
		Order("created_at ASC, id ASC").
		Find(&analysts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list analysts by shift type")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"shift_type": shiftType,
		"count":      len(analysts),
	}).Debug("Retrieved analysts by shift type")

	return analysts, nil
}

func (r *GormAnalystRepository) SetActive(id uint, active bool) error {
	result := r.db.Model(&models.Analyst{}).
		Where("id = ?", id).
		Update("active", active)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to set analyst active flag")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("analyst not found")
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"active": active,
	}).Info("Analyst active flag updated")

	return nil
}

func (r *GormAnalystRepository) SetRole(chatID int64, role string) error {
	result := r.db.Model(&models.Analyst{}).
		Where("chat_id = ?", chatID).
		Update("role", role)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("analyst not found")
	}

	return nil
}

func (r *GormAnalystRepository) Exists(chatID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.Analyst{}).Where("chat_id = ?", chatID).Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (r *GormAnalystRepository) GetLeads() ([]*models.Analyst, error) {
	var leads []*models.Analyst
	result := r.db.Where("role = ?", models.RoleLead).Find(&leads)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get leads")
		return nil, result.Error
	}

	return leads, nil
}

func (r *GormAnalystRepository) GetStats() (int, int, error) {
	var total int64
	var active int64

	result := r.db.Model(&models.Analyst{}).Count(&total)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	result = r.db.Model(&models.Analyst{}).Where("active = ?", true).Count(&active)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	return int(total), int(active), nil
}

func (r *GormAnalystRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
