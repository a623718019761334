package repository

import (
	"errors"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"gorm.io/gorm"
)

type RegistrationFilter struct {
	// empty means every status
	Status string
	Page   int
	Limit  int
}

type RegistrationRepository interface {
	Create(registration *model.BusinessRegistration) error
	FindByID(id string) (*model.BusinessRegistration, error)
	List(filter RegistrationFilter) ([]model.BusinessRegistration, int64, error)
	UpdateStatus(id string, status model.RegistrationStatus) error
	FindRecent(limit int) ([]model.BusinessRegistration, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(registration *model.BusinessRegistration) error {
	logger.Debug("Creating business registration", map[string]interface{}{
		"name": registration.Name,
		"lga":  registration.LGA,
	})

	if err := r.db.Create(registration).Error; err != nil {
		logger.Error("Failed to create business registration", err, map[string]interface{}{
			"name": registration.Name,
		})
		return err
	}

	logger.Debug("Business registration created", map[string]interface{}{
		"registration_id": registration.ID,
	})
	return nil
}

func (r *registrationRepository) FindByID(id string) (*model.BusinessRegistration, error) {
	var registration model.BusinessRegistration
	if err := r.db.Where("id = ?", id).First(&registration).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find business registration", err, map[string]interface{}{
				"registration_id": id,
			})
		}
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepository) List(filter RegistrationFilter) ([]model.BusinessRegistration, int64, error) {
	logger.Debug("Listing business registrations", map[string]interface{}{
		"status": filter.Status,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})

	query := r.db.Model(&model.BusinessRegistration{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count business registrations", err)
		return nil, 0, err
	}

	var registrations []model.BusinessRegistration
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&registrations).Error; err != nil {
		logger.Error("Failed to list business registrations", err)
		return nil, 0, err
	}
	return registrations, total, nil
}

func (r *registrationRepository) UpdateStatus(id string, status model.RegistrationStatus) error {
	logger.Debug("Updating registration status", map[string]interface{}{
		"registration_id": id,
		"status":          status,
	})

	result := r.db.Model(&model.BusinessRegistration{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update registration status", result.Error, map[string]interface{}{
			"registration_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registrationRepository) FindRecent(limit int) ([]model.BusinessRegistration, error) {
	var registrations []model.BusinessRegistration
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&registrations).Error; err != nil {
		logger.Error("Failed to fetch recent registrations", err)
		return nil, err
	}
	return registrations, nil
}
