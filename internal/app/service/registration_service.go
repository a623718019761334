package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"github.com/kaduna-connect/directory-backend/pkg/rabbitmq"
	"github.com/kaduna-connect/directory-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound      = errors.New("registration not found")
	ErrRegistrationFinalized     = errors.New("registration is already approved or rejected")
	ErrRegistrationFieldsMissing = errors.New("registration is missing required fields")
	ErrInvalidRegistrationStatus = errors.New("invalid registration status")
)

// RegistrationStatusAll lists registrations regardless of status.
const RegistrationStatusAll = "All"

const eventPublishTimeout = 5 * time.Second

type RegistrationInput struct {
	BusinessName   string
	Category       string
	LGA            string
	Ward           string
	Address        string
	Phone          string
	Email          string
	OwnerFirstName string
	OwnerSurname   string
}

type RegistrationListResult struct {
	Registrations []model.BusinessRegistration `json:"registrations"`
	Total         int64                        `json:"total"`
	Page          int                          `json:"page"`
	TotalPages    int                          `json:"total_pages"`
}

// RegistrationEvent is the body of registration.* messages.
type RegistrationEvent struct {
	RegistrationID string    `json:"registration_id"`
	BusinessID     string    `json:"business_id,omitempty"`
	BusinessName   string    `json:"business_name"`
	Category       string    `json:"category"`
	LGA            string    `json:"lga"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type RegistrationService interface {
	Submit(input RegistrationInput) (*model.BusinessRegistration, error)
	List(status string, page, limit int) (*RegistrationListResult, error)
	Get(id string) (*model.BusinessRegistration, error)
	UpdateStatus(id, status string) (*model.BusinessRegistration, error)
	Convert(ctx context.Context, id string, input BusinessInput) (*model.Business, error)
	// Flush waits for in-flight event publishes.
	Flush()
}

type registrationService struct {
	db        *gorm.DB
	repo      repository.RegistrationRepository
	cache     redis.Cache
	publisher rabbitmq.Publisher
	events    sync.WaitGroup
}

func NewRegistrationService(
	db *gorm.DB,
	repo repository.RegistrationRepository,
	cache redis.Cache,
	publisher rabbitmq.Publisher,
) RegistrationService {
	return &registrationService{
		db:        db,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *registrationService) Submit(input RegistrationInput) (*model.BusinessRegistration, error) {
	registration := &model.BusinessRegistration{
		Name:           strings.TrimSpace(input.BusinessName),
		Category:       strings.TrimSpace(input.Category),
		LGA:            strings.TrimSpace(input.LGA),
		Ward:           optionalString(input.Ward),
		Address:        optionalString(input.Address),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          optionalString(input.Email),
		OwnerFirstName: optionalString(input.OwnerFirstName),
		OwnerSurname:   optionalString(input.OwnerSurname),
		Status:         model.RegistrationStatusPending,
	}

	if registration.Name == "" || registration.Category == "" || registration.LGA == "" || registration.Phone == "" {
		logger.Warn("Registration rejected: missing required fields", map[string]interface{}{
			"business_name": registration.Name,
			"lga":           registration.LGA,
		})
		return nil, ErrRegistrationFieldsMissing
	}

	if err := s.repo.Create(registration); err != nil {
		return nil, err
	}

	logger.Info("Business registration submitted", map[string]interface{}{
		"registration_id": registration.ID,
		"lga":             registration.LGA,
	})

	s.publish(rabbitmq.RoutingKeyRegistrationSubmitted, RegistrationEvent{
		RegistrationID: registration.ID,
		BusinessName:   registration.Name,
		Category:       registration.Category,
		LGA:            registration.LGA,
		OccurredAt:     time.Now().UTC(),
	})
	return registration, nil
}

func (s *registrationService) List(status string, page, limit int) (*RegistrationListResult, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	page = boundPage(page, limit)

	switch status {
	case "":
		status = string(model.RegistrationStatusPending)
	case RegistrationStatusAll:
		status = ""
	default:
		if !model.RegistrationStatus(status).IsValid() {
			return nil, ErrInvalidRegistrationStatus
		}
	}

	registrations, total, err := s.repo.List(repository.RegistrationFilter{
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &RegistrationListResult{
		Registrations: registrations,
		Total:         total,
		Page:          page,
		TotalPages:    totalPages(total, limit),
	}, nil
}

func (s *registrationService) Get(id string) (*model.BusinessRegistration, error) {
	registration, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return registration, nil
}

// UpdateStatus moves a registration that is still open to another status.
// Approval through this path does not create a business; Convert does.
func (s *registrationService) UpdateStatus(id, status string) (*model.BusinessRegistration, error) {
	next := model.RegistrationStatus(status)
	if !next.IsValid() {
		return nil, ErrInvalidRegistrationStatus
	}

	registration, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if registration.Status.IsTerminal() {
		logger.Warn("Status change on finalized registration", map[string]interface{}{
			"registration_id": id,
			"current":         registration.Status,
			"requested":       next,
		})
		return nil, ErrRegistrationFinalized
	}

	if err := s.repo.UpdateStatus(id, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	registration.Status = next

	logger.Info("Registration status updated", map[string]interface{}{
		"registration_id": id,
		"status":          next,
	})
	return registration, nil
}

func businessFromRegistration(registration *model.BusinessRegistration) *model.Business {
	return &model.Business{
		Name:           registration.Name,
		Category:       registration.Category,
		LGA:            registration.LGA,
		Ward:           registration.Ward,
		Address:        registration.Address,
		Phone:          registration.Phone,
		Email:          registration.Email,
		OwnerFirstName: registration.OwnerFirstName,
		OwnerSurname:   registration.OwnerSurname,
		Status:         model.BusinessStatusEligible,
	}
}

// Convert publishes a registration as a business. The business insert and the
// registration approval commit together or not at all.
func (s *registrationService) Convert(ctx context.Context, id string, input BusinessInput) (business *model.Business, err error) {
	logger.Info("Converting registration to business", map[string]interface{}{
		"registration_id": id,
	})

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			business = nil
			err = fmt.Errorf("registration conversion panicked: %v", r)
			logger.Error("Panic during registration conversion, rolling back", err, map[string]interface{}{
				"registration_id": id,
			})
		}
	}()

	var registration model.BusinessRegistration
	if err := tx.Where("id = ?", id).First(&registration).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		logger.Error("Failed to load registration for conversion", err, map[string]interface{}{
			"registration_id": id,
		})
		return nil, err
	}
	if registration.Status.IsTerminal() {
		tx.Rollback()
		return nil, ErrRegistrationFinalized
	}

	business = businessFromRegistration(&registration)
	input.applyTo(business)
	if err := validateBusiness(business); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Create(business).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create business from registration", err, map[string]interface{}{
			"registration_id": id,
		})
		return nil, err
	}

	// guarded on the status read above so a concurrent approval cannot win twice
	result := tx.Model(&model.BusinessRegistration{}).
		Where("id = ? AND status = ?", registration.ID, registration.Status).
		Updates(map[string]interface{}{
			"status":      model.RegistrationStatusApproved,
			"business_id": business.ID,
		})
	if result.Error != nil {
		tx.Rollback()
		logger.Error("Failed to approve registration", result.Error, map[string]interface{}{
			"registration_id": id,
			"business_id":     business.ID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrRegistrationFinalized
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to commit registration conversion", err, map[string]interface{}{
			"registration_id": id,
		})
		return nil, err
	}

	invalidateDirectoryCache(ctx, s.cache)

	logger.Info("Registration converted", map[string]interface{}{
		"registration_id": id,
		"business_id":     business.ID,
		"slug":            business.Slug,
	})

	s.publish(rabbitmq.RoutingKeyRegistrationApproved, RegistrationEvent{
		RegistrationID: registration.ID,
		BusinessID:     business.ID,
		BusinessName:   business.Name,
		Category:       business.Category,
		LGA:            business.LGA,
		OccurredAt:     time.Now().UTC(),
	})
	return business, nil
}

func (s *registrationService) Flush() {
	s.events.Wait()
}

// publish sends the event in the background; a broker outage never fails the request.
func (s *registrationService) publish(routingKey string, event RegistrationEvent) {
	s.events.Add(1)
	go func() {
		defer s.events.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Event publish panicked", fmt.Errorf("panic: %v", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), eventPublishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
			logger.Warn("Failed to publish registration event", map[string]interface{}{
				"routing_key":     routingKey,
				"registration_id": event.RegistrationID,
				"error":           err.Error(),
			})
		}
	}()
}
