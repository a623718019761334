package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"github.com/kaduna-connect/directory-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrInvalidBusinessStatus = errors.New("invalid business status")
	ErrBusinessFieldsMissing = errors.New("business name, category, LGA and phone are required")
)

// BusinessInput is a partial business record. Nil fields are left untouched.
type BusinessInput struct {
	Name     *string
	Category *string
	LGA      *string
	Ward     *string
	Address  *string
	Status   *model.BusinessStatus

	Latitude  *float64
	Longitude *float64

	Phone   *string
	Email   *string
	Website *string
	HeroURL *string
	LogoURL *string

	OwnerFirstName *string
	OwnerSurname   *string

	BVN                   *string
	DateOfBirth           *time.Time
	ClearDateOfBirth      bool
	BankAccountNumber     *string
	BankName              *string
	OwnerPersonalPhotoURL *string
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// applyTo copies every set field onto b and reports whether the slug inputs
// (name or LGA) changed.
func (in BusinessInput) applyTo(b *model.Business) bool {
	identityChanged := false
	if in.Name != nil && trimmed(in.Name) != b.Name {
		b.Name = trimmed(in.Name)
		identityChanged = true
	}
	if in.LGA != nil && trimmed(in.LGA) != b.LGA {
		b.LGA = trimmed(in.LGA)
		identityChanged = true
	}
	if in.Category != nil {
		b.Category = trimmed(in.Category)
	}
	if in.Phone != nil {
		b.Phone = trimmed(in.Phone)
	}
	if in.Status != nil {
		b.Status = *in.Status
	}

	optional := []struct {
		src *string
		dst **string
	}{
		{in.Ward, &b.Ward},
		{in.Address, &b.Address},
		{in.Email, &b.Email},
		{in.Website, &b.Website},
		{in.HeroURL, &b.HeroURL},
		{in.LogoURL, &b.LogoURL},
		{in.OwnerFirstName, &b.OwnerFirstName},
		{in.OwnerSurname, &b.OwnerSurname},
		{in.BVN, &b.BVN},
		{in.BankAccountNumber, &b.BankAccountNumber},
		{in.BankName, &b.BankName},
		{in.OwnerPersonalPhotoURL, &b.OwnerPersonalPhotoURL},
	}
	for _, field := range optional {
		if field.src == nil {
			continue
		}
		if v := trimmed(field.src); v != "" {
			*field.dst = &v
		} else {
			*field.dst = nil
		}
	}

	if in.Latitude != nil {
		b.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		b.Longitude = in.Longitude
	}
	if in.DateOfBirth != nil {
		b.DateOfBirth = in.DateOfBirth
	} else if in.ClearDateOfBirth {
		b.DateOfBirth = nil
	}
	return identityChanged
}

func validateBusiness(b *model.Business) error {
	if b.Name == "" || b.Category == "" || b.LGA == "" || b.Phone == "" {
		return ErrBusinessFieldsMissing
	}
	if b.Status != "" && !b.Status.IsValid() {
		return ErrInvalidBusinessStatus
	}
	return nil
}

type BusinessListResult struct {
	Businesses []model.Business `json:"businesses"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

type BusinessAdminService interface {
	List(ctx context.Context, search, status string, page, limit int) (*BusinessListResult, error)
	Get(id string) (*model.Business, error)
	Create(ctx context.Context, input BusinessInput) (*model.Business, error)
	Update(ctx context.Context, id string, input BusinessInput) (*model.Business, error)
	Delete(ctx context.Context, id string) error
}

type businessAdminService struct {
	repo  repository.BusinessRepository
	cache redis.Cache
}

func NewBusinessAdminService(repo repository.BusinessRepository, cache redis.Cache) BusinessAdminService {
	return &businessAdminService{repo: repo, cache: cache}
}

// invalidateDirectoryCache drops the cached public lists after any write.
func invalidateDirectoryCache(ctx context.Context, cache redis.Cache) {
	if err := cache.Delete(ctx, DirectoryCacheKeys...); err != nil {
		logger.Warn("Failed to invalidate directory cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *businessAdminService) List(ctx context.Context, search, status string, page, limit int) (*BusinessListResult, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	page = boundPage(page, limit)
	if status != "" && !model.BusinessStatus(status).IsValid() {
		return nil, ErrInvalidBusinessStatus
	}

	businesses, total, err := s.repo.List(repository.AdminBusinessFilter{
		Search: search,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &BusinessListResult{
		Businesses: businesses,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *businessAdminService) Get(id string) (*model.Business, error) {
	business, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessAdminService) Create(ctx context.Context, input BusinessInput) (*model.Business, error) {
	business := &model.Business{}
	input.applyTo(business)
	if business.Status == "" {
		business.Status = model.BusinessStatusPending
	}
	if err := validateBusiness(business); err != nil {
		return nil, err
	}

	if err := s.repo.Create(business); err != nil {
		return nil, err
	}
	invalidateDirectoryCache(ctx, s.cache)

	logger.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
		"slug":        business.Slug,
		"status":      business.Status,
	})
	return business, nil
}

func (s *businessAdminService) Update(ctx context.Context, id string, input BusinessInput) (*model.Business, error) {
	business, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.applyTo(business) {
		// BeforeUpdate derives a fresh unique slug
		business.Slug = ""
	}
	if err := validateBusiness(business); err != nil {
		return nil, err
	}

	if err := s.repo.Update(business); err != nil {
		return nil, err
	}
	invalidateDirectoryCache(ctx, s.cache)

	logger.Info("Business updated", map[string]interface{}{
		"business_id": business.ID,
		"slug":        business.Slug,
	})
	return business, nil
}

func (s *businessAdminService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	invalidateDirectoryCache(ctx, s.cache)

	logger.Info("Business deleted", map[string]interface{}{
		"business_id": id,
	})
	return nil
}
