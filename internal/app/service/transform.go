package service

import (
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/pkg/util"
)

const PlaceholderHeroImage = "/placeholder-business.jpg"

// TransformBusiness turns a projected row into the public profile. It is pure:
// the only input besides the row is the clock used for years_active.
func TransformBusiness(row model.PublicBusinessRow, now time.Time) model.PublicBusinessProfile {
	slug := row.Slug
	if slug == "" {
		slug = util.GenerateSlug(row.Name, row.LGA)
	}

	return model.PublicBusinessProfile{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        slug,
		Category:    row.Category,
		Description: util.CategoryDescription(row.Category),
		Location: model.PublicLocation{
			Address:     derefOrEmpty(row.Address),
			LGA:         row.LGA,
			Ward:        derefOrEmpty(row.Ward),
			Coordinates: coordinates(row.Latitude, row.Longitude),
		},
		Contact: model.PublicContact{
			Phone:   util.FormatPhoneNumber(row.Phone),
			Email:   nilIfEmpty(row.Email),
			Website: nilIfEmpty(row.Website),
		},
		Media: model.PublicMedia{
			HeroImage: heroImage(row.HeroURL),
			Logo:      nil,
		},
		Metadata: model.PublicMetadata{
			IsVerified:  row.Status.IsVerified(),
			YearsActive: util.CalculateYearsActive(row.CreatedAt, now),
			MemberSince: row.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
}

// TransformBusinesses maps a page of rows, keeping order.
func TransformBusinesses(rows []model.PublicBusinessRow, now time.Time) []model.PublicBusinessProfile {
	profiles := make([]model.PublicBusinessProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, TransformBusiness(row, now))
	}
	return profiles
}

func coordinates(lat, lng *float64) *model.Coordinates {
	if lat == nil || lng == nil || *lat == 0 || *lng == 0 {
		return nil
	}
	return &model.Coordinates{Lat: *lat, Lng: *lng}
}

func heroImage(url *string) string {
	if url == nil || *url == "" {
		return PlaceholderHeroImage
	}
	return *url
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
