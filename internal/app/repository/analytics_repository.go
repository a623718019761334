package repository

import (
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"gorm.io/gorm"
)

// NameValue is one bar of a grouped count.
type NameValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Columns the analytics queries may group by.
const (
	BusinessColumnStatus   = "status"
	BusinessColumnLGA      = "business_lga"
	BusinessColumnCategory = "business_reg_cat_type"

	SearchColumnQuery    = "search_query"
	SearchColumnLGA      = "lga"
	SearchColumnCategory = "category"
)

type AnalyticsRepository interface {
	CountBusinesses() (int64, error)
	GroupBusinesses(column string) ([]NameValue, error)
	CountSearches() (int64, error)
	TopSearchValues(column string, limit int) ([]NameValue, error)
	SearchTimestampsSince(since time.Time) ([]time.Time, error)
	RegistrationTimestampsSince(since time.Time) ([]time.Time, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountBusinesses() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Business{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count businesses", err)
		return 0, err
	}
	return count, nil
}

func (r *analyticsRepository) GroupBusinesses(column string) ([]NameValue, error) {
	var rows []NameValue
	if err := r.db.Model(&model.Business{}).
		Select(column + " AS name, COUNT(*) AS value").
		Group(column).
		Order("value DESC").
		Order("name ASC").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to group businesses", err, map[string]interface{}{
			"column": column,
		})
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) CountSearches() (int64, error) {
	var count int64
	if err := r.db.Model(&model.SearchLog{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count searches", err)
		return 0, err
	}
	return count, nil
}

func (r *analyticsRepository) TopSearchValues(column string, limit int) ([]NameValue, error) {
	var rows []NameValue
	if err := r.db.Model(&model.SearchLog{}).
		Select(column + " AS name, COUNT(*) AS value").
		Where(column + " IS NOT NULL").
		Group(column).
		Order("value DESC").
		Order("name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to group searches", err, map[string]interface{}{
			"column": column,
		})
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) timestampsSince(table interface{}, since time.Time) ([]time.Time, error) {
	var timestamps []time.Time
	if err := r.db.Model(table).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &timestamps).Error; err != nil {
		return nil, err
	}
	return timestamps, nil
}

func (r *analyticsRepository) SearchTimestampsSince(since time.Time) ([]time.Time, error) {
	timestamps, err := r.timestampsSince(&model.SearchLog{}, since)
	if err != nil {
		logger.Error("Failed to load search timestamps", err)
		return nil, err
	}
	return timestamps, nil
}

func (r *analyticsRepository) RegistrationTimestampsSince(since time.Time) ([]time.Time, error) {
	timestamps, err := r.timestampsSince(&model.BusinessRegistration{}, since)
	if err != nil {
		logger.Error("Failed to load registration timestamps", err)
		return nil, err
	}
	return timestamps, nil
}
