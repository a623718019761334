package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"gorm.io/gorm"
)

// BusinessFilter drives the public search. Page and Limit are expected to be
// already clamped by the caller.
type BusinessFilter struct {
	Query      string
	LGA        string
	Categories []string
	Verified   *bool
	Page       int
	Limit      int
}

// AdminBusinessFilter drives the admin listing, which sees every status.
type AdminBusinessFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
}

type DirectoryStats struct {
	BusinessCount int64 `json:"business_count"`
	LGACount      int64 `json:"lga_count"`
	WardCount     int64 `json:"ward_count"`
}

type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

type BusinessRepository interface {
	// public read path, projected columns only
	SearchPublic(filter BusinessFilter) ([]model.PublicBusinessRow, int64, error)
	FindPublicByID(id string) (*model.PublicBusinessRow, error)
	FindPublicBySlug(slug string) (*model.PublicBusinessRow, error)
	DistinctCategories() ([]string, error)
	DistinctLGAs() ([]string, error)
	Stats() (*DirectoryStats, error)
	ListSitemapEntries() ([]SitemapEntry, error)

	// admin path, full records
	List(filter AdminBusinessFilter) ([]model.Business, int64, error)
	FindByID(id string) (*model.Business, error)
	Create(business *model.Business) error
	Update(business *model.Business) error
	Delete(id string) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// escapeLike makes user input safe inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

func verifiedScope(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", model.VerifiedStatuses)
}

// applyPublicFilter builds the WHERE clause shared by the page query and the
// count query. The verified-status predicate is always present; the Verified
// flag cannot widen it.
func applyPublicFilter(query *gorm.DB, filter BusinessFilter) *gorm.DB {
	query = query.Scopes(verifiedScope)

	if filter.LGA != "" {
		query = query.Where("business_lga = ?", filter.LGA)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("business_reg_cat_type IN ?", filter.Categories)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := containsPattern(q)
		query = query.Where(
			`(LOWER(business_name) LIKE ? ESCAPE '\' OR LOWER(business_reg_cat_type) LIKE ? ESCAPE '\')`,
			like, like,
		)
	}
	return query
}

func (r *businessRepository) SearchPublic(filter BusinessFilter) ([]model.PublicBusinessRow, int64, error) {
	logger.Debug("Searching public businesses", map[string]interface{}{
		"query":      filter.Query,
		"lga":        filter.LGA,
		"categories": filter.Categories,
		"page":       filter.Page,
		"limit":      filter.Limit,
	})

	var total int64
	if err := applyPublicFilter(r.db.Model(&model.PublicBusinessRow{}), filter).
		Count(&total).Error; err != nil {
		logger.Error("Failed to count public businesses", err, map[string]interface{}{
			"query": filter.Query,
			"lga":   filter.LGA,
		})
		return nil, 0, err
	}

	var rows []model.PublicBusinessRow
	if err := applyPublicFilter(r.db.Model(&model.PublicBusinessRow{}), filter).
		Select(model.PublicBusinessColumns).
		Order("created_at DESC").
		Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		logger.Error("Failed to search public businesses", err, map[string]interface{}{
			"query": filter.Query,
			"lga":   filter.LGA,
		})
		return nil, 0, err
	}

	logger.Debug("Public businesses found", map[string]interface{}{
		"count": len(rows),
		"total": total,
	})
	return rows, total, nil
}

func (r *businessRepository) findPublic(column, value string) (*model.PublicBusinessRow, error) {
	var row model.PublicBusinessRow
	if err := r.db.Model(&model.PublicBusinessRow{}).
		Scopes(verifiedScope).
		Select(model.PublicBusinessColumns).
		Where(column+" = ?", value).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *businessRepository) FindPublicByID(id string) (*model.PublicBusinessRow, error) {
	logger.Debug("Finding public business by ID", map[string]interface{}{
		"business_id": id,
	})

	row, err := r.findPublic("id", id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find public business", err, map[string]interface{}{
				"business_id": id,
			})
		}
		return nil, err
	}
	return row, nil
}

func (r *businessRepository) FindPublicBySlug(slug string) (*model.PublicBusinessRow, error) {
	logger.Debug("Finding public business by slug", map[string]interface{}{
		"slug": slug,
	})

	row, err := r.findPublic("slug", slug)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find public business", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return row, nil
}

func (r *businessRepository) distinctColumn(column string) ([]string, error) {
	var values []string
	if err := r.db.Model(&model.Business{}).
		Scopes(verifiedScope).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct(column).
		Order(column+" ASC").
		Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *businessRepository) DistinctCategories() ([]string, error) {
	categories, err := r.distinctColumn("business_reg_cat_type")
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *businessRepository) DistinctLGAs() ([]string, error) {
	lgas, err := r.distinctColumn("business_lga")
	if err != nil {
		logger.Error("Failed to list LGAs", err)
		return nil, err
	}
	return lgas, nil
}

func (r *businessRepository) Stats() (*DirectoryStats, error) {
	logger.Debug("Counting directory stats")

	var stats DirectoryStats
	if err := r.db.Model(&model.Business{}).
		Scopes(verifiedScope).
		Select("COUNT(*) AS business_count, " +
			"COUNT(DISTINCT business_lga) AS lga_count, " +
			"COUNT(DISTINCT business_ward) AS ward_count").
		Scan(&stats).Error; err != nil {
		logger.Error("Failed to count directory stats", err)
		return nil, err
	}
	return &stats, nil
}

func (r *businessRepository) ListSitemapEntries() ([]SitemapEntry, error) {
	var entries []SitemapEntry
	if err := r.db.Model(&model.Business{}).
		Scopes(verifiedScope).
		Select("slug, updated_at").
		Order("updated_at DESC").
		Scan(&entries).Error; err != nil {
		logger.Error("Failed to list sitemap entries", err)
		return nil, err
	}
	return entries, nil
}

func (r *businessRepository) List(filter AdminBusinessFilter) ([]model.Business, int64, error) {
	logger.Debug("Listing businesses for admin", map[string]interface{}{
		"search": filter.Search,
		"status": filter.Status,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})

	query := r.db.Model(&model.Business{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := containsPattern(s)
		query = query.Where(
			`(LOWER(business_name) LIKE ? ESCAPE '\' OR LOWER(business_reg_cat_type) LIKE ? ESCAPE '\')`,
			like, like,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count businesses", err)
		return nil, 0, err
	}

	var businesses []model.Business
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses", err)
		return nil, 0, err
	}

	return businesses, total, nil
}

func (r *businessRepository) FindByID(id string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("id = ?", id).First(&business).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find business", err, map[string]interface{}{
				"business_id": id,
			})
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name": business.Name,
		"lga":  business.LGA,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name": business.Name,
			"lga":  business.LGA,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"slug":        business.Slug,
	})
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	logger.Debug("Updating business in database", map[string]interface{}{
		"business_id": business.ID,
	})

	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) Delete(id string) error {
	logger.Debug("Deleting business from database", map[string]interface{}{
		"business_id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.Business{})
	if result.Error != nil {
		logger.Error("Failed to delete business from database", result.Error, map[string]interface{}{
			"business_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
