package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"github.com/kaduna-connect/directory-backend/pkg/redis"
	"gorm.io/gorm"
)

var ErrBusinessNotFound = errors.New("business not found")

const (
	cacheKeyStats      = "directory:stats"
	cacheKeyCategories = "directory:categories"
	cacheKeyLGAs       = "directory:lgas"

	directoryCacheTTL = time.Hour
)

// DirectoryCacheKeys are invalidated by every admin write.
var DirectoryCacheKeys = []string{cacheKeyStats, cacheKeyCategories, cacheKeyLGAs}

type SearchParams struct {
	Query      string
	LGA        string
	Categories []string
	Verified   *bool
	Page       int
	Limit      int

	UserAgent    string
	ForwardedFor string
}

type SearchResult struct {
	Businesses []model.PublicBusinessProfile `json:"businesses"`
	Total      int64                         `json:"total"`
	Page       int                           `json:"page"`
	TotalPages int                           `json:"total_pages"`
}

type DirectoryService interface {
	Search(params SearchParams) (*SearchResult, error)
	GetByID(id string) (*model.PublicBusinessProfile, error)
	GetBySlug(slug string) (*model.PublicBusinessProfile, error)
	Categories(ctx context.Context) ([]string, error)
	LGAs(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*repository.DirectoryStats, error)
	RefreshStats(ctx context.Context) (*repository.DirectoryStats, error)
	SitemapEntries() ([]repository.SitemapEntry, error)
}

type PageLimits struct {
	DefaultLimit int
	MaxLimit     int
}

type directoryService struct {
	repo         repository.BusinessRepository
	searchLogger SearchLogger
	cache        redis.Cache
	limits       PageLimits
	now          func() time.Time
}

func NewDirectoryService(
	repo repository.BusinessRepository,
	searchLogger SearchLogger,
	cache redis.Cache,
	limits PageLimits,
) DirectoryService {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = 12
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = 100
	}
	return &directoryService{
		repo:         repo,
		searchLogger: searchLogger,
		cache:        cache,
		limits:       limits,
		now:          time.Now,
	}
}

// clampPage keeps page at 1 or more and limit within [1, MaxLimit]; a
// non-positive limit means the default page size.
func (l PageLimits) clampPage(page, limit int) (int, int) {
	if limit < 1 {
		limit = l.DefaultLimit
	}
	if limit > l.MaxLimit {
		limit = l.MaxLimit
	}
	return boundPage(page, limit), limit
}

// boundPage keeps (page-1)*limit inside int so the row offset never wraps
// negative. limit must already be positive.
func boundPage(page, limit int) int {
	if page < 1 {
		return 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		return maxPage
	}
	return page
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *directoryService) Search(params SearchParams) (*SearchResult, error) {
	page, limit := s.limits.clampPage(params.Page, params.Limit)

	rows, total, err := s.repo.SearchPublic(repository.BusinessFilter{
		Query:      params.Query,
		LGA:        params.LGA,
		Categories: params.Categories,
		Verified:   params.Verified,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	s.searchLogger.Log(SearchEvent{
		Query:        params.Query,
		LGA:          params.LGA,
		Categories:   params.Categories,
		Verified:     params.Verified,
		ResultsCount: total,
		UserAgent:    params.UserAgent,
		ForwardedFor: params.ForwardedFor,
	})

	return &SearchResult{
		Businesses: TransformBusinesses(rows, s.now()),
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *directoryService) GetByID(id string) (*model.PublicBusinessProfile, error) {
	row, err := s.repo.FindPublicByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	profile := TransformBusiness(*row, s.now())
	return &profile, nil
}

func (s *directoryService) GetBySlug(slug string) (*model.PublicBusinessProfile, error) {
	row, err := s.repo.FindPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	profile := TransformBusiness(*row, s.now())
	return &profile, nil
}

// cached reads key from the cache, falling back to load and storing the result.
// Cache errors are logged and otherwise ignored.
func cached[T any](ctx context.Context, cache redis.Cache, key string, load func() (T, error)) (T, error) {
	var value T
	err := cache.Get(ctx, key, &value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		logger.Warn("Directory cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	value, err = load()
	if err != nil {
		return value, err
	}
	if err := cache.Set(ctx, key, value, directoryCacheTTL); err != nil {
		logger.Warn("Directory cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return value, nil
}

func (s *directoryService) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, s.cache, cacheKeyCategories, s.repo.DistinctCategories)
}

func (s *directoryService) LGAs(ctx context.Context) ([]string, error) {
	return cached(ctx, s.cache, cacheKeyLGAs, s.repo.DistinctLGAs)
}

func (s *directoryService) Stats(ctx context.Context) (*repository.DirectoryStats, error) {
	return cached(ctx, s.cache, cacheKeyStats, s.repo.Stats)
}

// RefreshStats recomputes the homepage stats and overwrites the cached copy.
func (s *directoryService) RefreshStats(ctx context.Context) (*repository.DirectoryStats, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKeyStats, stats, directoryCacheTTL); err != nil {
		logger.Warn("Directory cache write failed", map[string]interface{}{
			"key":   cacheKeyStats,
			"error": err.Error(),
		})
	}
	return stats, nil
}

func (s *directoryService) SitemapEntries() ([]repository.SitemapEntry, error) {
	return s.repo.ListSitemapEntries()
}
