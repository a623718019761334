package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type directoryFixture struct {
	db      *gorm.DB
	service *directoryService
	logs    *recordingSearchLogRepo
	cache   *memoryCache
}

func setupDirectoryService(t *testing.T) directoryFixture {
	testDB := setupServiceDB(t)
	logs := &recordingSearchLogRepo{}
	cache := newMemoryCache()

	svc := NewDirectoryService(
		repository.NewBusinessRepository(testDB),
		NewSearchLogger(logs, time.Second),
		cache,
		PageLimits{DefaultLimit: 12, MaxLimit: 100},
	).(*directoryService)
	svc.now = func() time.Time { return fixedNow }

	return directoryFixture{db: testDB, service: svc, logs: logs, cache: cache}
}

func TestDirectoryService_SearchPagination(t *testing.T) {
	f := setupDirectoryService(t)

	for i := 0; i < 13; i++ {
		insertBusiness(t, f.db, model.Business{
			Name:      fmt.Sprintf("Store %02d", i),
			Status:    model.BusinessStatusEligible,
			CreatedAt: fixedNow.Add(-time.Duration(i) * time.Hour),
		})
	}

	result, err := f.service.Search(SearchParams{Page: 1})
	require.NoError(t, err)
	assert.Len(t, result.Businesses, 12)
	assert.Equal(t, int64(13), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.TotalPages)

	result, err = f.service.Search(SearchParams{Page: 2})
	require.NoError(t, err)
	assert.Len(t, result.Businesses, 1)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, "Store 12", result.Businesses[0].Name)
}

func TestDirectoryService_SearchClampsPaging(t *testing.T) {
	f := setupDirectoryService(t)
	insertBusiness(t, f.db, model.Business{Name: "Only", Status: model.BusinessStatusEligible})

	result, err := f.service.Search(SearchParams{Page: -3, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Businesses, 1)
}

func TestDirectoryService_SearchHugePageReturnsEmptyWindow(t *testing.T) {
	f := setupDirectoryService(t)
	for i := 0; i < 3; i++ {
		insertBusiness(t, f.db, model.Business{
			Name:   fmt.Sprintf("Shop %d", i),
			Status: model.BusinessStatusEligible,
		})
	}

	for _, page := range []int{1000, 768614336404564652, math.MaxInt} {
		t.Run(fmt.Sprintf("page %d", page), func(t *testing.T) {
			result, err := f.service.Search(SearchParams{Page: page})
			require.NoError(t, err)
			assert.Empty(t, result.Businesses)
			assert.Equal(t, int64(3), result.Total)
			assert.Equal(t, 1, result.TotalPages)
		})
	}
}

func TestBoundPage(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"below one", -4, 10, 1},
		{"ordinary", 7, 10, 7},
		{"max int with limit one", math.MaxInt, 1, math.MaxInt},
		{"max int with limit twelve", math.MaxInt, 12, math.MaxInt / 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boundPage(tt.page, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, (got-1)*tt.limit, 0)
		})
	}
}

func TestDirectoryService_SearchExcludesUnverifiedEvenWhenVerifiedFalse(t *testing.T) {
	f := setupDirectoryService(t)
	insertBusiness(t, f.db, model.Business{Name: "Pending Place", Status: model.BusinessStatusPending})
	insertBusiness(t, f.db, model.Business{Name: "Rejected Place", Status: model.BusinessStatusRejected})

	verified := false
	result, err := f.service.Search(SearchParams{Query: "place", Verified: &verified})
	require.NoError(t, err)
	assert.Empty(t, result.Businesses)
	assert.Equal(t, int64(0), result.Total)
	assert.Equal(t, 0, result.TotalPages)
	assert.NotNil(t, result.Businesses)
}

func TestDirectoryService_SearchLogsFilteredSearches(t *testing.T) {
	f := setupDirectoryService(t)
	insertBusiness(t, f.db, model.Business{Name: "Bread House", Category: "Food & Beverage", Status: model.BusinessStatusEligible})

	_, err := f.service.Search(SearchParams{Query: "bread", UserAgent: "Mozilla", ForwardedFor: "1.2.3.4, 5.6.7.8"})
	require.NoError(t, err)
	_, err = f.service.Search(SearchParams{})
	require.NoError(t, err)
	f.service.searchLogger.Flush()

	entries := f.logs.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "bread", *entries[0].Query)
	assert.Equal(t, int64(1), entries[0].ResultsCount)
	assert.Equal(t, "1.2.3.4", entries[0].IPAddress)
	assert.Equal(t, "Mozilla", entries[0].UserAgent)
}

func TestDirectoryService_SearchSucceedsWhenLoggingFails(t *testing.T) {
	f := setupDirectoryService(t)
	f.logs.panics = true
	insertBusiness(t, f.db, model.Business{Name: "Resilient", Status: model.BusinessStatusEligible})

	result, err := f.service.Search(SearchParams{Query: "resilient"})
	require.NoError(t, err)
	assert.Len(t, result.Businesses, 1)
	f.service.searchLogger.Flush()
}

func TestDirectoryService_GetByIDAndSlug(t *testing.T) {
	f := setupDirectoryService(t)
	verified := insertBusiness(t, f.db, model.Business{Name: "Mama's Bakery", LGA: "Zaria", Status: model.BusinessStatusDisbursed})
	hidden := insertBusiness(t, f.db, model.Business{Name: "Hidden", Status: model.BusinessStatusPending})

	profile, err := f.service.GetBySlug("mamas-bakery-zaria")
	require.NoError(t, err)
	assert.Equal(t, verified.ID, profile.ID)
	assert.True(t, profile.Metadata.IsVerified)

	profile, err = f.service.GetByID(verified.ID)
	require.NoError(t, err)
	assert.Equal(t, "mamas-bakery-zaria", profile.Slug)

	_, err = f.service.GetByID(hidden.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
	_, err = f.service.GetBySlug("no-such-slug")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestDirectoryService_CachedLists(t *testing.T) {
	f := setupDirectoryService(t)
	ctx := context.Background()
	insertBusiness(t, f.db, model.Business{Name: "A", Category: "Retail", LGA: "Zaria", Status: model.BusinessStatusEligible})

	categories, err := f.service.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Retail"}, categories)
	assert.True(t, f.cache.has(cacheKeyCategories))

	// cached value survives new rows until invalidated
	insertBusiness(t, f.db, model.Business{Name: "B", Category: "Food", LGA: "Chikun", Status: model.BusinessStatusEligible})
	categories, err = f.service.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Retail"}, categories)

	require.NoError(t, f.cache.Delete(ctx, DirectoryCacheKeys...))
	categories, err = f.service.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Retail"}, categories)

	lgas, err := f.service.LGAs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chikun", "Zaria"}, lgas)
}

func TestDirectoryService_StatsAndRefresh(t *testing.T) {
	f := setupDirectoryService(t)
	ctx := context.Background()
	insertBusiness(t, f.db, model.Business{Name: "A", LGA: "Zaria", Status: model.BusinessStatusEligible})

	stats, err := f.service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.BusinessCount)

	insertBusiness(t, f.db, model.Business{Name: "B", LGA: "Kauru", Status: model.BusinessStatusEligible})
	stats, err = f.service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.BusinessCount, "served from cache")

	stats, err = f.service.RefreshStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.BusinessCount)
	assert.Equal(t, int64(2), stats.LGACount)

	stats, err = f.service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.BusinessCount)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 12))
	assert.Equal(t, 1, totalPages(12, 12))
	assert.Equal(t, 2, totalPages(13, 12))
}
