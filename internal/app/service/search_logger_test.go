package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSearchLogRepo struct {
	mu      sync.Mutex
	entries []*model.SearchLog
	err     error
	panics  bool
	delay   time.Duration
}

func (r *recordingSearchLogRepo) Create(ctx context.Context, entry *model.SearchLog) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.panics {
		panic("store exploded")
	}
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingSearchLogRepo) all() []*model.SearchLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.SearchLog(nil), r.entries...)
}

func TestClientIPFromForwardedFor(t *testing.T) {
	assert.Equal(t, "203.0.113.7", ClientIPFromForwardedFor("203.0.113.7, 10.0.0.1"))
	assert.Equal(t, "203.0.113.7", ClientIPFromForwardedFor("  203.0.113.7 "))
	assert.Equal(t, "unknown", ClientIPFromForwardedFor(""))
	assert.Equal(t, "unknown", ClientIPFromForwardedFor(" , 10.0.0.1"))
}

func TestSearchLogger_WritesEntry(t *testing.T) {
	repo := &recordingSearchLogRepo{}
	searchLogger := NewSearchLogger(repo, time.Second)

	verified := true
	searchLogger.Log(SearchEvent{
		Query:        " bread ",
		Categories:   []string{"Food", "Retail"},
		Verified:     &verified,
		ResultsCount: 4,
		ForwardedFor: "198.51.100.2, 10.0.0.1",
	})
	searchLogger.Flush()

	entries := repo.all()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "bread", *entry.Query)
	assert.Nil(t, entry.LGA)
	assert.Equal(t, "Food,Retail", *entry.Category)
	assert.True(t, *entry.Verified)
	assert.Equal(t, int64(4), entry.ResultsCount)
	assert.Equal(t, "unknown", entry.UserAgent)
	assert.Equal(t, "198.51.100.2", entry.IPAddress)
}

func TestSearchLogger_SkipsUnfilteredSearch(t *testing.T) {
	repo := &recordingSearchLogRepo{}
	searchLogger := NewSearchLogger(repo, time.Second)

	searchLogger.Log(SearchEvent{Query: "   ", ResultsCount: 10})
	searchLogger.Flush()

	assert.Empty(t, repo.all())
}

func TestSearchLogger_SwallowsFailures(t *testing.T) {
	tests := []struct {
		name string
		repo *recordingSearchLogRepo
	}{
		{name: "store error", repo: &recordingSearchLogRepo{err: errors.New("connection refused")}},
		{name: "panic", repo: &recordingSearchLogRepo{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searchLogger := NewSearchLogger(tt.repo, time.Second)
			assert.NotPanics(t, func() {
				searchLogger.Log(SearchEvent{LGA: "Zaria"})
				searchLogger.Flush()
			})
			assert.Empty(t, tt.repo.all())
		})
	}
}

func TestSearchLogger_DoesNotBlockCaller(t *testing.T) {
	repo := &recordingSearchLogRepo{delay: 200 * time.Millisecond}
	searchLogger := NewSearchLogger(repo, time.Second)

	start := time.Now()
	searchLogger.Log(SearchEvent{Query: "slow"})
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	searchLogger.Flush()
	assert.Len(t, repo.all(), 1)
}

func TestSearchLogger_PersistsToDatabase(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	searchLogger := NewSearchLogger(repository.NewSearchLogRepository(testDB), time.Second)
	searchLogger.Log(SearchEvent{Query: "tailor", LGA: "Zaria", ResultsCount: 2, UserAgent: "curl/8.0"})
	searchLogger.Flush()

	var entries []model.SearchLog
	require.NoError(t, testDB.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "tailor", *entries[0].Query)
	assert.Equal(t, "Zaria", *entries[0].LGA)
	assert.Equal(t, "curl/8.0", entries[0].UserAgent)
	assert.Equal(t, "unknown", entries[0].IPAddress)
}
