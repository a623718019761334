package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
)

const unknownClient = "unknown"

// SearchEvent describes one public search. UserAgent and ForwardedFor are the
// raw request header values.
type SearchEvent struct {
	Query        string
	LGA          string
	Categories   []string
	Verified     *bool
	ResultsCount int64
	UserAgent    string
	ForwardedFor string
}

// HasFilters reports whether the search narrowed anything. Unfiltered browsing
// is not logged.
func (e SearchEvent) HasFilters() bool {
	return strings.TrimSpace(e.Query) != "" || e.LGA != "" || len(e.Categories) > 0
}

// SearchLogger records searches without ever delaying or failing the caller.
type SearchLogger interface {
	Log(event SearchEvent)
	// Flush blocks until every dispatched write has finished.
	Flush()
}

type searchLogger struct {
	repo    repository.SearchLogRepository
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewSearchLogger(repo repository.SearchLogRepository, timeout time.Duration) SearchLogger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &searchLogger{repo: repo, timeout: timeout}
}

// ClientIPFromForwardedFor returns the first address of an X-Forwarded-For
// header, or "unknown".
func ClientIPFromForwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	return unknownClient
}

func buildSearchLog(event SearchEvent) *model.SearchLog {
	entry := &model.SearchLog{
		Verified:     event.Verified,
		ResultsCount: event.ResultsCount,
		UserAgent:    strings.TrimSpace(event.UserAgent),
		IPAddress:    ClientIPFromForwardedFor(event.ForwardedFor),
	}
	if entry.UserAgent == "" {
		entry.UserAgent = unknownClient
	}
	if q := strings.TrimSpace(event.Query); q != "" {
		entry.Query = &q
	}
	if event.LGA != "" {
		lga := event.LGA
		entry.LGA = &lga
	}
	if len(event.Categories) > 0 {
		category := strings.Join(event.Categories, ",")
		entry.Category = &category
	}
	return entry
}

func (l *searchLogger) Log(event SearchEvent) {
	if !event.HasFilters() {
		return
	}
	entry := buildSearchLog(event)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Search log write panicked", fmt.Errorf("panic: %v", r))
			}
		}()

		// detached from the request so a finished response cannot cancel the write
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := l.repo.Create(ctx, entry); err != nil {
			logger.Warn("Failed to write search log", map[string]interface{}{
				"error": err.Error(),
				"query": event.Query,
				"lga":   event.LGA,
			})
		}
	}()
}

func (l *searchLogger) Flush() {
	l.wg.Wait()
}
