package scheduler

import (
	"context"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	DefaultStatsRefreshSpec = "@every 1h"
	statsRefreshTimeout     = 30 * time.Second
)

type StatsRefresher interface {
	RefreshStats(ctx context.Context) (*repository.DirectoryStats, error)
}

// StatsScheduler keeps the cached directory stats warm.
type StatsScheduler struct {
	cron      *cron.Cron
	spec      string
	refresher StatsRefresher
}

func NewStatsScheduler(refresher StatsRefresher, spec string) *StatsScheduler {
	if spec == "" {
		spec = DefaultStatsRefreshSpec
	}
	return &StatsScheduler{
		cron:      cron.New(),
		spec:      spec,
		refresher: refresher,
	}
}

// Start registers the refresh job and warms the cache once immediately.
func (s *StatsScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for stats refresh", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Stats scheduler started", map[string]interface{}{
		"spec": s.spec,
	})

	go s.RunOnce()
	return nil
}

func (s *StatsScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), statsRefreshTimeout)
	defer cancel()

	stats, err := s.refresher.RefreshStats(ctx)
	if err != nil {
		logger.Error("Failed to refresh directory stats", err)
		return
	}

	logger.Info("Directory stats refreshed", map[string]interface{}{
		"business_count": stats.BusinessCount,
		"lga_count":      stats.LGACount,
		"ward_count":     stats.WardCount,
	})
}

// Stop waits for a running refresh to finish.
func (s *StatsScheduler) Stop() {
	logger.Info("Stopping stats scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Stats scheduler stopped")
}
