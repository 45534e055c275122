package scheduler

import (
	"cardgame_backend/internal/service/logger"
	"context"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"os"
	"time"
)

const (
	DefaultRefreshInterval = 5 * time.Minute
	refreshTimeout         = 30 * time.Second
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Scheduler struct {
	cron gocron.Scheduler
}

// RefreshIntervalFromEnv reads CATALOG_REFRESH_INTERVAL as a Go duration.
func RefreshIntervalFromEnv() time.Duration {
	raw := os.Getenv("CATALOG_REFRESH_INTERVAL")
	if raw == "" {
		return DefaultRefreshInterval
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		logger.AccessLogger.Warn("Invalid CATALOG_REFRESH_INTERVAL, using default", zap.String("value", raw))
		return DefaultRefreshInterval
	}
	return interval
}

// Start refreshes the catalog right away and then every interval. A run
// that overlaps the previous one is skipped.
func Start(catalog Refresher, interval time.Duration) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if err := catalog.Refresh(ctx); err != nil {
				logger.AccessLogger.Error("Catalog refresh failed", zap.Error(err))
			}
		}),
		gocron.WithName("catalog-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = cron.Shutdown()
		return nil, err
	}

	cron.Start()
	logger.AccessLogger.Info("Scheduler started", zap.Duration("catalog_refresh_interval", interval))
	return &Scheduler{cron: cron}, nil
}

func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}
