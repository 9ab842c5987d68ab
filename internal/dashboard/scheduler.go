package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher keeps the dashboard snapshot warm on a cron schedule.
type Refresher struct {
	cron    *cron.Cron
	service *Service
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewRefresher creates a refresher for the given service.
func NewRefresher(service *Service, logger *zap.Logger) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

// Start registers the refresh job and starts the scheduler. The schedule
// is a standard cron expression, e.g. "*/5 * * * *".
func (r *Refresher) Start(schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("dashboard refresher already running")
	}

	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := r.service.Refresh(ctx); err != nil {
			r.logger.Error("Dashboard snapshot refresh failed", zap.Error(err))
			return
		}
		r.logger.Debug("Dashboard snapshot refreshed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dashboard refresh: %w", err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("Dashboard refresher started", zap.String("schedule", schedule))
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	<-r.cron.Stop().Done()
	r.running = false
	r.logger.Info("Dashboard refresher stopped")
}
