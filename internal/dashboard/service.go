package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Summary is the aggregate view the workshop dashboard renders.
type Summary struct {
	Stats       *jobs.JobStats         `json:"stats"`
	ByStatus    map[catalog.Status]int `json:"by_status"`
	RefreshedAt time.Time              `json:"refreshed_at"`
}

// JobReader is the slice of the job repository the dashboard aggregates
// over. It never writes.
type JobReader interface {
	Stats(ctx context.Context) (*jobs.JobStats, error)
	CountByStatus(ctx context.Context) (map[catalog.Status]int, error)
	List(ctx context.Context, filters jobs.JobFilters) ([]jobs.Job, error)
}

// Service computes dashboard aggregates. A snapshot is kept in memory and
// refreshed on a schedule so the summary endpoint stays cheap under load;
// callers that need live numbers can force a refresh.
type Service struct {
	jobsRepo JobReader
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot *Summary
}

// NewService creates a new dashboard service.
func NewService(jobsRepo JobReader, logger *zap.Logger) *Service {
	return &Service{
		jobsRepo: jobsRepo,
		logger:   logger,
	}
}

// Summary returns the cached snapshot, computing one on first use.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the aggregate snapshot from storage.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	stats, err := s.jobsRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.jobsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &Summary{
		Stats:       stats,
		ByStatus:    byStatus,
		RefreshedAt: time.Now(),
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	return snapshot, nil
}
