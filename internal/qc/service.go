package qc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
)

// Service records QC inspection outcomes. Submitting an inspection does
// not move the job; the workflow engine consults the latest record when
// the job tries to leave the QC step.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new QC service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SubmitRequest carries one inspection attempt.
type SubmitRequest struct {
	InspectorID uuid.UUID `json:"inspector_id" binding:"required"`

	Measurements jobs.MeasurementMap `json:"measurements"`

	VisualInspectionPassed bool `json:"visual_inspection_passed"`
	FunctionTestPassed     bool `json:"function_test_passed"`
	LeakTestPassed         bool `json:"leak_test_passed"`
	DocumentationComplete  bool `json:"documentation_complete"`

	OverallStatus OverallStatus `json:"overall_status" binding:"required,oneof=passed failed conditional"`
	Notes         *string       `json:"notes"`
}

// Submit records an inspection attempt. Failed checks are collected into
// the inspection's failed items list.
func (s *Service) Submit(ctx context.Context, jobID uuid.UUID, req *SubmitRequest) (*Inspection, error) {
	now := time.Now()
	inspection := &Inspection{
		ID:                     uuid.New(),
		JobID:                  jobID,
		InspectorID:            req.InspectorID,
		Measurements:           req.Measurements,
		VisualInspectionPassed: req.VisualInspectionPassed,
		FunctionTestPassed:     req.FunctionTestPassed,
		LeakTestPassed:         req.LeakTestPassed,
		DocumentationComplete:  req.DocumentationComplete,
		OverallStatus:          req.OverallStatus,
		Notes:                  req.Notes,
		FailedItems:            failedItems(req),
		InspectedAt:            now,
		CreatedAt:              now,
	}

	if err := s.repo.Create(ctx, inspection); err != nil {
		return nil, err
	}

	s.logger.Info("QC inspection recorded",
		zap.String("job_id", jobID.String()),
		zap.String("overall_status", string(inspection.OverallStatus)))

	return inspection, nil
}

func failedItems(req *SubmitRequest) []string {
	var items []string
	if !req.VisualInspectionPassed {
		items = append(items, "visual_inspection")
	}
	if !req.FunctionTestPassed {
		items = append(items, "function_test")
	}
	if !req.LeakTestPassed {
		items = append(items, "leak_test")
	}
	if !req.DocumentationComplete {
		items = append(items, "documentation")
	}
	return items
}

// Latest returns the most recent inspection for the job, nil when the job
// was never inspected.
func (s *Service) Latest(ctx context.Context, jobID uuid.UUID) (*Inspection, error) {
	return s.repo.LatestByJob(ctx, jobID)
}

// History returns all inspection attempts for the job, newest first.
func (s *Service) History(ctx context.Context, jobID uuid.UUID) ([]Inspection, error) {
	return s.repo.ListByJob(ctx, jobID)
}
