package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/parts"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// JobStore is the slice of the job repository the report lifecycle writes
// through when a sent report stamps the job's quote state.
type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*jobs.Job, error)
	Update(ctx context.Context, job *jobs.Job) error
}

// PartLister provides the parts list rendered into the report PDF.
type PartLister interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]parts.Part, error)
}

// Service manages the technical report lifecycle: draft -> final -> sent.
// Drafting content (including AI drafts) happens elsewhere; this service
// stores what it is handed and controls the state changes the workflow's
// Technical-Report gate depends on.
type Service struct {
	repo     Repository
	jobStore JobStore
	parts    PartLister
	logger   *zap.Logger
}

// NewService creates a new reports service.
func NewService(repo Repository, jobStore JobStore, partsLister PartLister, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		jobStore: jobStore,
		parts:    partsLister,
		logger:   logger,
	}
}

// SaveDraftRequest carries report content. Nil fields leave existing
// content untouched on resave.
type SaveDraftRequest struct {
	ExecutiveSummary *string `json:"executive_summary"`
	Findings         *string `json:"findings"`
	Recommendations  *string `json:"recommendations"`
	AIGenerated      bool    `json:"ai_generated"`
	AIDraft          *string `json:"ai_draft"`
}

// SaveDraft creates or updates the job's report. A sent report can no
// longer be edited.
func (s *Service) SaveDraft(ctx context.Context, jobID uuid.UUID, req *SaveDraftRequest) (*TechnicalReport, error) {
	report, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if report == nil {
		report = &TechnicalReport{
			ID:        uuid.New(),
			JobID:     jobID,
			Status:    StatusDraft,
			CreatedAt: now,
		}
		applyDraft(report, req)
		report.UpdatedAt = now
		if err := s.repo.Create(ctx, report); err != nil {
			return nil, err
		}
		return report, nil
	}

	if report.Status == StatusSent {
		return nil, fmt.Errorf("%w: report has been sent and can no longer be edited", ErrInvalidState)
	}

	applyDraft(report, req)
	report.Status = StatusDraft
	report.UpdatedAt = now
	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func applyDraft(report *TechnicalReport, req *SaveDraftRequest) {
	if req.ExecutiveSummary != nil {
		report.ExecutiveSummary = req.ExecutiveSummary
	}
	if req.Findings != nil {
		report.Findings = req.Findings
	}
	if req.Recommendations != nil {
		report.Recommendations = req.Recommendations
	}
	report.AIGenerated = req.AIGenerated
	if req.AIDraft != nil {
		report.AIDraft = req.AIDraft
	}
}

// GetByJob returns the job's report; ErrNotFound when none exists.
func (s *Service) GetByJob(ctx context.Context, jobID uuid.UUID) (*TechnicalReport, error) {
	report, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	return report, nil
}

// Finalize moves a draft report to final, which satisfies the
// Technical-Report gate.
func (s *Service) Finalize(ctx context.Context, jobID uuid.UUID) (*TechnicalReport, error) {
	report, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if report.Status != StatusDraft {
		return nil, fmt.Errorf("%w: report is %s, only a draft can be finalized", ErrInvalidState, report.Status)
	}

	report.Status = StatusFinal
	report.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Technical report finalized",
		zap.String("job_id", jobID.String()),
		zap.String("report_id", report.ID.String()))

	return report, nil
}

// Send marks a final report as sent to the client and stamps the job's
// quote as out for approval.
func (s *Service) Send(ctx context.Context, jobID uuid.UUID) (*TechnicalReport, error) {
	report, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if report.Status != StatusFinal {
		return nil, fmt.Errorf("%w: report is %s, only a final report can be sent", ErrInvalidState, report.Status)
	}

	now := time.Now()
	report.Status = StatusSent
	report.SentAt = &now
	report.UpdatedAt = now
	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}

	job, err := s.jobStore.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.QuoteSentAt = &now
	job.Status = catalog.StatusAwaitingQuoteApproval
	job.UpdatedAt = now
	if err := s.jobStore.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Technical report sent",
		zap.String("job_id", jobID.String()),
		zap.String("report_id", report.ID.String()))

	return report, nil
}

// RenderPDF renders the report with the job header and parts list.
func (s *Service) RenderPDF(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	report, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}

	job, err := s.jobStore.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	jobParts, err := s.parts.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return renderReportPDF(job, report, jobParts)
}
