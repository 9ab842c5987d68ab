package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Service provides business logic for job management.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new jobs service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateJobRequest carries the fields logged at receiving.
type CreateJobRequest struct {
	ClientID             uuid.UUID    `json:"client_id" binding:"required"`
	EquipmentType        string       `json:"equipment_type" binding:"required"`
	SerialNumber         string       `json:"serial_number" binding:"required"`
	Manufacturer         *string      `json:"manufacturer"`
	Model                *string      `json:"model"`
	ModelNumber          *string      `json:"model_number"`
	HasHazmat            bool         `json:"has_hazmat"`
	HazmatLevel          *HazmatLevel `json:"hazmat_level"`
	HazmatNotes          *string      `json:"hazmat_notes"`
	ReceivingNotes       *string      `json:"receiving_notes"`
	AssignedTechnicianID *uuid.UUID   `json:"assigned_technician_id"`
	TargetCompletionDate *time.Time   `json:"target_completion_date"`
}

// UpdateJobRequest carries explicit corrections to equipment descriptors
// and scheduling fields. Nil fields are left untouched.
type UpdateJobRequest struct {
	EquipmentType        *string    `json:"equipment_type"`
	SerialNumber         *string    `json:"serial_number"`
	Manufacturer         *string    `json:"manufacturer"`
	Model                *string    `json:"model"`
	ModelNumber          *string    `json:"model_number"`
	ReceivingNotes       *string    `json:"receiving_notes"`
	TargetCompletionDate *time.Time `json:"target_completion_date"`
}

// UpdateHazmatRequest records the hazmat assessment and, once cleaning is
// done, who performed it.
type UpdateHazmatRequest struct {
	HasHazmat     bool         `json:"has_hazmat"`
	HazmatLevel   *HazmatLevel `json:"hazmat_level"`
	HazmatNotes   *string      `json:"hazmat_notes"`
	HazmatCleaned bool         `json:"hazmat_cleaned"`
	CleanedBy     *uuid.UUID   `json:"cleaned_by"`
}

// CreateJob registers a new piece of equipment and issues the next
// sequential job number for the current year.
func (s *Service) CreateJob(ctx context.Context, req *CreateJobRequest) (*Job, error) {
	now := time.Now()

	jobNumber, err := s.repo.NextJobNumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate job number: %w", err)
	}

	job := &Job{
		ID:                   uuid.New(),
		JobNumber:            jobNumber,
		ClientID:             req.ClientID,
		EquipmentType:        req.EquipmentType,
		SerialNumber:         req.SerialNumber,
		Manufacturer:         req.Manufacturer,
		Model:                req.Model,
		ModelNumber:          req.ModelNumber,
		CurrentStep:          catalog.First(),
		Status:               catalog.StatusForStep(catalog.First()),
		HasHazmat:            req.HasHazmat,
		HazmatLevel:          req.HazmatLevel,
		HazmatNotes:          req.HazmatNotes,
		ReceivingNotes:       req.ReceivingNotes,
		AssignedTechnicianID: req.AssignedTechnicianID,
		TargetCompletionDate: req.TargetCompletionDate,
		ReceivedAt:           now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job created",
		zap.String("job_id", job.ID.String()),
		zap.String("job_number", job.JobNumber),
		zap.Bool("has_hazmat", job.HasHazmat))

	return job, nil
}

// GetJob retrieves a job by ID.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.GetByID(ctx, id)
}

// ListJobs returns jobs matching the filters.
func (s *Service) ListJobs(ctx context.Context, filters JobFilters) ([]Job, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}
	return s.repo.List(ctx, filters)
}

// UpdateJob applies explicit edits to a job's descriptors.
func (s *Service) UpdateJob(ctx context.Context, id uuid.UUID, req *UpdateJobRequest) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EquipmentType != nil {
		job.EquipmentType = *req.EquipmentType
	}
	if req.SerialNumber != nil {
		job.SerialNumber = *req.SerialNumber
	}
	if req.Manufacturer != nil {
		job.Manufacturer = req.Manufacturer
	}
	if req.Model != nil {
		job.Model = req.Model
	}
	if req.ModelNumber != nil {
		job.ModelNumber = req.ModelNumber
	}
	if req.ReceivingNotes != nil {
		job.ReceivingNotes = req.ReceivingNotes
	}
	if req.TargetCompletionDate != nil {
		job.TargetCompletionDate = req.TargetCompletionDate
	}
	job.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob removes a job and, via cascade, everything it owns.
func (s *Service) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Job deleted", zap.String("job_id", id.String()))
	return nil
}

// AssignTechnician sets or replaces the assigned technician.
func (s *Service) AssignTechnician(ctx context.Context, id, technicianID uuid.UUID) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job.AssignedTechnicianID = &technicianID
	job.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Technician assigned",
		zap.String("job_id", id.String()),
		zap.String("technician_id", technicianID.String()))

	return job, nil
}

// UpdateHazmat records the hazmat assessment. When the cleaned flag flips on,
// the cleaner and cleaning time are stamped; the logging gate consults these.
func (s *Service) UpdateHazmat(ctx context.Context, id uuid.UUID, req *UpdateHazmatRequest) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job.HasHazmat = req.HasHazmat
	job.HazmatLevel = req.HazmatLevel
	if req.HazmatNotes != nil {
		job.HazmatNotes = req.HazmatNotes
	}
	if req.HazmatCleaned && !job.HazmatCleaned {
		now := time.Now()
		job.HazmatCleanedAt = &now
		job.HazmatCleanedBy = req.CleanedBy
	}
	job.HazmatCleaned = req.HazmatCleaned
	job.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Hazmat status updated",
		zap.String("job_id", id.String()),
		zap.Bool("has_hazmat", job.HasHazmat),
		zap.Bool("cleaned", job.HazmatCleaned))

	return job, nil
}

// UpdateQuote records the quoted amount and stamps the quote as sent.
func (s *Service) UpdateQuote(ctx context.Context, id uuid.UUID, amount float64) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.QuoteAmount = &amount
	job.QuoteSentAt = &now
	job.UpdatedAt = now

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// RecordPO records receipt of the client's purchase order. This satisfies
// the Await-PO gate; the job still advances through the engine.
func (s *Service) RecordPO(ctx context.Context, id uuid.UUID, poNumber string) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.PONumber = &poNumber
	job.POReceivedAt = &now
	job.QuoteApprovedAt = &now
	job.UpdatedAt = now

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order recorded",
		zap.String("job_id", id.String()),
		zap.String("po_number", poNumber))

	return job, nil
}

// CompleteDispatch closes out a job sitting at the terminal step: it records
// the dispatch completion, stamps the actual completion date and marks the
// job dispatched. Advancing past dispatch is otherwise a no-op failure.
func (s *Service) CompleteDispatch(ctx context.Context, id, actorID uuid.UUID, notes *string) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.CurrentStep != catalog.StepDispatch {
		return nil, fmt.Errorf("job %s is at %s, not at dispatch", job.JobNumber, job.CurrentStep)
	}

	now := time.Now()
	completion := &StepCompletion{
		ID:          uuid.New(),
		JobID:       id,
		Step:        catalog.StepDispatch,
		CompletedAt: now,
		CompletedBy: actorID,
		Notes:       notes,
	}
	if err := s.repo.UpsertCompletion(ctx, completion); err != nil {
		return nil, err
	}

	job.Status = catalog.StatusDispatched
	job.ActualCompletionDate = &now
	job.UpdatedAt = now
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job dispatched",
		zap.String("job_id", id.String()),
		zap.String("job_number", job.JobNumber))

	return job, nil
}

// Stats returns the dashboard roll-up.
func (s *Service) Stats(ctx context.Context) (*JobStats, error) {
	return s.repo.Stats(ctx)
}
