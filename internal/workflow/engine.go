package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// JobStore is the slice of the job repository the engine writes through.
type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*jobs.Job, error)
	UpdateStepCAS(ctx context.Context, id uuid.UUID, from, to catalog.Step, status catalog.Status) (*jobs.Job, error)
}

// CompletionStore persists step-completion records.
type CompletionStore interface {
	UpsertCompletion(ctx context.Context, completion *jobs.StepCompletion) error
	ListCompletions(ctx context.Context, jobID uuid.UUID) ([]jobs.StepCompletion, error)
}

// Engine is the transition orchestrator for the 11-step process. It holds no
// per-job state; every call reads fresh data and writes through the stores.
type Engine struct {
	jobs        JobStore
	completions CompletionStore
	validator   *Validator
	logger      *zap.Logger
}

// NewEngine creates a workflow engine.
func NewEngine(jobStore JobStore, completions CompletionStore, validator *Validator, logger *zap.Logger) *Engine {
	return &Engine{
		jobs:        jobStore,
		completions: completions,
		validator:   validator,
		logger:      logger,
	}
}

// AdvanceResult reports a successful transition.
type AdvanceResult struct {
	Job           *jobs.Job    `json:"job"`
	CompletedStep catalog.Step `json:"completed_step"`
	NextStep      catalog.Step `json:"next_step,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
}

// Advance moves a job to its current step's single defined successor. The
// step being left gets its completion record upserted first; the job row is
// then moved with a compare-and-swap on the current step, so two concurrent
// advances cannot both win. The completion upsert is idempotent, which keeps
// a crash between the two writes retriable.
func (e *Engine) Advance(ctx context.Context, jobID, actorID uuid.UUID, notes *string) (*AdvanceResult, error) {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	cfg, ok := catalog.ByID(job.CurrentStep)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, job.CurrentStep)
	}
	if cfg.NextStep == "" {
		return nil, ErrTerminalStep
	}

	check, err := e.validator.ExitCheck(ctx, job)
	if err != nil {
		return nil, err
	}
	if !check.CanProceed {
		return nil, &ValidationError{Reasons: check.Errors, Warnings: check.Warnings}
	}

	completion := &jobs.StepCompletion{
		ID:          uuid.New(),
		JobID:       jobID,
		Step:        cfg.ID,
		CompletedAt: time.Now(),
		CompletedBy: actorID,
		Notes:       notes,
	}
	if err := e.completions.UpsertCompletion(ctx, completion); err != nil {
		return nil, err
	}

	nextStatus := catalog.StatusForStep(cfg.NextStep)
	updated, err := e.jobs.UpdateStepCAS(ctx, jobID, cfg.ID, cfg.NextStep, nextStatus)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job advanced",
		zap.String("job_id", jobID.String()),
		zap.String("job_number", updated.JobNumber),
		zap.String("completed_step", cfg.ID.String()),
		zap.String("next_step", cfg.NextStep.String()),
		zap.String("actor_id", actorID.String()))

	return &AdvanceResult{
		Job:           updated,
		CompletedStep: cfg.ID,
		NextStep:      cfg.NextStep,
		Warnings:      check.Warnings,
	}, nil
}

// CanAccessStep reports whether targetStep may be opened from currentStep:
// never more than one step ahead, and backward only onto steps that allow
// returning. Pure; used to gate navigation independently of Advance.
func CanAccessStep(currentStep, targetStep catalog.Step) bool {
	current, ok := catalog.ByID(currentStep)
	if !ok {
		return false
	}
	target, ok := catalog.ByID(targetStep)
	if !ok {
		return false
	}

	if target.Number > current.Number+1 {
		return false
	}
	if target.Number < current.Number && !target.CanGoBack {
		return false
	}
	return true
}

// RecordCompletion upserts step data (notes, measurements, checklist) for the
// current step or an accessible earlier step, without advancing the job. The
// Repair and Function-Test gates read the data recorded here.
func (e *Engine) RecordCompletion(
	ctx context.Context,
	jobID uuid.UUID,
	step catalog.Step,
	actorID uuid.UUID,
	notes *string,
	measurements jobs.MeasurementMap,
	checklist jobs.ChecklistMap,
) (*jobs.StepCompletion, error) {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !step.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, step)
	}
	if step.Number() > job.CurrentStep.Number() || !CanAccessStep(job.CurrentStep, step) {
		return nil, ErrStepNotAccessible
	}

	completion := &jobs.StepCompletion{
		ID:           uuid.New(),
		JobID:        jobID,
		Step:         step,
		CompletedAt:  time.Now(),
		CompletedBy:  actorID,
		Notes:        notes,
		Measurements: measurements,
		Checklist:    checklist,
	}
	if err := e.completions.UpsertCompletion(ctx, completion); err != nil {
		return nil, err
	}
	return completion, nil
}

// MoveToStep relocates a job onto an accessible step, for revisiting earlier
// work. Forward movement still only happens through Advance; backward moves
// are limited to steps flagged as allowing return.
func (e *Engine) MoveToStep(ctx context.Context, jobID uuid.UUID, target catalog.Step, actorID uuid.UUID) (*jobs.Job, error) {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, target)
	}
	if target == job.CurrentStep {
		return job, nil
	}
	if target.Number() > job.CurrentStep.Number() || !CanAccessStep(job.CurrentStep, target) {
		return nil, ErrStepNotAccessible
	}

	updated, err := e.jobs.UpdateStepCAS(ctx, jobID, job.CurrentStep, target, catalog.StatusForStep(target))
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job moved back",
		zap.String("job_id", jobID.String()),
		zap.String("from", job.CurrentStep.String()),
		zap.String("to", target.String()),
		zap.String("actor_id", actorID.String()))

	return updated, nil
}

// StepSummary is one catalog entry annotated with the job's progress.
type StepSummary struct {
	catalog.Config
	Completed  bool                 `json:"completed"`
	Current    bool                 `json:"current"`
	Locked     bool                 `json:"locked"`
	Completion *jobs.StepCompletion `json:"completion,omitempty"`
}

// ProgressSummary is the full catalog annotated for one job.
type ProgressSummary struct {
	CurrentStep    catalog.Step   `json:"current_step"`
	Status         catalog.Status `json:"status"`
	Steps          []StepSummary  `json:"steps"`
	Progress       int            `json:"progress"`
	CompletedCount int            `json:"completed_count"`
	TotalSteps     int            `json:"total_steps"`
}

// StepsSummary returns every step with its completion state for one job.
// A fresh job reports all steps incomplete.
func (e *Engine) StepsSummary(ctx context.Context, jobID uuid.UUID) (*ProgressSummary, error) {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	completions, err := e.completions.ListCompletions(ctx, jobID)
	if err != nil {
		return nil, err
	}

	byStep := make(map[catalog.Step]*jobs.StepCompletion, len(completions))
	for i := range completions {
		byStep[completions[i].Step] = &completions[i]
	}

	currentNumber := job.CurrentStep.Number()
	steps := make([]StepSummary, 0, catalog.TotalSteps)
	for _, cfg := range catalog.Ordered() {
		completion := byStep[cfg.ID]
		steps = append(steps, StepSummary{
			Config:     cfg,
			Completed:  completion != nil,
			Current:    cfg.ID == job.CurrentStep,
			Locked:     cfg.Number > currentNumber && completion == nil,
			Completion: completion,
		})
	}

	completed := len(byStep)
	return &ProgressSummary{
		CurrentStep:    job.CurrentStep,
		Status:         job.Status,
		Steps:          steps,
		Progress:       int(float64(completed)/float64(catalog.TotalSteps)*100 + 0.5),
		CompletedCount: completed,
		TotalSteps:     catalog.TotalSteps,
	}, nil
}

// IsRepairUnlocked reports whether repair work may start: past the PO gate,
// or sitting at it with the purchase order on record.
func (e *Engine) IsRepairUnlocked(ctx context.Context, jobID uuid.UUID) (bool, error) {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return false, err
	}

	number := job.CurrentStep.Number()
	switch {
	case number > catalog.StepAwaitPO.Number():
		return true, nil
	case number == catalog.StepAwaitPO.Number():
		return job.POReceived(), nil
	default:
		return false, nil
	}
}
