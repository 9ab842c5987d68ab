package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/parts"
	"brimis/workshop-intelligence/workshop-backend/internal/qc"
	"brimis/workshop-intelligence/workshop-backend/internal/reports"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Result is the outcome of checking a step's exit criteria.
type Result struct {
	CanProceed bool     `json:"can_proceed"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
}

// Narrow read-only views of the collaborator repositories. The rules consult
// these without ever writing, so they can be faked in tests.
type (
	// PhotoCounter counts photos recorded for a job at a given step.
	PhotoCounter interface {
		CountByJobAndStep(ctx context.Context, jobID uuid.UUID, step catalog.Step) (int, error)
	}

	// PartLister lists the parts documented for a job.
	PartLister interface {
		ListByJob(ctx context.Context, jobID uuid.UUID) ([]parts.Part, error)
	}

	// ReportGetter fetches a job's technical report; nil when none exists.
	ReportGetter interface {
		GetByJob(ctx context.Context, jobID uuid.UUID) (*reports.TechnicalReport, error)
	}

	// InspectionGetter fetches the most recent QC inspection; nil when none.
	InspectionGetter interface {
		LatestByJob(ctx context.Context, jobID uuid.UUID) (*qc.Inspection, error)
	}

	// CompletionGetter fetches the completion record for one (job, step)
	// pair; nil when the step has never been completed.
	CompletionGetter interface {
		GetCompletion(ctx context.Context, jobID uuid.UUID, step catalog.Step) (*jobs.StepCompletion, error)
	}
)

// Validator evaluates per-step exit criteria against collaborator data.
// Evaluation is read-only; missing related data is an unmet precondition,
// never a fault.
type Validator struct {
	photos      PhotoCounter
	parts       PartLister
	reports     ReportGetter
	completions CompletionGetter
	inspections InspectionGetter

	minStripPhotos int
}

// NewValidator creates a validator over the given read-only collaborators.
func NewValidator(
	photos PhotoCounter,
	parts PartLister,
	reports ReportGetter,
	completions CompletionGetter,
	inspections InspectionGetter,
) *Validator {
	return &Validator{
		photos:         photos,
		parts:          parts,
		reports:        reports,
		completions:    completions,
		inspections:    inspections,
		minStripPhotos: 1,
	}
}

// SetMinStripPhotos raises the photo count the Strip & Assess gate requires.
// Values below one are ignored.
func (v *Validator) SetMinStripPhotos(n int) {
	if n >= 1 {
		v.minStripPhotos = n
	}
}

// ExitCheck decides whether the job's current step can be left. A returned
// error means a collaborator read failed, not that a gate is unmet.
func (v *Validator) ExitCheck(ctx context.Context, job *jobs.Job) (*Result, error) {
	result := &Result{
		Errors:   []string{},
		Warnings: []string{},
	}

	switch job.CurrentStep {
	case catalog.StepReceiving:
		// No exit criteria; the job exists, receiving is done.

	case catalog.StepLogging:
		if job.HasHazmat && !job.HazmatCleaned {
			result.Errors = append(result.Errors,
				"Hazmat cleaning procedure must be completed before proceeding")
		}

	case catalog.StepStripAssess:
		count, err := v.photos.CountByJobAndStep(ctx, job.ID, catalog.StepStripAssess)
		if err != nil {
			return nil, fmt.Errorf("failed to count strip photos: %w", err)
		}
		if count < v.minStripPhotos {
			result.Errors = append(result.Errors,
				"At least one photo must be uploaded during Strip & Assess")
		}

	case catalog.StepDocumentFaults:
		jobParts, err := v.parts.ListByJob(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list parts: %w", err)
		}
		if len(jobParts) == 0 {
			result.Errors = append(result.Errors,
				"At least one part must be documented")
		}

	case catalog.StepTechnicalReport:
		report, err := v.reports.GetByJob(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get technical report: %w", err)
		}
		if report == nil || report.Status != reports.StatusFinal {
			result.Errors = append(result.Errors,
				"Technical report must be finalized before sending to client")
		}

	case catalog.StepAwaitPO:
		if !job.POReceived() {
			result.Errors = append(result.Errors,
				"Purchase Order must be received before starting repairs",
				"This is a hard stop - equipment cannot proceed until client approves")
		}

	case catalog.StepRepair:
		completion, err := v.completions.GetCompletion(ctx, job.ID, catalog.StepRepair)
		if err != nil {
			return nil, fmt.Errorf("failed to get repair completion: %w", err)
		}
		if completion == nil || len(completion.Measurements) == 0 {
			result.Errors = append(result.Errors,
				"Repair measurements must be recorded")
		}

	case catalog.StepReassemble:
		// Reassembly is verified by the function test that follows.

	case catalog.StepFunctionTest:
		completion, err := v.completions.GetCompletion(ctx, job.ID, catalog.StepFunctionTest)
		if err != nil {
			return nil, fmt.Errorf("failed to get function test completion: %w", err)
		}
		if completion == nil || len(completion.Checklist) == 0 {
			result.Errors = append(result.Errors,
				"Function test checklist must be completed")
		}

	case catalog.StepQCInspection:
		inspection, err := v.inspections.LatestByJob(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest QC inspection: %w", err)
		}
		switch {
		case inspection == nil:
			result.Errors = append(result.Errors,
				"QC Inspection must be completed")
		case inspection.OverallStatus == qc.StatusFailed:
			result.Errors = append(result.Errors,
				"Equipment failed QC inspection and cannot be dispatched")
		case inspection.OverallStatus == qc.StatusConditional:
			result.Warnings = append(result.Warnings,
				"Equipment has conditional QC approval - verify conditions are met")
		}

	case catalog.StepDispatch:
		// Terminal step; there is nothing after it to gate.

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, job.CurrentStep)
	}

	result.CanProceed = len(result.Errors) == 0
	return result, nil
}
