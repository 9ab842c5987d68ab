package qc

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
)

// OverallStatus is the outcome of one inspection attempt.
type OverallStatus string

const (
	StatusPassed      OverallStatus = "passed"
	StatusFailed      OverallStatus = "failed"
	StatusConditional OverallStatus = "conditional"
)

// Inspection is one append-only QC inspection attempt. The QC gate consults
// the most recent inspection for the job.
type Inspection struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	JobID       uuid.UUID           `json:"job_id" db:"job_id"`
	InspectorID uuid.UUID           `json:"inspector_id" db:"inspector_id"`

	Measurements jobs.MeasurementMap `json:"measurements" db:"measurements"`

	VisualInspectionPassed bool `json:"visual_inspection_passed" db:"visual_inspection_passed"`
	FunctionTestPassed     bool `json:"function_test_passed" db:"function_test_passed"`
	LeakTestPassed         bool `json:"leak_test_passed" db:"leak_test_passed"`
	DocumentationComplete  bool `json:"documentation_complete" db:"documentation_complete"`

	OverallStatus OverallStatus  `json:"overall_status" db:"overall_status"`
	Notes         *string        `json:"notes,omitempty" db:"notes"`
	FailedItems   pq.StringArray `json:"failed_items" db:"failed_items"`

	InspectedAt time.Time `json:"inspected_at" db:"inspected_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
