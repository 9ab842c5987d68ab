package jobs

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// HazmatLevel grades the severity of hazardous material contamination.
type HazmatLevel string

const (
	HazmatNone    HazmatLevel = "none"
	HazmatLow     HazmatLevel = "low"
	HazmatMedium  HazmatLevel = "medium"
	HazmatHigh    HazmatLevel = "high"
	HazmatExtreme HazmatLevel = "extreme"
)

// Job is one piece of equipment moving through the repair workflow.
type Job struct {
	ID        uuid.UUID `json:"id" db:"id"`
	JobNumber string    `json:"job_number" db:"job_number"`
	ClientID  uuid.UUID `json:"client_id" db:"client_id"`

	// Equipment details, immutable once logged except via explicit edit
	EquipmentType string  `json:"equipment_type" db:"equipment_type"`
	SerialNumber  string  `json:"serial_number" db:"serial_number"`
	Manufacturer  *string `json:"manufacturer,omitempty" db:"manufacturer"`
	Model         *string `json:"model,omitempty" db:"model"`
	ModelNumber   *string `json:"model_number,omitempty" db:"model_number"`

	// Workflow position
	CurrentStep catalog.Step   `json:"current_step" db:"current_step"`
	Status      catalog.Status `json:"status" db:"status"`

	// Hazmat sub-state
	HasHazmat       bool         `json:"has_hazmat" db:"has_hazmat"`
	HazmatLevel     *HazmatLevel `json:"hazmat_level,omitempty" db:"hazmat_level"`
	HazmatNotes     *string      `json:"hazmat_notes,omitempty" db:"hazmat_notes"`
	HazmatCleaned   bool         `json:"hazmat_cleaned" db:"hazmat_cleaned"`
	HazmatCleanedAt *time.Time   `json:"hazmat_cleaned_at,omitempty" db:"hazmat_cleaned_at"`
	HazmatCleanedBy *uuid.UUID   `json:"hazmat_cleaned_by,omitempty" db:"hazmat_cleaned_by"`

	// Commercial sub-state
	QuoteAmount     *float64   `json:"quote_amount,omitempty" db:"quote_amount"`
	QuoteSentAt     *time.Time `json:"quote_sent_at,omitempty" db:"quote_sent_at"`
	QuoteApprovedAt *time.Time `json:"quote_approved_at,omitempty" db:"quote_approved_at"`
	PONumber        *string    `json:"po_number,omitempty" db:"po_number"`
	POReceivedAt    *time.Time `json:"po_received_at,omitempty" db:"po_received_at"`

	AssignedTechnicianID *uuid.UUID `json:"assigned_technician_id,omitempty" db:"assigned_technician_id"`

	ReceivingNotes *string `json:"receiving_notes,omitempty" db:"receiving_notes"`

	ReceivedAt           time.Time  `json:"received_at" db:"received_at"`
	TargetCompletionDate *time.Time `json:"target_completion_date,omitempty" db:"target_completion_date"`
	ActualCompletionDate *time.Time `json:"actual_completion_date,omitempty" db:"actual_completion_date"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// POReceived reports whether both PO fields are set. This is the single
// hardest gate in the process: repair work cannot start without it.
func (j *Job) POReceived() bool {
	return j.POReceivedAt != nil && j.PONumber != nil && *j.PONumber != ""
}

// MeasurementMap stores named numeric measurements as JSONB.
type MeasurementMap map[string]float64

func (m MeasurementMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MeasurementMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported measurement scan type %T", src)
	}
	return json.Unmarshal(b, m)
}

// ChecklistMap stores checklist item outcomes as JSONB.
type ChecklistMap map[string]bool

func (c ChecklistMap) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *ChecklistMap) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported checklist scan type %T", src)
	}
	return json.Unmarshal(b, c)
}

// StepCompletion records that a job satisfied a step's exit criteria.
// There is at most one row per (job, step); revisiting a step updates the
// existing record.
type StepCompletion struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	JobID        uuid.UUID      `json:"job_id" db:"job_id"`
	Step         catalog.Step   `json:"step" db:"step"`
	CompletedAt  time.Time      `json:"completed_at" db:"completed_at"`
	CompletedBy  uuid.UUID      `json:"completed_by" db:"completed_by"`
	Notes        *string        `json:"notes,omitempty" db:"notes"`
	Measurements MeasurementMap `json:"measurements,omitempty" db:"measurements"`
	Checklist    ChecklistMap   `json:"checklist_data,omitempty" db:"checklist_data"`
}

// JobStats is the dashboard roll-up over the job register.
type JobStats struct {
	TotalJobs      int `json:"total_jobs" db:"total_jobs"`
	ActiveJobs     int `json:"active_jobs" db:"active_jobs"`
	HazmatJobs     int `json:"hazmat_jobs" db:"hazmat_jobs"`
	CompletedToday int `json:"completed_today" db:"completed_today"`
}

// JobFilters narrows List queries.
type JobFilters struct {
	Status       *catalog.Status
	Step         *catalog.Step
	TechnicianID *uuid.UUID
	ClientID     *uuid.UUID
	HasHazmat    *bool
	Search       string
	Limit        int
	Offset       int
}
