package reports

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the lifecycle state of a technical report. Only a final
// report lets the job pass the Technical-Report gate.
type ReportStatus string

const (
	StatusDraft ReportStatus = "draft"
	StatusFinal ReportStatus = "final"
	StatusSent  ReportStatus = "sent"
)

// TechnicalReport is the one-per-job report backing the client quote.
// AI-drafted content arrives as opaque text; this service only tracks it.
type TechnicalReport struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	JobID            uuid.UUID    `json:"job_id" db:"job_id"`
	ExecutiveSummary *string      `json:"executive_summary,omitempty" db:"executive_summary"`
	Findings         *string      `json:"findings,omitempty" db:"findings"`
	Recommendations  *string      `json:"recommendations,omitempty" db:"recommendations"`
	AIGenerated      bool         `json:"ai_generated" db:"ai_generated"`
	AIDraft          *string      `json:"ai_draft,omitempty" db:"ai_draft"`
	PDFURL           *string      `json:"pdf_url,omitempty" db:"pdf_url"`
	Status           ReportStatus `json:"status" db:"status"`
	SentAt           *time.Time   `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`
}
