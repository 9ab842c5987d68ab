package parts

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Condition classifies a component found during assessment.
type Condition string

const (
	ConditionGood       Condition = "good"
	ConditionRepairable Condition = "repairable"
	ConditionReplace    Condition = "replace"
)

// Defect tags recognised by the fault documentation step.
const (
	DefectCorrosion      = "corrosion"
	DefectCrack          = "crack"
	DefectWear           = "wear"
	DefectPitting        = "pitting"
	DefectDeformation    = "deformation"
	DefectSealFailure    = "seal_failure"
	DefectBearingFailure = "bearing_failure"
	DefectThreadDamage   = "thread_damage"
	DefectSurfaceDamage  = "surface_damage"
	DefectOther          = "other"
)

// Part is a component identified during assessment. The Document-Faults gate
// requires at least one part on record before the job can advance.
type Part struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	JobID       uuid.UUID      `json:"job_id" db:"job_id"`
	PartName    string         `json:"part_name" db:"part_name"`
	PartNumber  *string        `json:"part_number,omitempty" db:"part_number"`
	Quantity    int            `json:"quantity" db:"quantity"`
	Condition   Condition      `json:"condition" db:"condition"`
	Defects     pq.StringArray `json:"defects" db:"defects"`
	DefectNotes *string        `json:"defect_notes,omitempty" db:"defect_notes"`
	Cost        *float64       `json:"cost,omitempty" db:"cost"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
