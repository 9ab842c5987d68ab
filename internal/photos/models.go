package photos

import (
	"time"

	"github.com/google/uuid"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Photo is metadata for one photo taken during a step. The image itself
// lives elsewhere; URLs are opaque here.
type Photo struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	JobID        uuid.UUID     `json:"job_id" db:"job_id"`
	Step         *catalog.Step `json:"step,omitempty" db:"step"`
	URL          string        `json:"url" db:"url"`
	ThumbnailURL *string       `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Caption      *string       `json:"caption,omitempty" db:"caption"`
	UploadedBy   uuid.UUID     `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
