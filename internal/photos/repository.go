package photos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// ErrNotFound is returned when a photo record does not exist.
var ErrNotFound = errors.New("photo not found")

// Repository defines data access for photo metadata.
type Repository interface {
	Create(ctx context.Context, photo *Photo) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Photo, error)
	CountByJobAndStep(ctx context.Context, jobID uuid.UUID, step catalog.Step) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, photo *Photo) error {
	query := `
		INSERT INTO job_photos (
			id, job_id, step, url, thumbnail_url, caption, uploaded_by, created_at
		) VALUES (
			:id, :job_id, :step, :url, :thumbnail_url, :caption, :uploaded_by, :created_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, photo); err != nil {
		return fmt.Errorf("failed to create photo record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]Photo, error) {
	var photos []Photo
	query := "SELECT * FROM job_photos WHERE job_id = $1 ORDER BY created_at"
	if err := r.db.SelectContext(ctx, &photos, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

func (r *PostgresRepository) CountByJobAndStep(ctx context.Context, jobID uuid.UUID, step catalog.Step) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM job_photos WHERE job_id = $1 AND step = $2"
	if err := r.db.GetContext(ctx, &count, query, jobID, step); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM job_photos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete photo record: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
