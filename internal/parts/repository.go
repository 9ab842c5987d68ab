package parts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a part does not exist.
var ErrNotFound = errors.New("part not found")

// Repository defines data access for job parts.
type Repository interface {
	Create(ctx context.Context, part *Part) error
	GetByID(ctx context.Context, id uuid.UUID) (*Part, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Part, error)
	Update(ctx context.Context, part *Part) error
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

func (r *PostgresRepository) Create(ctx context.Context, part *Part) error {
	query := `
		INSERT INTO job_parts (
			id, job_id, part_name, part_number, quantity, condition,
			defects, defect_notes, cost, created_at, updated_at
		) VALUES (
			:id, :job_id, :part_name, :part_number, :quantity, :condition,
			:defects, :defect_notes, :cost, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, part); err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Part, error) {
	var part Part
	err := r.db.GetContext(ctx, &part, "SELECT * FROM job_parts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return &part, nil
}

func (r *PostgresRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]Part, error) {
	var parts []Part
	query := "SELECT * FROM job_parts WHERE job_id = $1 ORDER BY created_at"
	if err := r.db.SelectContext(ctx, &parts, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	return parts, nil
}

func (r *PostgresRepository) Update(ctx context.Context, part *Part) error {
	part.UpdatedAt = time.Now()
	query := `
		UPDATE job_parts SET
			part_name = :part_name,
			part_number = :part_number,
			quantity = :quantity,
			condition = :condition,
			defects = :defects,
			defect_notes = :defect_notes,
			cost = :cost,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, part)
	if err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM job_parts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
