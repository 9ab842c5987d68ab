package qc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines data access for QC inspections. Inspections are
// append-only; a re-inspection after a failure creates a new record.
type Repository interface {
	Create(ctx context.Context, inspection *Inspection) error
	// LatestByJob returns the most recent inspection for the job, or
	// (nil, nil) when the job has never been inspected.
	LatestByJob(ctx context.Context, jobID uuid.UUID) (*Inspection, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Inspection, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, inspection *Inspection) error {
	query := `
		INSERT INTO qc_inspections (
			id, job_id, inspector_id, measurements,
			visual_inspection_passed, function_test_passed, leak_test_passed,
			documentation_complete, overall_status, notes, failed_items,
			inspected_at, created_at
		) VALUES (
			:id, :job_id, :inspector_id, :measurements,
			:visual_inspection_passed, :function_test_passed, :leak_test_passed,
			:documentation_complete, :overall_status, :notes, :failed_items,
			:inspected_at, :created_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, inspection); err != nil {
		return fmt.Errorf("failed to create QC inspection: %w", err)
	}
	return nil
}

func (r *PostgresRepository) LatestByJob(ctx context.Context, jobID uuid.UUID) (*Inspection, error) {
	var inspection Inspection
	query := "SELECT * FROM qc_inspections WHERE job_id = $1 ORDER BY inspected_at DESC, created_at DESC LIMIT 1"
	err := r.db.GetContext(ctx, &inspection, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest QC inspection: %w", err)
	}
	return &inspection, nil
}

func (r *PostgresRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]Inspection, error) {
	var inspections []Inspection
	query := "SELECT * FROM qc_inspections WHERE job_id = $1 ORDER BY inspected_at DESC"
	if err := r.db.SelectContext(ctx, &inspections, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list QC inspections: %w", err)
	}
	return inspections, nil
}
