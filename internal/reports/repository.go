package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a job has no technical report.
	ErrNotFound = errors.New("technical report not found")

	// ErrInvalidState marks a lifecycle transition the report's current
	// status does not allow.
	ErrInvalidState = errors.New("invalid report state")
)

// Repository defines data access for technical reports.
type Repository interface {
	// GetByJob returns the job's report, or nil when none exists yet.
	GetByJob(ctx context.Context, jobID uuid.UUID) (*TechnicalReport, error)
	Create(ctx context.Context, report *TechnicalReport) error
	Update(ctx context.Context, report *TechnicalReport) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByJob(ctx context.Context, jobID uuid.UUID) (*TechnicalReport, error) {
	var report TechnicalReport
	err := r.db.GetContext(ctx, &report, "SELECT * FROM technical_reports WHERE job_id = $1", jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technical report: %w", err)
	}
	return &report, nil
}

func (r *PostgresRepository) Create(ctx context.Context, report *TechnicalReport) error {
	query := `
		INSERT INTO technical_reports (
			id, job_id, executive_summary, findings, recommendations,
			ai_generated, ai_draft, pdf_url, status, sent_at, created_at, updated_at
		) VALUES (
			:id, :job_id, :executive_summary, :findings, :recommendations,
			:ai_generated, :ai_draft, :pdf_url, :status, :sent_at, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("failed to create technical report: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, report *TechnicalReport) error {
	query := `
		UPDATE technical_reports SET
			executive_summary = :executive_summary,
			findings = :findings,
			recommendations = :recommendations,
			ai_generated = :ai_generated,
			ai_draft = :ai_draft,
			pdf_url = :pdf_url,
			status = :status,
			sent_at = :sent_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, report)
	if err != nil {
		return fmt.Errorf("failed to update technical report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
