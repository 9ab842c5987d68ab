package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// Repository defines data access for jobs and their step completions.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context, filters JobFilters) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateStepCAS moves the job from one step to another with an
	// optimistic check on the current step. It returns ErrStepConflict
	// when another advance won the race.
	UpdateStepCAS(ctx context.Context, id uuid.UUID, from, to catalog.Step, status catalog.Status) (*Job, error)

	NextJobNumber(ctx context.Context, now time.Time) (string, error)
	Stats(ctx context.Context) (*JobStats, error)
	CountByStatus(ctx context.Context) (map[catalog.Status]int, error)

	UpsertCompletion(ctx context.Context, completion *StepCompletion) error
	GetCompletion(ctx context.Context, jobID uuid.UUID, step catalog.Step) (*StepCompletion, error)
	ListCompletions(ctx context.Context, jobID uuid.UUID) ([]StepCompletion, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (
			id, job_number, client_id, equipment_type, serial_number,
			manufacturer, model, model_number, current_step, status,
			has_hazmat, hazmat_level, hazmat_notes, hazmat_cleaned,
			hazmat_cleaned_at, hazmat_cleaned_by,
			quote_amount, quote_sent_at, quote_approved_at, po_number, po_received_at,
			assigned_technician_id, receiving_notes,
			received_at, target_completion_date, actual_completion_date,
			created_at, updated_at
		) VALUES (
			:id, :job_number, :client_id, :equipment_type, :serial_number,
			:manufacturer, :model, :model_number, :current_step, :status,
			:has_hazmat, :hazmat_level, :hazmat_notes, :hazmat_cleaned,
			:hazmat_cleaned_at, :hazmat_cleaned_by,
			:quote_amount, :quote_sent_at, :quote_approved_at, :po_number, :po_received_at,
			:assigned_technician_id, :receiving_notes,
			:received_at, :target_completion_date, :actual_completion_date,
			:created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, job)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var job Job
	err := r.db.GetContext(ctx, &job, "SELECT * FROM jobs WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (r *PostgresRepository) List(ctx context.Context, filters JobFilters) ([]Job, error) {
	query := "SELECT * FROM jobs WHERE 1=1"
	var args []interface{}
	argCount := 0

	if filters.Status != nil {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filters.Status)
	}
	if filters.Step != nil {
		argCount++
		query += fmt.Sprintf(" AND current_step = $%d", argCount)
		args = append(args, *filters.Step)
	}
	if filters.TechnicianID != nil {
		argCount++
		query += fmt.Sprintf(" AND assigned_technician_id = $%d", argCount)
		args = append(args, *filters.TechnicianID)
	}
	if filters.ClientID != nil {
		argCount++
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, *filters.ClientID)
	}
	if filters.HasHazmat != nil {
		argCount++
		query += fmt.Sprintf(" AND has_hazmat = $%d", argCount)
		args = append(args, *filters.HasHazmat)
	}
	if filters.Search != "" {
		argCount++
		query += fmt.Sprintf(" AND (job_number ILIKE $%d OR equipment_type ILIKE $%d OR serial_number ILIKE $%d)",
			argCount, argCount, argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filters.Offset)
	}

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *PostgresRepository) Update(ctx context.Context, job *Job) error {
	query := `
		UPDATE jobs SET
			equipment_type = :equipment_type,
			serial_number = :serial_number,
			manufacturer = :manufacturer,
			model = :model,
			model_number = :model_number,
			status = :status,
			has_hazmat = :has_hazmat,
			hazmat_level = :hazmat_level,
			hazmat_notes = :hazmat_notes,
			hazmat_cleaned = :hazmat_cleaned,
			hazmat_cleaned_at = :hazmat_cleaned_at,
			hazmat_cleaned_by = :hazmat_cleaned_by,
			quote_amount = :quote_amount,
			quote_sent_at = :quote_sent_at,
			quote_approved_at = :quote_approved_at,
			po_number = :po_number,
			po_received_at = :po_received_at,
			assigned_technician_id = :assigned_technician_id,
			receiving_notes = :receiving_notes,
			target_completion_date = :target_completion_date,
			actual_completion_date = :actual_completion_date,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, job)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Completions, parts, photos and inspections cascade at the schema level.
	result, err := r.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateStepCAS(ctx context.Context, id uuid.UUID, from, to catalog.Step, status catalog.Status) (*Job, error) {
	query := `
		UPDATE jobs SET
			current_step = $1,
			status = $2,
			updated_at = $3
		WHERE id = $4 AND current_step = $5
		RETURNING *`

	var job Job
	err := r.db.GetContext(ctx, &job, query, to, status, time.Now(), id, from)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the job vanished or another advance took it off the
		// expected step. Distinguish so the caller can retry the right way.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStepConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job step: %w", err)
	}
	return &job, nil
}

func (r *PostgresRepository) NextJobNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("BRIM-%d-", now.Year())

	var latest sql.NullString
	query := "SELECT MAX(job_number) FROM jobs WHERE job_number LIKE $1"
	if err := r.db.GetContext(ctx, &latest, query, prefix+"%"); err != nil {
		return "", fmt.Errorf("failed to get latest job number: %w", err)
	}

	next := 1
	if latest.Valid {
		var year, seq int
		if _, err := fmt.Sscanf(latest.String, "BRIM-%d-%d", &year, &seq); err != nil {
			return "", fmt.Errorf("malformed job number %q: %w", latest.String, err)
		}
		next = seq + 1
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}

func (r *PostgresRepository) Stats(ctx context.Context) (*JobStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_jobs,
			COUNT(*) FILTER (WHERE status NOT IN ('dispatched', 'cancelled')) AS active_jobs,
			COUNT(*) FILTER (WHERE has_hazmat = true) AS hazmat_jobs,
			COUNT(*) FILTER (WHERE actual_completion_date::date = CURRENT_DATE) AS completed_today
		FROM jobs`

	var stats JobStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get job stats: %w", err)
	}
	return &stats, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[catalog.Status]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT status, COUNT(*) FROM jobs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[catalog.Status]int)
	for rows.Next() {
		var status catalog.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// =====================================================
// Step Completions
// =====================================================

func (r *PostgresRepository) UpsertCompletion(ctx context.Context, completion *StepCompletion) error {
	// Single atomic upsert keyed on (job_id, step); a check-then-insert
	// pair would race under concurrent advances.
	query := `
		INSERT INTO step_completions (
			id, job_id, step, completed_at, completed_by, notes, measurements, checklist_data
		) VALUES (
			:id, :job_id, :step, :completed_at, :completed_by, :notes, :measurements, :checklist_data
		)
		ON CONFLICT (job_id, step) DO UPDATE SET
			completed_at = EXCLUDED.completed_at,
			completed_by = EXCLUDED.completed_by,
			notes = EXCLUDED.notes,
			measurements = COALESCE(EXCLUDED.measurements, step_completions.measurements),
			checklist_data = COALESCE(EXCLUDED.checklist_data, step_completions.checklist_data)`

	_, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		return fmt.Errorf("failed to upsert step completion: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetCompletion(ctx context.Context, jobID uuid.UUID, step catalog.Step) (*StepCompletion, error) {
	var completion StepCompletion
	query := "SELECT * FROM step_completions WHERE job_id = $1 AND step = $2"
	err := r.db.GetContext(ctx, &completion, query, jobID, step)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step completion: %w", err)
	}
	return &completion, nil
}

func (r *PostgresRepository) ListCompletions(ctx context.Context, jobID uuid.UUID) ([]StepCompletion, error) {
	var completions []StepCompletion
	query := "SELECT * FROM step_completions WHERE job_id = $1 ORDER BY completed_at"
	if err := r.db.SelectContext(ctx, &completions, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list step completions: %w", err)
	}
	return completions, nil
}
