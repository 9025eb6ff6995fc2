package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/query"
)

const jobColumns = `id, title, company, location, type, salary, description,
	       requirements, benefits, status, application_count, created_at, updated_at`

type JobRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewJobRepository(db *sql.DB, log logger.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: log,
	}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	job.ID = uuid.New().String()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	if job.Status == "" {
		job.Status = models.JobStatusActive
	}

	queryStr := `
		INSERT INTO jobs (
			id, title, company, location, type, salary, description,
			requirements, benefits, status, application_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx,
		queryStr,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Salary,
		job.Description,
		job.Requirements,
		job.Benefits,
		job.Status,
		job.ApplicationCount,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

// CreateBatch inserts jobs in a single transaction. Either every job is
// created or none are; used by the Excel import.
func (r *JobRepository) CreateBatch(ctx context.Context, jobs []*models.Job) (created int, err error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("failed to rollback batch insert",
					logger.Error(rbErr),
				)
			}
		}
	}()

	queryStr := `
		INSERT INTO jobs (
			id, title, company, location, type, salary, description,
			requirements, benefits, status, application_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	for _, job := range jobs {
		job.ID = uuid.New().String()
		job.CreatedAt = now
		job.UpdatedAt = now
		if job.Status == "" {
			job.Status = models.JobStatusActive
		}

		if _, execErr := tx.ExecContext(ctx, queryStr,
			job.ID, job.Title, job.Company, job.Location, job.Type, job.Salary,
			job.Description, job.Requirements, job.Benefits, job.Status,
			job.ApplicationCount, job.CreatedAt, job.UpdatedAt,
		); execErr != nil {
			err = fmt.Errorf("insert job %q: %w", job.Title, execErr)
			return 0, err
		}
		created++
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return 0, err
	}

	return created, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, ErrJobNotFound
	}

	queryStr := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE id = $1
	`

	job, err := scanJob(r.db.QueryRowContext(ctx, queryStr, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}

	return job, nil
}

// Count returns the number of jobs matching the filter.
func (r *JobRepository) Count(ctx context.Context, filter query.JobFilter) (int, error) {
	whereClause, args := filter.Where()
	queryStr := `SELECT COUNT(*) FROM jobs WHERE 1=1` + whereClause

	var count int
	if err := r.db.QueryRowContext(ctx, queryStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return count, nil
}

const (
	limitParamIdx  = 1
	offsetParamIdx = 2
)

// List returns jobs matching the filter with sorting and pagination.
func (r *JobRepository) List(
	ctx context.Context,
	filter query.JobFilter,
	sort query.Sort,
	page query.Page,
) ([]models.Job, error) {
	whereClause, whereArgs := filter.Where()
	argCount := len(whereArgs)
	limitPlaceholder := strconv.Itoa(argCount + limitParamIdx)
	offsetPlaceholder := strconv.Itoa(argCount + offsetParamIdx)
	// whereClause and the order clause use whitelisted column names;
	// limit/offset are integers
	// #nosec G202 -- SQL string built from validated filter, column names from allowlist
	queryStr := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE 1=1` + whereClause + sort.OrderClause() + `
		LIMIT $` + limitPlaceholder + ` OFFSET $` + offsetPlaceholder

	args := append(append([]any{}, whereArgs...), page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, queryStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	return scanJobRows(rows)
}

// Update writes the full job row and refreshes updated_at.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	job.UpdatedAt = time.Now()

	queryStr := `
		UPDATE jobs
		SET title = $2, company = $3, location = $4, type = $5, salary = $6,
		    description = $7, requirements = $8, benefits = $9, status = $10,
		    updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx,
		queryStr,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Salary,
		job.Description,
		job.Requirements,
		job.Benefits,
		job.Status,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// DeleteCascade removes every application referencing the job and then the
// job itself, in one transaction. Returns the number of applications removed.
func (r *JobRepository) DeleteCascade(ctx context.Context, id string) (removedApplications int, err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return 0, ErrJobNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("failed to rollback cascade delete",
					logger.String("job_id", id),
					logger.Error(rbErr),
				)
			}
		}
	}()

	appsResult, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE job_id = $1`, id)
	if err != nil {
		err = fmt.Errorf("delete applications: %w", err)
		return 0, err
	}
	removed, err := appsResult.RowsAffected()
	if err != nil {
		err = fmt.Errorf("get rows affected: %w", err)
		return 0, err
	}

	jobResult, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		err = fmt.Errorf("delete job: %w", err)
		return 0, err
	}
	jobRows, err := jobResult.RowsAffected()
	if err != nil {
		err = fmt.Errorf("get rows affected: %w", err)
		return 0, err
	}
	if jobRows == 0 {
		err = ErrJobNotFound
		return 0, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return 0, err
	}

	return int(removed), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Type,
		&job.Salary,
		&job.Description,
		&job.Requirements,
		&job.Benefits,
		&job.Status,
		&job.ApplicationCount,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJobRows(rows *sql.Rows) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}
