package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/query"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pqUniqueViolation = "23505"

const applicationColumns = `id, job_id, job_title, company, applicant_name, email,
	       phone, resume, cover_letter, status, created_at`

type ApplicationRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationRepository(db *sql.DB, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: log,
	}
}

// CreateForJob inserts the application and increments the owning job's
// application_count in one transaction. Two concurrent submissions for the
// same (job, email) can both pass the intake pre-check; the unique index on
// (job_id, email) is what actually enforces the invariant, surfaced here as
// ErrDuplicateApplication.
func (r *ApplicationRepository) CreateForJob(ctx context.Context, app *models.Application) (err error) {
	app.ID = uuid.New().String()
	app.Email = models.NormalizeEmail(app.Email)
	app.AppliedAt = time.Now()
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("failed to rollback application insert",
					logger.String("job_id", app.JobID),
					logger.Error(rbErr),
				)
			}
		}
	}()

	insertQuery := `
		INSERT INTO applications (
			id, job_id, job_title, company, applicant_name, email,
			phone, resume, cover_letter, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		app.ID,
		app.JobID,
		app.JobTitle,
		app.Company,
		app.ApplicantName,
		app.Email,
		app.Phone,
		app.Resume,
		app.CoverLetter,
		app.Status,
		app.AppliedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			err = ErrDuplicateApplication
			return err
		}
		err = fmt.Errorf("insert application: %w", err)
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET application_count = application_count + 1, updated_at = $2 WHERE id = $1`,
		app.JobID, app.AppliedAt,
	)
	if err != nil {
		err = fmt.Errorf("increment application count: %w", err)
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return err
	}

	return nil
}

// ExistsForJob reports whether an application already exists for the
// (job, email) pair. This is the friendly pre-check; the unique index is the
// enforcement.
func (r *ApplicationRepository) ExistsForJob(ctx context.Context, jobID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND email = $2)`,
		jobID, models.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing application: %w", err)
	}
	return exists, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, ErrApplicationNotFound
	}

	queryStr := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE id = $1
	`

	app, err := scanApplication(r.db.QueryRowContext(ctx, queryStr, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query application: %w", err)
	}

	return app, nil
}

// Count returns the number of applications matching the filter.
func (r *ApplicationRepository) Count(ctx context.Context, filter query.ApplicationFilter) (int, error) {
	whereClause, args := filter.Where()
	queryStr := `SELECT COUNT(*) FROM applications WHERE 1=1` + whereClause

	var count int
	if err := r.db.QueryRowContext(ctx, queryStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

// List returns applications matching the filter with sorting and pagination.
func (r *ApplicationRepository) List(
	ctx context.Context,
	filter query.ApplicationFilter,
	sort query.Sort,
	page query.Page,
) ([]models.Application, error) {
	whereClause, whereArgs := filter.Where()
	argCount := len(whereArgs)
	limitPlaceholder := strconv.Itoa(argCount + limitParamIdx)
	offsetPlaceholder := strconv.Itoa(argCount + offsetParamIdx)
	// #nosec G202 -- SQL string built from validated filter, column names from allowlist
	queryStr := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE 1=1` + whereClause + sort.OrderClause() + `
		LIMIT $` + limitPlaceholder + ` OFFSET $` + offsetPlaceholder

	args := append(append([]any{}, whereArgs...), page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, queryStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	return scanApplicationRows(rows)
}

// UpdateStatus transitions an application's review status and returns the
// updated record.
func (r *ApplicationRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status models.ApplicationStatus,
) (*models.Application, error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, ErrApplicationNotFound
	}

	queryStr := `
		UPDATE applications
		SET status = $2
		WHERE id = $1
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRowContext(ctx, queryStr, id, status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	return app, nil
}

// StatusCounts returns the number of applications per review status.
func (r *ApplicationRepository) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status ORDER BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	counts := make([]models.StatusCount, 0)
	for rows.Next() {
		var sc models.StatusCount
		if scanErr := rows.Scan(&sc.Status, &sc.Count); scanErr != nil {
			return nil, fmt.Errorf("scan status count: %w", scanErr)
		}
		counts = append(counts, sc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate status counts: %w", rowsErr)
	}
	return counts, nil
}

// CountSince returns the number of applications submitted at or after the
// given time.
func (r *ApplicationRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE created_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent applications: %w", err)
	}
	return count, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.JobTitle,
		&app.Company,
		&app.ApplicantName,
		&app.Email,
		&app.Phone,
		&app.Resume,
		&app.CoverLetter,
		&app.Status,
		&app.AppliedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

func scanApplicationRows(rows *sql.Rows) ([]models.Application, error) {
	apps := make([]models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}
