package database

import (
	"context"
	"fmt"

	"github.com/jonesrussell/gojobs/internal/logger"
)

// migrations are applied in order at startup. Statements are idempotent so a
// restart against an existing database is a no-op.
//
// The unique index on (job_id, email) is the storage-level enforcement of the
// one-application-per-email-per-job rule; the intake pre-check is only a
// friendlier error for the common case.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		company VARCHAR(50) NOT NULL,
		location VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		salary VARCHAR(50) NOT NULL,
		description VARCHAR(2000) NOT NULL,
		requirements JSONB NOT NULL DEFAULT '[]',
		benefits JSONB NOT NULL DEFAULT '[]',
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		application_count INTEGER NOT NULL DEFAULT 0 CHECK (application_count >= 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status_created_at ON jobs (status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_type ON jobs (type)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs (id),
		job_title VARCHAR(100) NOT NULL,
		company VARCHAR(50) NOT NULL,
		applicant_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		resume TEXT NOT NULL,
		cover_letter VARCHAR(1000) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_job_email ON applications (job_id, email)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status)`,
}

// Migrate applies the schema migrations.
func Migrate(ctx context.Context, d *DB) error {
	for i, stmt := range migrations {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}

	d.logger.Info("Migrations applied",
		logger.Int("count", len(migrations)),
	)
	return nil
}
