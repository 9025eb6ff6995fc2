// Package repository implements PostgreSQL persistence for jobs and
// applications.
package repository

import "errors"

// Sentinel errors the handler layer translates into HTTP outcomes.
// Malformed identifiers are reported as not-found rather than leaking a
// storage-level parse fault.
var (
	ErrJobNotFound          = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already exists for this job and email")
)
