// Package models defines the job-board domain entities.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusInactive JobStatus = "inactive"
	JobStatusClosed   JobStatus = "closed"
)

// JobStatuses lists every valid job status.
var JobStatuses = []JobStatus{JobStatusActive, JobStatusInactive, JobStatusClosed}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusInactive, JobStatusClosed:
		return true
	}
	return false
}

// JobType is the employment type of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// JobTypes lists every valid job type.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// Job represents a posted position.
type Job struct {
	ID               string      `json:"id" db:"id"`
	Title            string      `json:"title" db:"title"`
	Company          string      `json:"company" db:"company"`
	Location         string      `json:"location" db:"location"`
	Type             JobType     `json:"type" db:"type"`
	Salary           string      `json:"salary" db:"salary"`
	Description      string      `json:"description" db:"description"`
	Requirements     StringArray `json:"requirements" db:"requirements"`
	Benefits         StringArray `json:"benefits" db:"benefits"`
	Status           JobStatus   `json:"status" db:"status"`
	ApplicationCount int         `json:"applicationCount" db:"application_count"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}

// StringArray stores an ordered list of strings as a JSONB column.
type StringArray []string

// Value implements driver.Valuer. A nil or empty array is stored as [].
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return json.Unmarshal(bytes, a)
}
