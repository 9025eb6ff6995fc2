package models

import (
	"strings"
	"time"
)

// ApplicationStatus is the review state of an application.
//
// The set is the union of the two taxonomies the product has used: the intake
// default ("pending") plus the review pipeline stages admins move candidates
// through.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// ApplicationStatuses lists every valid application status.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusShortlisted,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusHired,
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusHired:
		return true
	}
	return false
}

// Application represents a candidate's submission against a specific job.
// JobTitle and Company are snapshots of the job at application time and are
// not updated if the job changes later.
type Application struct {
	ID            string            `json:"id" db:"id"`
	JobID         string            `json:"jobId" db:"job_id"`
	JobTitle      string            `json:"jobTitle" db:"job_title"`
	Company       string            `json:"company" db:"company"`
	ApplicantName string            `json:"applicantName" db:"applicant_name"`
	Email         string            `json:"email" db:"email"`
	Phone         string            `json:"phone" db:"phone"`
	Resume        string            `json:"resume" db:"resume"`
	CoverLetter   string            `json:"coverLetter" db:"cover_letter"`
	Status        ApplicationStatus `json:"status" db:"status"`
	AppliedAt     time.Time         `json:"appliedAt" db:"created_at"`
}

// NormalizeEmail lowercases and trims an email address so the
// one-application-per-(job, email) rule cannot be dodged with case or
// whitespace variants.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
