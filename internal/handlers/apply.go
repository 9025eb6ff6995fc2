package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/repository"
)

type applyRequest struct {
	ApplicantName string `json:"applicantName" binding:"required,min=2,max=100,alphaspace"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required,phone"`
	Resume        string `json:"resume" binding:"required,url"`
	CoverLetter   string `json:"coverLetter" binding:"required,max=1000"`
}

// applicationSummary is the reduced projection returned on submission; the
// applicant never sees the full stored record.
type applicationSummary struct {
	ApplicationID string                   `json:"applicationId"`
	JobTitle      string                   `json:"jobTitle"`
	Company       string                   `json:"company"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedAt     time.Time                `json:"appliedAt"`
}

// Apply handles an application submission. Checks run in a fixed order:
// validation, job existence, job status, duplicate pre-check, then the
// transactional insert. A duplicate that races past the pre-check surfaces
// from the store as the same conflict.
func (h *JobHandler) Apply(c *gin.Context) {
	jobID := c.Param("id")

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, fieldErrors(err))
		return
	}

	ctx := c.Request.Context()

	job, err := h.jobs.GetByID(ctx, jobID)
	if errors.Is(err, repository.ErrJobNotFound) {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch job for application",
			logger.String("job_id", jobID),
			logger.Error(err),
		)
		respondServerFault(c, "Failed to submit application")
		return
	}

	if job.Status != models.JobStatusActive {
		respondError(c, http.StatusBadRequest, "Job is not accepting applications")
		return
	}

	exists, err := h.applications.ExistsForJob(ctx, job.ID, req.Email)
	if err != nil {
		h.logger.Error("failed to check existing application",
			logger.String("job_id", job.ID),
			logger.Error(err),
		)
		respondServerFault(c, "Failed to submit application")
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "You have already applied for this job")
		return
	}

	app := &models.Application{
		JobID:         job.ID,
		JobTitle:      job.Title,
		Company:       job.Company,
		ApplicantName: req.ApplicantName,
		Email:         req.Email,
		Phone:         req.Phone,
		Resume:        req.Resume,
		CoverLetter:   req.CoverLetter,
	}

	if err := h.applications.CreateForJob(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			respondError(c, http.StatusBadRequest, "You have already applied for this job")
			return
		}
		h.logger.Error("failed to create application",
			logger.String("job_id", job.ID),
			logger.Error(err),
		)
		respondServerFault(c, "Failed to submit application")
		return
	}

	h.logger.Info("application submitted",
		logger.String("application_id", app.ID),
		logger.String("job_id", job.ID),
		logger.String("email", app.Email),
	)

	if err := h.notifier.Publish(ctx, events.NewApplicationEvent(app)); err != nil {
		h.logger.Warn("failed to publish newApplication event", logger.Error(err))
	}

	respondMessage(c, http.StatusCreated, "Application submitted successfully", applicationSummary{
		ApplicationID: app.ID,
		JobTitle:      app.JobTitle,
		Company:       app.Company,
		Status:        app.Status,
		AppliedAt:     app.AppliedAt,
	})
}
