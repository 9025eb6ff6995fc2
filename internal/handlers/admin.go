package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/query"
	"github.com/jonesrussell/gojobs/internal/repository"
)

const (
	dashboardRecentWindow = 30 * 24 * time.Hour
	dashboardTopCompanies = 5
)

// AdminHandler serves the console: unrestricted job management, application
// review, and the aggregate dashboard.
type AdminHandler struct {
	jobs         JobStore
	applications ApplicationStore
	notifier     Notifier
	logger       logger.Logger
}

func NewAdminHandler(jobs JobStore, applications ApplicationStore, notifier Notifier, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		jobs:         jobs,
		applications: applications,
		notifier:     notifier,
		logger:       log,
	}
}

type createJobRequest struct {
	Title        string   `json:"title" binding:"required,min=1,max=100"`
	Company      string   `json:"company" binding:"required,min=1,max=50"`
	Location     string   `json:"location" binding:"required,min=1,max=100"`
	Type         string   `json:"type" binding:"required,oneof='Full-time' 'Part-time' 'Contract' 'Internship'"`
	Salary       string   `json:"salary" binding:"omitempty,max=50"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	Requirements []string `json:"requirements" binding:"omitempty,dive,max=200"`
	Benefits     []string `json:"benefits" binding:"omitempty,dive,max=200"`
	Status       string   `json:"status" binding:"omitempty,oneof=active inactive closed"`
}

type updateJobRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Company      *string  `json:"company" binding:"omitempty,min=1,max=50"`
	Location     *string  `json:"location" binding:"omitempty,min=1,max=100"`
	Type         *string  `json:"type" binding:"omitempty,oneof='Full-time' 'Part-time' 'Contract' 'Internship'"`
	Salary       *string  `json:"salary" binding:"omitempty,max=50"`
	Description  *string  `json:"description" binding:"omitempty,max=2000"`
	Requirements []string `json:"requirements" binding:"omitempty,dive,max=200"`
	Benefits     []string `json:"benefits" binding:"omitempty,dive,max=200"`
	Status       *string  `json:"status" binding:"omitempty,oneof=active inactive closed"`
}

type updateApplicationRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed shortlisted accepted rejected hired"`
}

// Dashboard assembles the console landing-page aggregates.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	overview, err := h.jobs.Overview(ctx)
	if err != nil {
		h.logger.Error("failed to fetch dashboard overview", logger.Error(err))
		respondServerFault(c, "Failed to fetch dashboard stats")
		return
	}

	statusCounts, err := h.applications.StatusCounts(ctx)
	if err != nil {
		h.logger.Error("failed to fetch application status counts", logger.Error(err))
		respondServerFault(c, "Failed to fetch dashboard stats")
		return
	}

	recent, err := h.applications.CountSince(ctx, time.Now().Add(-dashboardRecentWindow))
	if err != nil {
		h.logger.Error("failed to count recent applications", logger.Error(err))
		respondServerFault(c, "Failed to fetch dashboard stats")
		return
	}

	typeCounts, err := h.jobs.TypeCounts(ctx)
	if err != nil {
		h.logger.Error("failed to fetch job type counts", logger.Error(err))
		respondServerFault(c, "Failed to fetch dashboard stats")
		return
	}

	topCompanies, err := h.jobs.TopCompanies(ctx, dashboardTopCompanies)
	if err != nil {
		h.logger.Error("failed to fetch top companies", logger.Error(err))
		respondServerFault(c, "Failed to fetch dashboard stats")
		return
	}

	respondData(c, http.StatusOK, models.DashboardStats{
		Overview:             *overview,
		ApplicationsByStatus: statusCounts,
		RecentApplications:   recent,
		JobTypes:             typeCounts,
		TopCompanies:         topCompanies,
	})
}

// ListJobs returns jobs of any status, with the same filtering surface as
// the public listing plus a status filter.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	filter := query.JobFilter{
		Search:            c.Query("search"),
		SearchDescription: true,
		Status:            c.Query("status"),
		Type:              c.Query("type"),
		Location:          c.Query("location"),
		Company:           c.Query("company"),
	}
	sort := query.ParseSort(c.Query("sortBy"), c.Query("sortOrder"), query.JobSortColumns, "created_at")
	page := query.ParsePage(c.Query("page"), c.Query("limit"))

	total, err := h.jobs.Count(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to count jobs", logger.Error(err))
		respondServerFault(c, "Failed to fetch jobs")
		return
	}

	jobs, err := h.jobs.List(c.Request.Context(), filter, sort, page)
	if err != nil {
		h.logger.Error("failed to list jobs", logger.Error(err))
		respondServerFault(c, "Failed to fetch jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(jobs),
		"totalJobs":   total,
		"currentPage": page.Number,
		"totalPages":  query.TotalPages(total, page.Limit),
		"data":        jobs,
	})
}

func (h *AdminHandler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, fieldErrors(err))
		return
	}

	job := &models.Job{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Type:         models.JobType(req.Type),
		Salary:       req.Salary,
		Description:  req.Description,
		Requirements: models.StringArray(req.Requirements),
		Benefits:     models.StringArray(req.Benefits),
		Status:       models.JobStatus(req.Status),
	}

	if err := h.jobs.Create(c.Request.Context(), job); err != nil {
		h.logger.Error("failed to create job",
			logger.String("title", req.Title),
			logger.Error(err),
		)
		respondServerFault(c, "Failed to create job")
		return
	}

	h.logger.Info("job created",
		logger.String("job_id", job.ID),
		logger.String("title", job.Title),
	)

	if err := h.notifier.Publish(c.Request.Context(), events.NewJobCreatedEvent(job)); err != nil {
		h.logger.Warn("failed to publish jobCreated event", logger.Error(err))
	}

	respondMessage(c, http.StatusCreated, "Job created successfully", job)
}

// UpdateJob applies a partial update: only fields present in the request
// change, and the merged job is written back in full.
func (h *AdminHandler) UpdateJob(c *gin.Context) {
	id := c.Param("id")

	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, fieldErrors(err))
		return
	}

	ctx := c.Request.Context()

	job, err := h.jobs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrJobNotFound) {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch job for update", logger.String("job_id", id), logger.Error(err))
		respondServerFault(c, "Failed to update job")
		return
	}

	applyJobUpdate(job, &req)

	if err := h.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			respondError(c, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to update job", logger.String("job_id", id), logger.Error(err))
		respondServerFault(c, "Failed to update job")
		return
	}

	h.logger.Info("job updated", logger.String("job_id", job.ID))

	if err := h.notifier.Publish(ctx, events.NewJobUpdatedEvent(job)); err != nil {
		h.logger.Warn("failed to publish jobUpdated event", logger.Error(err))
	}

	respondMessage(c, http.StatusOK, "Job updated successfully", job)
}

func applyJobUpdate(job *models.Job, req *updateJobRequest) {
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Type != nil {
		job.Type = models.JobType(*req.Type)
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = models.StringArray(req.Requirements)
	}
	if req.Benefits != nil {
		job.Benefits = models.StringArray(req.Benefits)
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}
}

// DeleteJob removes a job and every application referencing it.
func (h *AdminHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")

	removed, err := h.jobs.DeleteCascade(c.Request.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete job", logger.String("job_id", id), logger.Error(err))
		respondServerFault(c, "Failed to delete job")
		return
	}

	h.logger.Info("job deleted",
		logger.String("job_id", id),
		logger.Int("removed_applications", removed),
	)

	if err := h.notifier.Publish(c.Request.Context(), events.NewJobDeletedEvent(id)); err != nil {
		h.logger.Warn("failed to publish jobDeleted event", logger.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "Job deleted successfully",
		"deletedApplications": removed,
	})
}

// ListApplications returns applications across all jobs.
func (h *AdminHandler) ListApplications(c *gin.Context) {
	filter := query.ApplicationFilter{
		JobID:  c.Query("jobId"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	sort := query.ParseSort(c.Query("sortBy"), c.Query("sortOrder"), query.ApplicationSortColumns, "created_at")
	page := query.ParsePage(c.Query("page"), c.Query("limit"))

	total, err := h.applications.Count(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to count applications", logger.Error(err))
		respondServerFault(c, "Failed to fetch applications")
		return
	}

	apps, err := h.applications.List(c.Request.Context(), filter, sort, page)
	if err != nil {
		h.logger.Error("failed to list applications", logger.Error(err))
		respondServerFault(c, "Failed to fetch applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"count":             len(apps),
		"totalApplications": total,
		"currentPage":       page.Number,
		"totalPages":        query.TotalPages(total, page.Limit),
		"data":              apps,
	})
}

// ListJobApplications returns a single job's applications, with the job
// identity echoed so the console can render a header without a second call.
func (h *AdminHandler) ListJobApplications(c *gin.Context) {
	jobID := c.Param("id")
	ctx := c.Request.Context()

	job, err := h.jobs.GetByID(ctx, jobID)
	if errors.Is(err, repository.ErrJobNotFound) {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch job", logger.String("job_id", jobID), logger.Error(err))
		respondServerFault(c, "Failed to fetch applications")
		return
	}

	filter := query.ApplicationFilter{
		JobID:  job.ID,
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	sort := query.ParseSort(c.Query("sortBy"), c.Query("sortOrder"), query.ApplicationSortColumns, "created_at")
	page := query.ParsePage(c.Query("page"), c.Query("limit"))

	total, err := h.applications.Count(ctx, filter)
	if err != nil {
		h.logger.Error("failed to count applications", logger.String("job_id", jobID), logger.Error(err))
		respondServerFault(c, "Failed to fetch applications")
		return
	}

	apps, err := h.applications.List(ctx, filter, sort, page)
	if err != nil {
		h.logger.Error("failed to list applications", logger.String("job_id", jobID), logger.Error(err))
		respondServerFault(c, "Failed to fetch applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"count":             len(apps),
		"totalApplications": total,
		"currentPage":       page.Number,
		"totalPages":        query.TotalPages(total, page.Limit),
		"job": gin.H{
			"id":      job.ID,
			"title":   job.Title,
			"company": job.Company,
		},
		"data": apps,
	})
}

// UpdateApplicationStatus transitions an application through the review
// pipeline.
func (h *AdminHandler) UpdateApplicationStatus(c *gin.Context) {
	id := c.Param("id")

	var req updateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationErrors(c, fieldErrors(err))
		return
	}

	app, err := h.applications.UpdateStatus(c.Request.Context(), id, models.ApplicationStatus(req.Status))
	if errors.Is(err, repository.ErrApplicationNotFound) {
		respondError(c, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update application status",
			logger.String("application_id", id),
			logger.Error(err),
		)
		respondServerFault(c, "Failed to update application")
		return
	}

	h.logger.Info("application status updated",
		logger.String("application_id", app.ID),
		logger.String("status", string(app.Status)),
	)

	respondMessage(c, http.StatusOK, "Application updated successfully", app)
}
