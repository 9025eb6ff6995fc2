package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/query"
	"github.com/jonesrussell/gojobs/internal/repository"
)

// JobHandler serves the public job board: browsing active postings and
// submitting applications.
type JobHandler struct {
	jobs         JobStore
	applications ApplicationStore
	notifier     Notifier
	logger       logger.Logger
}

func NewJobHandler(jobs JobStore, applications ApplicationStore, notifier Notifier, log logger.Logger) *JobHandler {
	return &JobHandler{
		jobs:         jobs,
		applications: applications,
		notifier:     notifier,
		logger:       log,
	}
}

// List returns active jobs matching the query parameters. Free-text search
// covers title, company, location and description; the status filter is
// pinned to active regardless of what the client sends.
func (h *JobHandler) List(c *gin.Context) {
	filter := query.JobFilter{
		Search:            c.Query("search"),
		SearchDescription: true,
		Status:            string(models.JobStatusActive),
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

// Get returns a single job. Jobs that exist but are not active are hidden
// from the public surface, so both cases return 404.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrJobNotFound) {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch job", logger.String("job_id", c.Param("id")), logger.Error(err))
		respondServerFault(c, "Failed to fetch job")
		return
	}
	if job.Status != models.JobStatusActive {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	respondData(c, http.StatusOK, job)
}

// Stats returns the public aggregate counts by status and by type.
func (h *JobHandler) Stats(c *gin.Context) {
	overview, err := h.jobs.Overview(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch job overview", logger.Error(err))
		respondServerFault(c, "Failed to fetch job stats")
		return
	}

	typeCounts, err := h.jobs.TypeCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch job type counts", logger.Error(err))
		respondServerFault(c, "Failed to fetch job stats")
		return
	}

	respondData(c, http.StatusOK, models.JobStats{
		Overview: *overview,
		JobTypes: typeCounts,
	})
}
