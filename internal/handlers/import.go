package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/importer"
	"github.com/jonesrussell/gojobs/internal/logger"
)

// maxImportSize caps the uploaded workbook at 10 MiB.
const maxImportSize = 10 << 20

// ImportJobs accepts an Excel workbook as the multipart "file" field and
// bulk-creates the valid rows in one transaction. Row-level failures are
// reported alongside the import; they do not abort the valid rows.
func (h *AdminHandler) ImportJobs(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Excel file is required (multipart field \"file\")")
		return
	}
	if fileHeader.Size > maxImportSize {
		respondError(c, http.StatusBadRequest, "File too large (10MB limit)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", logger.Error(err))
		respondServerFault(c, "Failed to import jobs")
		return
	}
	defer file.Close()

	jobs, importErrors, err := importer.ParseJobs(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid workbook: "+err.Error())
		return
	}

	if len(jobs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No valid rows found",
			"errors":  importErrors,
		})
		return
	}

	created, err := h.jobs.CreateBatch(c.Request.Context(), jobs)
	if err != nil {
		h.logger.Error("failed to import jobs", logger.Error(err))
		respondServerFault(c, "Failed to import jobs")
		return
	}

	h.logger.Info("jobs imported",
		logger.String("filename", fileHeader.Filename),
		logger.Int("imported", created),
		logger.Int("failed", len(importErrors)),
	)

	for _, job := range jobs {
		if err := h.notifier.Publish(c.Request.Context(), events.NewJobCreatedEvent(job)); err != nil {
			h.logger.Warn("failed to publish jobCreated event", logger.Error(err))
			break
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Import complete",
		"imported": created,
		"failed":   len(importErrors),
		"errors":   importErrors,
	})
}
