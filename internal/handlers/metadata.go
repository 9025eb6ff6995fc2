package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/metadata"
)

// MetadataExtractor suggests posting fields from an external page.
type MetadataExtractor interface {
	Extract(ctx context.Context, pageURL string) (*metadata.Suggestion, error)
}

// MetadataHandler serves posting-form prefill suggestions.
type MetadataHandler struct {
	extractor MetadataExtractor
	logger    logger.Logger
}

func NewMetadataHandler(extractor MetadataExtractor, log logger.Logger) *MetadataHandler {
	return &MetadataHandler{
		extractor: extractor,
		logger:    log,
	}
}

// Extract fetches the page named by the url query parameter and returns
// suggested posting fields.
func (h *MetadataHandler) Extract(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		respondError(c, http.StatusBadRequest, "url query parameter is required")
		return
	}

	suggestion, err := h.extractor.Extract(c.Request.Context(), pageURL)
	if err != nil {
		h.logger.Warn("metadata extraction failed",
			logger.String("url", pageURL),
			logger.Error(err),
		)
		respondError(c, http.StatusBadGateway, "Could not extract metadata from URL")
		return
	}

	respondData(c, http.StatusOK, suggestion)
}
