package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/logger"
)

const (
	headerContentType     = "Content-Type"
	headerCacheControl    = "Cache-Control"
	headerConnection      = "Connection"
	headerXAccelBuffering = "X-Accel-Buffering"

	sseContentType = "text/event-stream"
)

// Handler creates a Gin handler for the SSE endpoint. It sets the SSE
// headers, subscribes to the broker, and streams events to the client until
// disconnection.
func Handler(broker Broker, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSSEHeaders(c.Writer)
		c.Writer.Flush()

		eventChan, cleanup := broker.Subscribe(c.Request.Context())
		defer cleanup()

		if !subscriptionValid(eventChan, c, log) {
			return
		}

		if err := sendConnectionEvent(c.Writer); err != nil {
			log.Error("failed to write connection event", logger.Error(err))
			return
		}

		log.Debug("SSE client connected",
			logger.String("remote_addr", c.ClientIP()),
		)

		streamEvents(c, eventChan, log)
	}
}

func setSSEHeaders(w gin.ResponseWriter) {
	w.Header().Set(headerContentType, sseContentType)
	w.Header().Set(headerCacheControl, "no-cache")
	w.Header().Set(headerConnection, "keep-alive")
	w.Header().Set(headerXAccelBuffering, "no")
}

// subscriptionValid checks whether the broker accepted the subscription.
func subscriptionValid(eventChan <-chan Event, c *gin.Context, log logger.Logger) bool {
	select {
	case _, ok := <-eventChan:
		if !ok {
			log.Warn("SSE subscription rejected (max clients reached)")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Too many connections",
			})
			return false
		}
	default:
		// Channel is open, proceed
	}
	return true
}

func sendConnectionEvent(w gin.ResponseWriter) error {
	return writeEvent(w, Event{
		Type: eventTypeConnected,
		Data: map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"message":   "SSE connection established",
		},
	})
}

func streamEvents(c *gin.Context, eventChan <-chan Event, log logger.Logger) {
	ticker := time.NewTicker(DefaultHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				log.Debug("SSE event channel closed")
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				log.Debug("SSE write failed (client likely disconnected)",
					logger.Error(err),
					logger.String("event_type", event.Type),
				)
				return
			}
		case <-ticker.C:
			if err := writeHeartbeat(c.Writer); err != nil {
				log.Debug("SSE heartbeat failed (client disconnected)")
				return
			}
		case <-c.Request.Context().Done():
			log.Debug("SSE client request context cancelled")
			return
		}
	}
}

func writeEvent(w gin.ResponseWriter, event Event) error {
	if event.Type != "" {
		if _, writeErr := fmt.Fprintf(w, "event: %s\n", event.Type); writeErr != nil {
			return fmt.Errorf("write event type: %w", writeErr)
		}
	}

	dataJSON, marshalErr := json.Marshal(event.Data)
	if marshalErr != nil {
		return fmt.Errorf("marshal event data: %w", marshalErr)
	}

	if _, writeErr := fmt.Fprintf(w, "data: %s\n\n", dataJSON); writeErr != nil {
		return fmt.Errorf("write event data: %w", writeErr)
	}

	w.Flush()
	return nil
}

// writeHeartbeat writes an SSE comment to keep the connection alive.
func writeHeartbeat(w gin.ResponseWriter) error {
	if _, writeErr := fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().UTC().Format(time.RFC3339)); writeErr != nil {
		return fmt.Errorf("write heartbeat: %w", writeErr)
	}
	w.Flush()
	return nil
}
