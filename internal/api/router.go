// Package api wires the HTTP surface: routes, CORS, request logging,
// rate limiting, and the admin gate.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/handlers"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/ratelimit"
)

const corsMaxAgeHours = 12

// Deps carries everything the router needs.
type Deps struct {
	Jobs         handlers.JobStore
	Applications handlers.ApplicationStore
	Broker       events.Broker
	Extractor    handlers.MetadataExtractor
	LimitStore   ratelimit.Store
	Config       *config.Config
	Logger       logger.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	log := deps.Logger

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	jobHandler := handlers.NewJobHandler(deps.Jobs, deps.Applications, deps.Broker, log)
	adminHandler := handlers.NewAdminHandler(deps.Jobs, deps.Applications, deps.Broker, log)
	metadataHandler := handlers.NewMetadataHandler(deps.Extractor, log)

	limits := deps.Config.RateLimit

	// Public job browsing
	jobs := router.Group("/api/jobs")
	jobs.Use(ratelimit.Middleware(deps.LimitStore, "jobs", limit(limits.Jobs), log))
	jobs.GET("", jobHandler.List)
	jobs.GET("/stats", jobHandler.Stats)
	jobs.GET("/:id", jobHandler.Get)

	// Application submission carries its own, much stricter window
	jobs.POST("/:id/apply",
		ratelimit.Middleware(deps.LimitStore, "apply", limit(limits.Apply), log),
		jobHandler.Apply,
	)

	// Admin console
	admin := router.Group("/api/admin")
	admin.Use(ratelimit.Middleware(deps.LimitStore, "admin", limit(limits.Admin), log))
	admin.Use(adminAuth(deps.Config.Auth.AdminToken, log))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/jobs", adminHandler.ListJobs)
	admin.POST("/jobs", adminHandler.CreateJob)
	admin.POST("/jobs/import", adminHandler.ImportJobs)
	admin.PUT("/jobs/:id", adminHandler.UpdateJob)
	admin.DELETE("/jobs/:id", adminHandler.DeleteJob)
	admin.GET("/jobs/:id/applications", adminHandler.ListJobApplications)
	admin.GET("/applications", adminHandler.ListApplications)
	admin.PUT("/applications/:id", adminHandler.UpdateApplicationStatus)
	admin.GET("/metadata", metadataHandler.Extract)
	admin.GET("/events", events.Handler(deps.Broker, log))

	return router
}

// limit converts the config window into the middleware's shape.
func limit(w config.WindowConfig) ratelimit.Limit {
	return ratelimit.Limit{Window: w.Window, Max: w.Max}
}

// adminAuth gates the console behind a bearer token. An empty configured
// token disables the gate, matching deployments that front the console with
// their own auth.
func adminAuth(token string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || provided != token {
			log.Debug("admin auth rejected",
				logger.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}

		c.Next()
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
