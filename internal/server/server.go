package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stagekit/greenroom-api/internal/config"
	"github.com/stagekit/greenroom-api/internal/domain/reminder"
	"github.com/stagekit/greenroom-api/internal/domain/submission"
	"github.com/stagekit/greenroom-api/internal/handlers"
	"github.com/stagekit/greenroom-api/internal/logger"
	"github.com/stagekit/greenroom-api/internal/middleware/requestlog"
	"github.com/stagekit/greenroom-api/internal/notifier"
	"github.com/stagekit/greenroom-api/internal/portal"
	"github.com/stagekit/greenroom-api/internal/storage/objectstore"
	"github.com/stagekit/greenroom-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	container  *postgres.Container
	store      objectstore.Store
	notify     notifier.Notifier
	links      *portal.LinkBuilder
}

// New creates a new server instance
func New(cfg *config.Config, container *postgres.Container, store objectstore.Store, notify notifier.Notifier, links *portal.LinkBuilder) *Server {
	return &Server{
		config:    cfg,
		container: container,
		store:     store,
		notify:    notify,
		links:     links,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(requestlog.Trace())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	ledgerService := submission.NewLedgerService(
		s.container.Submissions(),
		s.container.Requirements(),
		s.container.Speakers(),
	)
	deliveryService := reminder.NewDeliveryService(
		s.container.Reminders(),
		s.container.Speakers(),
		s.container.Events(),
		s.notify,
		s.links,
	)

	submissionHandler := handlers.NewSubmissionHandler(ledgerService, s.store)
	reminderHandler := handlers.NewReminderHandler(deliveryService, s.container.Reminders())
	speakerHandler := handlers.NewSpeakerHandler(
		s.container.Speakers(),
		s.container.Submissions(),
		s.container.Requirements(),
	)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := s.container.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"message": "Greenroom API is running",
			"status":  status,
		})
	})

	s.setupAPIRoutes(router, submissionHandler, reminderHandler, speakerHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	submissionHandler *handlers.SubmissionHandler,
	reminderHandler *handlers.ReminderHandler,
	speakerHandler *handlers.SpeakerHandler,
) {
	api := router.Group("/api")
	{
		speakers := api.Group("/speakers")
		{
			speakers.GET("/:speaker_id/status", speakerHandler.GetStatus)
			speakers.POST("/:speaker_id/requirements/:requirement_id/submissions", submissionHandler.Upload)
			speakers.GET("/:speaker_id/requirements/:requirement_id/submissions", submissionHandler.History)
			speakers.POST("/:speaker_id/reminders", reminderHandler.Trigger)
			speakers.GET("/:speaker_id/reminders", reminderHandler.ListBySpeaker)
		}

		submissions := api.Group("/submissions")
		{
			submissions.GET("/:submission_id/download", submissionHandler.Download)
			submissions.DELETE("/:submission_id", submissionHandler.Delete)
		}

		reminders := api.Group("/reminders")
		{
			reminders.POST("/:reminder_id/retry", reminderHandler.Retry)
		}

		events := api.Group("/events")
		{
			events.GET("/:event_id/speakers", speakerHandler.ListByEvent)
		}
	}
}
