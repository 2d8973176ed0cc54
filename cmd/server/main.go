package main

import (
	"log"

	"case_registry_go/config"
	"case_registry_go/db"
	"case_registry_go/handlers"
	"case_registry_go/metrics"
	"case_registry_go/middleware"
	"case_registry_go/models"
	"case_registry_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.CaseFile{},
		&models.UnassignedLetter{},
		&models.GeneralReminder{},
		&models.Attorney{},
		&models.AuditLog{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire services
	attorneys := services.NewAttorneyDirectory(db.DB)
	notifications := services.NewNotificationService(db.DB, services.NewEmailNotifier(cfg))

	registry := services.NewRegistryService(services.NewGormRecordStore(db.DB))
	registry.Audit = services.NewGormAuditLogger(db.DB)
	registry.Notifier = notifications
	registry.Metrics = metrics.New(prometheus.DefaultRegisterer)
	registry.Attorneys = attorneys
	registry.Scans = services.NewScanStorage(cfg)
	registry.MaxBatchSize = cfg.MaxBatchSize

	h := handlers.New(db.DB, registry, attorneys, notifications)
	batchLimiter := middleware.NewBatchRateLimiter(cfg.BatchRateLimit)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Local scan storage is served as static files
	if !cfg.R2Configured() {
		e.Static("/"+cfg.UploadDir, cfg.UploadDir)
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Protected routes (attorney identity required)
	api := e.Group("/api")
	api.Use(middleware.RequireAttorney(attorneys))
	api.Use(middleware.AuditContext())
	{
		api.GET("/me", h.GetMeHandler)
		api.GET("/attorneys", h.ListAttorneysHandler)

		// Caseload views
		api.GET("/caseload", h.GetCaseloadHandler)
		api.GET("/caseload/stagnant", h.GetStagnantHandler)
		api.GET("/register.xlsx", h.GetCustodyRegisterHandler)

		// Case files
		api.POST("/files", h.CreateFileHandler)
		api.POST("/files/import", h.ImportFilesHandler)
		api.GET("/files/:fileNumber", h.GetFileHandler)
		api.PATCH("/files/:fileNumber", h.UpdateFileHandler)
		api.PUT("/files/:fileNumber/reportable-date", h.BumpReportableDateHandler)
		api.PUT("/files/:fileNumber/pin", h.SetPinHandler)
		api.PUT("/files/:fileNumber/milestones", h.SetMilestonesHandler)
		api.GET("/files/:fileNumber/history", h.GetFileHistoryHandler)

		// Ledger and requests
		api.POST("/files/:fileNumber/movements", h.RecordMovementHandler)
		api.POST("/files/:fileNumber/movements/:id/acknowledge", h.AcknowledgeMovementHandler)
		api.POST("/files/:fileNumber/requests", h.RequestFileHandler)
		api.DELETE("/files/:fileNumber/requests/:id", h.CancelRequestHandler)

		// Correspondence on a file
		api.POST("/files/:fileNumber/letters/:id/detach", h.DetachLetterHandler)
		api.PATCH("/files/:fileNumber/letters/:id", h.EditAttachedLetterHandler)
		api.DELETE("/files/:fileNumber/letters/:id", h.DeleteAttachedLetterHandler)

		// File reminders
		api.POST("/files/:fileNumber/reminders", h.AddFileReminderHandler)
		api.PUT("/files/:fileNumber/reminders/:id", h.CompleteFileReminderHandler)
		api.DELETE("/files/:fileNumber/reminders/:id", h.DeleteFileReminderHandler)

		// Unassigned correspondence pool
		api.GET("/letters", h.ListUnassignedHandler)
		api.POST("/letters", h.CreateLetterHandler)
		api.POST("/letters/:id/attach", h.AttachLetterHandler)
		api.PATCH("/letters/:id", h.EditUnassignedLetterHandler)
		api.DELETE("/letters/:id", h.DeleteUnassignedLetterHandler)
		api.POST("/letters/:id/scan", h.UploadScanHandler)

		// Batch operations
		batch := api.Group("/batch")
		batch.Use(batchLimiter.Middleware())
		{
			batch.POST("/move", h.BatchMoveHandler)
			batch.POST("/pickup", h.BatchPickupHandler)
		}

		// General reminders and notifications
		api.GET("/reminders", h.ListRemindersHandler)
		api.POST("/reminders", h.CreateReminderHandler)
		api.DELETE("/reminders/:id", h.DeleteReminderHandler)
		api.GET("/notifications", h.GetNotificationsHandler)
		api.POST("/notifications/:id/read", h.MarkNotificationReadHandler)

		// Executive-only routes
		requireExec := middleware.RequireExecutive()
		api.POST("/attorneys", h.CreateAttorneyHandler, requireExec)
		api.POST("/attorneys/rename", h.RenameAttorneyHandler, requireExec)
		api.GET("/audit-logs", h.GetAuditLogsHandler, requireExec)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
