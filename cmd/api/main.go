package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/ywpark/brickpay-api/internal/config"
	"github.com/ywpark/brickpay-api/internal/database"
	"github.com/ywpark/brickpay-api/internal/handlers"
	"github.com/ywpark/brickpay-api/internal/jobs"
	"github.com/ywpark/brickpay-api/internal/middleware"
	"github.com/ywpark/brickpay-api/internal/repository"
	"github.com/ywpark/brickpay-api/internal/services"
	"github.com/ywpark/brickpay-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, cfg)

	scheduleJobs(worker, svcs, repos, cfg)

	h := handlers.NewHandlers(svcs, repos, worker)

	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// scheduleJobs registers the recurring background jobs. The nightly recompute
// fans out one queued job per project; the hourly sweep rewrites price caches
// a failed computation left invalidated.
func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories, cfg *config.Config) {
	worker.ScheduleDailyAt(cfg.RecomputeHourUTC, func(ctx context.Context) error {
		projects, err := repos.Project.List(ctx)
		if err != nil {
			return err
		}
		for i := range projects {
			projectID := projects[i].ID
			worker.Enqueue(func(ctx context.Context) error {
				_, err := svcs.Installment.RecomputeProject(ctx, projectID)
				return err
			})
		}
		return nil
	})

	worker.ScheduleEvery(time.Hour, func(ctx context.Context) error {
		_, err := svcs.Installment.RecomputeInvalid(ctx)
		return err
	})
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	v1 := router.Group("/api/v1")
	{
		// Health check and login (public)
		v1.GET("/health", h.Health.Index)
		v1.POST("/auth/login", h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Contracts
			protected.GET("/contracts", h.Contract.Index)
			protected.GET("/contracts/:contract_id", h.Contract.Show)
			protected.GET("/contracts/:contract_id/plan", h.Contract.Plan)
			protected.GET("/contracts/:contract_id/adjustment", h.Contract.Adjustment)

			// Exports
			protected.GET("/contracts/:contract_id/exports/adjustment.csv", h.Export.AdjustmentCSV)
			protected.GET("/contracts/:contract_id/exports/adjustment.xlsx", h.Export.AdjustmentXLSX)
			protected.GET("/contracts/:contract_id/exports/plan.pdf", h.Export.PlanPDF)
			protected.GET("/contracts/:contract_id/exports/statement.pdf", h.Export.StatementPDF)

			// Ledger reads
			protected.GET("/transactions/:transaction_id", h.Ledger.ShowTransaction)
			protected.GET("/projects/:project_id/cash_book", h.Ledger.CashBook)
			protected.GET("/projects/:project_id/payment_mismatches", h.Ledger.Mismatches)

			// Staff mutations
			staff := protected.Group("")
			staff.Use(middleware.RequireRole("admin", "staff"))
			{
				staff.POST("/contracts", h.Contract.Create)
				staff.POST("/contracts/:contract_id/activate", h.Contract.Activate)
				staff.POST("/contracts/:contract_id/terminate", h.Contract.Terminate)
				staff.POST("/contracts/:contract_id/assign_unit", h.Contract.AssignUnit)
				staff.POST("/projects/:project_id/recompute", h.Contract.Recompute)

				staff.POST("/entries", h.Ledger.CreateEntry)
				staff.PUT("/entries/:entry_id", h.Ledger.UpdateEntry)
				staff.DELETE("/entries/:entry_id", h.Ledger.DeleteEntry)
				staff.POST("/entries/import", h.Ledger.BulkImport)
			}

			// Worker introspection (admin only)
			protected.GET("/jobs/status", middleware.RequireRole("admin"), h.Job.Status)
		}
	}

	return router
}
