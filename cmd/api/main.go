package main

import (
	"context"
	"fmt"
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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/teadealer/teadealer-api/docs" // Swagger docs
	"github.com/teadealer/teadealer-api/internal/config"
	"github.com/teadealer/teadealer-api/internal/database"
	"github.com/teadealer/teadealer-api/internal/handlers"
	"github.com/teadealer/teadealer-api/internal/jobs"
	"github.com/teadealer/teadealer-api/internal/middleware"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/repository"
	"github.com/teadealer/teadealer-api/internal/services"
	"github.com/teadealer/teadealer-api/internal/storage"
	"github.com/teadealer/teadealer-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Tea Dealer API
// @version 1.0
// @description REST API for a tea-leaf collection and monthly invoicing backend

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
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

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Collection{},
		&models.MonthlyRate{},
		&models.Deduction{},
		&models.Invoice{},
		&models.AppSetting{},
		&models.User{},
	); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg)

	scheduleJobs(worker, svcs)

	h := handlers.NewHandlers(svcs, store)

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

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Check)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/auth/logout", h.Auth.Logout)
			protected.PUT("/auth/password", h.Auth.ChangePassword)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/auth/users", h.Auth.CreateUser)
				admin.PUT("/settings", h.Settings.Update)
				admin.POST("/settings/invoice-template", h.Settings.UploadInvoiceTemplate)
				admin.DELETE("/invoices/:id", h.Invoice.Destroy)
				admin.DELETE("/rates/:id", h.Rate.Destroy)
				admin.DELETE("/customers/:id", h.Customer.Destroy)
			}

			// Growers
			customers := protected.Group("/customers")
			{
				customers.GET("", h.Customer.Index)
				customers.GET("/routes", h.Customer.Routes)
				customers.GET("/:id", h.Customer.Show)
				customers.POST("", h.Customer.Create)
				customers.PUT("/:id", h.Customer.Update)
			}

			// Daily weighings
			collections := protected.Group("/collections")
			{
				collections.GET("", h.Collection.Index)
				collections.GET("/:id", h.Collection.Show)
				collections.POST("", h.Collection.Create)
				collections.PUT("/:id", h.Collection.Update)
				collections.DELETE("/:id", h.Collection.Destroy)
			}

			// Monthly rate cards
			rates := protected.Group("/rates")
			{
				rates.GET("", h.Rate.Index)
				rates.GET("/:year/:month", h.Rate.Show)
				rates.PUT("", h.Rate.Upsert)
			}

			// Monthly charges
			deductions := protected.Group("/deductions")
			{
				deductions.PUT("", h.Deduction.Upsert)
				deductions.GET("/:year/:month", h.Deduction.Index)
				deductions.GET("/:year/:month/:customer_id", h.Deduction.Show)
				deductions.DELETE("/:id", h.Deduction.Destroy)
			}

			// Invoices
			invoices := protected.Group("/invoices")
			{
				invoices.GET("", h.Invoice.Index)
				invoices.POST("/generate", h.Invoice.Generate)
				invoices.POST("/generate-all/:year/:month", h.Invoice.GenerateAll)
				invoices.GET("/stats/:year/:month", h.Invoice.Stats)
				invoices.GET("/:id", h.Invoice.Show)
				invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
				invoices.GET("/:id/pdf", h.Invoice.DownloadPDF)
			}

			// Settings (read for all staff, writes are admin-only above)
			protected.GET("/settings", h.Settings.Index)

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("/invoices/:year/:month", h.Report.MonthlySummary)
				reports.GET("/collections/:date", h.Report.DailyCollections)
				reports.GET("/customers/:customer_id/invoices", h.Report.CustomerHistory)
			}

			// Background worker
			protected.GET("/jobs/stats", h.Job.Stats)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Remind operators daily when the previous month has weighings on record
	// but no invoices were generated yet.
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		pending, year, month, err := svcs.Invoice.MonthEndPending(ctx, time.Now())
		if err != nil {
			return err
		}
		if pending {
			logger.Warn(fmt.Sprintf("[Job] Month-end generation pending for %d-%02d", year, month))
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
