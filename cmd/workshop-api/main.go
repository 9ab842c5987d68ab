package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/clients"
	"brimis/workshop-intelligence/workshop-backend/internal/config"
	"brimis/workshop-intelligence/workshop-backend/internal/dashboard"
	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/parts"
	"brimis/workshop-intelligence/workshop-backend/internal/photos"
	"brimis/workshop-intelligence/workshop-backend/internal/qc"
	"brimis/workshop-intelligence/workshop-backend/internal/reports"
	"brimis/workshop-intelligence/workshop-backend/internal/users"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Load .env for local development; ignore when absent
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to database
	logger.Info("Connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Repositories
	jobsRepo := jobs.NewPostgresRepository(db)
	partsRepo := parts.NewPostgresRepository(db)
	reportsRepo := reports.NewPostgresRepository(db)
	qcRepo := qc.NewPostgresRepository(db)
	photosRepo := photos.NewPostgresRepository(db)
	clientsRepo := clients.NewPostgresRepository(db)
	usersRepo := users.NewPostgresRepository(db)

	// Services
	jobsService := jobs.NewService(jobsRepo, logger)
	reportsService := reports.NewService(reportsRepo, jobsRepo, partsRepo, logger)
	qcService := qc.NewService(qcRepo, logger)
	dashboardService := dashboard.NewService(jobsRepo, logger)

	// Workflow engine
	validator := workflow.NewValidator(photosRepo, partsRepo, reportsRepo, jobsRepo, qcRepo)
	validator.SetMinStripPhotos(cfg.Workflow.MinStripPhotos)
	engine := workflow.NewEngine(jobsRepo, jobsRepo, validator, logger)

	// Handlers
	jobsHandler := jobs.NewHandler(jobsService, logger)
	workflowHandler := workflow.NewHandler(engine, logger)
	partsHandler := parts.NewHandler(partsRepo, logger)
	reportsHandler := reports.NewHandler(reportsService, logger)
	qcHandler := qc.NewHandler(qcService, logger)
	photosHandler := photos.NewHandler(photosRepo, logger)
	clientsHandler := clients.NewHandler(clientsRepo, logger)
	usersHandler := users.NewHandler(usersRepo, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)

	// Keep the dashboard snapshot fresh
	refresher := dashboard.NewRefresher(dashboardService, logger)
	if err := refresher.Start(cfg.Dashboard.RefreshSchedule); err != nil {
		logger.Fatal("Failed to start dashboard refresher", zap.Error(err))
	}
	defer refresher.Stop()

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	{
		jobsHandler.RegisterRoutes(api)
		workflowHandler.RegisterRoutes(api)
		partsHandler.RegisterRoutes(api)
		reportsHandler.RegisterRoutes(api)
		qcHandler.RegisterRoutes(api)
		photosHandler.RegisterRoutes(api)
		clientsHandler.RegisterRoutes(api)
		usersHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", zap.Error(err))
	}

	logger.Info("Server exiting")
}
