package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedule-agent/config"
	deliveryHttp "schedule-agent/internal/delivery/http"
	"schedule-agent/internal/delivery/http/handler"
	"schedule-agent/internal/delivery/http/middleware"
	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/infrastructure/cache"
	"schedule-agent/internal/infrastructure/database"
	"schedule-agent/internal/repository"
	"schedule-agent/internal/service"
	"schedule-agent/internal/usecase"
	"schedule-agent/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := db.AutoMigrate(
		&entity.Patient{},
		&entity.Appointment{},
		&entity.Conversation{},
		&entity.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	conversationRepo := repository.NewConversationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	slotCache := service.NewSlotCacheService(redisClient, log, cfg.Cache.SlotTTL)
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, appointmentRepo, slotCache)
	bookingUsecase := usecase.NewBookingUsecase(db, log, patientRepo, appointmentRepo, auditService, slotCache)
	machine := usecase.NewConversationMachine(log, availabilityUsecase, bookingUsecase)
	conversationUsecase := usecase.NewConversationUsecase(db, log, conversationRepo, machine)
	auditUsecase := usecase.NewAuditUsecase(db, log, auditLogRepo)

	// Initialize handlers
	webhookHandler := handler.NewWebhookHandler(conversationUsecase, log)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditUsecase)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware()
	requestLogger := middleware.NewRequestLoggerMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(webhookHandler, availabilityHandler, appointmentHandler, auditLogHandler, corsMiddleware, requestLogger)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
