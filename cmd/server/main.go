package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/events"
	"github.com/hotelops/hotel-admin-backend/internal/handlers"
	"github.com/hotelops/hotel-admin-backend/internal/middleware"
	"github.com/hotelops/hotel-admin-backend/internal/services"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/hotelops/hotel-admin-backend/pkg/jwt"
	"github.com/hotelops/hotel-admin-backend/pkg/seed"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Hotel Admin Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Open storage backend
	instanceID := storage.NewInstanceID()
	store, err := database.OpenStore(ctx, cfg, instanceID, logger)
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()
	logger.WithFields(logrus.Fields{
		"driver":      cfg.Storage.Driver,
		"instance_id": instanceID,
	}).Info("Storage ready")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	hotel := database.NewHotelStore(store, logger)
	bus := events.NewBus(16)

	clientService := services.NewClientService(hotel, bus, logger)
	roomService := services.NewRoomService(hotel, bus, logger)
	coordinator := services.NewReservationCoordinator(hotel, clientService, bus, logger)
	adminAuthService := services.NewAdminAuthService(hotel, jwtService, logger)
	rateLimitService := services.NewRateLimitService(hotel, services.RateLimitConfigFrom(cfg.Security), logger)

	// First-start seeding
	fetcher := seed.NewHTTPClientFetcher(cfg.Bootstrap.ClientSeedURL, cfg.Bootstrap.Timeout)
	if err := clientService.Bootstrap(ctx, fetcher); err != nil {
		logger.Fatalf("Failed to bootstrap clients: %v", err)
	}
	if err := roomService.EnsureSeeded(ctx); err != nil {
		logger.Fatalf("Failed to seed rooms: %v", err)
	}
	if err := adminAuthService.EnsureBootstrapAdmin(ctx, cfg.Admin); err != nil {
		logger.Fatalf("Failed to create bootstrap admin: %v", err)
	}

	// Dashboard follows other instances when the backend is shared
	watcher, _ := store.(storage.Watcher)
	dashboardService := services.NewDashboardService(hotel, bus, watcher, cfg.Dashboard.PollInterval, logger)
	if err := dashboardService.Start(ctx); err != nil {
		logger.Fatalf("Failed to start dashboard service: %v", err)
	}
	logger.WithField("poll_interval", cfg.Dashboard.PollInterval.String()).Info("✓ Dashboard refresh started")

	// Housekeeping jobs
	cronService := services.NewCronService(
		hotel,
		rateLimitService,
		cfg.Housekeeping.LoginAttemptsSchedule,
		cfg.Housekeeping.SessionPruneSchedule,
		logger,
	)
	if cfg.Housekeeping.Enabled {
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	}

	// Initialize handlers
	api := &handlers.Router{
		Auth:         handlers.NewAdminAuthHandler(adminAuthService, rateLimitService, logger),
		Clients:      handlers.NewClientHandler(clientService, logger),
		Rooms:        handlers.NewRoomHandler(roomService, logger),
		Reservations: handlers.NewReservationHandler(coordinator, logger),
		Dashboard:    handlers.NewDashboardHandler(dashboardService, cfg.Dashboard.StreamHeartbeat, logger),
		System:       handlers.NewSystemHandler(cronService, logger),
	}
	healthHandler := handlers.NewHealthHandler(store, cfg.Storage.Driver, version, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORS.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	api.Register(v1, middleware.AuthMiddleware(jwtService, logger))

	// Create HTTP server. No write timeout: the dashboard stream stays open.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop dashboard refresh; this also ends open streams
	logger.Info("Stopping dashboard service...")
	dashboardService.Stop()
	if cfg.Housekeeping.Enabled {
		cronService.Stop()
	}
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// allowsAnyOrigin reports whether origins contains the "*" wildcard, which
// cors refuses to combine with credentials
func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"has_auth":   c.GetHeader("Authorization") != "",
		}

		// Add admin context if available
		if adminCtx, exists := middleware.GetAdminContext(c); exists {
			fields["admin_id"] = adminCtx.AdminID
			fields["username"] = adminCtx.Username
		}

		entry := logger.WithFields(fields)

		// Log errors with more details
		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		// Log based on status code
		status := c.Writer.Status()
		if status >= 500 {
			entry.Error("Request completed with server error")
		} else if status >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}
