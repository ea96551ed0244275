package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Blackfireoff/Incident-Factory/internal/db"
	"github.com/Blackfireoff/Incident-Factory/internal/logger"
	"github.com/Blackfireoff/Incident-Factory/internal/middleware"
	"github.com/Blackfireoff/Incident-Factory/internal/routes"
	"github.com/Blackfireoff/Incident-Factory/internal/services"

	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set CORS headers for all requests
		origin := "http://localhost:5173"
		if os.Getenv("ENV") != "local" && os.Getenv("ENV") != "" {
			if corsOrigin := os.Getenv("CORS_ORIGIN"); corsOrigin != "" {
				origin = corsOrigin
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		// Handle preflight request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// buildDataSource selects the incident source from DATA_SOURCE: "api" proxies
// the remote backend, "store" reads the shared database directly, "demo"
// serves the built-in sample set.
func buildDataSource() (services.DataSource, string) {
	mode := os.Getenv("DATA_SOURCE")
	switch mode {
	case "store":
		db.Connect()
		db.AutoMigrate()
		return services.NewStoreService(db.DB), mode
	case "demo":
		return services.NewDemoSource(), mode
	default:
		return services.NewBackendService(os.Getenv("BACKEND_URL")), "api"
	}
}

func main() {
	// Initialize logger first
	logger.Initialize()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables", nil)
	}

	source, sourceMode := buildDataSource()
	logger.WithSource(sourceMode).Info("Data source configured")

	// Setup graceful shutdown
	stopChan := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		logger.Warn("Received shutdown signal, stopping...", nil)
		close(stopChan)
	}()

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	r := gin.New()

	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	// Use our custom logging middleware instead of gin.Default()
	r.Use(middleware.CustomLoggerMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sourceStatus := "ok"
		var sourceError error

		// The store variant owns a database connection worth probing; the
		// api and demo variants have nothing to ping here.
		if sourceMode == "store" {
			if db.DB != nil {
				sqlDB, err := db.DB.DB()
				if err != nil {
					sourceStatus = "error"
					sourceError = err
				} else if err := sqlDB.Ping(); err != nil {
					sourceStatus = "error"
					sourceError = err
				}
			} else {
				sourceStatus = "error"
				sourceError = fmt.Errorf("database connection not initialized")
			}
		}

		overallStatus := "ok"
		statusCode := 200
		if sourceStatus != "ok" {
			overallStatus = "error"
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":    overallStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   "1.0.0",
			"services": gin.H{
				"data_source": gin.H{
					"mode":   sourceMode,
					"status": sourceStatus,
					"error":  sourceError,
				},
			},
		})
	})

	// Setup routes
	feeds := routes.SetupRoutes(r, source)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	logger.Info("Starting incident dashboard gateway", map[string]interface{}{
		"port":     port,
		"gin_mode": gin.Mode(),
		"source":   sourceMode,
	})

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for shutdown signal
	<-stopChan
	logger.Info("Shutting down server gracefully...", nil)

	feeds.Shutdown()

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Server exited gracefully", nil)
	}
}
