package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"todostock/internal/analytics"
	"todostock/internal/caching"
	"todostock/internal/config"
	"todostock/internal/events"
	"todostock/internal/handlers"
	"todostock/internal/jobs"
	"todostock/internal/jobs/background"
	"todostock/internal/middleware"
	"todostock/internal/repositories"
	"todostock/internal/services"
	"todostock/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Database connection
	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	pool, err := database.NewPool(startCtx, cfg.DatabaseURL)
	cancelStart()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheSvc.Close()

	// MinIO is optional; without it journal exports answer 500
	var minioSvc services.MinioService
	if cfg.Minio.Enabled() {
		minioSvc, err = services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO service: %v", err)
		}
		bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 10*time.Second)
		if err := minioSvc.EnsureBucketExists(bucketCtx); err != nil {
			log.Printf("WARN: MinIO bucket %s not ready: %v", cfg.Minio.Bucket, err)
		}
		cancelBucket()
	} else {
		log.Printf("WARN: MINIO_ENDPOINT not set, sales journal export disabled")
	}

	publisher := events.NewNoopPublisher()
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Printf("Publishing sale events to %s", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Token verification: JWKS from the identity provider, or a shared HMAC secret
	var keyFunc jwt.Keyfunc
	jwtSecret := cfg.Auth.JWTSecret
	if cfg.Auth.JWKSURL != "" {
		jwks, err := middleware.LoadJWKS(cfg.Auth.JWKSURL)
		if err != nil {
			log.Fatalf("Failed to load JWKS from %s: %v", cfg.Auth.JWKSURL, err)
		}
		defer jwks.EndBackground()
		keyFunc = jwks.Keyfunc
	} else if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: AUTH_JWKS_URL and AUTH_JWT_SECRET not set, using a generated JWT secret")
	}

	// Create repositories
	customerRepo := repositories.NewCustomerRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)

	// Create services
	customerSvc := services.NewCustomerService(customerRepo, cfg.ReadRetries)
	productSvc := services.NewProductService(productRepo, cacheSvc, cfg.ReadRetries)
	saleSvc := services.NewSaleService(pool, saleRepo, productRepo, customerRepo, cacheSvc, publisher, cfg.ReadRetries)
	authSvc := services.NewAuthService(cfg.Auth.URL, cfg.Auth.APIKey, cacheSvc, nil)
	analyticsSvc := analytics.NewAnalyticsService(reportRepo, cacheSvc, minioSvc, cfg.Reports.CacheTTL, cfg.Reports.Location, cfg.ReadRetries)

	// Background jobs
	scheduler, err := background.NewJobScheduler(
		jobs.NewAnalyticsRefreshService(analyticsSvc),
		jobs.NewInventoryAlertService(productRepo),
		cfg.Jobs.LowStockThreshold,
	)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	// Create Echo instance
	e := handlers.NewServer()

	// Global middleware
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %d %s request_id=%s error=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Printf("%s %s %d %s request_id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.VersionHeader(version))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, handlers.IdempotencyKeyHeader},
	}))

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Auth:      handlers.NewAuthHandlers(authSvc),
		Customers: handlers.NewCustomerHandlers(customerSvc),
		Products:  handlers.NewProductHandlers(productSvc),
		Sales:     handlers.NewSaleHandlers(saleSvc, cfg.Reports.Location),
		Analytics: handlers.NewAnalyticsHandlers(analyticsSvc),
		Health:    handlers.NewHealthHandlers(pool, cacheSvc, version),
	}, middleware.JWTMiddleware(keyFunc, jwtSecret))

	// Start server
	go func() {
		log.Printf("🚀 TodoStock server v%s starting on port %d", version, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("WARN: HTTP server shutdown: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Printf("WARN: scheduler shutdown: %v", err)
	}
}
