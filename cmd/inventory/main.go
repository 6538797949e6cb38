package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/pawcare/stock-ledger/internal/inventory"
	httpDelivery "github.com/pawcare/stock-ledger/internal/inventory/delivery/http"
	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
	"github.com/pawcare/stock-ledger/kafka"
	"github.com/pawcare/stock-ledger/pkg/database"
	"github.com/pawcare/stock-ledger/pkg/logger"
	"github.com/pawcare/stock-ledger/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "stock-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting stock service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "stockdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(&domain.Item{}, &domain.Movement{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Connect to Redis for the stats cache; the service degrades to
	// uncached reads when unavailable
	var redisClient *redis.Client
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Logger.Warn().Err(err).Str("addr", redisAddr).Msg("Redis unavailable, stats cache disabled")
			redisClient = nil
		}
		cancel()
	}

	// Initialize service with Wire DI
	service, err := inventory.InitializeService(db, redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize service")
	}

	// Register notification rules
	expiryWindow := getEnvInt("EXPIRY_WINDOW_DAYS", notification.DefaultExpiryWindowDays)
	service.RegisterObserver(notification.NewAuditRule())
	service.RegisterObserver(notification.NewLowStockRule(nil))
	service.RegisterObserver(notification.NewExpiryRule(expiryWindow, nil))
	service.RegisterObserver(notification.NewMetricsRule(prometheus.DefaultRegisterer, expiryWindow))

	logger.Logger.Info().
		Int("expiry_window_days", expiryWindow).
		Msg("Stock service initialized")

	// Start Kafka consumer for billing dispense events
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		consumer, err := kafka.NewConsumer(
			strings.Split(brokers, ","),
			getEnv("KAFKA_GROUP_ID", "stock-service"),
			[]string{kafka.TopicItemDispensed},
		)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		defer consumer.Close()

		consumer.RegisterHandler(kafka.EventTypeItemDispensed, func(ctx context.Context, event kafka.ItemDispensedEvent) error {
			result := service.ApplyCommand(ctx, inventory.ApplyRequest{
				Kind:      inventory.KindRemoveStock,
				SKU:       event.ItemSKU,
				Quantity:  event.Quantity,
				Reason:    fmt.Sprintf("Dispensed on invoice #%d", event.InvoiceID),
				Actor:     event.DispensedBy,
				SessionID: "billing",
			})
			if !result.Success {
				return fmt.Errorf("dispense rejected: %s", result.Error)
			}
			return nil
		})

		if err := consumer.Start(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
		}
	}

	// Start HTTP server
	handler := httpDelivery.NewStockHandler(service)
	httpPort := getEnv("HTTP_PORT", "8084")
	go startHTTPServer(handler, sqlDB, serviceName, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(handler *httpDelivery.StockHandler, db *sql.DB, serviceName, port string) {
	// Setup router
	router := mux.NewRouter()

	// Middlewares
	router.Use(httpDelivery.TracingMiddleware(serviceName))
	router.Use(httpDelivery.LoggingMiddleware)

	// Register routes
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
