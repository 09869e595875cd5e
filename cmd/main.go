package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shipping-engine/internal/carriers"
	"shipping-engine/internal/config"
	"shipping-engine/internal/events"
	"shipping-engine/internal/handlers"
	"shipping-engine/internal/jobs"
	"shipping-engine/internal/middleware"
	"shipping-engine/internal/models"
	"shipping-engine/internal/repository"
	"shipping-engine/internal/services"
)

func main() {
	log.Println("Starting Shipping Engine...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded successfully")

	// Connect to database
	db, err := connectDatabase(cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connected successfully")

	// Run migrations
	if err := runMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Seed the default carrier set
	if err := repository.SeedShippingCompanies(db); err != nil {
		log.Printf("Warning: Failed to seed shipping companies: %v", err)
	}

	// Initialize Redis client (optional - graceful degradation if Redis unavailable)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to parse Redis URL: %v", err)
			log.Println("Continuing without Redis caching...")
		} else {
			redisClient = redis.NewClient(opt)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Failed to connect to Redis: %v", err)
				log.Println("Continuing without Redis caching...")
				redisClient = nil
			} else {
				log.Println("Connected to Redis for caching")
			}
		}
	} else {
		log.Println("REDIS_URL not configured, caching disabled")
	}

	// Structured logger for events and background jobs
	appLogger := logrus.New()
	appLogger.SetFormatter(&logrus.JSONFormatter{})
	appLogger.SetLevel(logrus.InfoLevel)

	// Initialize NATS events publisher (optional - events are dropped when absent)
	var eventsPublisher *events.Publisher
	if cfg.NatsURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NatsURL, appLogger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		} else {
			defer eventsPublisher.Close()
			log.Println("NATS events publisher initialized")
		}
	} else {
		log.Println("NATS_URL not configured, events disabled")
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db, redisClient)
	shipmentRepo := repository.NewShipmentRepository(db)
	log.Println("Repositories initialized")

	// Initialize carrier factory with env-level defaults
	carrierFactory := carriers.NewFactory(cfg.Carriers.Defaults())

	// Initialize fulfillment service
	stuckThreshold := time.Duration(cfg.StuckThresholdDays) * 24 * time.Hour
	fulfillmentService := services.NewFulfillmentService(companyRepo, shipmentRepo, carrierFactory, eventsPublisher, stuckThreshold)
	log.Println("Fulfillment service initialized")

	// Start the stuck shipment sweep
	stuckJob := jobs.NewStuckShipmentJob(fulfillmentService, eventsPublisher, cfg.SweepSchedule, appLogger)
	if err := stuckJob.Start(); err != nil {
		log.Fatalf("Failed to start stuck shipment job: %v", err)
	}
	defer stuckJob.Stop()

	// Initialize handlers
	shippingHandler := handlers.NewShippingHandler(fulfillmentService, cfg.WebhookSecret)
	companyConfigHandler := handlers.NewCompanyConfigHandler(companyRepo)
	log.Println("Handlers initialized")

	// Setup router
	router := setupRouter(shippingHandler, companyConfigHandler, cfg)
	log.Printf("Router configured")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Starting server on %s (environment: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectDatabase establishes a connection to the PostgreSQL database
func connectDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ShippingCompany{},
		&models.SubCarrier{},
		&models.Shipment{},
		&models.ShipmentMovement{},
	)
}

// setupRouter configures the Gin router with routes and middleware
func setupRouter(shippingHandler *handlers.ShippingHandler, companyConfigHandler *handlers.CompanyConfigHandler, cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", shippingHandler.HealthCheck)

	// API routes
	api := router.Group("/api")
	{
		// Carrier selection and quoting
		api.POST("/eligibility", shippingHandler.ListEligibleCarriers)
		api.POST("/quotes", shippingHandler.QuoteShipment)

		// Dispatch
		api.POST("/consignments", shippingHandler.SubmitConsignment)

		// Shipments
		api.GET("/shipments", shippingHandler.ListShipments)
		api.GET("/shipments/stuck", shippingHandler.ListStuckShipments)
		api.GET("/shipments/track/:trackingCode", shippingHandler.TrackShipment)
		api.GET("/shipments/:id", shippingHandler.GetShipment)
		api.PUT("/shipments/:id/status", shippingHandler.UpdateShipmentStatus)

		// Shipping company configuration
		api.GET("/companies", companyConfigHandler.ListCompanies)
		api.GET("/companies/:id", companyConfigHandler.GetCompany)
		api.POST("/companies", companyConfigHandler.CreateCompany)
		api.PUT("/companies/:id", companyConfigHandler.UpdateCompany)
		api.DELETE("/companies/:id", companyConfigHandler.DeleteCompany)
	}

	// Webhook routes (external carrier callbacks, HMAC verified)
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/fest", shippingHandler.FestWebhook)
	}

	return router
}
