package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	apperrors "shopzeo-backend/common/errors"
	"shopzeo-backend/common/logger"
	commonmw "shopzeo-backend/common/middleware"
	"shopzeo-backend/controllers"
	"shopzeo-backend/database"
	"shopzeo-backend/kafka"
	"shopzeo-backend/models"
	awspkg "shopzeo-backend/pkg/aws"
	"shopzeo-backend/repository"
	"shopzeo-backend/routes"
	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Sync()
	log := logger.Log

	// --- Database ---
	db, err := database.Connect(database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}, log,
		&models.User{},
		&models.Store{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Wallet{},
		&models.WalletTransaction{},
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// --- Redis ---
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379"}
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// --- Kafka producer ---
	var producer kafka.ProducerAPI
	if cfg.KafkaBrokers != "" {
		p := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, log)
		defer p.Close()
		producer = p
	} else {
		log.Warn("KAFKA_BROKERS not set, order events will not be published to Kafka")
	}

	// --- AWS clients ---
	var snsClient awspkg.SNSPublisher
	if cfg.SNSOrderTopicArn != "" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			snsClient = awspkg.NewSNSClient(awsCfg)
		} else {
			log.Warn("Failed to load AWS config, SNS publishing disabled", zap.Error(err))
		}
	}

	metrics, err := awspkg.NewMetricsClient(context.Background())
	if err != nil {
		log.Warn("CloudWatch metrics disabled", zap.Error(err))
	}

	// --- Repositories ---
	userRepo := repository.NewGormUserRepository(db)
	storeRepo := repository.NewGormStoreRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	walletRepo := repository.NewGormWalletRepository(db)
	analyticsRepo := repository.NewGormAnalyticsRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	storeService := services.NewStoreService(storeRepo, userRepo, walletRepo, log)
	categoryService := services.NewCategoryService(categoryRepo, log)
	productService := services.NewProductService(productRepo, categoryRepo, storeRepo, log)
	importService := services.NewImportService(productRepo, categoryRepo, storeRepo, log)
	orderService := services.NewOrderService(orderRepo, productRepo, storeRepo, walletRepo, producer, snsClient, cfg.SNSOrderTopicArn, log)
	walletService := services.NewWalletService(walletRepo, log)
	analyticsService := services.NewAnalyticsService(analyticsRepo, log)

	jobService, err := services.NewImportJobService(rdb, cfg.BulkImportDir, log)
	if err != nil {
		log.Fatal("Failed to initialize import job service", zap.Error(err))
	}

	// Background worker for async imports.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	services.StartBulkImportWorker(workerCtx, jobService, importService, log)

	// --- Controllers ---
	validator := controllers.NewRequestValidator()
	cache := controllers.NewCacheManager(rdb)

	deps := &routes.Dependencies{
		JWTSecret:  cfg.JWTSecret,
		StoreRepo:  storeRepo,
		Auth:       controllers.NewAuthController(authService),
		Stores:     controllers.NewStoreController(storeService, validator),
		Categories: controllers.NewCategoryController(categoryService),
		Products:   controllers.NewProductController(productService, cache, validator),
		BulkImport: controllers.NewBulkImportController(importService, jobService, cache, validator),
		Presign:    controllers.NewPresignedURLHandler(),
		Orders:     controllers.NewOrderController(orderService, validator),
		Wallets:    controllers.NewWalletController(walletService, validator),
		Analytics:  controllers.NewAnalyticsController(analyticsService),
	}

	// --- HTTP server ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(commonmw.RequestLogger(log))
	r.Use(commonmw.RequestTimeout(30 * time.Second))
	r.Use(commonmw.SecurityHeaders())
	r.Use(apperrors.ErrorMiddleware())
	r.Use(commonmw.NewRateLimiter(rate.Limit(50), 100).Middleware())
	if metrics.IsEnabled() {
		r.Use(commonmw.CloudWatchMetrics(metrics))
	}

	routes.Setup(r, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	workerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}
