package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gemcatalog/catalog-service/internal/app/catalog/config"
	"gemcatalog/catalog-service/internal/app/catalog/handler"
	"gemcatalog/catalog-service/internal/app/catalog/processor"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
	"gemcatalog/catalog-service/internal/app/catalog/service"
	"gemcatalog/catalog-service/internal/app/catalog/util"
	"gemcatalog/pkg/logger"

	"github.com/gin-gonic/gin"
)

const serviceName = "catalog-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.LogLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, cfg.LogLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	mongoClient, err := connectMongoDB(cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureIndexes(indexCtx, db); err != nil {
		logger.Warn().Err(err).Msg("Failed to ensure MongoDB indexes")
	}
	indexCancel()

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis: rate limiting, кеш категорий и сводки интереса
	redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// === KAFKA PRODUCERS ===
	catalogProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.CatalogTopic)
	defer catalogProducer.Close()
	interestProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.InterestTopic)
	defer interestProducer.Close()
	logger.Info().
		Str("catalog_topic", cfg.Kafka.CatalogTopic).
		Str("interest_topic", cfg.Kafka.InterestTopic).
		Msg("Initialized Kafka producers")

	// === РЕПОЗИТОРИИ И СЕРВИСЫ ===
	categoryRepo := repository.NewCategoryRepository(db)
	stoneRepo := repository.NewStoneRepository(db)
	itemRepo := repository.NewItemRepository(db)
	userRepo := repository.NewUserRepository(db)
	interestRepo := repository.NewInterestRepository(db)

	sessions := util.NewSessionManager(cfg.Auth.Secret, cfg.Auth.SessionTTL)
	authService := service.NewAuthService(userRepo, sessions)
	if err := authService.EnableTimingGuard(cfg.Auth.BcryptCost); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize auth service")
	}

	catalogService := service.NewCatalogService(categoryRepo, stoneRepo, itemRepo, redisClient, catalogProducer)
	interestService := service.NewInterestService(itemRepo, interestRepo, redisClient, interestProducer, service.InterestSettings{
		PublicBaseURL: cfg.Interest.PublicBaseURL,
		WhatsAppPhone: cfg.Interest.WhatsAppPhone,
		Window:        cfg.Interest.Window,
	})

	// === ФОНОВАЯ ОБРАБОТКА ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interestConsumer := processor.NewInterestConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.InterestTopic,
		cfg.Kafka.GroupID,
		interestService,
	)
	interestConsumer.Start(ctx)

	cronScheduler := processor.NewCronScheduler(interestService)
	if err := cronScheduler.Start(ctx, cfg.Interest.RollupSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	// === HTTP ===
	binder := handler.NewBinder()
	router := handler.SetupRoutes(
		handler.RouterConfig{
			CORSOrigin:        cfg.CORS.Origin,
			LoginRateLimit:    cfg.Limits.Login,
			WriteRateLimit:    cfg.Limits.Write,
			InterestRateLimit: cfg.Limits.Interest,
			RateLimitWindow:   time.Minute,
			AccessLog:         !cfg.IsTest(),
		},
		handler.NewHealthHandler(map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   redisClient.Ping,
		}),
		handler.NewAuthHandler(authService, binder, handler.SessionCookie{
			Secure: cfg.IsProduction(),
			TTL:    cfg.Auth.SessionTTL,
		}),
		handler.NewCatalogHandler(catalogService, binder),
		handler.NewInterestHandler(interestService),
		handler.NewAuthMiddleware(authService),
		handler.NewRateLimitMiddleware(redisClient),
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("env", cfg.Env).
			Msg("Starting Catalog Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Catalog Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	cronScheduler.Stop()
	interestConsumer.Stop()
	cancel()

	logger.Info().Msg("Catalog Service stopped gracefully")
}

// connectMongoDB подключается к MongoDB с повторными попытками (MongoDB в Docker может стартовать позже)
func connectMongoDB(cfg config.MongoConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()

		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
