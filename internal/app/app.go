package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aguevara193/reviews-api/internal/cache"
	rediscache "github.com/aguevara193/reviews-api/internal/cache/redis"
	"github.com/aguevara193/reviews-api/internal/config"
	"github.com/aguevara193/reviews-api/internal/event"
	handler "github.com/aguevara193/reviews-api/internal/handler/http"
	mongorepo "github.com/aguevara193/reviews-api/internal/repository/mongo"
	"github.com/aguevara193/reviews-api/internal/service"
	"github.com/aguevara193/reviews-api/internal/storage"
	localassets "github.com/aguevara193/reviews-api/internal/storage/local"
	memassets "github.com/aguevara193/reviews-api/internal/storage/memory"
	remoteassets "github.com/aguevara193/reviews-api/internal/storage/remote"
	"github.com/aguevara193/reviews-api/pkg/database"
	"github.com/aguevara193/reviews-api/pkg/health"
	"github.com/aguevara193/reviews-api/pkg/httpclient"
	pkgkafka "github.com/aguevara193/reviews-api/pkg/kafka"
	"github.com/aguevara193/reviews-api/pkg/middleware"
	"github.com/aguevara193/reviews-api/pkg/tracing"
)

// App wires together all dependencies and runs the reviews service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	mongoClient     *mongo.Client
	reviewCache     cache.ReviewCache
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tracingShutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.TracingEndpoint,
		SampleRatio: cfg.TracingSample,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	mongoClient, err := database.NewMongoClient(ctx, database.MongoConfig{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))

	repo := mongorepo.NewReviewRepository(mongoClient.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure review indexes: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)
	reviewCache := rediscache.NewReviewCache(rdb, logger)

	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	assets, err := newAssetStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	eventProducer := event.NewProducer(producer, logger)
	reviewService := service.NewReviewService(repo, reviewCache, assets, eventProducer, logger, cfg.ReviewCacheTTL)

	healthHandler := health.NewHandler()
	healthHandler.Register("mongodb", func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName: cfg.ServiceName,
		APIKey:      cfg.APIKey,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		TracingEnabled: cfg.TracingEnabled,
	}, reviewService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		mongoClient:     mongoClient,
		reviewCache:     reviewCache,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

func newAssetStore(cfg *config.Config, logger *slog.Logger) (storage.AssetStore, error) {
	switch cfg.AssetMode {
	case config.AssetModeLocal:
		store, err := localassets.NewAssetStore(cfg.AssetDir, cfg.AssetBaseURL, cfg.StrictMediaTypes)
		if err != nil {
			return nil, fmt.Errorf("init local asset store: %w", err)
		}
		return store, nil
	case config.AssetModeMemory:
		return memassets.NewAssetStore(cfg.StrictMediaTypes), nil
	case config.AssetModeRemote:
		client := httpclient.New(httpclient.DefaultConfig())
		breaker := httpclient.NewBreakerClient(client, httpclient.DefaultBreakerConfig("media-service"), logger)
		return remoteassets.NewAssetStore(breaker, cfg.MediaUploadURL, cfg.StrictMediaTypes), nil
	default:
		return nil, fmt.Errorf("unknown asset mode %q", cfg.AssetMode)
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.reviewCache.Close(); err != nil {
		a.logger.Error("cache close error", slog.String("error", err.Error()))
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.logger.Error("mongodb disconnect error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
