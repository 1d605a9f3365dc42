package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_cinema/internal/cache"
	"github.com/fjod/go_cinema/internal/client"
	"github.com/fjod/go_cinema/internal/config"
	"github.com/fjod/go_cinema/internal/httpapi"
	"github.com/fjod/go_cinema/internal/repository"
	"github.com/fjod/go_cinema/internal/service"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	cartRepo := repository.NewMongoRepository(mongoDB)
	logger.Info("connected to MongoDB", zap.String("uri", cfg.MongoURI))

	// Receipt archive
	cred := &repository.Credentials{
		Host:              cfg.Postgres.Host,
		Port:              cfg.Postgres.Port,
		User:              cfg.Postgres.User,
		Password:          cfg.Postgres.Password,
		DBName:            cfg.Postgres.DBName,
		MigrationsDirPath: cfg.Postgres.MigrationsDirPath,
	}
	receipts, err := repository.NewPostgresReceipts(cred)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer receipts.Close()
	if err := receipts.RunMigrations(cred); err != nil {
		logger.Fatal("failed to run receipt migrations", zap.Error(err))
	}
	logger.Info("connected to postgres")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	logger.Info("redis ping succeeded")

	cartCache := cache.NewRedisCartCache(redisClient)
	sessionStore := cache.NewRedisSessionStore(redisClient)

	catalogClient := client.NewCatalogClient(cfg.CatalogBaseURL, cfg.CollaboratorTimeout)
	paymentClient := client.NewPaymentClient(cfg.PaymentBaseURL, cfg.CollaboratorTimeout)
	completionClient := client.NewCompletionClient(cfg.CompletionBaseURL, cfg.CollaboratorTimeout)

	cartService := service.NewCartService(cartRepo, cartCache, logger)
	sessionService := service.NewSessionService(sessionStore, cartService, logger)
	catalogService := service.NewCatalogService(catalogClient)
	checkoutService := service.NewCheckoutService(
		cartService,
		receipts,
		service.NewPaymentHandler(paymentClient, cfg.CollaboratorTimeout),
		service.NewCompletionHandler(completionClient, cfg.CollaboratorTimeout),
		logger,
	)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Sessions:       sessionService,
		Carts:          cartService,
		Catalog:        catalogService,
		Checkout:       checkoutService,
		Receipts:       receipts,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(router, "cinema-api"),
	}

	go func() {
		logger.Info("cinema api listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down cinema api")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	mongoDB.Client().Disconnect(ctx)
	logger.Info("cinema api stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if parsed, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = parsed
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return logger
}
