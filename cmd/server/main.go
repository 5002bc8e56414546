package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AnshRaj112/remontee-backend/internal/config"
	"github.com/AnshRaj112/remontee-backend/internal/database"
	"github.com/AnshRaj112/remontee-backend/internal/handlers"
	"github.com/AnshRaj112/remontee-backend/internal/logging"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/repository"
	"github.com/AnshRaj112/remontee-backend/internal/routes"
	"github.com/AnshRaj112/remontee-backend/internal/services"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := logging.New(cfg.Environment, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	if envErr != nil {
		logger.Debug("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres, or in-memory stores for local runs
	var (
		feedbackRepo repository.FeedbackRepository
		typeRepo     repository.ProblemTypeRepository
		adminRepo    repository.AdminRepository
	)
	if cfg.PostgresURI != "" {
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI, logger)
		if err != nil {
			logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
		}
		defer db.Close()
		feedbackRepo = repository.NewPostgresFeedbackRepository(db)
		typeRepo = repository.NewPostgresProblemTypeRepository(db)
		adminRepo = repository.NewPostgresAdminRepository(db)
	} else {
		logger.Warn("POSTGRES_URI not set, using in-memory storage (data is lost on restart)")
		feedbackRepo = repository.NewMemoryFeedbackRepository()
		typeRepo = repository.NewMemoryProblemTypeRepository(models.DefaultProblemTypes...)
		adminRepo = repository.NewMemoryAdminRepository()
	}

	// Redis: sessions and catalog cache
	var (
		sessions services.SessionStore = services.NewMemorySessionStore()
		cache    services.Cache        = services.NopCache{}
	)
	if cfg.RedisURI != "" {
		rdb, err := database.ConnectRedis(ctx, cfg.RedisURI, logger)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		sessions = services.NewRedisSessionStore(rdb, logger)
		cache = services.NewRedisCache(rdb)
	} else {
		logger.Warn("REDIS_URI not set, sessions are kept in memory and the catalog is not cached")
	}

	// MongoDB: audit trail
	var audit services.AuditLog = &services.MemoryAuditLog{}
	if cfg.MongoURI != "" {
		mdb, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer func() { _ = database.DisconnectMongo(mdb) }()

		mongoAudit := services.NewMongoAuditLog(mdb, logger)
		if err := mongoAudit.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to ensure triage_events indexes", zap.Error(err))
		}
		defer mongoAudit.Wait()
		audit = mongoAudit
	}

	// RabbitMQ: new-feedback events
	var publisher services.EventPublisher = services.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := services.NewRabbitPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, new feedback events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	authService := services.NewAuthService(adminRepo, sessions, logger)
	if cfg.HasBootstrapAdmin() {
		if err := authService.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword,
			cfg.BootstrapAdminNom, cfg.BootstrapAdminPrenom); err != nil {
			logger.Fatal("failed to create bootstrap admin", zap.Error(err))
		}
	}

	h := handlers.New(
		services.NewFeedbackService(feedbackRepo, audit, publisher, logger),
		services.NewCatalogService(typeRepo, cache, logger),
		authService,
		logger,
	)
	router := routes.NewRouter(h, authService, logger, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		AllowedHost:    cfg.AllowedHost,
		TrustProxy:     cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("remontee backend listening", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
