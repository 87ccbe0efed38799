package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/auth"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/cache"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/capabilities"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/handler"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/handler/sse"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/repository/postgres"
	postgresLLM "github.com/nguyenngocdue/mcp-chatbot-sj/internal/repository/postgres/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service"
	serviceLLM "github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bearer-token verification is optional; without it every request runs
	// as the configured session user.
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else {
		logger.Warn("JWKS_URL not set, running every request as the session user", "user_id", cfg.SessionUserID)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.ApplySchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	logger.Info("database connected", "table_prefix", cfg.TablePrefix)

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)
	chatRepo := postgresLLM.NewChatRepository(repoConfig, txManager)
	userRepo := postgres.NewUserRepository(repoConfig)
	agentRepo := postgres.NewAgentRepository(repoConfig)
	mcpRepo := postgres.NewMcpRepository(repoConfig)
	staticModelRepo := postgres.NewStaticModelRepository(repoConfig)
	workflowRepo := postgres.NewWorkflowRepository(repoConfig)
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig, txManager)
	archiveRepo := postgres.NewArchiveRepository(repoConfig)

	keyCache := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.KeyCacheTTL,
	}, logger)
	defer keyCache.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized")

	// Services
	staticModelService := service.NewStaticModelService(staticModelRepo, keyCache, m, logger)
	threadService := service.NewThreadService(chatRepo, logger)
	agentService := service.NewAgentService(agentRepo, logger)
	workflowService := service.NewWorkflowService(workflowRepo, logger)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, logger)
	archiveService := service.NewArchiveService(archiveRepo, logger)
	mcpService := service.NewMcpService(mcpRepo)
	userPrefsService := service.NewUserPreferencesService(userRepo, service.SessionIdentity{
		Name:  cfg.SessionUserName,
		Email: cfg.SessionUserEmail,
	}, logger)
	if jwtVerifier == nil {
		if err := userPrefsService.EnsureSessionUser(ctx, cfg.SessionUserID); err != nil {
			log.Fatalf("Failed to bootstrap session user: %v", err)
		}
	}

	var cachePinger repositories.Pinger
	if cfg.RedisAddr != "" {
		cachePinger = keyCache
	}
	healthService := service.NewHealthService(postgres.NewPinger(pool), cachePinger)

	llmServices := serviceLLM.SetupServices(cfg, serviceLLM.Repositories{
		Chat:  chatRepo,
		User:  userRepo,
		Agent: agentRepo,
		Mcp:   mcpRepo,
		Tx:    txManager,
	}, staticModelService, capabilityRegistry, m, logger)

	logger.Info("services initialized")

	router := handler.NewRouter(handler.Handlers{
		Chat:        handler.NewChatHandler(llmServices.Streaming, sse.DefaultConfig(), logger),
		StaticModel: handler.NewStaticModelHandler(staticModelService, logger),
		Thread:      handler.NewThreadHandler(threadService, logger),
		Agent:       handler.NewAgentHandler(agentService, logger),
		Workflow:    handler.NewWorkflowHandler(workflowService, logger),
		Bookmark:    handler.NewBookmarkHandler(bookmarkService, logger),
		Archive:     handler.NewArchiveHandler(archiveService, logger),
		Mcp:         handler.NewMcpHandler(mcpService, logger),
		Health:      handler.NewHealthHandler(healthService),
		Models:      handler.NewModelsHandler(capabilityRegistry, llmServices.Providers, logger),
		Preferences: handler.NewUserPreferencesHandler(userPrefsService, logger),
	}, handler.RouterConfig{
		CORSOrigins:   cfg.CORSOriginList(),
		Verifier:      jwtVerifier,
		SessionUserID: cfg.SessionUserID,
		Metrics:       m,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
