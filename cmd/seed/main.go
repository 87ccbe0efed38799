package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/repository/postgres"
	postgresLLM "github.com/nguyenngocdue/mcp-chatbot-sj/internal/repository/postgres/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/seed"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		logger.Warn("dropping all tables", "prefix", cfg.TablePrefix)
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.ApplySchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	logger.Info("schema ready", "environment", cfg.Environment, "prefix", cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)

	seeder := seed.NewSeeder(
		pool,
		tables,
		postgres.NewUserRepository(repoConfig),
		postgresLLM.NewChatRepository(repoConfig, txManager),
		logger,
	)
	if err := seeder.Run(ctx, seed.Session{
		UserID: cfg.SessionUserID,
		Name:   cfg.SessionUserName,
		Email:  cfg.SessionUserEmail,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	logger.Info("seeding complete", "user_id", cfg.SessionUserID)
}
