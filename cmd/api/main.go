package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/docs"
	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/config"
	"github.com/hmrtn/gtc-api/internal/handler"
	"github.com/hmrtn/gtc-api/internal/ingest"
	"github.com/hmrtn/gtc-api/internal/logger"
	"github.com/hmrtn/gtc-api/internal/repository/postgres"
	"github.com/hmrtn/gtc-api/internal/service"
	"github.com/hmrtn/gtc-api/internal/subgraph"
)

// @title Grants Data API
// @version 1.0
// @description Seeds grant programs, rounds, projects and votes from chain subgraphs into Postgres
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize Postgres client
	pgClient, err := postgres.NewClient(ctx, &cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer func(pgClient *postgres.Client) {
		if err := pgClient.Close(); err != nil {
			log.Error("Failed to close Postgres client", zap.Error(err))
		}
	}(pgClient)

	// Initialize repository
	repo := postgres.NewRepository(pgClient, log)

	if cfg.Database.AutoMigrate {
		if err := repo.InitSchema(ctx); err != nil {
			log.Fatal("Failed to initialize schema", zap.Error(err))
		}
	}

	// Initialize ingestion pipeline
	metrics := ingest.NewMetrics(prometheus.DefaultRegisterer)
	loader := ingest.NewLoader(repo, cfg.Ingest.BatchSize, log)
	runner := ingest.NewRunner(loader, cfg.Ingest.PageSize, metrics, log)

	registry := chain.NewRegistryFromConfig(cfg.Subgraph)
	sources := subgraph.NewSourceFactory(time.Duration(cfg.Subgraph.TimeoutSec)*time.Second, log)

	// Initialize ingestion service
	ingestionService := service.NewIngestionService(registry, sources, runner, repo, log)

	// Initialize handler
	h := handler.NewHandler(ingestionService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
