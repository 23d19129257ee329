package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/docs"
	"github.com/MarcelloBorromeo/SearchSift/internal/categorizer"
	"github.com/MarcelloBorromeo/SearchSift/internal/config"
	"github.com/MarcelloBorromeo/SearchSift/internal/handler"
	"github.com/MarcelloBorromeo/SearchSift/internal/logger"
	"github.com/MarcelloBorromeo/SearchSift/internal/pipeline"
	"github.com/MarcelloBorromeo/SearchSift/internal/queue/sqs"
	"github.com/MarcelloBorromeo/SearchSift/internal/report"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository/clickhouse"
	"github.com/MarcelloBorromeo/SearchSift/internal/ruleset"
	"github.com/MarcelloBorromeo/SearchSift/internal/service"
)

// @title SearchSift API
// @version 1.0
// @description API for ingesting and reporting on browser search activity
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
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

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize ClickHouse client
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	// Initialize repository
	repo := clickhouse.NewRepository(clickhouseClient, log)

	// Initialize schema (create tables if not exist)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize categorizer
	rules := ruleset.Default()
	var fallback categorizer.Classifier
	if cfg.Categorizer.EnableStatisticalFallback {
		fallback = categorizer.NewStatisticalClassifier(rules)
	}
	cat := categorizer.New(rules, fallback, log)

	// Initialize ingestion pipeline
	p := pipeline.New(pipeline.Config{
		MaxEventAge:  cfg.Ingest.MaxEventAge(),
		DedupeWindow: cfg.Ingest.DedupeWindow(),
	}, cat, repo, log)

	// Initialize search service
	searchService := service.NewSearchService(p, sqsClient, repo, log)

	// Initialize report renderer
	renderer, err := report.NewRenderer()
	if err != nil {
		log.Fatal("Failed to create report renderer", zap.Error(err))
	}

	// Initialize handler
	h := handler.NewHandler(searchService, renderer, handler.Config{
		APIKey:         cfg.Service.APIKey,
		AllowedOrigins: cfg.Service.AllowedOrigins,
		ReportsDir:     cfg.Reports.Dir,
	}, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
