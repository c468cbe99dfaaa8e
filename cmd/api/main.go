package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/application/services"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/infrastructure/config"
	dynamostore "canvas-backend/infrastructure/persistence/dynamodb"
	memorystore "canvas-backend/infrastructure/persistence/memory"
	"canvas-backend/interfaces/http/rest"
	"canvas-backend/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	nodes, edges, snapshots, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize persistence", zap.Error(err))
	}

	plannerConfig := domainservices.DefaultPlannerConfig()
	plannerConfig.HorizontalSpacing = cfg.Layout.HorizontalSpacing
	plannerConfig.VerticalSpacing = cfg.Layout.VerticalSpacing
	plannerConfig.CircularRadius = cfg.Layout.CircularRadius
	planner := domainservices.NewPositionPlanner(plannerConfig)

	snapshotSvc := domainservices.NewSnapshotServiceWithRetention(cfg.SnapshotRetention)

	metrics := observability.NewCollector("canvas")

	canvasSvc := services.NewCanvasService(nodes, edges, snapshots, planner, snapshotSvc, metrics, logger)
	searchSvc := services.NewSearchService(nodes, edges, snapshots, nil, logger)

	router := rest.NewRouter(canvasSvc, searchSvc, metrics, cfg, logger)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.StoreDriver),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	_ = logger.Sync()
	log.Println("Server stopped")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.NodeRepository, ports.EdgeRepository, ports.SnapshotRepository, error) {
	if cfg.StoreDriver == "memory" {
		logger.Info("Using in-memory persistence")
		return memorystore.NewNodeStore(), memorystore.NewEdgeStore(), memorystore.NewSnapshotStore(), nil
	}

	client, err := dynamostore.NewClient(ctx, cfg.AWSRegion, cfg.DynamoDBTable, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("Using DynamoDB persistence", zap.String("table", cfg.DynamoDBTable))
	return dynamostore.NewNodeRepository(client),
		dynamostore.NewEdgeRepository(client),
		dynamostore.NewSnapshotRepository(client),
		nil
}
