package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/branchline-pos/internal/cloud_consolidator"
	"github.com/branchline-pos/internal/cloud_consolidator/consumer"
	"github.com/branchline-pos/internal/cloud_consolidator/service"
	"github.com/branchline-pos/internal/config"
	"github.com/branchline-pos/internal/data/mongo"
	"github.com/branchline-pos/internal/logger"
	"github.com/branchline-pos/internal/platform/messaging/consumers"
	"github.com/branchline-pos/internal/platform/messaging/producers"
	"github.com/branchline-pos/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("cloud_consolidator")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Cloud Consolidator",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize the consolidated store
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// The consolidator owns the schema: the dedup index must exist before any
	// branch submission is accepted.
	if err := mongo.EnsureConsolidatedIndexes(appCtx, mongoDB.Database()); err != nil {
		log.Error("Failed to ensure consolidated indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	consolidatedRepo := mongo.NewConsolidatedRepository(log, mongoDB.Database())
	reportRepo := mongo.NewSyncReportRepository(log, mongoDB.Database())

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler is nil-safe.

	// Initialize ingest service behind a bounded worker pool
	baseIngest := service.NewIngestService(log, reportRepo)
	ingestService, err := service.NewWorkerPoolIngestService(
		baseIngest,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize ingest worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize sync report handler
	reportHandler := consumer.NewSyncReportHandler(log, ingestService, dlqProducer)

	// Initialize dashboard service
	dashboardService := service.NewDashboardService(log, consolidatedRepo, reportRepo)

	// Initialize REST server
	server := cloud_consolidator.NewServer(log, cfg, dashboardService)
	log.Info("REST server initialized")

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.SyncReportTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.SyncReportTopic, cfg.Kafka.ConsumerGroup, reportHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shut down the ingest worker pool
	log.Info("Shutting down worker pool", "running_workers", ingestService.Running())
	ingestService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Cloud Consolidator shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Cloud Consolidator shutdown completed with errors")
	} else {
		log.Info("Cloud Consolidator shutdown completed successfully")
	}
}
