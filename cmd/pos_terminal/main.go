package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/branchline-pos/internal/config"
	"github.com/branchline-pos/internal/data/mongo"
	"github.com/branchline-pos/internal/data/postgres"
	"github.com/branchline-pos/internal/logger"
	"github.com/branchline-pos/internal/platform/messaging/producers"
	"github.com/branchline-pos/internal/platform/persistence"
	"github.com/branchline-pos/internal/pos_terminal"
	"github.com/branchline-pos/internal/pos_terminal/service"
	"github.com/branchline-pos/internal/pos_terminal/sync_engine"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("pos_terminal")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting POS Terminal",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"branch_id", cfg.Branch.ID,
	)

	// Initialize the branch-local store
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize the consolidated cloud store client. The deferred variant
	// skips the startup ping: the terminal must boot and record sales locally
	// even when the cloud is unreachable.
	mongoDB, err := persistence.NewMongoDBDeferred(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB client", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for sync reports
	reportProducer, err := producers.NewSyncReportProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize sync report Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	saleRepo := postgres.NewTransactionRepository(log, postgresDB)
	consolidatedRepo := mongo.NewConsolidatedRepository(log, mongoDB.Database())

	// Initialize checkout service
	checkoutService := service.NewCheckoutService(log, postgresDB, saleRepo, cfg.Branch.ID)

	// Initialize sync engine collaborators
	submitter := sync_engine.NewConsolidatedSubmitter(consolidatedRepo, log)
	gate := sync_engine.NewCloudPingGate(mongoDB.Client(), cfg.Sync.ProbeTimeout, log)
	sink := sync_engine.NewFanoutSink(
		sync_engine.NewLogSink(log),
		sync_engine.NewKafkaReportSink(reportProducer, cfg.Branch.ID, log),
	)

	engine := sync_engine.NewEngine(&cfg.Sync, saleRepo, submitter, gate, sink, log)

	// Initialize REST server
	server := pos_terminal.NewServer(log, cfg, checkoutService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start the sync engine in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Start(appCtx)
	}()

	// Start server in goroutine
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
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context; this stops the sync engine
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for the sync engine to finish its cycle
	wg.Wait()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = reportProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("POS Terminal shutdown completed with errors")
	} else {
		log.Info("POS Terminal shutdown completed successfully")
	}
}
