package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/application/service"
	"github.com/procuredesk/order-reconciliation/internal/config"
	"github.com/procuredesk/order-reconciliation/internal/ingest"
	httpserver "github.com/procuredesk/order-reconciliation/internal/interfaces/http"
	"github.com/procuredesk/order-reconciliation/internal/reconcile"
	"github.com/procuredesk/order-reconciliation/internal/recordstore"
	"github.com/procuredesk/order-reconciliation/internal/report"
	"github.com/procuredesk/order-reconciliation/internal/repository"
	"github.com/procuredesk/order-reconciliation/pkg/database"
	"github.com/procuredesk/order-reconciliation/pkg/utils"
)

func main() {
	// Local .env for development; a missing file is fine.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting order reconciliation service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(context.Background(), cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	resultRepo := repository.NewResultRepository(db.DB, logger)
	decisionRepo := repository.NewDecisionRepository(db.DB, logger)

	store := recordstore.NewClient(recordstore.Config{
		BaseURL:  cfg.Store.BaseURL,
		APIToken: cfg.Store.APIToken,
		Timeout:  cfg.Store.Timeout,
		AppIDs: recordstore.AppIDs{
			Orders:        cfg.Store.Apps.Orders,
			Confirmations: cfg.Store.Apps.Confirmations,
			Results:       cfg.Store.Apps.Results,
			Decisions:     cfg.Store.Apps.Decisions,
		},
	}, logger)

	tolerances := reconcile.Config{
		QuantityTolerancePercent: cfg.Tolerance.QuantityPercent,
		PriceTolerancePercent:    cfg.Tolerance.PricePercent,
	}

	reconciliationService := service.NewReconciliationService(store, resultRepo, tolerances, logger)
	reviewService := service.NewReviewService(store, resultRepo, decisionRepo, logger)
	statsService := service.NewStatsService(store, logger)

	extractor := ingest.NewExtractor(ingest.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
	}, logger)

	exporter := report.NewExcelExporter(cfg.Report.OutputDir, logger)

	handlers := httpserver.NewHandlers(
		reconciliationService,
		reviewService,
		statsService,
		extractor,
		store,
		exporter,
		logger,
	)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
