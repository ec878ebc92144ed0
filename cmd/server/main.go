package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/application/service"
	"github.com/mjvanrooyen/claimflow/internal/config"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/email"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/persistence/repository"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/persistence/sqlite"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/storage"
	httpserver "github.com/mjvanrooyen/claimflow/internal/interfaces/http"
	"github.com/mjvanrooyen/claimflow/pkg/database"
	"github.com/mjvanrooyen/claimflow/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
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

	logger.Info("Starting claim workflow service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db, logger)

	claimRepo := repository.NewClaimRepository(db, logger)
	lineItemRepo := repository.NewLineItemRepository(db, logger)
	documentRepo := repository.NewDocumentRepository(db, logger)
	historyRepo := repository.NewHistoryRepository(db, logger)

	blobs := storage.NewLocalBlobStorage(cfg.Storage.BaseDir, logger)
	uploadPolicy := config.NewLiveUploadPolicy()

	var notifier port.DecisionNotifier
	if cfg.SMTP.Host != "" {
		notifier = email.NewSender(email.Config{
			Host:          cfg.SMTP.Host,
			Port:          cfg.SMTP.Port,
			Username:      cfg.SMTP.Username,
			Password:      cfg.SMTP.Password,
			From:          cfg.SMTP.From,
			Recipient:     cfg.SMTP.Recipient,
			SkipTLSVerify: cfg.SMTP.SkipTLSVerify,
		}, logger)
	}

	serviceLogger := utils.NewSugarAdapter(logger)
	engine := workflow.NewEngine()

	claimService := service.NewClaimService(claimRepo, lineItemRepo, documentRepo, txManager, blobs, serviceLogger)
	workflowService := service.NewWorkflowService(engine, claimRepo, lineItemRepo, historyRepo, txManager, notifier, serviceLogger)
	documentService := service.NewDocumentService(claimRepo, documentRepo, blobs, uploadPolicy, serviceLogger)
	summaryService := service.NewSummaryService(claimRepo, lineItemRepo, serviceLogger)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JWTSecret:    cfg.Auth.JWTSecret,
	}, claimService, workflowService, documentService, summaryService, serviceLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
