// Command export-summary writes the HR claim summary workbook to disk
// without going through the HTTP API. Useful for month-end runs from
// cron or an operator shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/mjvanrooyen/claimflow/internal/application/service"
	"github.com/mjvanrooyen/claimflow/internal/config"
	"github.com/mjvanrooyen/claimflow/internal/infrastructure/persistence/repository"
	"github.com/mjvanrooyen/claimflow/pkg/database"
	"github.com/mjvanrooyen/claimflow/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to config file")
		year       = flag.Int("year", 0, "filter by year (0 = all)")
		month      = flag.Int("month", 0, "filter by month (0 = all)")
		out        = flag.String("out", "claim-summary.xlsx", "output file path")
	)
	flag.Parse()

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

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

	claimRepo := repository.NewClaimRepository(db, logger)
	lineItemRepo := repository.NewLineItemRepository(db, logger)
	summaryService := service.NewSummaryService(claimRepo, lineItemRepo, utils.NewSugarAdapter(logger))

	workbook, err := summaryService.ExportWorkbook(context.Background(), *year, *month)
	if err != nil {
		logger.Fatal("Failed to export summary", zap.Error(err))
	}

	if err := os.WriteFile(*out, workbook, 0644); err != nil {
		logger.Fatal("Failed to write workbook", zap.String("path", *out), zap.Error(err))
	}

	logger.Info("Summary exported", zap.String("path", *out))
}
