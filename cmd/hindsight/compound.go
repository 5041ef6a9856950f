package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/hindsight/config"
	"github.com/alejandrodnm/hindsight/internal/adapters/notify"
	"github.com/alejandrodnm/hindsight/internal/adapters/storage"
	"github.com/alejandrodnm/hindsight/internal/domain"
	"github.com/alejandrodnm/hindsight/internal/ports"
)

// runCompound encadena los resultados diarios de una ejecución anterior, leídos
// del CSV de resumen o del último run en SQLite.
func runCompound(ctx context.Context, cfg *config.Config, console *notify.Console, fromDB bool) error {
	var reader ports.SummaryReader

	if fromDB {
		db, err := storage.NewSQLiteStore(cfg.Storage.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		reader = db
	} else {
		csvStore, err := storage.NewCSVStore(cfg.Output.ResultDir)
		if err != nil {
			return err
		}
		reader = csvStore
	}

	from, to, err := cfg.Period()
	if err != nil {
		return err
	}
	dailies, err := reader.GetDailies(ctx, from, to)
	if err != nil {
		return err
	}
	if len(dailies) == 0 {
		return fmt.Errorf("no daily results found for %s..%s", cfg.Backtest.StartDate, cfg.Backtest.EndDate)
	}

	report := domain.Compound(dailies, cfg.Backtest.InitialBalance, cfg.Backtest.TargetBalance)
	slog.Debug("compound computed",
		"days", report.DaysAvailable,
		"final_balance", report.FinalBalance,
		"reached_on_day", report.ReachedOnDay,
	)
	console.Compound(report)
	return nil
}
