package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/hindsight/config"
	"github.com/alejandrodnm/hindsight/internal/adapters/binance"
)

// runDownload baja los klines de todos los símbolos del periodo a cfg.Data.Dir.
func runDownload(ctx context.Context, cfg *config.Config, from, to time.Time) error {
	client := binance.NewClient(binance.Config{
		BaseURL:    cfg.Data.BaseURL,
		Interval:   cfg.Data.Interval,
		DataDir:    cfg.Data.Dir,
		RatePerSec: cfg.Data.RatePerSec,
	})

	slog.Info("downloading klines",
		"symbols", cfg.Data.Symbols,
		"from", from.Format(config.DateLayout),
		"to", to.Format(config.DateLayout),
		"dir", cfg.Data.Dir,
	)

	stats, err := client.DownloadRange(ctx, cfg.Data.Symbols, from, to)
	if err != nil {
		return err
	}

	slog.Info("download complete",
		"downloaded", stats.Downloaded,
		"missing", stats.Missing,
		"failed", stats.Failed,
		"total", stats.Total(),
	)
	return nil
}
