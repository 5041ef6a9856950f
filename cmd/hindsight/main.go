package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/hindsight/config"
	"github.com/alejandrodnm/hindsight/internal/adapters/klines"
	"github.com/alejandrodnm/hindsight/internal/adapters/notify"
	"github.com/alejandrodnm/hindsight/internal/adapters/storage"
	"github.com/alejandrodnm/hindsight/internal/backtest"
	"github.com/alejandrodnm/hindsight/internal/optimizer"
	"github.com/alejandrodnm/hindsight/internal/ports"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	download := flag.Bool("download", false, "download klines for the period before running")
	fromFlag := flag.String("from", "", "first day YYYY-MM-DD (overrides config)")
	toFlag := flag.String("to", "", "last day YYYY-MM-DD (overrides config)")
	workers := flag.Int("workers", 0, "days optimized in parallel (overrides config)")
	verify := flag.Bool("verify", false, "cross-check every day with the portfolio simulation")
	compound := flag.Bool("compound", false, "only run the multi-day compounding roll-up of a previous run")
	fromDB := flag.Bool("from-db", false, "with -compound: read the latest SQLite run instead of the summary CSV")
	inventory := flag.Bool("inventory", false, "load every CSV in the data dir and print what is available")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *fromFlag != "" {
		cfg.Backtest.StartDate = *fromFlag
	}
	if *toFlag != "" {
		cfg.Backtest.EndDate = *toFlag
	}
	if *workers > 0 {
		cfg.Backtest.Workers = *workers
	}
	if *verify {
		cfg.Backtest.Verify = true
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	from, to, _ := cfg.Period()

	slog.Info("hindsight starting",
		"config", *configPath,
		"from", cfg.Backtest.StartDate,
		"to", cfg.Backtest.EndDate,
		"data_dir", cfg.Data.Dir,
		"workers", cfg.Backtest.Workers,
		"verify", cfg.Backtest.Verify,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	console := notify.NewConsole()

	switch {
	case *compound:
		if err := runCompound(ctx, cfg, console, *fromDB); err != nil {
			slog.Error("compound failed", "err", err)
			os.Exit(1)
		}
		return
	case *inventory:
		all, err := klines.NewLoader(cfg.Data.Dir, cfg.Data.Interval).LoadAll(ctx)
		if err != nil {
			slog.Error("inventory failed", "err", err)
			os.Exit(1)
		}
		console.Inventory(all)
		return
	}

	if *download {
		if err := runDownload(ctx, cfg, from, to); err != nil {
			slog.Error("download failed", "err", err)
			os.Exit(1)
		}
	}

	if err := runBacktest(ctx, cfg, console, from, to); err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	slog.Info("hindsight finished", "result_dir", cfg.Output.ResultDir)
}

func runBacktest(ctx context.Context, cfg *config.Config, console *notify.Console, from, to time.Time) error {
	var stores []ports.ResultStore

	if cfg.WriteCSV() {
		csvStore, err := storage.NewCSVStore(cfg.Output.ResultDir)
		if err != nil {
			return err
		}
		stores = append(stores, csvStore)
	}

	if cfg.Storage.Enabled {
		db, err := storage.NewSQLiteStore(cfg.Storage.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		run := storage.Run{
			ID:             uuid.New().String(),
			StartedAt:      time.Now().UTC(),
			From:           from,
			To:             to,
			InitialBalance: cfg.Backtest.InitialBalance,
			TargetBalance:  cfg.Backtest.TargetBalance,
		}
		if err := db.BeginRun(ctx, run); err != nil {
			return err
		}
		slog.Info("run registered", "run_id", run.ID, "dsn", cfg.Storage.DSN)
		stores = append(stores, db)
	}

	console.Banner(cfg.Backtest.InitialBalance, cfg.Backtest.TargetBalance, from, to)

	runner := backtest.New(
		backtest.Config{
			InitialBalance: cfg.Backtest.InitialBalance,
			TargetBalance:  cfg.Backtest.TargetBalance,
			Workers:        cfg.Backtest.Workers,
			Verify:         cfg.Backtest.Verify,
		},
		klines.NewLoader(cfg.Data.Dir, cfg.Data.Interval),
		optimizer.New(),
		console,
		stores...,
	)

	_, err := runner.Run(ctx, from, to)
	return err
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
