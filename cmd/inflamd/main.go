package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inflamstack/inflamstack/internal/alerts"
	"github.com/inflamstack/inflamstack/internal/config"
	"github.com/inflamstack/inflamstack/internal/monitor"
	"github.com/inflamstack/inflamstack/internal/registry"
	"github.com/inflamstack/inflamstack/internal/summary"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("inflamd starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"data_dir", cfg.Study.DataDir,
		"threshold", cfg.Study.Threshold,
		"rescan_interval", cfg.Study.RescanInterval,
		"rules", len(cfg.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Report registry with background TTL eviction.
	reg := registry.New(time.Duration(cfg.Study.ReportTTL))
	go reg.Run(ctx)

	// Alert engine — evaluates rules on every freshly built report.
	alertEngine := alerts.New(cfg.Alerts)

	// Watch config file for hot-reload; only the alert rules are swapped
	// live, monitoring settings need a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			alertEngine.SetRules(updated.Alerts)
			slog.Info("alert rules hot-reloaded", "rules", len(updated.Alerts.Rules))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Periodic study overview in the log.
	go summary.New(reg, alertEngine, time.Duration(cfg.Study.SummaryInterval)).Run(ctx)

	// Dataset monitor — blocks until shutdown.
	mon := monitor.New(cfg.Study, reg, alertEngine)
	if err := mon.Run(ctx); err != nil {
		slog.Error("monitor stopped", "err", err)
		os.Exit(1)
	}

	slog.Info("inflamd shutting down")
}
