package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inflamstack/inflamstack/internal/config"
	"github.com/inflamstack/inflamstack/internal/loader"
	"github.com/inflamstack/inflamstack/internal/registry"
	"github.com/inflamstack/inflamstack/internal/report"
	"github.com/inflamstack/inflamstack/pkg/stats"
)

// Evaluator is the alert-engine surface the monitor needs.
type Evaluator interface {
	Evaluate(*report.StudyReport)
}

// Monitor loads inflammation datasets from a watched directory and keeps
// the registry and alert engine up to date.
type Monitor struct {
	cfg    config.StudyConfig
	reg    *registry.Registry
	alerts Evaluator
	now    func() time.Time // injectable for deterministic tests
}

// New creates a Monitor. alerts may be nil when alerting is not configured.
func New(cfg config.StudyConfig, reg *registry.Registry, alerts Evaluator) *Monitor {
	return &Monitor{
		cfg:    cfg,
		reg:    reg,
		alerts: alerts,
		now:    time.Now,
	}
}

// Run performs an initial scan, then reacts to filesystem events and a
// periodic rescan until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("monitor: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(m.cfg.DataDir); err != nil {
		return fmt.Errorf("monitor: watch %q: %w", m.cfg.DataDir, err)
	}

	slog.Info("monitor: watching datasets", "dir", m.cfg.DataDir)
	m.scan()

	ticker := time.NewTicker(time.Duration(m.cfg.RescanInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			m.scan()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDataset(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				m.process(event.Name)
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				slog.Info("monitor: dataset removed", "dataset", event.Name)
				m.reg.Delete(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("monitor: watcher error", "err", err)
		}
	}
}

// scan processes every dataset currently present in the data directory.
// Re-processing an unchanged file refreshes its registry entry, which is
// what keeps live datasets ahead of TTL eviction.
func (m *Monitor) scan() {
	paths, err := filepath.Glob(filepath.Join(m.cfg.DataDir, "*.csv"))
	if err != nil {
		slog.Error("monitor: scan failed", "dir", m.cfg.DataDir, "err", err)
		return
	}
	for _, path := range paths {
		m.process(path)
	}
}

// process runs the full pipeline for one dataset file. Failures are logged
// and leave any previous report for the dataset in place.
func (m *Monitor) process(path string) {
	table, err := loader.Load(path)
	if err != nil {
		slog.Error("monitor: load failed", "dataset", path, "err", err)
		return
	}

	names, err := patientNames(path, len(table))
	if err != nil {
		slog.Error("monitor: names sidecar unreadable", "dataset", path, "err", err)
		return
	}

	rep, err := report.Build(path, table, names, m.cfg.Threshold, m.now())
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrNegativeValue):
			slog.Error("monitor: dataset rejected — negative values", "dataset", path, "err", err)
		case errors.Is(err, stats.ErrLengthMismatch):
			slog.Error("monitor: dataset rejected — names sidecar length", "dataset", path, "err", err)
		default:
			slog.Error("monitor: report failed", "dataset", path, "err", err)
		}
		return
	}

	m.reg.Put(rep)
	if m.alerts != nil {
		m.alerts.Evaluate(rep)
	}

	slog.Info("monitor: dataset processed",
		"dataset", path,
		"patients", rep.Patients,
		"days", rep.Days,
		"max", rep.MaxValue,
		"patients_above", rep.PatientsAbove,
	)
}

// patientNames returns the display names for a dataset: the contents of the
// optional "<dataset>.names" sidecar (with ".csv" stripped), or synthesized
// row names when no sidecar exists.
func patientNames(path string, rows int) ([]string, error) {
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + ".names"
	if _, err := os.Stat(sidecar); err != nil {
		if os.IsNotExist(err) {
			names := make([]string, rows)
			for i := range names {
				names[i] = fmt.Sprintf("patient-%d", i+1)
			}
			return names, nil
		}
		return nil, err
	}
	return loader.Names(sidecar)
}

// isDataset reports whether a watched path looks like an inflammation CSV.
func isDataset(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
