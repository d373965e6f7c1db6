// Package summary periodically logs an overview of the live study state:
// how many datasets are being followed, their combined patient count, and
// how many alerts are currently firing.
package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/inflamstack/inflamstack/internal/alerts"
	"github.com/inflamstack/inflamstack/internal/registry"
)

// Logger emits the study overview on a fixed interval.
type Logger struct {
	reg      *registry.Registry
	alerts   *alerts.Engine
	interval time.Duration
}

// New creates a Logger reading from reg. alerts may be nil.
func New(reg *registry.Registry, alerts *alerts.Engine, interval time.Duration) *Logger {
	return &Logger{reg: reg, alerts: alerts, interval: interval}
}

// Run logs an overview every interval until ctx is cancelled.
func (l *Logger) Run(ctx context.Context) {
	t := time.NewTicker(l.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			o := l.overview()
			slog.Info("study overview",
				"datasets", o.Datasets,
				"patients", o.Patients,
				"patients_above", o.PatientsAbove,
				"firing_alerts", o.FiringAlerts,
			)
		}
	}
}

// overview is one tick's aggregated numbers.
type overview struct {
	Datasets      int
	Patients      int
	PatientsAbove int
	FiringAlerts  int
}

func (l *Logger) overview() overview {
	var o overview
	for _, e := range l.reg.List() {
		o.Datasets++
		o.Patients += e.Report.Patients
		o.PatientsAbove += e.Report.PatientsAbove
	}
	if l.alerts != nil {
		for _, a := range l.alerts.Active() {
			if a.State == "firing" {
				o.FiringAlerts++
			}
		}
	}
	return o
}
