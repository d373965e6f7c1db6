package alerts

import (
	"testing"
	"time"

	"github.com/inflamstack/inflamstack/internal/config"
	"github.com/inflamstack/inflamstack/internal/report"
	"github.com/prometheus/common/model"
)

// newTestEngine builds an Engine with no webhooks (delivery is a no-op) and
// a controllable clock.
func newTestEngine(rules ...config.AlertRule) (*Engine, *time.Time) {
	e := New(config.AlertsConfig{Rules: rules})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }
	return e, &now
}

func firingReport() *report.StudyReport {
	return &report.StudyReport{Dataset: "d.csv", MaxValue: 25}
}

func calmReport() *report.StudyReport {
	return &report.StudyReport{Dataset: "d.csv", MaxValue: 5}
}

func TestEvaluate_FiresAndResolves(t *testing.T) {
	e, now := newTestEngine(config.AlertRule{
		Name:      "high-inflammation",
		Condition: "max > 20",
		Severity:  "critical",
	})

	e.Evaluate(firingReport())

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("Active after fire: got %d alerts, want 1", len(active))
	}
	a := active[0]
	if a.State != "firing" || a.Severity != "critical" || a.Value != 25 {
		t.Errorf("alert: got %+v", a)
	}
	if a.Dataset != "d.csv" || a.RuleName != "high-inflammation" {
		t.Errorf("alert identity: got %q/%q", a.RuleName, a.Dataset)
	}

	// Condition clears → alert resolves and stays visible as recent history.
	*now = now.Add(time.Minute)
	e.Evaluate(calmReport())

	active = e.Active()
	if len(active) != 1 {
		t.Fatalf("Active after resolve: got %d alerts, want 1", len(active))
	}
	if active[0].State != "resolved" || active[0].ResolvedAt == nil {
		t.Errorf("resolved alert: got %+v", active[0])
	}
}

func TestEvaluate_CooldownSuppressesRefires(t *testing.T) {
	e, now := newTestEngine(config.AlertRule{
		Name:      "high",
		Condition: "max > 20",
		Cooldown:  model.Duration(10 * time.Minute),
	})

	e.Evaluate(firingReport())
	first := e.Active()[0].ID

	// Still firing within the cooldown window — no new alert.
	*now = now.Add(5 * time.Minute)
	e.Evaluate(firingReport())
	active := e.Active()
	if len(active) != 1 || active[0].ID != first {
		t.Fatalf("within cooldown: got %d alerts, first ID kept = %v", len(active), len(active) == 1 && active[0].ID == first)
	}

	// Past the cooldown the rule may fire again.
	*now = now.Add(6 * time.Minute)
	e.Evaluate(firingReport())
	if got := e.Active(); len(got) != 1 || got[0].ID == first {
		t.Errorf("after cooldown: want one fresh alert, got %d (refired=%v)", len(got), len(got) == 1 && got[0].ID != first)
	}
}

func TestActive_NewestFirst(t *testing.T) {
	e, now := newTestEngine(
		config.AlertRule{Name: "older", Condition: "max > 20"},
		config.AlertRule{Name: "newer", Condition: "patients_above >= 1"},
	)

	// Fire the first rule, then the second a minute later.
	e.Evaluate(&report.StudyReport{Dataset: "d.csv", MaxValue: 25})
	*now = now.Add(time.Minute)
	e.Evaluate(&report.StudyReport{Dataset: "e.csv", PatientsAbove: 2})

	active := e.Active()
	if len(active) != 2 {
		t.Fatalf("Active: got %d alerts, want 2", len(active))
	}
	for i := 1; i < len(active); i++ {
		if active[i].FiredAt.After(active[i-1].FiredAt) {
			t.Fatalf("Active not newest first: [%d] %v before [%d] %v",
				i-1, active[i-1].FiredAt, i, active[i].FiredAt)
		}
	}
	if active[len(active)-1].RuleName != "older" {
		t.Errorf("oldest alert: got %q, want older", active[len(active)-1].RuleName)
	}
}

func TestEvaluate_DefaultSeverity(t *testing.T) {
	e, _ := newTestEngine(config.AlertRule{Name: "r", Condition: "max > 20"})

	e.Evaluate(firingReport())
	if got := e.Active()[0].Severity; got != "warning" {
		t.Errorf("default severity: got %q, want warning", got)
	}
}

func TestEvaluate_NoRules(t *testing.T) {
	e, _ := newTestEngine()
	e.Evaluate(firingReport())
	if got := e.Active(); len(got) != 0 {
		t.Errorf("no rules: got %d alerts, want 0", len(got))
	}
}

func TestSetRules_HotSwap(t *testing.T) {
	e, _ := newTestEngine()
	e.Evaluate(firingReport())
	if len(e.Active()) != 0 {
		t.Fatal("engine with no rules fired")
	}

	e.SetRules(config.AlertsConfig{Rules: []config.AlertRule{
		{Name: "added", Condition: "max > 20"},
	}})
	e.Evaluate(firingReport())
	if len(e.Active()) != 1 {
		t.Fatal("swapped-in rule did not fire")
	}
}
