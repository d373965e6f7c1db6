package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/common/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal config — only the required data_dir.
	p := writeConfig(t, `study:
  data_dir: /var/lib/inflamd/data
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Study.RescanInterval != DefaultRescanInterval {
		t.Errorf("rescan_interval: got %v, want %v", cfg.Study.RescanInterval, DefaultRescanInterval)
	}
	if cfg.Study.SummaryInterval != DefaultSummaryInterval {
		t.Errorf("summary_interval: got %v, want %v", cfg.Study.SummaryInterval, DefaultSummaryInterval)
	}
	if cfg.Study.ReportTTL != DefaultReportTTL {
		t.Errorf("report_ttl: got %v, want %v", cfg.Study.ReportTTL, DefaultReportTTL)
	}
	if cfg.Study.Threshold != 0 {
		t.Errorf("threshold: got %g, want 0", cfg.Study.Threshold)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `study:
  data_dir: /data
  threshold: 12.5
  rescan_interval: 2m
  summary_interval: 10s
  report_ttl: 30m
alerts:
  rules:
    - name: outbreak
      condition: "patients_above >= 3"
      severity: critical
      cooldown: 1h
  webhooks:
    - url_env: INFLAMD_WEBHOOK_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Study.Threshold != 12.5 {
		t.Errorf("threshold: got %g, want 12.5", cfg.Study.Threshold)
	}
	if cfg.Study.RescanInterval != model.Duration(2*time.Minute) {
		t.Errorf("rescan_interval: got %v, want 2m", cfg.Study.RescanInterval)
	}
	if cfg.Study.ReportTTL != model.Duration(30*time.Minute) {
		t.Errorf("report_ttl: got %v, want 30m", cfg.Study.ReportTTL)
	}
	if len(cfg.Alerts.Rules) != 1 {
		t.Fatalf("rules: got %d, want 1", len(cfg.Alerts.Rules))
	}
	rule := cfg.Alerts.Rules[0]
	if rule.Name != "outbreak" || rule.Severity != "critical" {
		t.Errorf("rule: got %+v", rule)
	}
	if rule.Cooldown != model.Duration(time.Hour) {
		t.Errorf("cooldown: got %v, want 1h", rule.Cooldown)
	}
}

func TestLoad_MissingDataDir(t *testing.T) {
	p := writeConfig(t, `study:
  threshold: 1
`)
	if _, err := Load(p); err == nil {
		t.Fatal("Load without data_dir: expected error, got nil")
	}
}

func TestLoad_BadRule(t *testing.T) {
	for name, content := range map[string]string{
		"nameless": `study:
  data_dir: /data
alerts:
  rules:
    - condition: "max > 20"
`,
		"malformed condition": `study:
  data_dir: /data
alerts:
  rules:
    - name: bad
      condition: "max>20"
`,
		"unknown severity": `study:
  data_dir: /data
alerts:
  rules:
    - name: bad
      condition: "max > 20"
      severity: fatal
`,
	} {
		p := writeConfig(t, content)
		if _, err := Load(p); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestLoad_NegativeThreshold(t *testing.T) {
	p := writeConfig(t, `study:
  data_dir: /data
  threshold: -1
`)
	if _, err := Load(p); err == nil {
		t.Fatal("Load with negative threshold: expected error, got nil")
	}
}

func TestWebhookURL_FromEnv(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_URL", "https://hooks.example.com/abc")

	wh := WebhookConfig{URLEnv: "TEST_WEBHOOK_URL"}
	if got := wh.URL(); got != "https://hooks.example.com/abc" {
		t.Errorf("URL: got %q", got)
	}

	empty := WebhookConfig{}
	if got := empty.URL(); got != "" {
		t.Errorf("URL with no env name: got %q, want empty", got)
	}
}
