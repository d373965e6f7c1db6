package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultRescanInterval  = model.Duration(time.Minute)
	DefaultSummaryInterval = model.Duration(30 * time.Second)
	DefaultReportTTL       = model.Duration(5 * time.Minute)
	DefaultCooldown        = 15 * time.Minute
)

// Config is the top-level configuration parsed from config.yaml.
type Config struct {
	Study  StudyConfig  `yaml:"study"`
	Alerts AlertsConfig `yaml:"alerts"`
}

// StudyConfig holds the dataset monitoring settings.
type StudyConfig struct {
	// DataDir is the directory watched for *.csv inflammation datasets.
	DataDir string `yaml:"data_dir"`

	// Threshold is the inflammation level used for per-patient
	// days-above counts in reports.
	Threshold float64 `yaml:"threshold"`

	// RescanInterval controls how often the data directory is re-scanned
	// in addition to filesystem change events (default 1m).
	RescanInterval model.Duration `yaml:"rescan_interval"`

	// SummaryInterval controls how often the study overview is logged
	// (default 30s).
	SummaryInterval model.Duration `yaml:"summary_interval"`

	// ReportTTL is how long a dataset's report stays live without a
	// rescan confirming the dataset still exists (default 5m).
	ReportTTL model.Duration `yaml:"report_ttl"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition evaluated against
// every new study report.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the
	// deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression over report fields:
	// "max > 20", "mean_peak > 12", "patients_above >= 3",
	// "patients < 60", "days == 40".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert
	// fires. Defaults to 15 minutes if zero.
	Cooldown model.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// URLEnv is the name of the environment variable that holds the
	// webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Study: StudyConfig{
			RescanInterval:  DefaultRescanInterval,
			SummaryInterval: DefaultSummaryInterval,
			ReportTTL:       DefaultReportTTL,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Study.DataDir == "" {
		return fmt.Errorf("study.data_dir is required")
	}
	if cfg.Study.Threshold < 0 {
		return fmt.Errorf("study.threshold %g must not be negative", cfg.Study.Threshold)
	}
	if cfg.Study.RescanInterval <= 0 {
		return fmt.Errorf("study.rescan_interval must be positive")
	}
	if cfg.Study.SummaryInterval <= 0 {
		return fmt.Errorf("study.summary_interval must be positive")
	}
	if cfg.Study.ReportTTL <= 0 {
		return fmt.Errorf("study.report_ttl must be positive")
	}

	for _, rule := range cfg.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("alert rule with condition %q has no name", rule.Condition)
		}
		if len(strings.Fields(rule.Condition)) != 3 {
			return fmt.Errorf("alert rule %q: condition %q is not of the form \"field op value\"", rule.Name, rule.Condition)
		}
		switch rule.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("alert rule %q: severity %q unknown: want critical|warning|info", rule.Name, rule.Severity)
		}
		if rule.Cooldown < 0 {
			return fmt.Errorf("alert rule %q: cooldown must not be negative", rule.Name)
		}
	}

	return nil
}
