package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deskpulse/deskpulse/internal/activity"
)

// Config is the process configuration: collector endpoint, polling cadence,
// snapshot location, and the pipeline tunables. Values come from an optional
// YAML file with environment variables taking precedence.
type Config struct {
	CollectorURL    string `yaml:"collector_url"`
	PollInterval    string `yaml:"poll_interval"`
	FetchWindow     string `yaml:"fetch_window"`
	DBPath          string `yaml:"db_path"`
	ListenAddr      string `yaml:"listen_addr"`
	SamplerInterval string `yaml:"sampler_interval"`

	GapThresholdSeconds   int     `yaml:"gap_threshold_seconds"`
	CrossSourceGapSeconds int     `yaml:"cross_source_gap_seconds"`
	BucketSizeSeconds     int     `yaml:"bucket_size_seconds"`
	ActivityThreshold     int     `yaml:"activity_threshold"`
	PassiveWeight         float64 `yaml:"passive_weight"`
	DefaultVisitSeconds   int     `yaml:"default_visit_seconds"`

	ExtraBackgroundProcesses []string           `yaml:"extra_background_processes"`
	ProductivityOverrides    map[string]float64 `yaml:"productivity_overrides"`
}

// Load reads config.yaml (or $DESKPULSE_CONFIG), applies env overrides, and
// fills defaults. A missing file is not an error; a malformed one is.
func Load() (Config, error) {
	var cfg Config

	path := "config.yaml"
	if envPath := os.Getenv("DESKPULSE_CONFIG"); envPath != "" {
		path = envPath
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	envOverride(&cfg.CollectorURL, "DESKPULSE_COLLECTOR_URL")
	envOverride(&cfg.PollInterval, "DESKPULSE_POLL_INTERVAL")
	envOverride(&cfg.FetchWindow, "DESKPULSE_FETCH_WINDOW")
	envOverride(&cfg.DBPath, "DESKPULSE_DB_PATH")
	envOverride(&cfg.ListenAddr, "DESKPULSE_LISTEN_ADDR")
	envOverride(&cfg.SamplerInterval, "DESKPULSE_SAMPLER_INTERVAL")
	envOverrideInt(&cfg.GapThresholdSeconds, "DESKPULSE_GAP_THRESHOLD_SECONDS")
	envOverrideInt(&cfg.CrossSourceGapSeconds, "DESKPULSE_CROSS_SOURCE_GAP_SECONDS")
	envOverrideInt(&cfg.BucketSizeSeconds, "DESKPULSE_BUCKET_SIZE_SECONDS")
	envOverrideInt(&cfg.ActivityThreshold, "DESKPULSE_ACTIVITY_THRESHOLD")
	envOverrideFloat(&cfg.PassiveWeight, "DESKPULSE_PASSIVE_WEIGHT")
	envOverrideInt(&cfg.DefaultVisitSeconds, "DESKPULSE_DEFAULT_VISIT_SECONDS")

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CollectorURL == "" {
		c.CollectorURL = "http://127.0.0.1:5600"
	}
	if c.PollInterval == "" {
		c.PollInterval = "60s"
	}
	if c.FetchWindow == "" {
		c.FetchWindow = "24h"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8732"
	}

	def := activity.DefaultConfig()
	if c.GapThresholdSeconds <= 0 {
		c.GapThresholdSeconds = int(def.GapThreshold.Seconds())
	}
	if c.CrossSourceGapSeconds <= 0 {
		c.CrossSourceGapSeconds = int(def.CrossSourceGap.Seconds())
	}
	if c.BucketSizeSeconds <= 0 {
		c.BucketSizeSeconds = int(def.BucketSize.Seconds())
	}
	if c.ActivityThreshold <= 0 {
		c.ActivityThreshold = def.ActivityThreshold
	}
	if c.PassiveWeight <= 0 || c.PassiveWeight > 1 {
		c.PassiveWeight = def.PassiveWeight
	}
	if c.DefaultVisitSeconds <= 0 {
		c.DefaultVisitSeconds = int(def.DefaultVisitDuration.Seconds())
	}
}

// Pipeline converts the flat file values into the activity package's config.
func (c Config) Pipeline() activity.Config {
	return activity.Config{
		GapThreshold:         time.Duration(c.GapThresholdSeconds) * time.Second,
		CrossSourceGap:       time.Duration(c.CrossSourceGapSeconds) * time.Second,
		BucketSize:           time.Duration(c.BucketSizeSeconds) * time.Second,
		ActivityThreshold:    c.ActivityThreshold,
		PassiveWeight:        c.PassiveWeight,
		DefaultVisitDuration: time.Duration(c.DefaultVisitSeconds) * time.Second,
	}
}

// PollEvery parses the poll interval, falling back to a minute.
func (c Config) PollEvery() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// SampleEvery parses the local sampler interval. The sampler is opt-in:
// an empty or unparseable value disables it.
func (c Config) SampleEvery() (time.Duration, bool) {
	if c.SamplerInterval == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.SamplerInterval)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// Window parses the fetch window, falling back to 24 hours.
func (c Config) Window() time.Duration {
	d, err := time.ParseDuration(c.FetchWindow)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
