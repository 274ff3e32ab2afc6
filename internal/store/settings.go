package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
)

// Setting is one key/value pair of user-tuned configuration.
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	if err := s.db.Get(&value, `SELECT value FROM settings WHERE key = ?`, key); err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	var settings []Setting
	if err := s.db.Select(&settings, `SELECT key, value FROM settings ORDER BY key`); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// PipelineConfig assembles the pipeline tunables from the settings table,
// falling back to the defaults for any unreadable value.
func (s *Store) PipelineConfig() activity.Config {
	cfg := activity.DefaultConfig()
	if v, ok := s.settingInt("gap_threshold_seconds"); ok && v > 0 {
		cfg.GapThreshold = time.Duration(v) * time.Second
	}
	if v, ok := s.settingInt("cross_source_gap_seconds"); ok && v > 0 {
		cfg.CrossSourceGap = time.Duration(v) * time.Second
	}
	if v, ok := s.settingInt("bucket_size_seconds"); ok && v > 0 {
		cfg.BucketSize = time.Duration(v) * time.Second
	}
	if v, ok := s.settingInt("activity_threshold"); ok && v > 0 {
		cfg.ActivityThreshold = v
	}
	if v, ok := s.settingFloat("passive_weight"); ok && v > 0 && v <= 1 {
		cfg.PassiveWeight = v
	}
	if v, ok := s.settingInt("default_visit_seconds"); ok && v > 0 {
		cfg.DefaultVisitDuration = time.Duration(v) * time.Second
	}
	return cfg
}

func (s *Store) settingInt(key string) (int, bool) {
	v, err := s.GetSetting(key)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Store) settingFloat(key string) (float64, bool) {
	v, err := s.GetSetting(key)
	if err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
