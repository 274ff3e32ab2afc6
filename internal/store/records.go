package store

import (
	"fmt"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
)

type recordRow struct {
	ID           int64   `db:"id"`
	Source       string  `db:"source"`
	App          string  `db:"app"`
	Browser      string  `db:"browser"`
	WindowTitle  string  `db:"window_title"`
	URL          string  `db:"url"`
	StartTime    string  `db:"start_time"`
	DurationSecs float64 `db:"duration_secs"`
	Background   bool    `db:"background"`
}

type inputSampleRow struct {
	ID        int64  `db:"id"`
	Timestamp string `db:"ts"`
	Clicks    int    `db:"clicks"`
	Movements int    `db:"movements"`
	KeyEvents int    `db:"key_events"`
}

type resourceSampleRow struct {
	ID        int64   `db:"id"`
	Timestamp string  `db:"ts"`
	CPU       float64 `db:"cpu"`
	Memory    float64 `db:"memory"`
	Disk      float64 `db:"disk"`
	GPU       float64 `db:"gpu"`
	Network   float64 `db:"network"`
}

// ReplaceSnapshot swaps the cached record set for a fresh fetch cycle's
// worth, atomically. Last full recompute wins; there is no partial patching.
func (s *Store) ReplaceSnapshot(recs []activity.Record, samples []activity.InputSample, resources []activity.ResourceSample) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"records", "input_samples", "resource_samples"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, r := range recs {
		_, err := tx.Exec(
			`INSERT INTO records (source, app, browser, window_title, url, start_time, duration_secs, background)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(r.Source), r.App, r.Browser, r.WindowTitle, r.URL,
			r.Start.UTC().Format(time.RFC3339), r.Duration.Seconds(), r.Background,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	for _, sm := range samples {
		_, err := tx.Exec(
			`INSERT INTO input_samples (ts, clicks, movements, key_events) VALUES (?, ?, ?, ?)`,
			sm.Timestamp.UTC().Format(time.RFC3339), sm.Clicks, sm.Movements, sm.KeyEvents,
		)
		if err != nil {
			return fmt.Errorf("insert input sample: %w", err)
		}
	}
	for _, rs := range resources {
		_, err := tx.Exec(
			`INSERT INTO resource_samples (ts, cpu, memory, disk, gpu, network) VALUES (?, ?, ?, ?, ?, ?)`,
			rs.Timestamp.UTC().Format(time.RFC3339), rs.CPU, rs.Memory, rs.Disk, rs.GPU, rs.Network,
		)
		if err != nil {
			return fmt.Errorf("insert resource sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// AppendResourceSamples adds locally collected samples without touching the
// fetched snapshot tables.
func (s *Store) AppendResourceSamples(resources []activity.ResourceSample) error {
	for _, rs := range resources {
		_, err := s.db.Exec(
			`INSERT INTO resource_samples (ts, cpu, memory, disk, gpu, network) VALUES (?, ?, ?, ?, ?, ?)`,
			rs.Timestamp.UTC().Format(time.RFC3339), rs.CPU, rs.Memory, rs.Disk, rs.GPU, rs.Network,
		)
		if err != nil {
			return fmt.Errorf("append resource sample: %w", err)
		}
	}
	return nil
}

// LoadRecords returns cached records starting in [from, to), oldest first.
func (s *Store) LoadRecords(from, to time.Time) ([]activity.Record, error) {
	var rows []recordRow
	err := s.db.Select(&rows,
		`SELECT id, source, app, browser, window_title, url, start_time, duration_secs, background
		 FROM records WHERE start_time >= ? AND start_time < ? ORDER BY start_time ASC`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	recs := make([]activity.Record, 0, len(rows))
	for _, row := range rows {
		start, err := time.Parse(time.RFC3339, row.StartTime)
		if err != nil {
			continue
		}
		recs = append(recs, activity.Record{
			Source:      activity.Source(row.Source),
			App:         row.App,
			Browser:     row.Browser,
			WindowTitle: row.WindowTitle,
			URL:         row.URL,
			Start:       start,
			Duration:    time.Duration(row.DurationSecs * float64(time.Second)),
			Background:  row.Background,
		})
	}
	return recs, nil
}

// LoadInputSamples returns cached input samples in [from, to), oldest first.
func (s *Store) LoadInputSamples(from, to time.Time) ([]activity.InputSample, error) {
	var rows []inputSampleRow
	err := s.db.Select(&rows,
		`SELECT id, ts, clicks, movements, key_events
		 FROM input_samples WHERE ts >= ? AND ts < ? ORDER BY ts ASC`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("load input samples: %w", err)
	}

	samples := make([]activity.InputSample, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			continue
		}
		samples = append(samples, activity.InputSample{
			Timestamp: ts,
			Clicks:    row.Clicks,
			Movements: row.Movements,
			KeyEvents: row.KeyEvents,
		})
	}
	return samples, nil
}

// LoadResourceSamples returns cached resource samples in [from, to), oldest
// first.
func (s *Store) LoadResourceSamples(from, to time.Time) ([]activity.ResourceSample, error) {
	var rows []resourceSampleRow
	err := s.db.Select(&rows,
		`SELECT id, ts, cpu, memory, disk, gpu, network
		 FROM resource_samples WHERE ts >= ? AND ts < ? ORDER BY ts ASC`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("load resource samples: %w", err)
	}

	samples := make([]activity.ResourceSample, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			continue
		}
		samples = append(samples, activity.ResourceSample{
			Timestamp: ts,
			CPU:       row.CPU,
			Memory:    row.Memory,
			Disk:      row.Disk,
			GPU:       row.GPU,
			Network:   row.Network,
		})
	}
	return samples, nil
}
