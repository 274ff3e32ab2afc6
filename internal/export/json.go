package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
)

type jsonExport struct {
	ExportedAt string              `json:"exported_at"`
	Accounting activity.Accounting `json:"accounting"`
	Apps       []jsonUsage         `json:"apps"`
	Domains    []jsonUsage         `json:"domains"`
}

type jsonUsage struct {
	Key      string   `json:"key"`
	Seconds  float64  `json:"total_seconds"`
	Duration string   `json:"duration"`
	Sessions int      `json:"sessions"`
	Browsers []string `json:"browsers,omitempty"`
}

// ToJSON writes the report to path as indented JSON.
func ToJSON(rep activity.Report, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Accounting: rep.Accounting,
		Apps:       toJSONUsages(rep.Apps),
		Domains:    toJSONUsages(rep.Domains),
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func toJSONUsages(usages []activity.Usage) []jsonUsage {
	out := make([]jsonUsage, 0, len(usages))
	for _, u := range usages {
		out = append(out, jsonUsage{
			Key:      u.Key,
			Seconds:  u.TotalSeconds,
			Duration: formatSeconds(int64(u.TotalSeconds)),
			Sessions: u.Sessions,
			Browsers: u.Browsers,
		})
	}
	return out
}
