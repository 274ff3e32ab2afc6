package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
)

// ToCSV writes the report's per-app and per-domain usage rows, preceded by a
// summary line, to path.
func ToCSV(rep activity.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	acc := rep.Accounting
	summary := [][]string{
		{"Generated", rep.GeneratedAt.Local().Format(time.RFC3339)},
		{"Total Elapsed (s)", fmt.Sprintf("%.0f", acc.TotalElapsedSeconds)},
		{"Active (s)", fmt.Sprintf("%.0f", acc.ActiveSeconds)},
		{"Passive (s)", fmt.Sprintf("%.1f", acc.PassiveSeconds)},
		{"Productivity (%)", fmt.Sprintf("%.1f", acc.Headline)},
		{},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	if err := w.Write([]string{"Kind", "Key", "Seconds", "Duration", "Sessions", "Browsers"}); err != nil {
		return err
	}
	writeUsages := func(kind string, usages []activity.Usage) error {
		for _, u := range usages {
			row := []string{
				kind,
				u.Key,
				fmt.Sprintf("%.0f", u.TotalSeconds),
				formatSeconds(int64(u.TotalSeconds)),
				fmt.Sprintf("%d", u.Sessions),
				joinBrowsers(u.Browsers),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeUsages("app", rep.Apps); err != nil {
		return err
	}
	if err := writeUsages("domain", rep.Domains); err != nil {
		return err
	}

	return w.Error()
}

func joinBrowsers(browsers []string) string {
	out := ""
	for i, b := range browsers {
		if i > 0 {
			out += "; "
		}
		out += b
	}
	return out
}

func formatSeconds(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
