package tui

import (
	"fmt"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
	"github.com/deskpulse/deskpulse/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewApps
	viewSettings
)

var viewNames = []string{"Dashboard", "Apps", "Settings"}

// --- Messages ---

type reportMsg struct {
	report activity.Report
	ok     bool
}

type settingsDataMsg struct {
	settings []store.Setting
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs float64) string {
	return formatDuration(time.Duration(secs * float64(time.Second)))
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func formatHours(secs float64) string {
	return fmt.Sprintf("%.1fh", secs/3600)
}
