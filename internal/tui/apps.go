package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deskpulse/deskpulse/internal/activity"
)

type usageMode int

const (
	usageApps usageMode = iota
	usageDomains
)

type appsModel struct {
	width  int
	height int

	mode   usageMode
	report activity.Report
	have   bool
	cursor int
}

func newAppsModel() appsModel {
	return appsModel{}
}

func (m *appsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m appsModel) rows() []activity.Usage {
	if m.mode == usageDomains {
		return m.report.Domains
	}
	return m.report.Apps
}

func (m appsModel) update(msg tea.Msg) (appsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		if !msg.ok {
			return m, nil
		}
		m.report = msg.report
		m.have = true
		if n := len(m.rows()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows())-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if m.mode == usageApps {
				m.mode = usageDomains
			} else {
				m.mode = usageApps
			}
			m.cursor = 0
		}
	}
	return m, nil
}

func (m appsModel) view() string {
	w := m.width - 4

	appsTab := inactiveTabStyle.Render("Applications")
	domainsTab := inactiveTabStyle.Render("Domains")
	if m.mode == usageApps {
		appsTab = activeTabStyle.Render("Applications")
	} else {
		domainsTab = activeTabStyle.Render("Domains")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, appsTab, domainsTab)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Usage"), "  ", modeTabs,
	)

	table := m.renderTable(w)
	nav := mutedStyle.Render("  ←/→: apps/domains  ↑/↓: move")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", table, "", nav),
	)
}

func (m appsModel) renderTable(w int) string {
	rows := m.rows()
	if !m.have || len(rows) == 0 {
		return mutedStyle.Render("  No usage for this window")
	}

	var out []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-24s %10s %9s  %s", "Name", "Duration", "Sessions", "Browsers"))
	out = append(out, headerRow)
	out = append(out, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 64))))

	visible := m.height - 10
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(rows))

	for i := start; i < end; i++ {
		u := rows[i]
		style := normalItemStyle
		cursor := "  "
		if i == m.cursor {
			style = selectedItemStyle
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-24s %10s %9d  %s",
			cursor, truncate(u.Key, 24), formatSeconds(u.TotalSeconds), u.Sessions,
			strings.Join(u.Browsers, ", "),
		)
		out = append(out, style.Render(line))
	}

	if end < len(rows) {
		out = append(out, mutedStyle.Render(fmt.Sprintf("  … %d more", len(rows)-end)))
	}

	return strings.Join(out, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
