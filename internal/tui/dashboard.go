package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deskpulse/deskpulse/internal/activity"
	"github.com/deskpulse/deskpulse/internal/fetch"
)

const chartBars = 8

type dashboardModel struct {
	latest *fetch.Latest
	width  int
	height int

	report activity.Report
	have   bool

	chart barchart.Model
}

func newDashboardModel(latest *fetch.Latest) dashboardModel {
	return dashboardModel{
		latest: latest,
		chart:  barchart.New(60, 12),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		rep, ok := d.latest.Get()
		return reportMsg{report: rep, ok: ok}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		if !msg.ok {
			return d, nil
		}
		if d.have && msg.report.Seq == d.report.Seq {
			return d, nil
		}
		d.report = msg.report
		d.have = true
		d.buildChart()
		return d, nil

	case tickMsg:
		return d, d.loadData()
	}
	return d, nil
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if d.height > 30 {
		chartHeight = 14
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	apps := d.report.Apps
	if len(apps) > chartBars {
		apps = apps[:chartBars]
	}

	var bars []barchart.BarData
	for i, u := range apps {
		style := lipgloss.NewStyle().Foreground(barPalette[i%len(barPalette)])
		label := truncate(u.Key, 8)
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: u.Key, Value: u.TotalSeconds / 3600, Style: style},
			},
		})
	}

	if len(bars) == 0 {
		bars = append(bars, barchart.BarData{
			Label: "-",
			Values: []barchart.BarValue{
				{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)},
			},
		})
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if !d.have {
		content := lipgloss.JoinVertical(lipgloss.Center,
			headlineStyle.Width(contentWidth-6).Render("--"),
			mutedStyle.Render("Waiting for the first collector fetch"),
			mutedStyle.Render("Press r to fetch now"),
		)
		return panelStyle.Width(contentWidth).Render(content)
	}

	headlinePanel := d.renderHeadlinePanel(contentWidth)
	breakdownPanel := d.renderBreakdownPanel(contentWidth)
	chartPanel := d.renderChartPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, headlinePanel, breakdownPanel, chartPanel)
}

func (d dashboardModel) renderHeadlinePanel(w int) string {
	acc := d.report.Accounting

	style := headlineStyle
	switch {
	case acc.Headline >= 60:
		style = headlineGoodStyle
	case acc.Headline < 30:
		style = headlineLowStyle
	}

	percent := style.Width(w - 6).Render(formatPercent(acc.Headline))

	label := "productivity"
	if acc.ProductivityPercent == 0 && acc.ClassificationPercent > 0 {
		label = "productivity (classified)"
	}

	meta := mutedStyle.Render(fmt.Sprintf("%s  ·  generated %s  ·  fetch #%d",
		label,
		d.report.GeneratedAt.Local().Format("15:04:05"),
		d.report.Seq,
	))

	content := lipgloss.JoinVertical(lipgloss.Center, percent, meta)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderBreakdownPanel(w int) string {
	acc := d.report.Accounting

	rows := []string{
		titleStyle.Render("Time Accounting"),
		fmt.Sprintf("  %-16s %s", "Active", successStyle.Render(formatSeconds(acc.ActiveSeconds))),
		fmt.Sprintf("  %-16s %s", "Passive", warningStyle.Render(formatSeconds(acc.PassiveSeconds))),
		fmt.Sprintf("  %-16s %s", "Elapsed", highlightStyle.Render(formatSeconds(acc.TotalElapsedSeconds))),
		"",
		mutedStyle.Render(fmt.Sprintf("  %d records · %d input samples · classification %s",
			d.report.RecordCount, d.report.SampleCount, formatPercent(acc.ClassificationPercent))),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderChartPanel(w int) string {
	title := titleStyle.Render("Top Applications")
	if len(d.report.Apps) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No foreground activity in this window"),
		)
		return panelStyle.Width(w).Render(content)
	}

	legend := d.renderLegend()
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.chart.View(), "", legend)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderLegend() string {
	apps := d.report.Apps
	if len(apps) > chartBars {
		apps = apps[:chartBars]
	}
	var items []string
	for i, u := range apps {
		dot := lipgloss.NewStyle().Foreground(barPalette[i%len(barPalette)]).Render("●")
		items = append(items, fmt.Sprintf("%s %s %s", dot, u.Key, formatHours(u.TotalSeconds)))
	}
	return "  " + strings.Join(items, "  ")
}
