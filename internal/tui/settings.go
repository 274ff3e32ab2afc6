package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/deskpulse/deskpulse/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	gapThreshold      *string
	crossSourceGap    *string
	bucketSize        *string
	activityThreshold *string
	passiveWeight     *string
	defaultVisit      *string
}

func newSettingsModel(s *store.Store) settingsModel {
	gt, cg, bs := "", "", ""
	at, pw, dv := "", "", ""
	return settingsModel{
		store:             s,
		gapThreshold:      &gt,
		crossSourceGap:    &cg,
		bucketSize:        &bs,
		activityThreshold: &at,
		passiveWeight:     &pw,
		defaultVisit:      &dv,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.gapThreshold = s.getVal("gap_threshold_seconds", "10")
	*s.crossSourceGap = s.getVal("cross_source_gap_seconds", "30")
	*s.bucketSize = s.getVal("bucket_size_seconds", "60")
	*s.activityThreshold = s.getVal("activity_threshold", "5")
	*s.passiveWeight = s.getVal("passive_weight", "0.1")
	*s.defaultVisit = s.getVal("default_visit_seconds", "60")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Merge gap (sec)").Value(s.gapThreshold).Validate(validateInt),
			huh.NewInput().Title("Cross-source gap (sec)").Value(s.crossSourceGap).Validate(validateInt),
			huh.NewInput().Title("Default visit length (sec)").Value(s.defaultVisit).Validate(validateInt),
		).Title("Sessions"),
		huh.NewGroup(
			huh.NewInput().Title("Bucket size (sec)").Value(s.bucketSize).Validate(validateInt),
			huh.NewInput().Title("Events per active bucket").Value(s.activityThreshold).Validate(validateInt),
			huh.NewInput().Title("Passive weight (0..1)").Value(s.passiveWeight).Validate(validateWeight),
		).Title("Activity"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return statusMsg{text: "Settings saved, applied on next fetch"} },
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("gap_threshold_seconds", *s.gapThreshold)
	s.store.SetSetting("cross_source_gap_seconds", *s.crossSourceGap)
	s.store.SetSetting("bucket_size_seconds", *s.bucketSize)
	s.store.SetSetting("activity_threshold", *s.activityThreshold)
	s.store.SetSetting("passive_weight", *s.passiveWeight)
	s.store.SetSetting("default_visit_seconds", *s.defaultVisit)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(28).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "gap_threshold_seconds", "cross_source_gap_seconds", "bucket_size_seconds", "default_visit_seconds":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d sec", secs)
		}
	case "activity_threshold":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d events", n)
		}
	}
	return v
}

func validateInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

func validateWeight(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}
