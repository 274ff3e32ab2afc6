package activity

import "strings"

// Known non-countable background processes: OS shell components, overlay
// helpers, and short-lived system utilities. These never contribute to
// counted time.
var defaultDenyEntries = []string{
	"explorer.exe",
	"searchhost",
	"searchapp",
	"startmenuexperiencehost",
	"shellexperiencehost",
	"applicationframehost",
	"textinputhost",
	"lockapp",
	"runtimebroker",
	"dwm.exe",
	"taskmgr",
	"systemsettings",
	"nvidia overlay",
	"nvidia geforce overlay",
	"gamebar",
	"widgets.exe",
	"useroobebroker",
	"securityhealthsystray",
}

// DenyList decides whether an application identity is a background process.
type DenyList struct {
	entries []string
}

// NewDenyList builds the filter from the built-in entries plus any extras
// from configuration. Entries are matched case-insensitively.
func NewDenyList(extra ...string) *DenyList {
	d := &DenyList{entries: make([]string, 0, len(defaultDenyEntries)+len(extra))}
	for _, e := range defaultDenyEntries {
		d.add(e)
	}
	for _, e := range extra {
		d.add(e)
	}
	return d
}

func (d *DenyList) add(entry string) {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry != "" {
		d.entries = append(d.entries, entry)
	}
}

// Match reports whether name is a background process. The check is a
// bidirectional substring test so that partial executable-name variants
// ("NVIDIA Overlay" vs "NVIDIA Overlay.exe") match either way.
func (d *DenyList) Match(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, entry := range d.entries {
		if strings.Contains(name, entry) || strings.Contains(entry, name) {
			return true
		}
	}
	return false
}

// Apply returns records with Background set from the deny list.
func (d *DenyList) Apply(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		r.Background = d.Match(r.App)
		out[i] = r
	}
	return out
}

// Foreground filters out background records.
func Foreground(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if !r.Background {
			out = append(out, r)
		}
	}
	return out
}
