package activity

import "testing"

func TestDenyListMatchesKnownProcesses(t *testing.T) {
	d := NewDenyList()
	cases := []string{
		"explorer.exe",
		"Explorer.EXE",
		"NVIDIA Overlay.exe",
		"SearchHost.exe",
		"TextInputHost.exe",
		"RuntimeBroker.exe",
	}
	for _, name := range cases {
		if !d.Match(name) {
			t.Fatalf("expected %q to be background", name)
		}
	}
}

func TestDenyListPassesRealApps(t *testing.T) {
	d := NewDenyList()
	cases := []string{
		"Code.exe",
		"chrome",
		"firefox.exe",
		"WINWORD.EXE",
		"slack",
	}
	for _, name := range cases {
		if d.Match(name) {
			t.Fatalf("expected %q to be countable", name)
		}
	}
}

func TestDenyListBidirectionalSubstring(t *testing.T) {
	d := NewDenyList()
	// Candidate contains the entry.
	if !d.Match("something-dwm.exe-helper") {
		t.Fatal("candidate containing a deny entry must match")
	}
	// Entry contains the candidate (partial executable-name variant).
	if !d.Match("nvidia overlay") {
		t.Fatal("deny entry containing the candidate must match")
	}
}

func TestDenyListTotalOnDegenerateInput(t *testing.T) {
	d := NewDenyList()
	if d.Match("") {
		t.Fatal("empty string must not match")
	}
	if d.Match("   ") {
		t.Fatal("whitespace must not match")
	}
}

func TestDenyListExtraEntries(t *testing.T) {
	d := NewDenyList("CorpUpdater.exe", "  ", "")
	if !d.Match("corpupdater.exe") {
		t.Fatal("configured extra entry must match case-insensitively")
	}
	base := NewDenyList()
	if base.Match("corpupdater.exe") {
		t.Fatal("extra entries must not leak into other lists")
	}
}

func TestApplyAndForeground(t *testing.T) {
	d := NewDenyList()
	recs := d.Apply([]Record{
		rec(t, SourceWindow, "Code.exe", "10:00:00", 60),
		rec(t, SourceWindow, "NVIDIA Overlay.exe", "10:00:00", 600),
	})
	if recs[0].Background || !recs[1].Background {
		t.Fatalf("unexpected background flags: %+v", recs)
	}
	fore := Foreground(recs)
	if len(fore) != 1 || fore[0].App != "Code.exe" {
		t.Fatalf("expected only Code.exe to survive, got %+v", fore)
	}
}
