package activity

import (
	"testing"
	"time"
)

// ============================================================
// Window activity
// ============================================================

func TestNormalizeWindowAliases(t *testing.T) {
	cases := []struct {
		name string
		json string
		dur  time.Duration
	}{
		{"duration", `[{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","duration":120}]`, 120 * time.Second},
		{"total_time", `[{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","total_time":90}]`, 90 * time.Second},
		{"active_time", `[{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","active_time":45}]`, 45 * time.Second},
		{"priority order", `[{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","duration":30,"total_time":999}]`, 30 * time.Second},
		{"null skipped in priority", `[{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","duration":null,"total_time":75}]`, 75 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := NormalizeWindowActivity([]byte(tc.json))
			if len(recs) != 1 {
				t.Fatalf("expected 1 record, got %d", len(recs))
			}
			if recs[0].Duration != tc.dur {
				t.Fatalf("expected duration %v, got %v", tc.dur, recs[0].Duration)
			}
		})
	}
}

func TestNormalizeWindowApplicationAlias(t *testing.T) {
	recs := NormalizeWindowActivity([]byte(`[{"timestamp":"2025-06-02T10:00:00Z","application":"Slack.exe","duration":60,"window_title":"general"}]`))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].App != "Slack.exe" || recs[0].WindowTitle != "general" {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
	if recs[0].Source != SourceWindow {
		t.Fatalf("expected window source, got %s", recs[0].Source)
	}
}

func TestNormalizeWindowDropsZeroDuration(t *testing.T) {
	recs := NormalizeWindowActivity([]byte(`[
		{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","duration":0},
		{"timestamp":"2025-06-02T10:05:00Z","app_name":"Code.exe"},
		{"timestamp":"2025-06-02T10:10:00Z","app_name":"Code.exe","duration":-5},
		{"timestamp":"2025-06-02T10:15:00Z","app_name":"Code.exe","duration":60}
	]`))
	if len(recs) != 1 {
		t.Fatalf("zero/missing/negative durations must be dropped, got %d records", len(recs))
	}
}

func TestNormalizeWindowDropsBadTimestamp(t *testing.T) {
	recs := NormalizeWindowActivity([]byte(`[
		{"timestamp":"not a date","app_name":"Code.exe","duration":60},
		{"app_name":"Code.exe","duration":60},
		{"timestamp":"2025-06-02T10:00:00Z","app_name":"Code.exe","duration":60}
	]`))
	if len(recs) != 1 {
		t.Fatalf("bad timestamps must be skipped without error, got %d records", len(recs))
	}
}

func TestNormalizeMalformedJSONIsEmpty(t *testing.T) {
	if recs := NormalizeWindowActivity([]byte(`{{{`)); len(recs) != 0 {
		t.Fatalf("malformed payload must normalize to nothing, got %d", len(recs))
	}
	if recs := NormalizeWindowActivity(nil); len(recs) != 0 {
		t.Fatalf("nil payload must normalize to nothing, got %d", len(recs))
	}
}

func TestNormalizeTimestampFormats(t *testing.T) {
	cases := []struct {
		name string
		json string
		want time.Time
	}{
		{"rfc3339", `[{"timestamp":"2025-06-02T10:00:00Z","app_name":"a","duration":60}]`, day.Add(10 * time.Hour)},
		{"space separated", `[{"timestamp":"2025-06-02 10:00:00","app_name":"a","duration":60}]`, day.Add(10 * time.Hour)},
		{"unix seconds", `[{"timestamp":1748858400,"app_name":"a","duration":60}]`, time.Unix(1748858400, 0).UTC()},
		{"unix millis", `[{"timestamp":1748858400000,"app_name":"a","duration":60}]`, time.Unix(1748858400, 0).UTC()},
		{"start_time alias", `[{"start_time":"2025-06-02T10:00:00Z","app_name":"a","duration":60}]`, day.Add(10 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := NormalizeWindowActivity([]byte(tc.json))
			if len(recs) != 1 {
				t.Fatalf("expected 1 record, got %d", len(recs))
			}
			if !recs[0].Start.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, recs[0].Start)
			}
		})
	}
}

// ============================================================
// Browser activity
// ============================================================

func TestNormalizeBrowserEndTimeFallback(t *testing.T) {
	recs := NormalizeBrowserActivity([]byte(`[{
		"start_time":"2025-06-02T10:00:00Z",
		"end_time":"2025-06-02T10:04:00Z",
		"browser_name":"chrome",
		"url":"https://github.com/x"
	}]`))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Duration != 4*time.Minute {
		t.Fatalf("duration should come from end_time, got %v", recs[0].Duration)
	}
	if recs[0].Browser != "chrome" {
		t.Fatalf("unexpected browser %q", recs[0].Browser)
	}
}

func TestNormalizeBrowserAliases(t *testing.T) {
	recs := NormalizeBrowserActivity([]byte(`[{
		"timestamp":"2025-06-02T10:00:00Z",
		"browser":"firefox",
		"domain":"reddit.com",
		"total_time":30
	}]`))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].App != "firefox" || recs[0].URL != "reddit.com" || recs[0].Duration != 30*time.Second {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
}

func TestNormalizeBrowserDropsWithoutDuration(t *testing.T) {
	recs := NormalizeBrowserActivity([]byte(`[{"timestamp":"2025-06-02T10:00:00Z","browser_name":"chrome"}]`))
	if len(recs) != 0 {
		t.Fatalf("no duration and no end_time must drop, got %d", len(recs))
	}
}

// ============================================================
// Website visits
// ============================================================

func TestNormalizeVisitDefaultDuration(t *testing.T) {
	recs := NormalizeWebsiteVisits([]byte(`[
		{"timestamp":"2025-06-02T10:00:00Z","url":"https://www.youtube.com/watch","browser":"chrome"},
		{"timestamp":"2025-06-02T11:00:00Z","url":"https://github.com","duration":120}
	]`), time.Minute)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Duration != time.Minute {
		t.Fatalf("missing visit duration must default to 60s, got %v", recs[0].Duration)
	}
	if recs[0].App != "youtube.com" {
		t.Fatalf("visit identity must be the resolved domain, got %q", recs[0].App)
	}
	if recs[1].Duration != 2*time.Minute {
		t.Fatalf("explicit duration must win, got %v", recs[1].Duration)
	}
}

func TestNormalizeVisitDropsUnresolvableURL(t *testing.T) {
	recs := NormalizeWebsiteVisits([]byte(`[{"timestamp":"2025-06-02T10:00:00Z","url":""}]`), time.Minute)
	if len(recs) != 0 {
		t.Fatalf("visits without a resolvable domain must drop, got %d", len(recs))
	}
}

func TestResolveDomain(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://www.youtube.com/watch?v=x", "youtube.com"},
		{"http://github.com/a/b", "github.com"},
		{"reddit.com/r/golang", "reddit.com"},
		{"WWW.Example.COM", "example.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := ResolveDomain(tc.in); got != tc.want {
			t.Fatalf("ResolveDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// ============================================================
// Input and resource samples
// ============================================================

func TestNormalizeInputSamples(t *testing.T) {
	samples := NormalizeInputSamples([]byte(`[
		{"timestamp":"2025-06-02T10:00:00Z","mouse_clicks":3,"mouse_movements":10,"keyboard_events":5},
		{"timestamp":"2025-06-02T10:01:00Z","mouse_clicks":1,"mouse_movements":2},
		{"timestamp":"bogus","mouse_clicks":99}
	]`))
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Clicks != 3 || samples[0].Movements != 10 || samples[0].KeyEvents != 5 {
		t.Fatalf("unexpected counters: %+v", samples[0])
	}
	if samples[1].KeyEvents != 0 {
		t.Fatalf("missing keyboard_events should read as 0, got %d", samples[1].KeyEvents)
	}
}

func TestNormalizeResourceSamples(t *testing.T) {
	samples := NormalizeResourceSamples([]byte(`[
		{"timestamp":"2025-06-02T10:00:00Z","cpu":42.5,"memory":61.0,"disk":3.2,"gpu":11.0}
	]`))
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	s := samples[0]
	if s.CPU != 42.5 || s.Memory != 61.0 || s.Disk != 3.2 || s.GPU != 11.0 || s.Network != 0 {
		t.Fatalf("unexpected sample: %+v", s)
	}
}
