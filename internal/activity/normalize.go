package activity

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// The collector emits the same field under different names depending on agent
// version. Each alias list is checked in order and the first present, non-null
// value wins.
var (
	windowDurationAliases  = []string{"duration", "total_time", "active_time"}
	browserDurationAliases = []string{"duration", "total_time"}
	timestampAliases       = []string{"timestamp", "start_time"}
)

// RawPayload bundles the raw JSON arrays pulled from the collector in one
// fetch cycle. Any field may be nil.
type RawPayload struct {
	WindowActivity  []byte
	BrowserActivity []byte
	WebsiteVisits   []byte
	InputSamples    []byte
	ResourceSamples []byte
}

// Input is the normalized material the pipeline consumes.
type Input struct {
	Records         []Record
	Samples         []InputSample
	ResourceSamples []ResourceSample
}

// NormalizeWindowActivity parses window-activity records. Records with an
// unparseable timestamp or a non-positive duration are skipped, never fatal.
func NormalizeWindowActivity(data []byte) []Record {
	var out []Record
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		ts, ok := parseTimestamp(firstValue(item, timestampAliases...))
		if !ok {
			logDropped("window-activity", item)
			return true
		}
		app := firstString(item, "app_name", "application")
		if app == "" {
			return true
		}
		dur := durationFrom(item, windowDurationAliases, 0)
		if dur <= 0 {
			return true
		}
		out = append(out, Record{
			Source:      SourceWindow,
			App:         app,
			WindowTitle: item.Get("window_title").String(),
			Start:       ts,
			Duration:    dur,
		})
		return true
	})
	return out
}

// NormalizeBrowserActivity parses browser-activity records. When no duration
// alias is present an explicit end_time, if parseable, supplies it.
func NormalizeBrowserActivity(data []byte) []Record {
	var out []Record
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		ts, ok := parseTimestamp(firstValue(item, timestampAliases...))
		if !ok {
			logDropped("browser-activity", item)
			return true
		}
		browser := firstString(item, "browser_name", "browser")
		if browser == "" {
			return true
		}
		dur := durationFrom(item, browserDurationAliases, 0)
		if dur <= 0 {
			if end, ok := parseTimestamp(item.Get("end_time")); ok && end.After(ts) {
				dur = end.Sub(ts)
			}
		}
		if dur <= 0 {
			return true
		}
		rawURL := firstString(item, "url", "domain")
		out = append(out, Record{
			Source:   SourceBrowser,
			App:      browser,
			Browser:  browser,
			URL:      rawURL,
			Start:    ts,
			Duration: dur,
		})
		return true
	})
	return out
}

// NormalizeWebsiteVisits parses website-visit records. A missing or zero
// duration falls back to defaultDuration. The record identity is the resolved
// domain of the visit URL.
func NormalizeWebsiteVisits(data []byte, defaultDuration time.Duration) []Record {
	var out []Record
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		ts, ok := parseTimestamp(firstValue(item, timestampAliases...))
		if !ok {
			logDropped("website-visit", item)
			return true
		}
		rawURL := item.Get("url").String()
		domain := ResolveDomain(rawURL)
		if domain == "" {
			return true
		}
		dur := durationFrom(item, []string{"duration"}, defaultDuration)
		if dur <= 0 {
			dur = defaultDuration
		}
		out = append(out, Record{
			Source:   SourceVisit,
			App:      domain,
			Browser:  firstString(item, "browser", "browser_name"),
			URL:      rawURL,
			Start:    ts,
			Duration: dur,
		})
		return true
	})
	return out
}

// NormalizeInputSamples parses mouse/keyboard counter samples.
func NormalizeInputSamples(data []byte) []InputSample {
	var out []InputSample
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		ts, ok := parseTimestamp(firstValue(item, timestampAliases...))
		if !ok {
			logDropped("input-sample", item)
			return true
		}
		out = append(out, InputSample{
			Timestamp: ts,
			Clicks:    int(item.Get("mouse_clicks").Int()),
			Movements: int(item.Get("mouse_movements").Int()),
			KeyEvents: int(item.Get("keyboard_events").Int()),
		})
		return true
	})
	return out
}

// NormalizeResourceSamples parses CPU/memory/disk samples.
func NormalizeResourceSamples(data []byte) []ResourceSample {
	var out []ResourceSample
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		ts, ok := parseTimestamp(firstValue(item, timestampAliases...))
		if !ok {
			logDropped("resource-sample", item)
			return true
		}
		out = append(out, ResourceSample{
			Timestamp: ts,
			CPU:       item.Get("cpu").Float(),
			Memory:    item.Get("memory").Float(),
			Disk:      item.Get("disk").Float(),
			GPU:       item.Get("gpu").Float(),
			Network:   item.Get("network").Float(),
		})
		return true
	})
	return out
}

// ResolveDomain extracts the host from a URL, tolerating scheme-less values,
// and strips a leading "www.". Returns "" when no host can be found.
func ResolveDomain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func firstValue(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(item gjson.Result, keys ...string) string {
	v := firstValue(item, keys...)
	if v.Type != gjson.String && v.Type != gjson.Number {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// durationFrom reads the first present duration alias as seconds. A present
// but zero value returns 0 (caller decides whether to drop or default);
// fallback is returned only when no alias exists at all.
func durationFrom(item gjson.Result, aliases []string, fallback time.Duration) time.Duration {
	v := firstValue(item, aliases...)
	if !v.Exists() {
		return fallback
	}
	secs := v.Float()
	if secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp accepts the formats the collector has emitted over time:
// RFC 3339 strings, a space-separated variant, and unix epoch numbers
// (seconds, or milliseconds when the magnitude says so).
func parseTimestamp(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.String:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case gjson.Number:
		n := v.Int()
		if n <= 0 {
			return time.Time{}, false
		}
		if n > 1e12 { // milliseconds
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

func logDropped(kind string, item gjson.Result) {
	raw := item.Raw
	if len(raw) > 120 {
		raw = raw[:120] + "..."
	}
	log.Printf("normalize: dropping %s record with bad timestamp: %s", kind, raw)
}
