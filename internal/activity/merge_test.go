package activity

import (
	"testing"
	"time"
)

// day anchors every test at a fixed date so clock-time helpers stay readable.
var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// at parses "HH:MM:SS" into an absolute timestamp on the test day.
func at(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04:05", clock)
	if err != nil {
		t.Fatalf("bad clock %q: %v", clock, err)
	}
	return day.Add(time.Duration(parsed.Hour())*time.Hour +
		time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second)
}

func rec(t *testing.T, source Source, app, start string, durSecs int) Record {
	t.Helper()
	return Record{
		Source:   source,
		App:      app,
		Start:    at(t, start),
		Duration: time.Duration(durSecs) * time.Second,
	}
}

// ============================================================
// MergeIntervals
// ============================================================

func TestMergeEmptyInput(t *testing.T) {
	if got := MergeIntervals(nil, 10*time.Second); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if TotalDuration(nil) != 0 {
		t.Fatal("empty set should total zero")
	}
}

func TestMergeSingleRecord(t *testing.T) {
	r := rec(t, SourceWindow, "Code.exe", "10:00:00", 300)
	ivs := MergeIntervals([]Record{r}, 10*time.Second)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(ivs))
	}
	if !ivs[0].Start.Equal(r.Start) || !ivs[0].End.Equal(r.End()) {
		t.Fatalf("interval should equal the record span, got %v-%v", ivs[0].Start, ivs[0].End)
	}
	if len(ivs[0].Records) != 1 {
		t.Fatalf("expected 1 source record, got %d", len(ivs[0].Records))
	}
}

func TestMergeOverlappingRecords(t *testing.T) {
	// A.start < B.start < A.end: exactly one interval [A.start, max end].
	a := rec(t, SourceWindow, "chrome", "10:00:00", 300)
	b := rec(t, SourceBrowser, "chrome", "10:03:00", 300)
	ivs := MergeIntervals([]Record{a, b}, 10*time.Second)

	if len(ivs) != 1 {
		t.Fatalf("expected 1 merged interval, got %d", len(ivs))
	}
	if !ivs[0].Start.Equal(at(t, "10:00:00")) || !ivs[0].End.Equal(at(t, "10:08:00")) {
		t.Fatalf("expected 10:00:00-10:08:00, got %v-%v", ivs[0].Start, ivs[0].End)
	}
	total := TotalDuration(ivs)
	if total != 480*time.Second {
		t.Fatalf("expected 480s deduplicated, got %v", total)
	}
	if naive := a.Duration + b.Duration; total >= naive {
		t.Fatalf("merged total %v should be strictly less than naive sum %v", total, naive)
	}
}

func TestMergeNearAdjacentWithinGap(t *testing.T) {
	a := rec(t, SourceWindow, "Code.exe", "10:00:00", 60)
	b := rec(t, SourceWindow, "Code.exe", "10:01:08", 60) // 8s gap
	ivs := MergeIntervals([]Record{a, b}, 10*time.Second)
	if len(ivs) != 1 {
		t.Fatalf("8s gap with 10s threshold should merge, got %d intervals", len(ivs))
	}
}

func TestMergeGapBeyondThresholdSplits(t *testing.T) {
	a := rec(t, SourceWindow, "Code.exe", "10:00:00", 60)
	b := rec(t, SourceWindow, "Code.exe", "10:01:11", 60) // 11s gap
	ivs := MergeIntervals([]Record{a, b}, 10*time.Second)
	if len(ivs) != 2 {
		t.Fatalf("11s gap with 10s threshold should split, got %d intervals", len(ivs))
	}
}

func TestMergeGapExactlyThresholdMerges(t *testing.T) {
	// start <= end + gap is inclusive on the boundary.
	a := rec(t, SourceWindow, "Code.exe", "10:00:00", 60)
	b := rec(t, SourceWindow, "Code.exe", "10:01:10", 60)
	ivs := MergeIntervals([]Record{a, b}, 10*time.Second)
	if len(ivs) != 1 {
		t.Fatalf("gap equal to threshold should merge, got %d intervals", len(ivs))
	}
}

func TestMergeContainedRecordDoesNotShrinkEnd(t *testing.T) {
	a := rec(t, SourceWindow, "Code.exe", "10:00:00", 600)
	b := rec(t, SourceWindow, "Code.exe", "10:02:00", 60) // fully inside a
	ivs := MergeIntervals([]Record{a, b}, 10*time.Second)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(ivs))
	}
	if !ivs[0].End.Equal(at(t, "10:10:00")) {
		t.Fatalf("contained record must not shrink end, got %v", ivs[0].End)
	}
}

func TestMergeUnsortedInput(t *testing.T) {
	recs := []Record{
		rec(t, SourceWindow, "Code.exe", "11:00:00", 60),
		rec(t, SourceWindow, "Code.exe", "10:00:00", 60),
		rec(t, SourceWindow, "Code.exe", "10:00:30", 60),
	}
	ivs := MergeIntervals(recs, 10*time.Second)
	if len(ivs) != 2 {
		t.Fatalf("expected 2 intervals from unsorted input, got %d", len(ivs))
	}
	if !ivs[0].Start.Equal(at(t, "10:00:00")) {
		t.Fatalf("output must be chronological, first start %v", ivs[0].Start)
	}
}

func TestMergeDropsZeroDuration(t *testing.T) {
	recs := []Record{
		{Source: SourceWindow, App: "Code.exe", Start: at(t, "10:00:00")},
	}
	if got := MergeIntervals(recs, 10*time.Second); got != nil {
		t.Fatalf("zero-duration records must be dropped, got %v", got)
	}
}

func TestMergeNonOverlapInvariant(t *testing.T) {
	gap := 10 * time.Second
	recs := []Record{
		rec(t, SourceWindow, "a", "10:00:00", 120),
		rec(t, SourceBrowser, "a", "10:01:00", 300),
		rec(t, SourceWindow, "a", "10:07:00", 30),
		rec(t, SourceVisit, "a", "10:07:20", 60),
		rec(t, SourceWindow, "a", "12:00:00", 60),
	}
	ivs := MergeIntervals(recs, gap)
	for i := 1; i < len(ivs); i++ {
		if !ivs[i].Start.After(ivs[i-1].End.Add(gap)) {
			t.Fatalf("intervals %d and %d are closer than the gap threshold", i-1, i)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	gap := 10 * time.Second
	recs := []Record{
		rec(t, SourceWindow, "a", "10:00:00", 120),
		rec(t, SourceWindow, "a", "10:01:00", 300),
		rec(t, SourceWindow, "a", "11:00:00", 30),
	}
	first := MergeIntervals(recs, gap)
	second := Remerge(first, gap)
	if len(first) != len(second) {
		t.Fatalf("remerge changed interval count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Fatalf("remerge changed interval %d: %v-%v vs %v-%v",
				i, first[i].Start, first[i].End, second[i].Start, second[i].End)
		}
	}
}

// ============================================================
// Remerge / MergeByKey
// ============================================================

func TestRemergeAcrossSources(t *testing.T) {
	window := MergeIntervals([]Record{rec(t, SourceWindow, "chrome", "10:00:00", 300)}, 10*time.Second)
	browser := MergeIntervals([]Record{rec(t, SourceBrowser, "chrome", "10:03:00", 300)}, 10*time.Second)

	merged := Remerge(append(window, browser...), 30*time.Second)
	if len(merged) != 1 {
		t.Fatalf("expected overlapping sources to fold into 1 interval, got %d", len(merged))
	}
	if TotalDuration(merged) != 480*time.Second {
		t.Fatalf("expected 480s, got %v", TotalDuration(merged))
	}
	if len(merged[0].Records) != 2 {
		t.Fatalf("both source records must be kept, got %d", len(merged[0].Records))
	}
}

func TestMergeByKeyGroupsCaseInsensitively(t *testing.T) {
	recs := []Record{
		rec(t, SourceWindow, "Chrome.EXE", "10:00:00", 60),
		rec(t, SourceBrowser, "chrome", "10:00:30", 60),
	}
	byKey := MergeByKey(recs, CanonicalKey, 10*time.Second, 30*time.Second)
	if len(byKey) != 1 {
		t.Fatalf("expected one logical bucket, got %d: %v", len(byKey), byKey)
	}
	ivs, ok := byKey["chrome"]
	if !ok {
		t.Fatalf("expected key %q, got %v", "chrome", byKey)
	}
	if len(ivs) != 1 {
		t.Fatalf("expected 1 merged interval, got %d", len(ivs))
	}
}

func TestCanonicalKeyPrefersDomain(t *testing.T) {
	r := Record{Source: SourceBrowser, App: "chrome", URL: "https://www.github.com/some/repo"}
	if k := CanonicalKey(r); k != "github.com" {
		t.Fatalf("expected domain key, got %q", k)
	}
	w := Record{Source: SourceWindow, App: "Code.exe"}
	if k := CanonicalKey(w); k != "code" {
		t.Fatalf("expected lowercased app without .exe, got %q", k)
	}
}

func TestAppKeyIgnoresURL(t *testing.T) {
	r := Record{Source: SourceBrowser, App: "chrome", URL: "https://www.github.com/some/repo"}
	if k := AppKey(r); k != "chrome" {
		t.Fatalf("app key must ignore the URL, got %q", k)
	}
	w := Record{Source: SourceWindow, App: "Chrome.EXE"}
	if k := AppKey(w); k != "chrome" {
		t.Fatalf("expected lowercased app without .exe, got %q", k)
	}
}
