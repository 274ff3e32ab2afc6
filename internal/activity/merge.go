package activity

import (
	"sort"
	"strings"
	"time"
)

// MergeIntervals coalesces records into non-overlapping intervals. Records
// whose start is at most gap past the current interval's end extend it;
// anything further starts a new interval. Records with a non-positive
// duration are ignored. Sorting is stable, so equal starts keep insertion
// order.
//
// This is the single merge routine used everywhere: within one source, across
// sources (via Remerge), and for the global timeline.
func MergeIntervals(recs []Record, gap time.Duration) []Interval {
	if len(recs) == 0 {
		return nil
	}
	sorted := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.Duration > 0 {
			sorted = append(sorted, r)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	out := make([]Interval, 0, len(sorted))
	cur := Interval{
		Start:   sorted[0].Start,
		End:     sorted[0].End(),
		Records: []Record{sorted[0]},
	}
	for _, r := range sorted[1:] {
		if !r.Start.After(cur.End.Add(gap)) {
			if r.End().After(cur.End) {
				cur.End = r.End()
			}
			cur.Records = append(cur.Records, r)
			continue
		}
		out = append(out, cur)
		cur = Interval{Start: r.Start, End: r.End(), Records: []Record{r}}
	}
	return append(out, cur)
}

// Remerge folds already-merged intervals from several sources into one
// non-overlapping set, keeping each interval's source records. This is the
// second merge pass: it stops two instrumentation sources that report the
// same real-world usage from counting it twice.
func Remerge(ivs []Interval, gap time.Duration) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	out := make([]Interval, 0, len(sorted))
	cur := Interval{
		Start:   sorted[0].Start,
		End:     sorted[0].End,
		Records: append([]Record(nil), sorted[0].Records...),
	}
	for _, iv := range sorted[1:] {
		if !iv.Start.After(cur.End.Add(gap)) {
			if iv.End.After(cur.End) {
				cur.End = iv.End
			}
			cur.Records = append(cur.Records, iv.Records...)
			continue
		}
		out = append(out, cur)
		cur = Interval{Start: iv.Start, End: iv.End, Records: append([]Record(nil), iv.Records...)}
	}
	return append(out, cur)
}

// TotalDuration sums the spans of a merged set. With overlapping inputs this
// is strictly less than the naive sum of record durations.
func TotalDuration(ivs []Interval) time.Duration {
	var total time.Duration
	for _, iv := range ivs {
		total += iv.Duration()
	}
	return total
}

// AppKey gives the application identity of a record: the lowercased app name
// with any ".exe" suffix stripped. A record's URL never participates, so
// window activity for "Chrome.EXE" and browser activity for "chrome" land in
// the same bucket even when the browser record carries a URL.
func AppKey(r Record) string {
	return strings.TrimSuffix(strings.ToLower(r.App), ".exe")
}

// CanonicalKey gives the site-or-app identity of a record: the resolved
// domain when one exists, otherwise the app name as in AppKey. Used for the
// per-domain aggregate and for classification scoring, where the domain is
// the more specific identity.
func CanonicalKey(r Record) string {
	if r.Source == SourceVisit || r.Source == SourceBrowser {
		if d := ResolveDomain(r.URL); d != "" {
			return d
		}
	}
	return AppKey(r)
}

// MergeByKey groups records by key and merges each group twice: first within
// each source at gap, then across sources at crossGap.
func MergeByKey(recs []Record, key func(Record) string, gap, crossGap time.Duration) map[string][]Interval {
	bySource := make(map[string]map[Source][]Record)
	for _, r := range recs {
		k := key(r)
		if k == "" {
			continue
		}
		if bySource[k] == nil {
			bySource[k] = make(map[Source][]Record)
		}
		bySource[k][r.Source] = append(bySource[k][r.Source], r)
	}

	out := make(map[string][]Interval, len(bySource))
	for k, sources := range bySource {
		var merged []Interval
		for _, group := range sources {
			merged = append(merged, MergeIntervals(group, gap)...)
		}
		out[k] = Remerge(merged, crossGap)
	}
	return out
}
