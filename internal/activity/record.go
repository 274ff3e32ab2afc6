package activity

import "time"

// Source identifies which instrumentation produced a record.
type Source string

const (
	SourceWindow   Source = "window"
	SourceBrowser  Source = "browser"
	SourceVisit    Source = "visit"
	SourceInput    Source = "input"
	SourceResource Source = "resource"
)

// Record is the normalized unit every pipeline stage operates on. App holds the
// application executable name for window/browser activity, or the resolved
// domain for website visits.
type Record struct {
	Source      Source
	App         string
	Browser     string
	WindowTitle string
	URL         string
	Start       time.Time
	Duration    time.Duration
	Background  bool
}

func (r Record) End() time.Time {
	return r.Start.Add(r.Duration)
}

// InputSample carries pointer/keyboard counters for one collector tick.
type InputSample struct {
	Timestamp time.Time
	Clicks    int
	Movements int
	KeyEvents int
}

// ResourceSample is a CPU/memory/disk reading. It is stored and rendered but
// plays no part in time accounting.
type ResourceSample struct {
	Timestamp time.Time
	CPU       float64
	Memory    float64
	Disk      float64
	GPU       float64
	Network   float64
}

// Interval is a maximal span formed by coalescing overlapping or near-adjacent
// records. Records holds the folded sources in chronological order.
type Interval struct {
	Start   time.Time
	End     time.Time
	Records []Record
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Bucket is one fixed-size window of accumulated input counters.
type Bucket struct {
	Start     time.Time
	Clicks    int
	Movements int
	KeyEvents int
	Active    bool
}

func (b Bucket) combined() int {
	return b.Clicks + b.Movements + b.KeyEvents
}

// Accounting is the final time aggregate.
//
// ProductivityPercent is the active/elapsed ratio. ClassificationPercent is the
// independent table-based score. Headline picks between them: the ratio when
// input samples were available for the span, the classification score when not.
type Accounting struct {
	TotalElapsedSeconds float64 `json:"total_elapsed_seconds"`
	ActiveSeconds       float64 `json:"active_seconds"`
	PassiveSeconds      float64 `json:"passive_seconds"`
	ProductivityPercent float64 `json:"productivity_percent"`

	ClassificationPercent float64 `json:"classification_percent"`
	Headline              float64 `json:"headline_percent"`
}

// Usage is a per-app or per-domain aggregate handed to the rendering layer.
type Usage struct {
	Key          string   `json:"key"`
	TotalSeconds float64  `json:"total_seconds"`
	Sessions     int      `json:"sessions"`
	Browsers     []string `json:"browsers,omitempty"`
}

// Config holds the pipeline tunables. The defaults match the reference
// constants and should not be changed without product input.
type Config struct {
	// GapThreshold merges records of the same source whose gap is at most
	// this long. CrossSourceGap is the looser threshold used when folding
	// intervals reported by different instrumentation sources.
	GapThreshold   time.Duration
	CrossSourceGap time.Duration

	BucketSize           time.Duration
	ActivityThreshold    int
	PassiveWeight        float64
	DefaultVisitDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		GapThreshold:         10 * time.Second,
		CrossSourceGap:       30 * time.Second,
		BucketSize:           time.Minute,
		ActivityThreshold:    5,
		PassiveWeight:        0.1,
		DefaultVisitDuration: time.Minute,
	}
}
