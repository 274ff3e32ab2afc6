package activity

import (
	"sort"
	"time"
)

// Report is the hand-off object for the rendering layer: the time aggregate
// plus per-app and per-domain usage lists, sorted by total time descending.
// Seq carries the fetch sequence number so stale recomputes can be rejected.
type Report struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Seq         uint64     `json:"seq"`
	Accounting  Accounting `json:"accounting"`
	Apps        []Usage    `json:"apps"`
	Domains     []Usage    `json:"domains"`

	RecordCount int `json:"record_count"`
	SampleCount int `json:"sample_count"`
}

// Pipeline wires the stages together: normalize, filter, merge, correlate,
// account, emit. It holds no mutable state; every Build computes a fresh
// Report from its input.
type Pipeline struct {
	cfg    Config
	deny   *DenyList
	scores *ScoreTable
}

func NewPipeline(cfg Config, deny *DenyList, scores *ScoreTable) *Pipeline {
	if deny == nil {
		deny = NewDenyList()
	}
	if scores == nil {
		scores = NewScoreTable(nil)
	}
	return &Pipeline{cfg: cfg, deny: deny, scores: scores}
}

func (p *Pipeline) Config() Config { return p.cfg }

// WithConfig returns a pipeline with the same deny list and score table but
// fresh tunables. The poller uses it to pick up edited settings per cycle.
func (p *Pipeline) WithConfig(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg, deny: p.deny, scores: p.scores}
}

// Ingest normalizes one fetch cycle's raw payload.
func (p *Pipeline) Ingest(raw RawPayload) Input {
	var in Input
	in.Records = append(in.Records, NormalizeWindowActivity(raw.WindowActivity)...)
	in.Records = append(in.Records, NormalizeBrowserActivity(raw.BrowserActivity)...)
	in.Records = append(in.Records, NormalizeWebsiteVisits(raw.WebsiteVisits, p.cfg.DefaultVisitDuration)...)
	in.Samples = NormalizeInputSamples(raw.InputSamples)
	in.ResourceSamples = NormalizeResourceSamples(raw.ResourceSamples)
	return in
}

// Build runs the full reconciliation over normalized input and emits the
// report. Empty input yields an all-zero report.
func (p *Pipeline) Build(in Input) Report {
	rep := Report{
		GeneratedAt: time.Now().UTC(),
		RecordCount: len(in.Records),
		SampleCount: len(in.Samples),
	}

	fore := Foreground(p.deny.Apply(in.Records))
	if len(fore) == 0 {
		return rep
	}

	global := MergeIntervals(fore, p.cfg.GapThreshold)
	if len(global) == 0 {
		return rep
	}

	first := global[0].Start
	last := global[len(global)-1].End
	series := NewBucketSeries(in.Samples, first, last, p.cfg.BucketSize, p.cfg.ActivityThreshold)

	rep.Accounting = NewAccountant(p.cfg).Account(global, series, p.scores)
	rep.Apps = p.usages(fore, appRecord, AppKey)
	rep.Domains = p.usages(fore, domainRecord, CanonicalKey)
	return rep
}

func appRecord(r Record) bool {
	return r.Source == SourceWindow || r.Source == SourceBrowser
}

func domainRecord(r Record) bool {
	if r.Source == SourceVisit {
		return true
	}
	return r.Source == SourceBrowser && ResolveDomain(r.URL) != ""
}

// usages merges the selected records per key (within each source, then
// across sources) and aggregates each key's deduplicated time.
func (p *Pipeline) usages(recs []Record, include func(Record) bool, key func(Record) string) []Usage {
	var selected []Record
	for _, r := range recs {
		if include(r) {
			selected = append(selected, r)
		}
	}
	byKey := MergeByKey(selected, key, p.cfg.GapThreshold, p.cfg.CrossSourceGap)

	out := make([]Usage, 0, len(byKey))
	for key, ivs := range byKey {
		u := Usage{
			Key:          key,
			TotalSeconds: TotalDuration(ivs).Seconds(),
			Sessions:     len(ivs),
		}
		seen := make(map[string]struct{})
		for _, iv := range ivs {
			for _, r := range iv.Records {
				if r.Browser == "" {
					continue
				}
				if _, ok := seen[r.Browser]; ok {
					continue
				}
				seen[r.Browser] = struct{}{}
				u.Browsers = append(u.Browsers, r.Browser)
			}
		}
		sort.Strings(u.Browsers)
		out = append(out, u)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSeconds != out[j].TotalSeconds {
			return out[i].TotalSeconds > out[j].TotalSeconds
		}
		return out[i].Key < out[j].Key
	})
	return out
}
