package activity

import "time"

// BucketSeries covers a contiguous time span with fixed-size input buckets.
// Buckets with no samples exist with zero counters and Active=false, so every
// instant of the span resolves to exactly one bucket.
type BucketSeries struct {
	Size    time.Duration
	Buckets []Bucket

	origin  time.Time
	samples int
}

// NewBucketSeries buckets samples into [from, to) at the given granularity.
// Sample timestamps are truncated to the bucket size; samples outside the
// span are ignored. A bucket is active when its combined click+movement+key
// count reaches threshold.
func NewBucketSeries(samples []InputSample, from, to time.Time, size time.Duration, threshold int) BucketSeries {
	if size <= 0 {
		size = time.Minute
	}
	s := BucketSeries{Size: size}
	if !to.After(from) {
		return s
	}

	s.origin = from.Truncate(size)
	n := int(to.Sub(s.origin)/size) + 1
	s.Buckets = make([]Bucket, n)
	for i := range s.Buckets {
		s.Buckets[i].Start = s.origin.Add(time.Duration(i) * size)
	}

	for _, sample := range samples {
		idx := s.index(sample.Timestamp)
		if idx < 0 {
			continue
		}
		b := &s.Buckets[idx]
		b.Clicks += sample.Clicks
		b.Movements += sample.Movements
		b.KeyEvents += sample.KeyEvents
		s.samples++
	}

	for i := range s.Buckets {
		s.Buckets[i].Active = s.Buckets[i].combined() >= threshold
	}
	return s
}

func (s BucketSeries) index(t time.Time) int {
	if len(s.Buckets) == 0 || t.Before(s.origin) {
		return -1
	}
	idx := int(t.Sub(s.origin) / s.Size)
	if idx >= len(s.Buckets) {
		return -1
	}
	return idx
}

// ActiveAt reports whether the instant t falls inside an active bucket.
// Instants outside the series are passive.
func (s BucketSeries) ActiveAt(t time.Time) bool {
	idx := s.index(t)
	return idx >= 0 && s.Buckets[idx].Active
}

// Empty reports whether no samples landed in the series at all, in which case
// the active/passive ratio carries no signal.
func (s BucketSeries) Empty() bool {
	return s.samples == 0
}

// ActiveCount returns the number of active buckets.
func (s BucketSeries) ActiveCount() int {
	n := 0
	for _, b := range s.Buckets {
		if b.Active {
			n++
		}
	}
	return n
}
