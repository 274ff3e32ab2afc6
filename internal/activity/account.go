package activity

import "time"

// Accountant turns the merged global timeline and the input-bucket series
// into the final aggregate.
type Accountant struct {
	cfg Config
}

func NewAccountant(cfg Config) *Accountant {
	return &Accountant{cfg: cfg}
}

// Account walks every merged interval bucket-slice by bucket-slice. Each
// second of interval time is attributed to exactly one of active or passive;
// passive time is scaled by the passive weight. TotalElapsedSeconds is the
// single end-to-end span from the first merged start to the last merged end,
// inter-session gaps included.
//
// Degenerate input yields the zero Accounting, never an error.
func (a *Accountant) Account(global []Interval, series BucketSeries, scores *ScoreTable) Accounting {
	var acc Accounting
	if len(global) == 0 {
		return acc
	}

	first := global[0].Start
	last := global[0].End
	for _, iv := range global[1:] {
		if iv.Start.Before(first) {
			first = iv.Start
		}
		if iv.End.After(last) {
			last = iv.End
		}
	}
	acc.TotalElapsedSeconds = last.Sub(first).Seconds()

	size := a.cfg.BucketSize
	if size <= 0 {
		size = time.Minute
	}
	var active, passive float64
	for _, iv := range global {
		for t := iv.Start; t.Before(iv.End); {
			sliceEnd := t.Truncate(size).Add(size)
			if sliceEnd.After(iv.End) {
				sliceEnd = iv.End
			}
			overlap := sliceEnd.Sub(t).Seconds()
			if series.ActiveAt(t) {
				active += overlap
			} else {
				passive += overlap * a.cfg.PassiveWeight
			}
			t = sliceEnd
		}
	}
	acc.ActiveSeconds = active
	acc.PassiveSeconds = passive

	if acc.TotalElapsedSeconds > 0 {
		acc.ProductivityPercent = acc.ActiveSeconds / acc.TotalElapsedSeconds * 100
	}

	if scores != nil {
		var recs []Record
		for _, iv := range global {
			recs = append(recs, iv.Records...)
		}
		acc.ClassificationPercent = scores.WeightedPercent(recs)
	}

	// The input-correlation ratio is authoritative when samples exist;
	// otherwise fall back to the classification score.
	if series.Empty() {
		acc.Headline = acc.ClassificationPercent
	} else {
		acc.Headline = acc.ProductivityPercent
	}
	return acc
}
