package fetch

import (
	"sync"

	"github.com/deskpulse/deskpulse/internal/activity"
)

// Latest holds the last known good report. Reports carry the sequence number
// of the fetch that produced them; Apply rejects any report older than the
// newest one already applied, so a slow in-flight recompute can never
// overwrite a fresher result.
type Latest struct {
	mu      sync.RWMutex
	have    bool
	report  activity.Report
	applied uint64
}

// Apply installs the report unless it is stale. Returns whether it was
// accepted. Replacement is whole-report: no partial patching.
func (l *Latest) Apply(r activity.Report) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.have && r.Seq <= l.applied {
		return false
	}
	l.report = r
	l.applied = r.Seq
	l.have = true
	return true
}

// Get returns the current report and whether one has been applied yet.
func (l *Latest) Get() (activity.Report, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.report, l.have
}
