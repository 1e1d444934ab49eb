package monitoring

import (
	"sort"
	"sync"
	"time"
)

// JobSummary describes the run history of one background job.
type JobSummary struct {
	Job                 string    `json:"job"`
	TotalRuns           uint64    `json:"totalRuns"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastRunAt           time.Time `json:"lastRunAt"`
	LastError           string    `json:"lastError,omitempty"`
	LastDuration        float64   `json:"lastDurationSeconds"`
}

// JobTracker keeps the latest outcome of each background job for health probes.
type JobTracker struct {
	mu   sync.RWMutex
	now  func() time.Time
	jobs map[string]*JobSummary
}

// NewJobTracker returns an empty tracker.
func NewJobTracker() *JobTracker {
	return &JobTracker{now: time.Now, jobs: make(map[string]*JobSummary)}
}

// Expect registers a job before its first run so probes can report it as pending.
func (t *JobTracker) Expect(job string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.jobs[job]; !ok {
		t.jobs[job] = &JobSummary{Job: job}
	}
}

// Record stores the outcome of one run.
func (t *JobTracker) Record(job string, err error, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary, ok := t.jobs[job]
	if !ok {
		summary = &JobSummary{Job: job}
		t.jobs[job] = summary
	}
	summary.TotalRuns++
	summary.LastRunAt = t.now()
	summary.LastDuration = duration.Seconds()
	if err != nil {
		summary.ConsecutiveFailures++
		summary.LastError = err.Error()
		return
	}
	summary.ConsecutiveFailures = 0
	summary.LastError = ""
}

// Snapshot returns a copy of every job summary sorted by name.
func (t *JobTracker) Snapshot() []JobSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]JobSummary, 0, len(t.jobs))
	for _, summary := range t.jobs {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}
