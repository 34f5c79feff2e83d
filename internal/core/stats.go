// Operation counters and timings for the workbench
package core

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// OperationStats summarises one kind of workbench operation
type OperationStats struct {
	Count    int
	Failures int
	Total    time.Duration
	Max      time.Duration
}

func (s OperationStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// StatsRecorder collects OperationStats keyed by operation name
type StatsRecorder struct {
	mu  sync.Mutex
	ops map[string]OperationStats
}

func NewStatsRecorder() *StatsRecorder {
	return &StatsRecorder{
		ops: make(map[string]OperationStats),
	}
}

func (sr *StatsRecorder) Record(operation string, duration time.Duration, err error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	s := sr.ops[operation]
	s.Count++
	if err != nil {
		s.Failures++
	}
	s.Total += duration
	if duration > s.Max {
		s.Max = duration
	}
	sr.ops[operation] = s
}

// Snapshot returns a copy of the collected stats
func (sr *StatsRecorder) Snapshot() map[string]OperationStats {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	out := make(map[string]OperationStats, len(sr.ops))
	for name, s := range sr.ops {
		out[name] = s
	}
	return out
}

// LogSummary writes one debug entry per operation, sorted by name
func (sr *StatsRecorder) LogSummary(logger *logrus.Logger) {
	snapshot := sr.Snapshot()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := snapshot[name]
		logger.WithFields(logrus.Fields{
			"operation": name,
			"count":     s.Count,
			"failures":  s.Failures,
			"avg":       s.Average(),
			"max":       s.Max,
		}).Debug("Operation summary")
	}
}
