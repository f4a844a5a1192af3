package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics counts loop activity. Safe for concurrent use.
type Metrics struct {
	frames        atomic.Int64
	probeFailures atomic.Int64
	writeFailures atomic.Int64
	reloads       atomic.Int64

	// Iteration latency, stored as nanoseconds.
	iterationNs    atomic.Int64
	iterationCount atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Frames        int64
	ProbeFailures int64
	WriteFailures int64
	Reloads       int64
	// IterationAvg is the mean time spent sampling and drawing one frame.
	IterationAvg time.Duration
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Frames:        m.frames.Load(),
		ProbeFailures: m.probeFailures.Load(),
		WriteFailures: m.writeFailures.Load(),
		Reloads:       m.reloads.Load(),
		IterationAvg:  safeDivide(m.iterationNs.Load(), m.iterationCount.Load()),
	}
}

func (m *Metrics) recordIteration(d time.Duration) {
	m.frames.Add(1)
	m.iterationNs.Add(d.Nanoseconds())
	m.iterationCount.Add(1)
}

// safeDivide returns 0 for an empty count.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}
