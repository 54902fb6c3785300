package cms

import (
	"sort"
	"sync"
	"time"
)

type callSample struct {
	at         time.Time
	durationMs int64
	failed     bool
}

// CallSnapshot aggregates recent calls of one operation.
type CallSnapshot struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
}

// Stats keeps a rolling window of store call latencies per operation.
type Stats struct {
	mu      sync.Mutex
	samples map[string][]callSample
	window  time.Duration
	now     func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		samples: make(map[string][]callSample),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one call. A nil receiver discards it.
func (s *Stats) Record(op string, d time.Duration, err error) {
	if s == nil {
		return
	}
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples[op] = append(prune(s.samples[op], now.Add(-s.window)), callSample{
		at:         now,
		durationMs: ms,
		failed:     err != nil,
	})
}

// Snapshot returns per-operation aggregates for the current window.
func (s *Stats) Snapshot() map[string]CallSnapshot {
	out := make(map[string]CallSnapshot)
	if s == nil {
		return out
	}
	cutoff := s.now().Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for op, samples := range s.samples {
		samples = prune(samples, cutoff)
		s.samples[op] = samples
		if len(samples) == 0 {
			continue
		}
		out[op] = aggregate(samples)
	}
	return out
}

func prune(samples []callSample, cutoff time.Time) []callSample {
	keep := samples[:0]
	for _, sm := range samples {
		if !sm.at.Before(cutoff) {
			keep = append(keep, sm)
		}
	}
	return keep
}

func aggregate(samples []callSample) CallSnapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	snap := CallSnapshot{Count: len(samples)}
	for _, sm := range samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		if sm.failed {
			snap.Errors++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	return snap
}

func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	weight := index - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
