package pipeline

import (
	"sync"
	"time"
)

// StageTimer accumulates wall-clock durations per pipeline stage. Safe for
// concurrent use; stages running in parallel record independently.
type StageTimer struct {
	mu      sync.Mutex
	elapsed map[string]time.Duration
}

func NewStageTimer() *StageTimer {
	return &StageTimer{elapsed: make(map[string]time.Duration)}
}

// StartTiming begins timing one operation and returns the stop function.
func (t *StageTimer) StartTiming(operation string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		t.mu.Lock()
		t.elapsed[operation] += d
		t.mu.Unlock()
	}
}

// Durations returns accumulated milliseconds per operation.
func (t *StageTimer) Durations() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int64, len(t.elapsed))
	for op, d := range t.elapsed {
		out[op] = d.Milliseconds()
	}
	return out
}
