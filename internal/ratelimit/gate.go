// Package ratelimit enforces per-minute, per-hour and per-day ceilings on
// outbound API calls. A Gate is an explicitly constructed instance, not
// process-global state, so tests and multi-credential setups can hold
// isolated gates.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limits are the ceilings for each trailing window. Zero values fall back
// to the defaults.
type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// DefaultLimits mirror the ceilings the tool ships with.
var DefaultLimits = Limits{
	PerMinute: 5,
	PerHour:   30,
	PerDay:    100,
}

const (
	// safetyMargin is added to every computed wait so a caller that sleeps
	// the returned duration lands just past the window edge.
	safetyMargin = 100 * time.Millisecond

	// retention bounds the call history; entries older than this are
	// dropped on every read and write.
	retention = 24 * time.Hour
)

// Gate tracks outbound-call history per endpoint name. All methods are safe
// for concurrent use; Acquire performs its admission check and the
// timestamp record under one critical section so two callers can never both
// claim the final slot in a window.
type Gate struct {
	mu     sync.Mutex
	limits Limits
	now    func() time.Time
	calls  map[string][]time.Time
}

// New creates a Gate with the given limits; zero fields take defaults.
func New(limits Limits) *Gate {
	return NewWithClock(limits, time.Now)
}

// NewWithClock creates a Gate with an injected clock for tests.
func NewWithClock(limits Limits, now func() time.Time) *Gate {
	if limits.PerMinute <= 0 {
		limits.PerMinute = DefaultLimits.PerMinute
	}
	if limits.PerHour <= 0 {
		limits.PerHour = DefaultLimits.PerHour
	}
	if limits.PerDay <= 0 {
		limits.PerDay = DefaultLimits.PerDay
	}
	return &Gate{
		limits: limits,
		now:    now,
		calls:  map[string][]time.Time{},
	}
}

// CanCall reports whether a call to endpoint would currently be admitted:
// counts in each trailing window must be strictly below their ceilings.
func (g *Gate) CanCall(endpoint string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canCallLocked(g.prune(endpoint))
}

// TimeToWait returns how long a caller should wait before the per-minute
// window has room again, zero if a call would be admitted now. A caller
// blocked only by the hourly or daily ceiling also receives zero and must
// re-check CanCall.
func (g *Gate) TimeToWait(endpoint string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	history := g.prune(endpoint)
	if g.canCallLocked(history) {
		return 0
	}

	now := g.now()
	minuteAgo := now.Add(-time.Minute)
	var oldest time.Time
	count := 0
	for _, ts := range history {
		if ts.After(minuteAgo) {
			if count == 0 {
				oldest = ts
			}
			count++
		}
	}
	if count < g.limits.PerMinute {
		return 0
	}
	return oldest.Add(time.Minute).Sub(now) + safetyMargin
}

// RecordCall appends the current timestamp to endpoint's history. It must be
// called when a request is actually attempted, never speculatively.
func (g *Gate) RecordCall(endpoint string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[endpoint] = append(g.prune(endpoint), g.now())
}

// Acquire blocks until a call to endpoint is admitted, then records it. The
// check and the record happen atomically. It returns early if ctx is
// cancelled.
func (g *Gate) Acquire(ctx context.Context, endpoint string) error {
	for {
		g.mu.Lock()
		history := g.prune(endpoint)
		if g.canCallLocked(history) {
			g.calls[endpoint] = append(history, g.now())
			g.mu.Unlock()
			return nil
		}
		g.mu.Unlock()

		wait := g.TimeToWait(endpoint)
		if wait <= 0 {
			// Blocked by the hourly or daily ceiling; poll.
			wait = time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (g *Gate) canCallLocked(history []time.Time) bool {
	now := g.now()
	var minute, hour, day int
	for _, ts := range history {
		if ts.After(now.Add(-time.Minute)) {
			minute++
		}
		if ts.After(now.Add(-time.Hour)) {
			hour++
		}
		day++
	}
	return minute < g.limits.PerMinute &&
		hour < g.limits.PerHour &&
		day < g.limits.PerDay
}

// prune drops entries older than the retention window and returns the
// surviving, time-ordered history. Callers must hold g.mu.
func (g *Gate) prune(endpoint string) []time.Time {
	cutoff := g.now().Add(-retention)
	history := g.calls[endpoint]
	i := 0
	for i < len(history) && !history[i].After(cutoff) {
		i++
	}
	if i > 0 {
		history = history[i:]
		g.calls[endpoint] = history
	}
	return history
}
