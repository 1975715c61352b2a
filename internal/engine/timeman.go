package engine

import "time"

// TimeManager tracks wall-clock time for the deepening loop. It cannot
// interrupt a running iteration; it only decides whether to start another.
type TimeManager struct {
	budget    time.Duration // per-iteration limit
	startTime time.Time     // when the whole search started
	iterStart time.Time     // when the current iteration started
	last      time.Duration // duration of the last finished iteration
}

// NewTimeManager creates a time manager with the given per-iteration budget.
func NewTimeManager(budget time.Duration) *TimeManager {
	return &TimeManager{budget: budget}
}

// Init marks the start of a new search.
func (tm *TimeManager) Init() {
	tm.startTime = time.Now()
	tm.last = 0
}

// BeginIteration marks the start of one deepening iteration.
func (tm *TimeManager) BeginIteration() {
	tm.iterStart = time.Now()
}

// EndIteration records and returns the duration of the current iteration.
func (tm *TimeManager) EndIteration() time.Duration {
	tm.last = time.Since(tm.iterStart)
	return tm.last
}

// Elapsed returns the time elapsed since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// LastIteration returns the duration of the last finished iteration.
func (tm *TimeManager) LastIteration() time.Duration {
	return tm.last
}

// ShouldStop returns true once an iteration took longer than the budget.
func (tm *TimeManager) ShouldStop() bool {
	return tm.last > tm.budget
}

// Budget returns the per-iteration limit.
func (tm *TimeManager) Budget() time.Duration {
	return tm.budget
}
