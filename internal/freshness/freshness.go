// Package freshness rejects feed items that are too old to dispatch, and in
// strict mode items that are not recent enough.
package freshness

import "time"

// Gate checks entry timestamps against the run's time window.
type Gate struct {
	maxAge   time.Duration // items older than this are stale
	minFresh time.Duration // strict mode: only items within this window pass; 0 disables
	now      func() time.Time
}

// NewGate builds a gate. minFresh == 0 disables the strict window. now may be
// nil (time.Now). The strict window exists so a freshly added or recovering
// feed does not flood the output channel with its backlog.
func NewGate(maxAge, minFresh time.Duration, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{maxAge: maxAge, minFresh: minFresh, now: now}
}

// Fresh reports whether an item published at ts may proceed. A zero ts means
// the feed carried no parseable timestamp; such items are rejected as stale
// to avoid unbounded backlog replay.
func (g *Gate) Fresh(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	age := g.now().Sub(ts)
	if age > g.maxAge {
		return false
	}
	if g.minFresh > 0 && age > g.minFresh {
		return false
	}
	return true
}
