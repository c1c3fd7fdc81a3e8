// Package metrics keeps run counters for the optional monitoring endpoint.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ItemsProcessed     int64
	StaleRejected      int64
	IrrelevantRejected int64
	DuplicatesFiltered int64
	EnrichmentFailures int64
	Dispatched         int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsProcessed++
}

func (m *Metrics) IncStale() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleRejected++
}

func (m *Metrics) IncIrrelevant() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IrrelevantRejected++
}

func (m *Metrics) IncDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncEnrichmentFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichmentFailures++
}

func (m *Metrics) IncDispatched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dispatched++
}

func (m *Metrics) RecordRun(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = d
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"items_processed":      m.ItemsProcessed,
		"stale_rejected":       m.StaleRejected,
		"irrelevant_rejected":  m.IrrelevantRejected,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"enrichment_failures":  m.EnrichmentFailures,
		"dispatched":           m.Dispatched,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
