package observability

import (
	"strconv"
	"sync"
	"time"
)

// RouteStats accumulates per-route request counters.
type RouteStats struct {
	Requests     int64
	Errors       int64
	TotalLatency time.Duration
}

// Metrics keeps in-memory request and error counters keyed by
// method, path and outcome. A nil receiver is a no-op.
type Metrics struct {
	mu     sync.Mutex
	routes map[string]*RouteStats
}

func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[string]*RouteStats)}
}

// RecordRequest counts a completed request and its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.route(method + " " + path + " " + strconv.Itoa(status))
	stats.Requests++
	stats.TotalLatency += duration
}

// RecordError counts a request that ended in a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.route(method + " " + path + " " + code).Errors++
}

// Snapshot copies current counters for inspection.
func (m *Metrics) Snapshot() map[string]RouteStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RouteStats, len(m.routes))
	for key, stats := range m.routes {
		out[key] = *stats
	}
	return out
}

func (m *Metrics) route(key string) *RouteStats {
	stats, ok := m.routes[key]
	if !ok {
		stats = &RouteStats{}
		m.routes[key] = stats
	}
	return stats
}
