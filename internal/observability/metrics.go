package observability

import (
	"sync"
	"time"
)

// RouteKey identifies one handler by method and path.
type RouteKey struct {
	Method string
	Path   string
}

// RouteStats accumulates request outcomes for one route. Failures are
// responses with a 4xx or 5xx status.
type RouteStats struct {
	Requests  int64
	Failures  int64
	TotalTime time.Duration
}

// Metrics keeps in-process counters per route and per domain error code. It
// stands in for a metrics backend; the admin dashboards read their numbers
// from the database, not from here.
type Metrics struct {
	mu         sync.Mutex
	routes     map[RouteKey]*RouteStats
	errorCodes map[string]int64
}

// NewMetrics initializes empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		routes:     make(map[RouteKey]*RouteStats),
		errorCodes: make(map[string]int64),
	}
}

// RecordRequest counts one finished request with its final status.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := RouteKey{Method: method, Path: path}
	stats := m.routes[key]
	if stats == nil {
		stats = &RouteStats{}
		m.routes[key] = stats
	}
	stats.Requests++
	if status >= 400 {
		stats.Failures++
	}
	stats.TotalTime += duration
}

// RecordError counts one surfaced domain error by its code.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCodes[code]++
}

// Route returns a copy of the counters for one route.
func (m *Metrics) Route(method, path string) RouteStats {
	if m == nil {
		return RouteStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stats := m.routes[RouteKey{Method: method, Path: path}]; stats != nil {
		return *stats
	}
	return RouteStats{}
}

// ErrorCount returns how often a domain error code surfaced.
func (m *Metrics) ErrorCount(code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCodes[code]
}
