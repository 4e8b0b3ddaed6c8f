package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups      map[string]uint64 // by outcome
	Logins       map[string]uint64 // by outcome
	Logouts      uint64
	ContentViews map[string]uint64 // by "kind:found" or "kind:missing"
	HTTPRequests uint64
	HTTPTotalNs  int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu           sync.Mutex
	signups      map[string]uint64
	logins       map[string]uint64
	contentViews map[string]uint64

	logouts      uint64
	httpRequests uint64
	httpTotalNs  int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		signups:      make(map[string]uint64),
		logins:       make(map[string]uint64),
		contentViews: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Signups:      maps.Clone(m.signups),
		Logins:       maps.Clone(m.logins),
		Logouts:      atomic.LoadUint64(&m.logouts),
		ContentViews: maps.Clone(m.contentViews),
		HTTPRequests: atomic.LoadUint64(&m.httpRequests),
		HTTPTotalNs:  atomic.LoadInt64(&m.httpTotalNs),
	}
}

// IncSignup increments the signup counter for outcome.
func (m *InMemoryRecorder) IncSignup(outcome string) {
	m.mu.Lock()
	m.signups[outcome]++
	m.mu.Unlock()
}

// IncLogin increments the login counter for outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	m.logins[outcome]++
	m.mu.Unlock()
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncContentView increments the content view counter.
func (m *InMemoryRecorder) IncContentView(kind string, found bool) {
	m.mu.Lock()
	m.contentViews[ContentViewKey(kind, found)]++
	m.mu.Unlock()
}

// ObserveHTTPRequest records a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(_, _ string, _ int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	atomic.AddInt64(&m.httpTotalNs, duration.Nanoseconds())
}

// ContentViewKey is the Snapshot.ContentViews key for a view.
func ContentViewKey(kind string, found bool) string {
	if found {
		return kind + ":found"
	}
	return kind + ":missing"
}
