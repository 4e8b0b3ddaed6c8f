// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels for authentication events.
const (
	OutcomeSuccess            = "success"
	OutcomeValidation         = "validation"
	OutcomeConflict           = "conflict"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// Content kinds.
const (
	ContentDescription = "description"
	ContentVideo       = "video"
	ContentModel       = "model"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncSignup(outcome string)
	IncLogin(outcome string)
	IncLogout()

	// Content metrics
	IncContentView(kind string, found bool)

	// HTTP metrics; route is the matched pattern, not the raw path.
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
