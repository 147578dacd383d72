package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncListFetch(view string)
	IncListFetchFailed(view string)
	ObserveListFetchDuration(view string, seconds float64)
	IncTabCountFailed(view string)
	IncMatchesRecorded()
	IncMatchRecordFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore keeps named activity counters in the database so they survive restarts.
type CounterStore interface {
	Increment(ctx context.Context, key string)
	GetAll(ctx context.Context) (map[string]int, error)
}

// Counter keys.
const (
	CounterMatchesRecorded = "matches_recorded"
	CounterMatchesDeleted  = "matches_deleted"
	CounterMembersSignedUp = "members_signed_up"
)
