package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ListFetches        *prometheus.CounterVec
	ListFetchFailures  *prometheus.CounterVec
	ListFetchDuration  *prometheus.HistogramVec
	TabCountFailures   *prometheus.CounterVec
	MatchesRecorded    prometheus.Counter
	MatchRecordFailed  prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// store handles counter database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}
