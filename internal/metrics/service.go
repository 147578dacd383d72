package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ListFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_list_fetches_total",
			Help: "The total number of list page fetches, by view.",
		}, []string{"view"}),
		ListFetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_list_fetch_failures_total",
			Help: "The total number of list page fetches that failed, by view.",
		}, []string{"view"}),
		ListFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "club_list_fetch_duration_seconds",
			Help:    "The duration of list page fetches, by view.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"view"}),
		TabCountFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_tab_count_failures_total",
			Help: "The total number of tab count queries that failed and defaulted to zero, by view.",
		}, []string{"view"}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_matches_recorded_total",
			Help: "The total number of matches recorded.",
		}),
		MatchRecordFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_match_record_failures_total",
			Help: "The total number of match submissions that failed to store.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "club_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ListFetches,
		s.ListFetchFailures,
		s.ListFetchDuration,
		s.TabCountFailures,
		s.MatchesRecorded,
		s.MatchRecordFailed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncListFetch(view string) {
	s.ListFetches.WithLabelValues(view).Inc()
}

func (s *Service) IncListFetchFailed(view string) {
	s.ListFetchFailures.WithLabelValues(view).Inc()
}

func (s *Service) ObserveListFetchDuration(view string, seconds float64) {
	s.ListFetchDuration.WithLabelValues(view).Observe(seconds)
}

func (s *Service) IncTabCountFailed(view string) {
	s.TabCountFailures.WithLabelValues(view).Inc()
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncMatchRecordFailed() {
	s.MatchRecordFailed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
