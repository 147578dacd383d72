package handlers

import (
	"net/http"

	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/metrics"
)

func MatchTypeCountsHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.MatchTypeCounts(r.Context())
		if err != nil {
			writeServiceError(w, err, "count match types")
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

// StatsHandler returns the persistent activity counters.
func StatsHandler(counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := counters.GetAll(r.Context())
		if err != nil {
			writeServiceError(w, err, "load counters")
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}
