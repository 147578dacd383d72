package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CountsByView(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncListFetch("members")
	svc.IncListFetch("members")
	svc.IncListFetch("matches")
	svc.IncListFetchFailed("matches")
	svc.IncMatchesRecorded()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()

	assert.Contains(t, body, `club_list_fetches_total{view="members"} 2`)
	assert.Contains(t, body, `club_list_fetches_total{view="matches"} 1`)
	assert.Contains(t, body, `club_list_fetch_failures_total{view="matches"} 1`)
	assert.Contains(t, body, "club_matches_recorded_total 1")
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.SetStartupTime(1.5)

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "club_startup_duration_seconds 1.5")
}
