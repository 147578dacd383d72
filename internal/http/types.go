package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/announcer"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/config"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/notifier"
	"github.com/mauv0809/clubdesk/internal/recording"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.CounterStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Analytics      *analytics.Service
	Recorder       recording.Factory
	Announcer      *announcer.Announcer
	Resolver       *club.Resolver
	Router         chi.Router
	now            func() time.Time
}
