package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/announcer"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/config"
	"github.com/mauv0809/clubdesk/internal/http/handlers"
	"github.com/mauv0809/clubdesk/internal/listing"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/notifier"
	"github.com/mauv0809/clubdesk/internal/recording"
)

const requestTimeout = 30 * time.Second

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, counters metrics.CounterStore, cfg config.Config, notifier notifier.Notifier, recorder recording.Factory, announcer *announcer.Announcer) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Notifier:       notifier,
		Analytics:      analytics.NewService(store),
		Recorder:       recorder,
		Announcer:      announcer,
		Resolver:       club.NewResolver(store),
		Router:         chi.NewRouter(),
		now:            time.Now,
	}
	if server.Cfg.DefaultPageSize == 0 {
		server.Cfg.DefaultPageSize = listing.DefaultPageSize
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(paramsMiddleware)

	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}
	r.Get("/health", handlers.HealthCheckHandler())
	// Endpoints called by outside systems get a capped body.
	r.Method(http.MethodPost, "/pubsub/match-recorded", Chain(handlers.MatchRecordedPushHandler(s.Announcer), limitBody))
	r.Method(http.MethodPost, "/hooks/signup", Chain(handlers.SignupHookHandler(s.Store, s.Counters, s.Cfg.SignupSecret), limitBody))
	r.Method(http.MethodPost, "/slack/command/ranking", Chain(handlers.RankingCommandHandler(s.Store, s.Analytics, s.Notifier, s.Cfg.Slack.SigningSecret, s.now), limitBody))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", handlers.ListHandler(listing.MembersSchema, club.MemberFetcher(s.Store), memberKey, s.Metrics, s.Cfg.DefaultPageSize))
			r.Get("/tabs", handlers.TabsHandler(listing.MembersSchema, club.MemberCounter(s.Store), s.Metrics))
			r.Get("/resolve", handlers.ResolveMembersHandler(s.Resolver))
			r.Post("/", handlers.CreateMemberHandler(s.Store, s.Counters))
			r.Get("/{id}", handlers.GetMemberHandler(s.Store))
			r.Patch("/{id}", handlers.UpdateMemberHandler(s.Store))
			r.Get("/{id}/matches", handlers.MemberMatchesHandler(s.Store))
			r.Get("/{id}/analytics", handlers.MemberAnalyticsHandler(s.Analytics))
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", handlers.ListHandler(listing.MatchesSchema, club.MatchRecordFetcher(s.Store), club.MatchRecord.Key, s.Metrics, s.Cfg.DefaultPageSize))
			r.Get("/tabs", handlers.TabsHandler(listing.MatchesSchema, club.MatchRecordCounter(s.Store), s.Metrics))
			r.Post("/", handlers.RecordMatchHandler(s.Recorder))
			r.Get("/{id}", handlers.GetMatchHandler(s.Store))
			r.Delete("/{id}", handlers.DeleteMatchHandler(s.Store, s.Counters))
		})

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", handlers.ListSeasonsHandler(s.Store))
			r.Post("/", handlers.CreateSeasonHandler(s.Store))
			r.Get("/current", handlers.CurrentSeasonHandler(s.Store, s.now))
			r.Get("/{id}", handlers.GetSeasonHandler(s.Store))
			r.Patch("/{id}", handlers.UpdateSeasonHandler(s.Store))
			r.Get("/{id}/ranking", handlers.RankingHandler(s.Analytics))
			r.Post("/{id}/announce", handlers.AnnounceRankingHandler(s.Announcer))
		})

		r.Get("/analytics/match-types", handlers.MatchTypeCountsHandler(s.Analytics))
		r.Get("/stats", handlers.StatsHandler(s.Counters))
	})
}

func memberKey(m club.Member) string {
	return m.ID
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
