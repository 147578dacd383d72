package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/announcer"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/config"
	"github.com/mauv0809/clubdesk/internal/database"
	server "github.com/mauv0809/clubdesk/internal/http"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/notifier/slack"
	"github.com/mauv0809/clubdesk/internal/pubsub"
	"github.com/mauv0809/clubdesk/internal/recording"
	"github.com/mauv0809/clubdesk/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db)
	metricsSvc := metrics.NewService(prometheus.DefaultRegisterer)
	metricsHandler := metrics.NewMetricsHandler(prometheus.DefaultGatherer)
	counters := metrics.NewStore(db)

	var notifier *slack.Notifier
	if cfg.Slack.Enabled() {
		notifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack is not configured, announcements are only logged")
		notifier = slack.NewNotifierWithAPI(nil, cfg.Slack.ChannelID, metricsSvc)
	}
	ann := announcer.New(clubStore, analytics.NewService(clubStore), notifier)

	// Recorded matches go to the Pub/Sub topic when one is configured; its push
	// subscription calls back into /pubsub/match-recorded. Otherwise they are
	// announced in process.
	var publisher pubsub.PubSubClient
	if cfg.PubSub.Enabled() {
		client, pubsubTeardown, err := pubsub.New(context.Background(), cfg.PubSub.ProjectID, cfg.PubSub.TopicID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer pubsubTeardown()
		publisher = client
	} else {
		bus := pubsub.NewDirect()
		ann.Subscribe(bus, false)
		publisher = bus
	}

	workflows := recording.NewFactory(clubStore, metricsSvc,
		recording.WithPublisher(publisher),
		recording.WithCounters(counters),
	)

	if cfg.RankingCron != "" {
		sched, err := scheduler.New(cfg.RankingCron, ann, clubStore, false)
		if err != nil {
			log.Fatalf("Failed to schedule ranking announcements: %s", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Error("Scheduler shutdown failed", "error", err)
			}
		}()
	}

	s := server.NewServer(
		clubStore,
		metricsSvc,
		metricsHandler,
		counters,
		cfg,
		notifier,
		workflows,
		ann,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
