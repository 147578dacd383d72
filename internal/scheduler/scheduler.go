// Package scheduler posts the ranking of the running season on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/mauv0809/clubdesk/internal/club"
)

// Announcer posts a season leaderboard.
type Announcer interface {
	AnnounceRanking(ctx context.Context, seasonID int64, points club.PointsType, dryRun bool) error
}

// SeasonFinder lists the seasons running on a day.
type SeasonFinder interface {
	SeasonsOn(ctx context.Context, day string) ([]club.Season, error)
}

// Scheduler runs the ranking announcement job.
type Scheduler struct {
	sched     gocron.Scheduler
	announcer Announcer
	seasons   SeasonFinder
	now       func() time.Time
	dryRun    bool
}

// New schedules the weekly ranking post with a five field cron expression.
// The returned scheduler is not running until Start.
func New(cron string, announcer Announcer, seasons SeasonFinder, dryRun bool) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s := &Scheduler{sched: sched, announcer: announcer, seasons: seasons, now: time.Now, dryRun: dryRun}

	_, err = sched.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := s.AnnounceCurrentRanking(ctx); err != nil {
				log.Error("Scheduled ranking announcement failed", "error", err)
			}
		}),
		gocron.WithName("announce-ranking"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid ranking schedule %q: %w", cron, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Info("Starting scheduler")
	s.sched.Start()
}

// Shutdown stops the scheduler and waits for a running job.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// AnnounceCurrentRanking posts the total points ranking of every season running today.
func (s *Scheduler) AnnounceCurrentRanking(ctx context.Context) error {
	day := s.now().Format("2006-01-02")
	seasons, err := s.seasons.SeasonsOn(ctx, day)
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		log.Info("No season running, skipping ranking announcement", "day", day)
		return nil
	}
	for _, season := range seasons {
		if err := s.announcer.AnnounceRanking(ctx, season.ID, club.PointsTotal, s.dryRun); err != nil {
			return fmt.Errorf("failed to announce season %d: %w", season.ID, err)
		}
	}
	return nil
}
