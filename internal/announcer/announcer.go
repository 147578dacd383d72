package announcer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/notifier"
	"github.com/mauv0809/clubdesk/internal/pubsub"
)

// New creates a new Announcer.
func New(store Store, ranker Ranker, notifier Notifier) *Announcer {
	return &Announcer{
		store:    store,
		ranker:   ranker,
		notifier: notifier,
	}
}

// Subscribe registers the announcer on an in-process publisher.
func (a *Announcer) Subscribe(d *pubsub.Direct, dryRun bool) {
	d.Subscribe(pubsub.EventMatchRecorded, func(ctx context.Context, data []byte) error {
		return a.HandleMatchRecorded(ctx, data, dryRun)
	})
}

// HandleMatchRecorded decodes a match-recorded payload and announces the result.
func (a *Announcer) HandleMatchRecorded(ctx context.Context, data []byte, dryRun bool) error {
	var event pubsub.MatchRecorded
	if err := pubsub.Decode(data, &event); err != nil {
		return fmt.Errorf("failed to decode match-recorded event: %w", err)
	}
	log.Info("Announcing match", "matchID", event.MatchID, "type", event.MatchType)

	result := notifier.MatchResult{
		MatchID:    event.MatchID,
		MatchDate:  event.MatchDate,
		MatchType:  event.MatchType,
		Team1:      a.names(ctx, event.Team1),
		Team2:      a.names(ctx, event.Team2),
		Team1Score: event.Team1Score,
		Team2Score: event.Team2Score,
		WinnerTeam: event.WinnerTeam,
	}
	if season, err := a.store.GetSeason(ctx, event.SeasonID); err == nil {
		result.Season = season.Name
	} else {
		log.Warn("Could not resolve season for announcement", "seasonID", event.SeasonID, "error", err)
	}

	if _, err := a.notifier.SendMatchResult(ctx, result, dryRun); err != nil {
		log.Error("Failed to announce match", "matchID", event.MatchID, "error", err)
		return err
	}
	return nil
}

// names resolves member ids to names. Members that cannot be loaded are shown by id.
func (a *Announcer) names(ctx context.Context, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		m, err := a.store.GetMember(ctx, id)
		if err != nil {
			log.Warn("Could not resolve member for announcement", "memberID", id, "error", err)
			names = append(names, id)
			continue
		}
		names = append(names, m.Name)
	}
	return names
}

// AnnounceRanking posts the current leaderboard of a season.
func (a *Announcer) AnnounceRanking(ctx context.Context, seasonID int64, points club.PointsType, dryRun bool) error {
	season, err := a.store.GetSeason(ctx, seasonID)
	if err != nil {
		return err
	}
	entries, err := a.ranker.Ranking(ctx, seasonID, points)
	if err != nil {
		return err
	}
	log.Info("Announcing ranking", "seasonID", seasonID, "points", points, "entries", len(entries))
	return a.notifier.SendRanking(ctx, season.Name, entries, dryRun)
}
