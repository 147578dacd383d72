package announcer

import (
	"context"

	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/notifier"
)

// Store defines the lookups the announcer needs to turn ids into names.
type Store interface {
	GetMember(ctx context.Context, id string) (*club.Member, error)
	GetSeason(ctx context.Context, id int64) (*club.Season, error)
}

// Ranker produces season leaderboards.
type Ranker interface {
	Ranking(ctx context.Context, seasonID int64, points club.PointsType) ([]analytics.RankEntry, error)
}

// Notifier defines the notification operations required by the announcer.
type Notifier interface {
	notifier.Notifier
}
