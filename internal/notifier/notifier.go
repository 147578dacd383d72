package notifier

import (
	"context"

	"github.com/mauv0809/clubdesk/internal/analytics"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches
	SendMatchResult(ctx context.Context, result MatchResult, dryRun bool) (string, error)
	// For season standings
	SendRanking(ctx context.Context, season string, entries []analytics.RankEntry, dryRun bool) error

	// For formatting responses for slash commands
	FormatRankingResponse(season string, entries []analytics.RankEntry) (any, error)
}

// MatchResult is a recorded match with the participants resolved to names.
type MatchResult struct {
	MatchID    int64
	Season     string
	MatchDate  string
	MatchType  string
	Team1      []string
	Team2      []string
	Team1Score int
	Team2Score int
	WinnerTeam int
}

// Winners returns the names on the winning team.
func (r MatchResult) Winners() []string {
	if r.WinnerTeam == 1 {
		return r.Team1
	}
	return r.Team2
}
