package analytics

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/club"
	"golang.org/x/sync/errgroup"
)

// Repository is the slice of the club store analytics reads from.
type Repository interface {
	GetMember(ctx context.Context, id string) (*club.Member, error)
	MemberMatchRecords(ctx context.Context, memberID string) ([]club.MatchRecord, error)
	ClassHistory(ctx context.Context, memberID string) ([]club.ClassChange, error)
	GetSeason(ctx context.Context, id int64) (*club.Season, error)
	SeasonRanking(ctx context.Context, seasonID int64, points club.PointsType) ([]club.RankingRow, error)
	MatchTypeCounts(ctx context.Context) (map[club.MatchType]int, error)
}

// Service computes statistics on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates an analytics service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MemberSummary is everything the member analytics page shows.
type MemberSummary struct {
	MemberID    string       `json:"member_id"`
	Name        string       `json:"name"`
	SingleClass string       `json:"single_class"`
	DoubleClass string       `json:"double_class"`
	WinRates    WinRates     `json:"win_rates"`
	Ratio       Ratio        `json:"ratio"`
	Classes     ClassHistory `json:"classes"`
}

// MemberSummary loads a member's records and class log concurrently and aggregates them.
func (s *Service) MemberSummary(ctx context.Context, memberID string) (*MemberSummary, error) {
	var (
		member  *club.Member
		records []club.MatchRecord
		changes []club.ClassChange
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		member, err = s.repo.GetMember(gctx, memberID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.repo.MemberMatchRecords(gctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to load match records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		changes, err = s.repo.ClassHistory(gctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to load class history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("Failed to build member summary", "memberID", memberID, "error", err)
		return nil, err
	}

	return &MemberSummary{
		MemberID:    member.ID,
		Name:        member.Name,
		SingleClass: Display(member.SingleClass),
		DoubleClass: Display(member.DoubleClass),
		WinRates:    WinRatesByMatchType(records),
		Ratio:       MatchTypeRatio(records),
		Classes:     ClassHistoryFrom(changes),
	}, nil
}

// RankEntry is one line of a season leaderboard.
type RankEntry struct {
	Rank     int    `json:"rank"`
	Score    int    `json:"score"`
	Name     string `json:"name"`
	Season   string `json:"season"`
	MemberID string `json:"member_id"`
	Wins     int    `json:"wins"`
	Played   int    `json:"played"`
}

// Ranking returns the leaderboard of a season for a points type. Ranks follow
// the stored order, so tied scores get consecutive ranks.
func (s *Service) Ranking(ctx context.Context, seasonID int64, points club.PointsType) ([]RankEntry, error) {
	season, err := s.repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SeasonRanking(ctx, seasonID, points)
	if err != nil {
		log.Error("Failed to fetch season ranking", "seasonID", seasonID, "points", points, "error", err)
		return nil, err
	}

	entries := make([]RankEntry, len(rows))
	for i, r := range rows {
		entries[i] = RankEntry{
			Rank:     i + 1,
			Score:    r.Points,
			Name:     r.MemberName,
			Season:   season.Name,
			MemberID: r.MemberID,
			Wins:     r.Wins,
			Played:   r.Played,
		}
	}
	return entries, nil
}

// TypeCounts is the number of matches per type across the club.
type TypeCounts struct {
	Singles int `json:"singles"`
	Doubles int `json:"doubles"`
	Total   int `json:"total"`
}

// MatchTypeCounts returns the club wide singles and doubles counts.
func (s *Service) MatchTypeCounts(ctx context.Context) (TypeCounts, error) {
	counts, err := s.repo.MatchTypeCounts(ctx)
	if err != nil {
		return TypeCounts{}, err
	}
	tc := TypeCounts{Singles: counts[club.MatchSingle], Doubles: counts[club.MatchDoubles]}
	tc.Total = tc.Singles + tc.Doubles
	return tc, nil
}
