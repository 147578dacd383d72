package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceMemberSummary(t *testing.T) {
	store := club.NewMock()
	store.GetMemberFunc = func(ctx context.Context, id string) (*club.Member, error) {
		return &club.Member{ID: id, Name: "Kim", SingleClass: "A"}, nil
	}
	store.MemberMatchRecordsFunc = func(ctx context.Context, memberID string) ([]club.MatchRecord, error) {
		return []club.MatchRecord{
			{MatchID: 3, MatchType: club.MatchSingle, TeamNo: 1, WinnerTeam: 1, MemberID: memberID},
			{MatchID: 2, MatchType: club.MatchSingle, TeamNo: 2, WinnerTeam: 1, MemberID: memberID},
			{MatchID: 1, MatchType: club.MatchDoubles, TeamNo: 1, WinnerTeam: 1, MemberID: memberID},
			{MatchID: 0, MatchType: club.MatchDoubles, TeamNo: 2, WinnerTeam: 2, MemberID: memberID},
		}, nil
	}
	store.ClassHistoryFunc = func(ctx context.Context, memberID string) ([]club.ClassChange, error) {
		return []club.ClassChange{{MemberID: memberID, OldSingleClass: "B", NewSingleClass: "A"}}, nil
	}

	summary, err := NewService(store).MemberSummary(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "Kim", summary.Name)
	assert.Equal(t, "A", summary.SingleClass)
	assert.Equal(t, "N/A", summary.DoubleClass)
	assert.Equal(t, 50.0, summary.WinRates.Singles.WinRate)
	assert.Equal(t, 100.0, summary.WinRates.Doubles.WinRate)
	assert.Equal(t, 75.0, summary.WinRates.Overall.WinRate)
	assert.Equal(t, 50.0, summary.Ratio.SinglesPercentage)
	assert.True(t, summary.Classes.SingleImproved)
}

func TestServiceMemberSummaryErrors(t *testing.T) {
	store := club.NewMock()
	_, err := NewService(store).MemberSummary(context.Background(), "ghost")
	assert.ErrorIs(t, err, club.ErrMemberNotFound)

	store.GetMemberFunc = func(ctx context.Context, id string) (*club.Member, error) {
		return &club.Member{ID: id}, nil
	}
	store.ClassHistoryFunc = func(ctx context.Context, memberID string) ([]club.ClassChange, error) {
		return nil, errors.New("db closed")
	}
	_, err = NewService(store).MemberSummary(context.Background(), "m-1")
	assert.ErrorContains(t, err, "failed to load class history")
}

func TestServiceRanking(t *testing.T) {
	store := club.NewMock()
	store.GetSeasonFunc = func(ctx context.Context, id int64) (*club.Season, error) {
		return &club.Season{ID: id, Name: "Spring 2024"}, nil
	}
	var gotPoints club.PointsType
	store.SeasonRankingFunc = func(ctx context.Context, seasonID int64, points club.PointsType) ([]club.RankingRow, error) {
		gotPoints = points
		return []club.RankingRow{
			{MemberID: "a", MemberName: "Ada", Points: 7, Wins: 2, Played: 3},
			{MemberID: "b", MemberName: "Bob", Points: 4, Wins: 1, Played: 2},
		}, nil
	}

	entries, err := NewService(store).Ranking(context.Background(), 4, club.PointsSingle)
	require.NoError(t, err)
	assert.Equal(t, club.PointsSingle, gotPoints)
	assert.Equal(t, []RankEntry{
		{Rank: 1, Score: 7, Name: "Ada", Season: "Spring 2024", MemberID: "a", Wins: 2, Played: 3},
		{Rank: 2, Score: 4, Name: "Bob", Season: "Spring 2024", MemberID: "b", Wins: 1, Played: 2},
	}, entries)

	store.GetSeasonFunc = nil
	_, err = NewService(store).Ranking(context.Background(), 99, club.PointsTotal)
	assert.ErrorIs(t, err, club.ErrSeasonNotFound)
}

func TestServiceMatchTypeCounts(t *testing.T) {
	store := club.NewMock()
	store.MatchTypeCountsFunc = func(ctx context.Context) (map[club.MatchType]int, error) {
		return map[club.MatchType]int{club.MatchSingle: 3, club.MatchDoubles: 5}, nil
	}
	counts, err := NewService(store).MatchTypeCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypeCounts{Singles: 3, Doubles: 5, Total: 8}, counts)
}
