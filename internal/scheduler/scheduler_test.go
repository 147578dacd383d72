package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type announcerFunc func(ctx context.Context, seasonID int64, points club.PointsType, dryRun bool) error

func (f announcerFunc) AnnounceRanking(ctx context.Context, seasonID int64, points club.PointsType, dryRun bool) error {
	return f(ctx, seasonID, points, dryRun)
}

func TestNewRejectsBadCron(t *testing.T) {
	_, err := New("every sunday", announcerFunc(nil), club.NewMock(), true)
	assert.Error(t, err)
}

func TestAnnounceCurrentRanking(t *testing.T) {
	store := club.NewMock()
	var day string
	store.SeasonsOnFunc = func(ctx context.Context, d string) ([]club.Season, error) {
		day = d
		return []club.Season{{ID: 3}, {ID: 4}}, nil
	}
	var announced []int64
	ann := announcerFunc(func(ctx context.Context, seasonID int64, points club.PointsType, dryRun bool) error {
		assert.Equal(t, club.PointsTotal, points)
		assert.True(t, dryRun)
		announced = append(announced, seasonID)
		return nil
	})

	s, err := New("0 18 * * 0", ann, store, true)
	require.NoError(t, err)
	defer s.Shutdown()
	s.now = func() time.Time { return time.Date(2024, 4, 14, 18, 0, 0, 0, time.UTC) }

	require.NoError(t, s.AnnounceCurrentRanking(context.Background()))
	assert.Equal(t, "2024-04-14", day)
	assert.Equal(t, []int64{3, 4}, announced)
}

func TestAnnounceCurrentRanking_NoSeason(t *testing.T) {
	called := false
	ann := announcerFunc(func(ctx context.Context, seasonID int64, points club.PointsType, dryRun bool) error {
		called = true
		return errors.New("should not be called")
	})
	s, err := New("0 18 * * 0", ann, club.NewMock(), false)
	require.NoError(t, err)
	defer s.Shutdown()

	assert.NoError(t, s.AnnounceCurrentRanking(context.Background()))
	assert.False(t, called)
}
