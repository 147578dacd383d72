package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func validateSeason(s Season) error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name", "is required")
	}
	start, err := time.Parse(dateLayout, s.StartDate)
	if err != nil {
		return invalid("start_date", "must be a YYYY-MM-DD date")
	}
	end, err := time.Parse(dateLayout, s.EndDate)
	if err != nil {
		return invalid("end_date", "must be a YYYY-MM-DD date")
	}
	if end.Before(start) {
		return invalid("end_date", "must not be before start_date")
	}
	return nil
}

// ListSeasons returns all seasons, most recent first.
func (s *store) ListSeasons(ctx context.Context) ([]Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.querySeasons(ctx, "SELECT id, name, start_date, end_date FROM seasons ORDER BY start_date DESC, id DESC")
}

// SeasonsOn returns the seasons running on the given day.
func (s *store) SeasonsOn(ctx context.Context, day string) ([]Season, error) {
	if _, err := time.Parse(dateLayout, day); err != nil {
		return nil, invalid("day", "must be a YYYY-MM-DD date")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.querySeasons(ctx, `
		SELECT id, name, start_date, end_date FROM seasons
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date DESC, id DESC`, day, day)
}

func (s *store) querySeasons(ctx context.Context, query string, args ...any) ([]Season, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	seasons := []Season{}
	for rows.Next() {
		var season Season
		if err := rows.Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seasons, nil
}

// GetSeason returns a single season by id.
func (s *store) GetSeason(ctx context.Context, id int64) (*Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSeason(ctx, id)
}

func (s *store) getSeason(ctx context.Context, id int64) (*Season, error) {
	var season Season
	err := s.db.QueryRowContext(ctx, "SELECT id, name, start_date, end_date FROM seasons WHERE id = ?", id).
		Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeasonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season %d: %w", id, err)
	}
	return &season, nil
}

// AddSeason creates a season. Overlapping seasons are allowed.
func (s *store) AddSeason(ctx context.Context, season Season) (*Season, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO seasons (name, start_date, end_date) VALUES (?, ?, ?)",
		season.Name, season.StartDate, season.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert season: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read season id: %w", err)
	}
	season.ID = id
	return &season, nil
}

// UpdateSeason applies the non-nil fields of patch.
func (s *store) UpdateSeason(ctx context.Context, id int64, patch SeasonPatch) (*Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	season, err := s.getSeason(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		season.Name = *patch.Name
	}
	if patch.StartDate != nil {
		season.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		season.EndDate = *patch.EndDate
	}
	if err := validateSeason(*season); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, "UPDATE seasons SET name = ?, start_date = ?, end_date = ? WHERE id = ?",
		season.Name, season.StartDate, season.EndDate, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update season %d: %w", id, err)
	}
	return season, nil
}

var pointsColumns = map[PointsType]string{
	PointsTotal:   "total",
	PointsSingle:  "single",
	PointsDoubles: "double",
}

// SeasonRanking returns the members of a season ordered by the chosen points, highest first.
// Members with no matches of the chosen type are left out.
func (s *store) SeasonRanking(ctx context.Context, seasonID int64, points PointsType) ([]RankingRow, error) {
	if points == "" {
		points = PointsTotal
	}
	prefix, ok := pointsColumns[points]
	if !ok {
		return nil, ErrInvalidPointsType
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getSeason(ctx, seasonID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT member_id, member_name, %[1]s_points, %[1]s_wins, %[1]s_played
		FROM season_ranking
		WHERE season_id = ? AND %[1]s_played > 0
		ORDER BY %[1]s_points DESC, member_name ASC`, prefix)

	rows, err := s.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query season ranking: %w", err)
	}
	defer rows.Close()

	ranking := []RankingRow{}
	for rows.Next() {
		var r RankingRow
		if err := rows.Scan(&r.MemberID, &r.MemberName, &r.Points, &r.Wins, &r.Played); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		ranking = append(ranking, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ranking, nil
}
