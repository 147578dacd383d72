package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const recordColumns = `match_id, season_id, match_date, winner_team, match_type, team1_score, team2_score, team_no, member_id, member_name`

func recordConditions(q MatchRecordQuery) (*conditions, error) {
	if q.memberFilters() > 1 {
		return nil, ErrConflictingMemberFilters
	}
	c := &conditions{}
	if q.MatchID != 0 {
		c.add("match_id = ?", q.MatchID)
	}
	switch {
	case q.MemberID != "":
		c.add("member_id = ?", q.MemberID)
	case len(q.MemberIDs) > 0:
		args := make([]any, len(q.MemberIDs))
		for i, id := range q.MemberIDs {
			args[i] = id
		}
		c.add("member_id IN ("+placeholders(len(args))+")", args...)
	case q.MemberName != "":
		c.add(`member_name LIKE ? ESCAPE '\'`, contains(q.MemberName))
	}
	if q.SeasonID != 0 {
		c.add("season_id = ?", q.SeasonID)
	}
	if q.MatchType != "" {
		c.add("match_type = ?", q.MatchType)
	}
	if q.TeamNo != 0 {
		c.add("team_no = ?", q.TeamNo)
	}
	switch q.Result {
	case "":
	case ResultWin:
		c.add("team_no = winner_team")
	case ResultLose:
		c.add("team_no <> winner_team")
	default:
		return nil, invalid("status", "must be win or lose")
	}
	return c, nil
}

// ListMatchRecords returns one page of match records ordered by match id.
func (s *store) ListMatchRecords(ctx context.Context, q MatchRecordQuery) ([]MatchRecord, int, error) {
	c, err := recordConditions(q)
	if err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM v_match_records"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count match records: %w", err)
	}

	from, to := q.Range()
	query := fmt.Sprintf("SELECT %s FROM v_match_records%s ORDER BY match_id %s, team_no ASC, member_name ASC LIMIT ? OFFSET ?",
		recordColumns, c.where(), direction(q.SortAsc))
	records, err := s.queryRecords(ctx, query, append(c.args, to-from+1, from)...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountMatchRecords returns how many match records match the query filters.
func (s *store) CountMatchRecords(ctx context.Context, q MatchRecordQuery) (int, error) {
	c, err := recordConditions(q)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM v_match_records"+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count match records: %w", err)
	}
	return total, nil
}

// MemberMatchRecords returns every match record of a member, newest match first.
func (s *store) MemberMatchRecords(ctx context.Context, memberID string) ([]MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx, "SELECT "+recordColumns+" FROM v_match_records WHERE member_id = ? ORDER BY match_id DESC", memberID)
}

func (s *store) queryRecords(ctx context.Context, query string, args ...any) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match records: %w", err)
	}
	defer rows.Close()

	records := []MatchRecord{}
	for rows.Next() {
		var r MatchRecord
		if err := rows.Scan(&r.MatchID, &r.SeasonID, &r.MatchDate, &r.WinnerTeam, &r.MatchType,
			&r.Team1Score, &r.Team2Score, &r.TeamNo, &r.MemberID, &r.MemberName); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetMatch returns a match together with its participants.
func (s *store) GetMatch(ctx context.Context, id int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		m          Match
		gameNumber sql.NullInt64
		createdAt  int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, season_id, match_date, match_type, team1_score, team2_score, winner_team, game_number, created_at
		FROM matches WHERE id = ?`, id).
		Scan(&m.ID, &m.SeasonID, &m.MatchDate, &m.MatchType, &m.Team1Score, &m.Team2Score, &m.WinnerTeam, &gameNumber, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	if gameNumber.Valid {
		n := int(gameNumber.Int64)
		m.GameNumber = &n
	}
	m.CreatedAt = time.Unix(createdAt, 0).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.match_id, p.member_id, mem.name, p.team_no
		FROM match_participants p
		JOIN members mem ON mem.id = p.member_id
		WHERE p.match_id = ?
		ORDER BY p.team_no, mem.name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants of match %d: %w", id, err)
	}
	defer rows.Close()

	m.Participants = []Participant{}
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.MatchID, &p.MemberID, &p.MemberName, &p.TeamNo); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		m.Participants = append(m.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func validateMatchInput(in MatchInput) error {
	if !in.MatchType.Valid() {
		return invalid("match_type", "must be single or doubles")
	}
	if in.WinnerTeam != 1 && in.WinnerTeam != 2 {
		return invalid("winner_team", "must be 1 or 2")
	}
	if len(in.Team1) == 0 || len(in.Team2) == 0 {
		return invalid("teams", "both teams need at least one member")
	}
	seen := make(map[string]bool, len(in.Team1)+len(in.Team2))
	for _, id := range append(append([]string{}, in.Team1...), in.Team2...) {
		if seen[id] {
			return invalid("teams", fmt.Sprintf("member %s appears more than once", id))
		}
		seen[id] = true
	}
	return nil
}

// RecordMatch inserts the match row and then one participant row per member
// in a single transaction. If any insert fails nothing is stored.
func (s *store) RecordMatch(ctx context.Context, in MatchInput) (*Match, error) {
	if err := validateMatchInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC().Truncate(time.Second)
	var gameNumber any
	if in.GameNumber != nil {
		gameNumber = *in.GameNumber
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO matches (season_id, match_date, match_type, team1_score, team2_score, winner_team, game_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.SeasonID, in.MatchDate, in.MatchType, in.Team1Score, in.Team2Score, in.WinnerTeam, gameNumber, createdAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read match id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO match_participants (match_id, member_id, team_no) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare participant insert: %w", err)
	}
	defer stmt.Close()

	participants := make([]Participant, 0, len(in.Team1)+len(in.Team2))
	for teamNo, team := range [][]string{in.Team1, in.Team2} {
		for _, memberID := range team {
			if _, err := stmt.ExecContext(ctx, matchID, memberID, teamNo+1); err != nil {
				return nil, fmt.Errorf("failed to insert participant %s: %w", memberID, err)
			}
			participants = append(participants, Participant{MatchID: matchID, MemberID: memberID, TeamNo: teamNo + 1})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}
	log.Info("Recorded match", "matchID", matchID, "type", in.MatchType, "participants", len(participants))

	return &Match{
		ID:           matchID,
		SeasonID:     in.SeasonID,
		MatchDate:    in.MatchDate,
		MatchType:    in.MatchType,
		Team1Score:   in.Team1Score,
		Team2Score:   in.Team2Score,
		WinnerTeam:   in.WinnerTeam,
		GameNumber:   in.GameNumber,
		CreatedAt:    createdAt,
		Participants: participants,
	}, nil
}

// DeleteMatch removes a match. Its participants are removed with it.
func (s *store) DeleteMatch(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMatchNotFound
	}
	log.Info("Deleted match", "matchID", id)
	return nil
}

// MatchTypeCounts returns the number of matches of each type across the club.
func (s *store) MatchTypeCounts(ctx context.Context) (map[MatchType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT match_type, COUNT(*) FROM matches GROUP BY match_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count matches by type: %w", err)
	}
	defer rows.Close()

	counts := map[MatchType]int{MatchSingle: 0, MatchDoubles: 0}
	for rows.Next() {
		var (
			t MatchType
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("failed to scan match type count: %w", err)
		}
		counts[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
