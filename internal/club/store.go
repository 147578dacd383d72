package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

const memberColumns = `id, name, email, phone, ntrp, status, role, single_class, double_class, joined_at, created_at`

func memberConditions(q MemberQuery) *conditions {
	c := &conditions{}
	if q.Status != "" {
		c.add("status = ?", q.Status)
	}
	if q.Role != "" {
		c.add("role = ?", q.Role)
	}
	if q.Search != "" {
		pattern := contains(q.Search)
		c.add(`(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR role LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern)
	}
	return c
}

// ListMembers returns one page of members ordered by creation time.
func (s *store) ListMembers(ctx context.Context, q MemberQuery) ([]Member, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := memberConditions(q)
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	from, to := q.Range()
	dir := direction(q.SortAsc)
	query := fmt.Sprintf("SELECT %s FROM members%s ORDER BY created_at %s, id %s LIMIT ? OFFSET ?", memberColumns, c.where(), dir, dir)
	rows, err := s.db.QueryContext(ctx, query, append(c.args, to-from+1, from)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// CountMembers returns how many members match the query filters.
func (s *store) CountMembers(ctx context.Context, q MemberQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := memberConditions(q)
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members"+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return total, nil
}

// GetMember returns a single member by id.
func (s *store) GetMember(ctx context.Context, id string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMember(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) getMember(ctx context.Context, q queryer, id string) (*Member, error) {
	row := q.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", id, err)
	}
	return m, nil
}

// AddMember inserts a new member. A missing id is generated and missing
// status, role and joined date get their defaults.
func (s *store) AddMember(ctx context.Context, m Member) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	if m.Role == "" {
		m.Role = RoleMember
	}
	if !m.Status.Valid() {
		return nil, invalid("status", "must be active or inactive")
	}
	if !m.Role.Valid() {
		return nil, invalid("role", "must be member, coach or admin")
	}
	now := time.Now().UTC().Truncate(time.Second)
	if m.JoinedAt.IsZero() {
		m.JoinedAt = now
	}
	m.CreatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		m.ID, m.Name, m.Email, m.Phone, m.NTRP, m.Status, m.Role, m.SingleClass, m.DoubleClass,
		m.JoinedAt.Unix(), m.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrMemberExists
	}
	log.Debug("Added member", "memberID", m.ID)
	return &m, nil
}

// UpdateMember applies the non-nil fields of patch and returns the updated member.
// Class changes are logged by the database.
func (s *store) UpdateMember(ctx context.Context, id string, patch MemberPatch) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("status", "must be active or inactive")
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, invalid("role", "must be member, coach or admin")
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.NTRP != nil {
		set("ntrp", *patch.NTRP)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Role != nil {
		set("role", *patch.Role)
	}
	if patch.SingleClass != nil {
		set("single_class", *patch.SingleClass)
	}
	if patch.DoubleClass != nil {
		set("double_class", *patch.DoubleClass)
	}
	if len(sets) == 0 {
		return s.getMember(ctx, s.db, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, "UPDATE members SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update member %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrMemberNotFound
	}
	return s.getMember(ctx, s.db, id)
}

// ClassHistory returns the class changes of a member, newest first.
func (s *store) ClassHistory(ctx context.Context, memberID string) ([]ClassChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, old_single_class, new_single_class, old_double_class, new_double_class, change_date
		FROM class_change_log
		WHERE member_id = ?
		ORDER BY change_date DESC, id DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class history: %w", err)
	}
	defer rows.Close()

	history := []ClassChange{}
	for rows.Next() {
		var (
			c       ClassChange
			changed int64
		)
		if err := rows.Scan(&c.ID, &c.MemberID, &c.OldSingleClass, &c.NewSingleClass, &c.OldDoubleClass, &c.NewDoubleClass, &changed); err != nil {
			return nil, fmt.Errorf("failed to scan class change: %w", err)
		}
		c.ChangeDate = time.Unix(changed, 0).UTC()
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// scanMember is a helper function to scan a single member row.
func scanMember(scanner interface{ Scan(...any) error }) (*Member, error) {
	var (
		m                   Member
		joinedAt, createdAt int64
	)
	err := scanner.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.NTRP, &m.Status, &m.Role,
		&m.SingleClass, &m.DoubleClass, &joinedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	m.JoinedAt = time.Unix(joinedAt, 0).UTC()
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &m, nil
}
