package club

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Pagination selects one page of a result set. Page is 1-based.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Range returns the inclusive row range [from, to] covered by the page.
func (p Pagination) Range() (from, to int) {
	p = p.normalized()
	from = (p.Page - 1) * p.PageSize
	return from, from + p.PageSize - 1
}

// MemberQuery filters and pages the member list.
type MemberQuery struct {
	Status MemberStatus
	Role   Role
	// Search matches case-insensitively against name, email, phone and role.
	Search  string
	SortAsc bool
	Pagination
}

// MatchRecordQuery filters and pages the match record list.
// At most one of MemberID, MemberIDs and MemberName may be set.
type MatchRecordQuery struct {
	MatchID    int64
	MemberID   string
	MemberIDs  []string
	MemberName string
	SeasonID   int64
	MatchType  MatchType
	TeamNo     int
	// Result keeps only won ("win") or lost ("lose") records.
	Result  string
	SortAsc bool
	Pagination
}

const (
	ResultWin  = "win"
	ResultLose = "lose"
)

func (q MatchRecordQuery) memberFilters() int {
	n := 0
	if q.MemberID != "" {
		n++
	}
	if len(q.MemberIDs) > 0 {
		n++
	}
	if q.MemberName != "" {
		n++
	}
	return n
}

// conditions accumulates an AND-joined WHERE clause and its arguments.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, args ...any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a LIKE pattern matching value anywhere, with wildcards in value escaped.
func contains(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func direction(asc bool) string {
	if asc {
		return "ASC"
	}
	return "DESC"
}
