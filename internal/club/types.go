package club

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MemberStatus is the membership state of a club member.
type MemberStatus string

const (
	StatusActive   MemberStatus = "active"
	StatusInactive MemberStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s MemberStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Role is the club role of a member. It drives what the member may do.
type Role string

const (
	RoleMember Role = "member"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleCoach || r == RoleAdmin
}

// MatchType is the format of a match.
type MatchType string

const (
	MatchSingle  MatchType = "single"
	MatchDoubles MatchType = "doubles"
)

// Valid reports whether t is a known match type.
func (t MatchType) Valid() bool {
	return t == MatchSingle || t == MatchDoubles
}

// TeamSize is the number of players per team for the match type.
func (t MatchType) TeamSize() int {
	if t == MatchDoubles {
		return 2
	}
	return 1
}

// PointsType selects which ranking column to order by.
type PointsType string

const (
	PointsTotal   PointsType = "total"
	PointsSingle  PointsType = "single"
	PointsDoubles PointsType = "doubles"
)

// Member is a club member profile.
type Member struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	NTRP        string       `json:"ntrp"`
	Status      MemberStatus `json:"status"`
	Role        Role         `json:"role"`
	SingleClass string       `json:"single_class"`
	DoubleClass string       `json:"double_class"`
	JoinedAt    time.Time    `json:"joined_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// MemberPatch holds the fields to change on a member. Nil fields are left as they are.
type MemberPatch struct {
	Name        *string       `json:"name,omitempty"`
	Email       *string       `json:"email,omitempty"`
	Phone       *string       `json:"phone,omitempty"`
	NTRP        *string       `json:"ntrp,omitempty"`
	Status      *MemberStatus `json:"status,omitempty"`
	Role        *Role         `json:"role,omitempty"`
	SingleClass *string       `json:"single_class,omitempty"`
	DoubleClass *string       `json:"double_class,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p MemberPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.NTRP == nil &&
		p.Status == nil && p.Role == nil && p.SingleClass == nil && p.DoubleClass == nil
}

// Season is a named date range grouping matches.
type Season struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Label is the human readable date range of the season.
func (s Season) Label() string {
	return s.StartDate + " - " + s.EndDate
}

// SeasonPatch holds the fields to change on a season.
type SeasonPatch struct {
	Name      *string `json:"name,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// Participant places a member on a team of a match.
type Participant struct {
	MatchID    int64  `json:"match_id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	TeamNo     int    `json:"team_no"`
}

// Match is a single played match.
type Match struct {
	ID           int64         `json:"id"`
	SeasonID     int64         `json:"season_id"`
	MatchDate    string        `json:"match_date"`
	MatchType    MatchType     `json:"match_type"`
	Team1Score   int           `json:"team1_score"`
	Team2Score   int           `json:"team2_score"`
	WinnerTeam   int           `json:"winner_team"`
	GameNumber   *int          `json:"game_number,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `json:"participants,omitempty"`
}

// MatchInput is everything needed to record a match and its participants.
type MatchInput struct {
	SeasonID   int64
	MatchDate  string
	MatchType  MatchType
	Team1Score int
	Team2Score int
	WinnerTeam int
	GameNumber *int
	Team1      []string
	Team2      []string
}

// MatchRecord is one participant row of a match, flattened with the match fields.
type MatchRecord struct {
	MatchID    int64     `json:"match_id"`
	SeasonID   int64     `json:"season_id"`
	MatchDate  string    `json:"match_date"`
	WinnerTeam int       `json:"winner_team"`
	MatchType  MatchType `json:"match_type"`
	Team1Score int       `json:"team1_score"`
	Team2Score int       `json:"team2_score"`
	TeamNo     int       `json:"team_no"`
	MemberID   string    `json:"member_id"`
	MemberName string    `json:"member_name"`
}

// Won reports whether the participant of this record was on the winning team.
func (r MatchRecord) Won() bool {
	return r.TeamNo == r.WinnerTeam
}

// ClassChange is one entry of a member's class change log.
type ClassChange struct {
	ID             int64     `json:"id"`
	MemberID       string    `json:"member_id"`
	OldSingleClass string    `json:"old_single_class"`
	NewSingleClass string    `json:"new_single_class"`
	OldDoubleClass string    `json:"old_double_class"`
	NewDoubleClass string    `json:"new_double_class"`
	ChangeDate     time.Time `json:"change_date"`
}

// RankingRow is a member's standing in a season for one points type.
type RankingRow struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Points     int    `json:"points"`
	Wins       int    `json:"wins"`
	Played     int    `json:"played"`
}
