// Package recording turns a filled in match form into a stored match.
package recording

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mauv0809/clubdesk/internal/club"
)

const dateLayout = "2006-01-02"

// MsgRequired is shown when a mandatory field is missing.
const MsgRequired = "All fields are required."

// ValidationError names the first field of a form that is not acceptable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Form is the state of the match entry form. Our team plays as team 1.
type Form struct {
	MatchDate     string         `json:"match_date"`
	MatchType     club.MatchType `json:"match_type"`
	SeasonID      int64          `json:"season_id"`
	OurTeam       []string       `json:"our_team"`
	OpponentTeam  []string       `json:"opponent_team"`
	OurScore      int            `json:"our_score"`
	OpponentScore int            `json:"opponent_score"`
	GameNumber    int            `json:"game_number"`
}

// NewForm returns a singles form dated today with game number 1.
func NewForm(now time.Time) Form {
	return Form{
		MatchDate:    now.Format(dateLayout),
		MatchType:    club.MatchSingle,
		OurTeam:      []string{},
		OpponentTeam: []string{},
		GameNumber:   1,
	}
}

// SetMatchType switches the format and empties both rosters.
func (f *Form) SetMatchType(t club.MatchType) {
	f.MatchType = t
	f.OurTeam = []string{}
	f.OpponentTeam = []string{}
}

// SetOurTeam replaces our roster, keeping only the most recent picks that fit the match type.
func (f *Form) SetOurTeam(ids []string) {
	f.OurTeam = f.capRoster(ids)
}

// SetOpponentTeam replaces the opponent roster, keeping only the most recent picks that fit the match type.
func (f *Form) SetOpponentTeam(ids []string) {
	f.OpponentTeam = f.capRoster(ids)
}

// AddToOurTeam picks one more member for our team.
func (f *Form) AddToOurTeam(id string) {
	f.SetOurTeam(append(slices.Clone(f.OurTeam), id))
}

// AddToOpponentTeam picks one more member for the opponent team.
func (f *Form) AddToOpponentTeam(id string) {
	f.SetOpponentTeam(append(slices.Clone(f.OpponentTeam), id))
}

func (f *Form) capRoster(ids []string) []string {
	size := f.MatchType.TeamSize()
	if len(ids) > size {
		ids = ids[len(ids)-size:]
	}
	return slices.Clone(ids)
}

// normalizeDate accepts a plain date or an RFC 3339 timestamp and returns the date part.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d.Format(dateLayout), true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC().Format(dateLayout), true
	}
	return "", false
}

// Validate checks a form before it is submitted.
func Validate(f Form) error {
	if strings.TrimSpace(f.MatchDate) == "" || f.SeasonID == 0 || len(f.OurTeam) == 0 || len(f.OpponentTeam) == 0 {
		return &ValidationError{Field: "form", Message: MsgRequired}
	}
	if _, ok := normalizeDate(f.MatchDate); !ok {
		return &ValidationError{Field: "match_date", Message: "Match date must be a valid date."}
	}
	if !f.MatchType.Valid() {
		return &ValidationError{Field: "match_type", Message: "Match type must be single or doubles."}
	}
	size := f.MatchType.TeamSize()
	if len(f.OurTeam) > size || len(f.OpponentTeam) > size {
		return &ValidationError{Field: "teams", Message: fmt.Sprintf("A %s match has at most %d player(s) per team.", f.MatchType, size)}
	}
	for _, id := range f.OurTeam {
		if slices.Contains(f.OpponentTeam, id) {
			return &ValidationError{Field: "teams", Message: "A member cannot play on both teams."}
		}
	}
	if f.OurScore < 0 || f.OpponentScore < 0 {
		return &ValidationError{Field: "score", Message: "Scores cannot be negative."}
	}
	if f.OurScore == f.OpponentScore {
		return &ValidationError{Field: "score", Message: "A match cannot end in a tie."}
	}
	if f.GameNumber < 0 {
		return &ValidationError{Field: "game_number", Message: "Game number cannot be negative."}
	}
	return nil
}

// Input converts a validated form to the stored representation. The winner is
// team 1 when our score is higher and team 2 otherwise.
func (f Form) Input() club.MatchInput {
	date, _ := normalizeDate(f.MatchDate)
	winner := 2
	if f.OurScore > f.OpponentScore {
		winner = 1
	}
	in := club.MatchInput{
		SeasonID:   f.SeasonID,
		MatchDate:  date,
		MatchType:  f.MatchType,
		Team1Score: f.OurScore,
		Team2Score: f.OpponentScore,
		WinnerTeam: winner,
		Team1:      slices.Clone(f.OurTeam),
		Team2:      slices.Clone(f.OpponentTeam),
	}
	if f.GameNumber > 0 {
		n := f.GameNumber
		in.GameNumber = &n
	}
	return in
}
