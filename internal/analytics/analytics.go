// Package analytics derives member and season statistics from match records,
// class change logs and season rankings.
package analytics

import (
	"fmt"
	"math"

	"github.com/mauv0809/clubdesk/internal/club"
)

// NotAvailable is shown in place of an empty value.
const NotAvailable = "N/A"

// Round2 rounds x to two decimals, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// WinRate is wins as a percentage of total, rounded to two decimals. It is 0 when total is 0.
func WinRate(wins, total int) float64 {
	if total <= 0 {
		return 0
	}
	if wins < 0 {
		wins = 0
	}
	if wins > total {
		wins = total
	}
	return Round2(float64(wins) / float64(total) * 100)
}

// Tally is a win count over a number of played matches.
type Tally struct {
	Wins    int     `json:"wins"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

func (t *Tally) add(won bool) {
	t.Total++
	if won {
		t.Wins++
	}
}

func (t *Tally) finish() {
	t.WinRate = WinRate(t.Wins, t.Total)
}

// WinRates splits a member's results by match type.
type WinRates struct {
	Singles Tally `json:"singles"`
	Doubles Tally `json:"doubles"`
	Overall Tally `json:"overall"`
}

// WinRatesByMatchType counts wins per match type. A record is a win when the
// member's team is the winning team. Records of unknown type are ignored.
func WinRatesByMatchType(records []club.MatchRecord) WinRates {
	var wr WinRates
	for _, r := range records {
		switch r.MatchType {
		case club.MatchSingle:
			wr.Singles.add(r.Won())
		case club.MatchDoubles:
			wr.Doubles.add(r.Won())
		default:
			continue
		}
		wr.Overall.add(r.Won())
	}
	wr.Singles.finish()
	wr.Doubles.finish()
	wr.Overall.finish()
	return wr
}

// Ratio is the split of a member's matches between singles and doubles.
type Ratio struct {
	Singles           int     `json:"singles"`
	Doubles           int     `json:"doubles"`
	SinglesPercentage float64 `json:"singles_percentage"`
	DoublesPercentage float64 `json:"doubles_percentage"`
	TotalMatches      int     `json:"total_matches"`
}

// MatchTypeRatio counts singles and doubles records and their share of the total.
func MatchTypeRatio(records []club.MatchRecord) Ratio {
	var r Ratio
	for _, rec := range records {
		switch rec.MatchType {
		case club.MatchSingle:
			r.Singles++
		case club.MatchDoubles:
			r.Doubles++
		}
	}
	r.TotalMatches = r.Singles + r.Doubles
	if r.TotalMatches > 0 {
		r.SinglesPercentage = Round2(float64(r.Singles) / float64(r.TotalMatches) * 100)
		r.DoublesPercentage = Round2(float64(r.Doubles) / float64(r.TotalMatches) * 100)
	}
	return r
}

// ClassHistory is a member's class change log with the classes before and after the latest change.
type ClassHistory struct {
	History             []club.ClassChange `json:"history"`
	CurrentSingleClass  string             `json:"current_single_class"`
	PreviousSingleClass string             `json:"previous_single_class"`
	CurrentDoubleClass  string             `json:"current_double_class"`
	PreviousDoubleClass string             `json:"previous_double_class"`
	SingleImproved      bool               `json:"single_improved"`
	DoubleImproved      bool               `json:"double_improved"`
}

// ClassHistoryFrom summarizes a change log ordered newest first. With no
// entries every class is empty.
func ClassHistoryFrom(changes []club.ClassChange) ClassHistory {
	h := ClassHistory{History: changes}
	if h.History == nil {
		h.History = []club.ClassChange{}
	}
	if len(changes) == 0 {
		return h
	}
	latest := changes[0]
	h.CurrentSingleClass = latest.NewSingleClass
	h.PreviousSingleClass = latest.OldSingleClass
	h.CurrentDoubleClass = latest.NewDoubleClass
	h.PreviousDoubleClass = latest.OldDoubleClass
	h.SingleImproved = IsImprovement(h.PreviousSingleClass, h.CurrentSingleClass)
	h.DoubleImproved = IsImprovement(h.PreviousDoubleClass, h.CurrentDoubleClass)
	return h
}

// IsImprovement reports whether moving from previous to current is a step up.
// Classes are letter tiers where "A" is the best, so a lexicographically
// smaller class is better. Empty classes never count.
func IsImprovement(previous, current string) bool {
	if previous == "" || current == "" {
		return false
	}
	return previous > current
}

// Display returns value, or NotAvailable when it is empty.
func Display(value string) string {
	if value == "" {
		return NotAvailable
	}
	return value
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// PerformanceStats are the headline numbers of a member's page of match records.
type PerformanceStats struct {
	TotalMatches int    `json:"total_matches"`
	WinRate      string `json:"win_rate"`
}

// Performance summarizes a page of records. total is the number of records
// across all pages. The win rate is over the given records only, as a whole
// percentage, and NotAvailable when there are none.
func Performance(records []club.MatchRecord, total int) PerformanceStats {
	stats := PerformanceStats{TotalMatches: total, WinRate: NotAvailable}
	if len(records) == 0 {
		return stats
	}
	wins := 0
	for _, r := range records {
		if r.Won() {
			wins++
		}
	}
	stats.WinRate = fmt.Sprintf("%d%%", int(math.Round(float64(wins)/float64(len(records))*100)))
	return stats
}
