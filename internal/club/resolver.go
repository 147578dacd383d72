package club

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

const (
	suggestionThreshold = 0.3
	maxSuggestions      = 5
)

// Suggestion is a member that may be meant by a typed name.
type Suggestion struct {
	Member     Member   `json:"member"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// Resolver finds members from free-text names, as typed into a team picker.
type Resolver struct {
	store ClubStore
}

// NewResolver creates a Resolver over store.
func NewResolver(store ClubStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns up to five active members whose names resemble name, best match first.
func (r *Resolver) Resolve(ctx context.Context, name string) ([]Suggestion, error) {
	members, _, err := r.store.ListMembers(ctx, MemberQuery{
		Status:     StatusActive,
		SortAsc:    true,
		Pagination: Pagination{Page: 1, PageSize: 1000},
	})
	if err != nil {
		return nil, err
	}
	return Suggest(name, members), nil
}

// Suggest ranks members by how closely their name matches query.
func Suggest(query string, members []Member) []Suggestion {
	q := normalizeName(query)
	suggestions := []Suggestion{}
	if q == "" {
		return suggestions
	}
	for _, m := range members {
		name := normalizeName(m.Name)
		score := (stringSimilarity(q, name) + tokenSimilarity(q, name)) / 2
		if strings.Contains(name, q) && score < 0.5 {
			score = 0.5
		}
		if score <= suggestionThreshold {
			continue
		}
		suggestions = append(suggestions, Suggestion{Member: m, Confidence: score, Reasons: matchReasons(q, name)})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// normalizeName lower-cases name, drops everything but letters and collapses spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// tokenSimilarity is the share of name parts that closely match a part of the other name.
func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, x := range ta {
		for _, y := range tb {
			if stringSimilarity(x, y) > 0.8 {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(max(len(ta), len(tb)))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func matchReasons(query, name string) []string {
	var reasons []string
	switch {
	case query == name:
		reasons = append(reasons, "Exact name match")
	case stringSimilarity(query, name) > 0.8:
		reasons = append(reasons, "Very similar name")
	case strings.Contains(name, query):
		reasons = append(reasons, "Name contains the search")
	}
	if tokenSimilarity(query, name) > 0.5 {
		reasons = append(reasons, "Matching name components")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Partial name similarity")
	}
	return reasons
}
