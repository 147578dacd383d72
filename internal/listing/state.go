// Package listing holds the filter, sort and pagination state of the list
// views and its round trip through URL query strings.
package listing

import (
	"maps"
	"net/url"
	"strings"
)

// SortDir is the ordering of a list view.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// SortKey is the query parameter carrying the sort direction.
const SortKey = "sortDir"

// Tab is a fixed filter bucket shown above a list, with the value it sets on the schema's TabKey.
type Tab struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Schema lists the filter keys a view recognises, in query string order.
type Schema struct {
	Name   string
	Keys   []string
	TabKey string
	Tabs   []Tab
}

// Has reports whether key is a filter key of the schema.
func (s Schema) Has(key string) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

var (
	MatchesSchema = Schema{
		Name:   "matches",
		Keys:   []string{"status", "memberName", "seasonId", "matchType", "teamNo"},
		TabKey: "teamNo",
		Tabs:   []Tab{{Label: "All", Value: ""}, {Label: "Win", Value: "1"}, {Label: "Lose", Value: "2"}},
	}
	MembersSchema = Schema{
		Name:   "members",
		Keys:   []string{"status", "email", "phone", "role", "name"},
		TabKey: "status",
		Tabs:   []Tab{{Label: "All", Value: ""}, {Label: "Active", Value: "active"}, {Label: "Inactive", Value: "inactive"}},
	}
)

// State is the canonical filter and sort state of a list view. A missing or
// empty filter means no constraint. State values are never modified in place.
type State struct {
	Filters map[string]string
	Sort    SortDir
}

// NewState returns an unfiltered state sorted descending.
func NewState() State {
	return State{Filters: map[string]string{}, Sort: SortDesc}
}

// Get returns the value of a filter, or "".
func (s State) Get(key string) string {
	return s.Filters[key]
}

// SortDir returns the sort direction, defaulting to descending.
func (s State) SortDir() SortDir {
	if s.Sort == SortAsc {
		return SortAsc
	}
	return SortDesc
}

func (s State) clone() State {
	out := State{Filters: maps.Clone(s.Filters), Sort: s.SortDir()}
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	return out
}

// With returns a copy of s with key set to value. An empty value removes the key.
func (s State) With(key, value string) State {
	out := s.clone()
	if value == "" {
		delete(out.Filters, key)
	} else {
		out.Filters[key] = value
	}
	return out
}

// Without returns a copy of s without key.
func (s State) Without(key string) State {
	return s.With(key, "")
}

// Cleared returns a state with no filters and the same sort direction.
func (s State) Cleared() State {
	return State{Filters: map[string]string{}, Sort: s.SortDir()}
}

// WithSort returns a copy of s with the given sort direction.
func (s State) WithSort(dir SortDir) State {
	out := s.clone()
	out.Sort = State{Sort: dir}.SortDir()
	return out
}

// Active reports whether any filter is set.
func (s State) Active() bool {
	for _, v := range s.Filters {
		if v != "" {
			return true
		}
	}
	return false
}

// Equal reports whether both states constrain and sort the same way.
func (s State) Equal(o State) bool {
	if s.SortDir() != o.SortDir() {
		return false
	}
	count := func(st State) int {
		n := 0
		for _, v := range st.Filters {
			if v != "" {
				n++
			}
		}
		return n
	}
	if count(s) != count(o) {
		return false
	}
	for k, v := range s.Filters {
		if v != "" && o.Filters[k] != v {
			return false
		}
	}
	return true
}

// Encode serializes the state as a query string: sortDir first and only when
// ascending, then the schema keys in order, skipping empty values.
func Encode(schema Schema, s State) string {
	var parts []string
	if s.SortDir() == SortAsc {
		parts = append(parts, SortKey+"="+string(SortAsc))
	}
	for _, key := range schema.Keys {
		if v := s.Filters[key]; v != "" {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

// Decode reads the schema keys and sort direction from query values.
// Unknown keys and empty values are ignored.
func Decode(schema Schema, values url.Values) State {
	s := NewState()
	if values.Get(SortKey) == string(SortAsc) {
		s.Sort = SortAsc
	}
	for _, key := range schema.Keys {
		if v := values.Get(key); v != "" {
			s.Filters[key] = v
		}
	}
	return s
}

// Parse decodes a raw query string.
func Parse(schema Schema, rawQuery string) (State, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return State{}, err
	}
	return Decode(schema, values), nil
}
