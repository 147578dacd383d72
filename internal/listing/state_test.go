package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := NewState().With("memberName", "Kim").With("seasonId", "2")

	query := Encode(MatchesSchema, state)
	assert.Equal(t, "memberName=Kim&seasonId=2", query)

	decoded, err := Parse(MatchesSchema, query)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(state))
	assert.Equal(t, map[string]string{"memberName": "Kim", "seasonId": "2"}, decoded.Filters)
	assert.Equal(t, SortDesc, decoded.SortDir())
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		state  State
		want   string
	}{
		{"empty", MatchesSchema, NewState(), ""},
		{"ascending sort comes first", MatchesSchema, NewState().With("teamNo", "1").WithSort(SortAsc), "sortDir=asc&teamNo=1"},
		{"descending sort is omitted", MatchesSchema, NewState().WithSort(SortDesc).With("matchType", "single"), "matchType=single"},
		{"schema key order", MatchesSchema, NewState().With("teamNo", "2").With("status", "done").With("seasonId", "3"), "status=done&seasonId=3&teamNo=2"},
		{"unknown keys dropped", MembersSchema, NewState().With("teamNo", "1").With("role", "coach"), "role=coach"},
		{"values escaped", MembersSchema, NewState().With("email", "a+b@club.dk").With("name", "Kim Lee"), "email=a%2Bb%40club.dk&name=Kim+Lee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.schema, tt.state))
		})
	}
}

func TestDecode(t *testing.T) {
	values := url.Values{}
	values.Set("sortDir", "asc")
	values.Set("name", "Kim Lee")
	values.Set("email", "")
	values.Set("page", "3")

	s := Decode(MembersSchema, values)
	assert.Equal(t, SortAsc, s.SortDir())
	assert.Equal(t, map[string]string{"name": "Kim Lee"}, s.Filters)

	s, err := Parse(MembersSchema, "?sortDir=sideways&status=active")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, s.SortDir())
	assert.Equal(t, "active", s.Get("status"))

	_, err = Parse(MembersSchema, "name=%zz")
	assert.Error(t, err)
}

func TestStateIsNotModifiedInPlace(t *testing.T) {
	base := NewState().With("memberName", "Kim")

	withSeason := base.With("seasonId", "2")
	withoutName := base.Without("memberName")
	sorted := base.WithSort(SortAsc)
	cleared := sorted.Cleared()

	assert.Equal(t, map[string]string{"memberName": "Kim"}, base.Filters)
	assert.Equal(t, SortDesc, base.SortDir())
	assert.Equal(t, "2", withSeason.Get("seasonId"))
	assert.False(t, withoutName.Active())
	assert.Equal(t, SortAsc, sorted.SortDir())
	assert.Empty(t, cleared.Filters)
	assert.Equal(t, SortAsc, cleared.SortDir(), "clearing filters keeps the sort direction")
}

func TestStateEqual(t *testing.T) {
	a := NewState().With("teamNo", "1")
	b := State{Filters: map[string]string{"teamNo": "1", "memberName": ""}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(b.WithSort(SortAsc)))
	assert.False(t, a.Equal(NewState()))
	assert.True(t, State{}.Equal(NewState()))
}
