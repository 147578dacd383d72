package club

import (
	"context"
	"testing"

	"github.com/mauv0809/clubdesk/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberQueryFrom(t *testing.T) {
	s := listing.NewState().With("status", "active").With("phone", "555").With("name", "Kim").WithSort(listing.SortAsc)
	q, err := MemberQueryFrom(s)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, q.Status)
	assert.Equal(t, "555", q.Search, "phone comes before name")
	assert.True(t, q.SortAsc)

	_, err = MemberQueryFrom(listing.NewState().With("status", "gone"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestMatchRecordQueryFrom(t *testing.T) {
	tests := []struct {
		name    string
		state   listing.State
		want    MatchRecordQuery
		invalid string
	}{
		{"empty", listing.NewState(), MatchRecordQuery{}, ""},
		{"all filters", listing.NewState().With("memberName", "Kim").With("seasonId", "2").With("matchType", "doubles").With("teamNo", "1").With("status", "win"),
			MatchRecordQuery{MemberName: "Kim", SeasonID: 2, MatchType: MatchDoubles, TeamNo: 1, Result: ResultWin}, ""},
		{"bad season", listing.NewState().With("seasonId", "two"), MatchRecordQuery{}, "seasonId"},
		{"bad team", listing.NewState().With("teamNo", "3"), MatchRecordQuery{}, "teamNo"},
		{"bad type", listing.NewState().With("matchType", "mixed"), MatchRecordQuery{}, "matchType"},
		{"bad status", listing.NewState().With("status", "draw"), MatchRecordQuery{}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := MatchRecordQueryFrom(tt.state)
			if tt.invalid != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.invalid, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestMatchRecordFetcherPassesPage(t *testing.T) {
	store := NewMock()
	store.ListMatchRecordsFunc = func(ctx context.Context, q MatchRecordQuery) ([]MatchRecord, int, error) {
		return []MatchRecord{{MatchID: 1, MemberID: "a"}}, 11, nil
	}
	fetch := MatchRecordFetcher(store)

	rows, total, err := fetch(context.Background(), listing.Query{State: listing.NewState().With("seasonId", "4"), Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 11, total)
	require.Len(t, store.ListMatchRecordsCalls, 1)
	q := store.ListMatchRecordsCalls[0]
	assert.Equal(t, int64(4), q.SeasonID)
	assert.Equal(t, Pagination{Page: 3, PageSize: 5}, q.Pagination)
	assert.Equal(t, RecordKey{MatchID: 1, MemberID: "a"}, rows[0].Key())
}
