package listing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int
	Name string
}

type fakeSource struct {
	mu      sync.Mutex
	rows    []row
	queries []Query
	err     error
}

func (f *fakeSource) fetch(ctx context.Context, q Query) ([]row, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, 0, f.err
	}
	from, to := q.Range()
	if from >= len(f.rows) {
		return []row{}, len(f.rows), nil
	}
	if to >= len(f.rows) {
		to = len(f.rows) - 1
	}
	return append([]row{}, f.rows[from:to+1]...), len(f.rows), nil
}

func (f *fakeSource) lastQuery() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{ID: i + 1}
	}
	return rows
}

func newTestView(src *fakeSource, m metrics.Metrics) *View[row, int] {
	return NewView(Config[row, int]{
		Schema:  MatchesSchema,
		Fetch:   src.fetch,
		Key:     func(r row) int { return r.ID },
		Metrics: m,
		Initial: NewState(),
	})
}

func TestViewRefresh(t *testing.T) {
	src := &fakeSource{rows: newRows(12)}
	m := metrics.NewMock()
	v := newTestView(src, m)

	assert.Empty(t, v.Rows())
	assert.NotNil(t, v.Rows())

	require.NoError(t, v.Refresh(context.Background()))
	assert.Len(t, v.Rows(), DefaultPageSize)
	assert.Equal(t, 12, v.Total())
	assert.Equal(t, Query{State: NewState(), Page: 1, PageSize: 5}, src.lastQuery())
	assert.Equal(t, 1, m.ListFetches("matches"))
	assert.Len(t, m.ListFetchDurations("matches"), 1)
}

func TestViewFilterChangesResetPage(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{rows: newRows(30)}
	v := newTestView(src, nil)

	require.NoError(t, v.SetPage(ctx, 2))
	assert.Equal(t, 3, src.lastQuery().Page)
	assert.Equal(t, []row{{ID: 11}, {ID: 12}, {ID: 13}, {ID: 14}, {ID: 15}}, v.Rows())

	query, err := v.ApplyFilter(ctx, "memberName", "Kim")
	require.NoError(t, err)
	assert.Equal(t, "memberName=Kim", query)
	assert.Equal(t, 0, v.Page())
	assert.Equal(t, 1, src.lastQuery().Page)
	assert.Equal(t, "Kim", src.lastQuery().State.Get("memberName"))

	query, err = v.ApplyFilter(ctx, "seasonId", "2")
	require.NoError(t, err)
	assert.Equal(t, "memberName=Kim&seasonId=2", query)

	require.NoError(t, v.SetPage(ctx, 1))
	query, err = v.SetSortDir(ctx, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, "sortDir=asc&memberName=Kim&seasonId=2", query)
	assert.Equal(t, 0, v.Page())

	query, err = v.DeleteFilter(ctx, "memberName")
	require.NoError(t, err)
	assert.Equal(t, "sortDir=asc&seasonId=2", query)

	query, err = v.ClearFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sortDir=asc", query)
	assert.Equal(t, query, v.QueryString())

	_, err = v.ApplyFilter(ctx, "colour", "red")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestViewNavigate(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{rows: newRows(3)}
	v := newTestView(src, nil)

	query, err := v.Navigate(ctx, "?seasonId=2&memberName=Kim&bogus=1")
	require.NoError(t, err)
	assert.Equal(t, "memberName=Kim&seasonId=2", query)
	assert.True(t, v.State().Equal(NewState().With("memberName", "Kim").With("seasonId", "2")))
}

func TestViewSetPageSize(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{rows: newRows(30)}
	v := newTestView(src, nil)

	require.NoError(t, v.SetPage(ctx, 3))
	require.NoError(t, v.SetPageSize(ctx, 25))
	assert.Equal(t, 0, v.Page())
	assert.Equal(t, 25, v.PageSize())
	assert.Len(t, v.Rows(), 25)

	err := v.SetPageSize(ctx, 7)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	assert.Equal(t, 25, v.PageSize())
}

func TestViewRowChangeResetsSelection(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{rows: newRows(10)}
	v := newTestView(src, nil)

	require.NoError(t, v.Refresh(ctx))
	v.Selection().SelectAll()
	require.True(t, v.Selection().SelectedAll())

	require.NoError(t, v.SetPage(ctx, 1))
	assert.False(t, v.Selection().SelectedAny())

	v.Selection().SelectOne(7)
	require.True(t, v.Selection().IsSelected(7))

	src.err = errors.New("boom")
	err := v.Refresh(ctx)
	assert.EqualError(t, err, "boom")
	assert.False(t, v.Selection().SelectedAny())
}

func TestViewFailedFetchLeavesViewEmpty(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{rows: newRows(10)}
	m := metrics.NewMock()
	v := newTestView(src, m)
	require.NoError(t, v.Refresh(ctx))

	src.err = errors.New("network down")
	require.Error(t, v.Refresh(ctx))

	assert.Equal(t, []row{}, v.Rows())
	assert.Equal(t, 0, v.Total())
	assert.EqualError(t, v.Err(), "network down")
	assert.Equal(t, 1, m.ListFetchFailures("matches"))

	src.err = nil
	require.NoError(t, v.Refresh(ctx))
	assert.NoError(t, v.Err())
}

func TestViewDiscardsSupersededResponse(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	v := NewView(Config[row, int]{
		Schema: MatchesSchema,
		Fetch: func(ctx context.Context, q Query) ([]row, int, error) {
			if q.State.Get("memberName") == "slow" {
				close(started)
				<-release
				return []row{{ID: 1, Name: "slow"}}, 1, nil
			}
			return []row{{ID: 2, Name: "fast"}}, 1, nil
		},
		Key: func(r row) int { return r.ID },
	})

	slowErr := make(chan error, 1)
	go func() {
		_, err := v.ApplyFilter(ctx, "memberName", "slow")
		slowErr <- err
	}()
	<-started

	_, err := v.ApplyFilter(ctx, "memberName", "fast")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-slowErr, ErrSuperseded)
	assert.Equal(t, []row{{ID: 2, Name: "fast"}}, v.Rows())
	assert.Equal(t, "fast", v.State().Get("memberName"))
}

func TestViewTabs(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []State
	)
	count := func(ctx context.Context, s State) (int, error) {
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()
		switch s.Get("teamNo") {
		case "":
			return 8, nil
		case "1":
			return 5, nil
		default:
			return 0, errors.New("count failed")
		}
	}
	m := metrics.NewMock()
	v := NewView(Config[row, int]{
		Schema:  MatchesSchema,
		Fetch:   (&fakeSource{}).fetch,
		Key:     func(r row) int { return r.ID },
		Count:   count,
		Metrics: m,
		Initial: NewState().With("memberName", "Kim"),
	})

	tabs := v.Tabs(context.Background())
	assert.Equal(t, []TabCount{
		{Tab: Tab{Label: "All", Value: ""}, Count: 8},
		{Tab: Tab{Label: "Win", Value: "1"}, Count: 5},
		{Tab: Tab{Label: "Lose", Value: "2"}, Count: 0},
	}, tabs)
	assert.Equal(t, 1, m.TabCountFailures("matches"))

	for _, s := range calls {
		assert.Empty(t, s.Get("memberName"), "tab counts ignore the view filters")
	}

	v.Tabs(context.Background())
	mu.Lock()
	assert.Len(t, calls, 3, "tab counts are computed once per view")
	mu.Unlock()
}

func TestCountTabsWithoutCounter(t *testing.T) {
	tabs := CountTabs(context.Background(), MembersSchema, nil, nil)
	require.Len(t, tabs, 3)
	for _, tab := range tabs {
		assert.Zero(t, tab.Count)
	}
}

func TestQueryRange(t *testing.T) {
	from, to := Query{Page: 3, PageSize: 10}.Range()
	assert.Equal(t, 20, from)
	assert.Equal(t, 29, to)

	from, to = Query{}.Range()
	assert.Equal(t, 0, from)
	assert.Equal(t, DefaultPageSize-1, to)
}

func TestViewInitialPlacement(t *testing.T) {
	src := &fakeSource{rows: newRows(30)}
	v := NewView(Config[row, int]{
		Schema:   MatchesSchema,
		Fetch:    src.fetch,
		Key:      func(r row) int { return r.ID },
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, Query{State: NewState(), Page: 3, PageSize: 10}, src.lastQuery())
	assert.Equal(t, 21, v.Rows()[0].ID)

	v = NewView(Config[row, int]{Schema: MatchesSchema, Fetch: src.fetch, Key: func(r row) int { return r.ID }, PageSize: 7})
	assert.Equal(t, DefaultPageSize, v.PageSize())
}
