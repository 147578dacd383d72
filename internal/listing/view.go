package listing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/selection"
)

// DefaultPageSize is the page size of a freshly mounted view.
const DefaultPageSize = 5

// PageSizeOptions are the page sizes a view accepts.
var PageSizeOptions = []int{5, 10, 25}

var (
	// ErrSuperseded is returned by Refresh when a newer request started before this one finished.
	ErrSuperseded      = errors.New("list request superseded by a newer one")
	ErrUnknownFilter   = errors.New("unknown filter key")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// Query is what a fetcher is asked for. Page is 1-based.
type Query struct {
	State    State
	Page     int
	PageSize int
}

// Range returns the inclusive zero-based row offsets covered by the query.
func (q Query) Range() (from, to int) {
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, from + size - 1
}

// FetchFunc loads one page of rows and the total number of matching rows.
// On failure it returns a nil slice and an error.
type FetchFunc[R any] func(ctx context.Context, q Query) ([]R, int, error)

// CountFunc counts the rows matching a state.
type CountFunc func(ctx context.Context, s State) (int, error)

// TabCount is a tab with the number of rows in its bucket.
type TabCount struct {
	Tab
	Count int `json:"count"`
}

// Config wires a View.
type Config[R any, K comparable] struct {
	Schema Schema
	Fetch  FetchFunc[R]
	// Key extracts the selectable id of a row.
	Key func(R) K
	// Count backs Tabs. Without it every tab counts 0.
	Count   CountFunc
	Metrics metrics.Metrics
	// Initial is the state decoded from the URL the view was opened with.
	Initial State
	// Page and PageSize place the view before its first load. A page size
	// outside PageSizeOptions falls back to DefaultPageSize.
	Page     int
	PageSize int
}

// View is the state of one mounted list: filters, sort, page, loaded rows and selection.
// Every change of filters, sort, page or page size triggers a refresh of the rows.
// It is safe for concurrent use.
type View[R any, K comparable] struct {
	schema  Schema
	fetch   FetchFunc[R]
	key     func(R) K
	count   CountFunc
	metrics metrics.Metrics

	mu       sync.Mutex
	state    State
	page     int
	pageSize int
	rows     []R
	total    int
	err      error
	gen      uint64

	tabsOnce sync.Once
	tabs     []TabCount

	selection *selection.Set[K]
}

// NewView mounts a view, by default at page 0 with the default page size. Rows are not
// loaded until the first Refresh.
func NewView[R any, K comparable](cfg Config[R, K]) *View[R, K] {
	state := cfg.Initial.clone()
	size := cfg.PageSize
	if !slices.Contains(PageSizeOptions, size) {
		size = DefaultPageSize
	}
	return &View[R, K]{
		schema:    cfg.Schema,
		fetch:     cfg.Fetch,
		key:       cfg.Key,
		count:     cfg.Count,
		metrics:   cfg.Metrics,
		state:     state,
		page:      max(cfg.Page, 0),
		pageSize:  size,
		rows:      []R{},
		selection: selection.New[K](),
	}
}

// Selection is the selection store of the loaded rows.
func (v *View[R, K]) Selection() *selection.Set[K] {
	return v.selection
}

// State returns a copy of the current filter and sort state.
func (v *View[R, K]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// QueryString is the navigation query string of the current state.
func (v *View[R, K]) QueryString() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Encode(v.schema, v.state)
}

// Page returns the zero-based page index.
func (v *View[R, K]) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageSize returns the number of rows per page.
func (v *View[R, K]) PageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageSize
}

// Rows returns the loaded rows. It is empty, never nil, before the first load and after a failed one.
func (v *View[R, K]) Rows() []R {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.rows)
}

// Total returns the number of rows matching the filters across all pages.
func (v *View[R, K]) Total() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.total
}

// Err returns the error of the last completed load, if any.
func (v *View[R, K]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// ApplyFilter sets a filter, drops back to page 0 and reloads. It returns the
// query string to navigate to.
func (v *View[R, K]) ApplyFilter(ctx context.Context, key, value string) (string, error) {
	if !v.schema.Has(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	return v.navigate(ctx, func(s State) State { return s.With(key, value) })
}

// DeleteFilter removes a filter, drops back to page 0 and reloads.
func (v *View[R, K]) DeleteFilter(ctx context.Context, key string) (string, error) {
	return v.navigate(ctx, func(s State) State { return s.Without(key) })
}

// SetSortDir changes the sort direction, drops back to page 0 and reloads.
func (v *View[R, K]) SetSortDir(ctx context.Context, dir SortDir) (string, error) {
	return v.navigate(ctx, func(s State) State { return s.WithSort(dir) })
}

// ClearFilters removes every filter but keeps the sort direction.
func (v *View[R, K]) ClearFilters(ctx context.Context) (string, error) {
	return v.navigate(ctx, func(s State) State { return s.Cleared() })
}

// Navigate adopts the state encoded in rawQuery, as when the URL changes.
func (v *View[R, K]) Navigate(ctx context.Context, rawQuery string) (string, error) {
	next, err := Parse(v.schema, rawQuery)
	if err != nil {
		return "", err
	}
	return v.navigate(ctx, func(State) State { return next })
}

func (v *View[R, K]) navigate(ctx context.Context, change func(State) State) (string, error) {
	v.mu.Lock()
	v.state = change(v.state)
	v.page = 0
	query := Encode(v.schema, v.state)
	v.mu.Unlock()

	return query, v.Refresh(ctx)
}

// SetPage moves to a zero-based page and reloads. Filters are kept.
func (v *View[R, K]) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetPageSize changes the rows per page, returns to page 0 and reloads.
func (v *View[R, K]) SetPageSize(ctx context.Context, size int) error {
	if !slices.Contains(PageSizeOptions, size) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	v.mu.Lock()
	v.pageSize = size
	v.page = 0
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// Refresh loads the current page. If another Refresh starts before this one
// completes, this response is discarded and ErrSuperseded returned. A failed
// load is logged and leaves the view empty. Either way the selection is reset.
func (v *View[R, K]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	q := Query{State: v.state.clone(), Page: v.page + 1, PageSize: v.pageSize}
	v.mu.Unlock()

	start := time.Now()
	rows, total, err := v.fetch(ctx, q)
	if v.metrics != nil {
		v.metrics.IncListFetch(v.schema.Name)
		v.metrics.ObserveListFetchDuration(v.schema.Name, time.Since(start).Seconds())
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		log.Debug("Discarding superseded list response", "view", v.schema.Name, "generation", gen, "current", v.gen)
		return ErrSuperseded
	}

	if err != nil {
		log.Error("Failed to fetch list", "view", v.schema.Name, "error", err)
		if v.metrics != nil {
			v.metrics.IncListFetchFailed(v.schema.Name)
		}
		v.rows = []R{}
		v.total = 0
		v.err = err
		v.selection.SetRows(nil)
		return err
	}

	if rows == nil {
		rows = []R{}
	}
	v.rows = rows
	v.total = total
	v.err = nil
	ids := make([]K, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, v.key(r))
	}
	v.selection.SetRows(ids)
	return nil
}

// Tabs returns the row count of every tab bucket. Counts run concurrently on
// first use and are kept for the life of the view. A failed count is logged and reported as 0.
func (v *View[R, K]) Tabs(ctx context.Context) []TabCount {
	v.tabsOnce.Do(func() {
		v.tabs = CountTabs(ctx, v.schema, v.count, v.metrics)
	})
	return slices.Clone(v.tabs)
}

// CountTabs counts every tab bucket of schema concurrently, with no other filter applied.
func CountTabs(ctx context.Context, schema Schema, count CountFunc, m metrics.Metrics) []TabCount {
	tabs := make([]TabCount, len(schema.Tabs))
	var wg sync.WaitGroup
	for i, tab := range schema.Tabs {
		tabs[i] = TabCount{Tab: tab}
		if count == nil {
			continue
		}
		wg.Add(1)
		go func(i int, tab Tab) {
			defer wg.Done()
			n, err := count(ctx, NewState().With(schema.TabKey, tab.Value))
			if err != nil {
				log.Error("Failed to count tab", "view", schema.Name, "tab", tab.Label, "error", err)
				if m != nil {
					m.IncTabCountFailed(schema.Name)
				}
				return
			}
			tabs[i].Count = n
		}(i, tab)
	}
	wg.Wait()
	return tabs
}
