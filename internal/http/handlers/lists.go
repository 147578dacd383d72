package handlers

import (
	"net/http"
	"slices"

	"github.com/mauv0809/clubdesk/internal/listing"
	"github.com/mauv0809/clubdesk/internal/metrics"
)

// ListResponse is one page of a list view.
type ListResponse[R any] struct {
	Rows     []R    `json:"rows"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Query    string `json:"query"`
}

// TabsResponse carries the tab bucket counts of a list view.
type TabsResponse struct {
	Tabs []listing.TabCount `json:"tabs"`
}

// ListHandler serves one page of a list view. Filters use the view's query
// keys; page is zero-based and pageSize must be one of listing.PageSizeOptions.
func ListHandler[R any, K comparable](schema listing.Schema, fetch listing.FetchFunc[R], key func(R) K, m metrics.Metrics, defaultPageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize, ok := pageParams(w, r, defaultPageSize)
		if !ok {
			return
		}

		view := listing.NewView(listing.Config[R, K]{
			Schema:   schema,
			Fetch:    fetch,
			Key:      key,
			Metrics:  m,
			Initial:  listing.Decode(schema, r.URL.Query()),
			Page:     page,
			PageSize: pageSize,
		})
		if err := view.Refresh(r.Context()); err != nil {
			writeServiceError(w, err, "list "+schema.Name)
			return
		}
		writeJSON(w, http.StatusOK, ListResponse[R]{
			Rows:     view.Rows(),
			Total:    view.Total(),
			Page:     view.Page(),
			PageSize: view.PageSize(),
			Query:    view.QueryString(),
		})
	}
}

// pageParams reads the zero-based page and the page size of a list request.
// It answers 400 and reports false when either is unusable.
func pageParams(w http.ResponseWriter, r *http.Request, defaultPageSize int) (page, pageSize int, ok bool) {
	page, err := intQuery(r, "page", 0)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "page must be a non-negative number")
		return 0, 0, false
	}
	pageSize, err = intQuery(r, "pageSize", defaultPageSize)
	if err != nil || !slices.Contains(listing.PageSizeOptions, pageSize) {
		writeError(w, http.StatusBadRequest, "bad_request", listing.ErrInvalidPageSize.Error())
		return 0, 0, false
	}
	return page, pageSize, true
}

// TabsHandler serves the tab bucket counts of a list view. Filters of the
// request do not narrow the counts.
func TabsHandler(schema listing.Schema, count listing.CountFunc, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, TabsResponse{Tabs: listing.CountTabs(r.Context(), schema, count, m)})
	}
}
