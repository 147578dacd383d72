package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mauv0809/clubdesk/internal/listing"
)

// apiClient talks to the /api routes as one member.
type apiClient struct {
	host     string
	memberID string
	http     *http.Client
}

func newClient() *apiClient {
	return &apiClient{host: host, memberID: memberID, http: &http.Client{Timeout: 30 * time.Second}}
}

// apiError is a non-2xx answer carrying the server's error envelope.
type apiError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *apiError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.memberID != "" {
		req.Header.Set("X-Member-ID", c.memberID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 300 {
		var env struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
				Field   string `json:"field"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &env) != nil || env.Error.Code == "" {
			return &apiError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode), Message: string(bytes.TrimSpace(raw))}
		}
		return &apiError{Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message, Field: env.Error.Field}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

type listPage[R any] struct {
	Rows  []R `json:"rows"`
	Total int `json:"total"`
}

// listPath builds the request of a list page. The server pages from zero.
func listPath(base string, schema listing.Schema, q listing.Query) string {
	path := base + "?"
	if qs := listing.Encode(schema, q.State); qs != "" {
		path += qs + "&"
	}
	return path + "page=" + strconv.Itoa(max(q.Page-1, 0)) + "&pageSize=" + strconv.Itoa(q.PageSize)
}

// remoteFetcher loads list pages from the server.
func remoteFetcher[R any](c *apiClient, base string, schema listing.Schema) listing.FetchFunc[R] {
	return func(ctx context.Context, q listing.Query) ([]R, int, error) {
		var page listPage[R]
		if err := c.do(ctx, http.MethodGet, listPath(base, schema, q), nil, &page); err != nil {
			return nil, 0, err
		}
		return page.Rows, page.Total, nil
	}
}

// remoteCounter counts rows by asking for the smallest page and reading its total.
func remoteCounter(c *apiClient, base string, schema listing.Schema) listing.CountFunc {
	return func(ctx context.Context, s listing.State) (int, error) {
		var page listPage[json.RawMessage]
		q := listing.Query{State: s, Page: 1, PageSize: listing.PageSizeOptions[0]}
		if err := c.do(ctx, http.MethodGet, listPath(base, schema, q), nil, &page); err != nil {
			return 0, err
		}
		return page.Total, nil
	}
}
