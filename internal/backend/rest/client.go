// Package rest implements the backend driver for PostgREST endpoints such
// as a hosted Supabase project.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/ratelimit"
)

const (
	driverName = "rest"

	// Outbound limit when the config leaves it unset.
	defaultRPS = 20.0

	defaultTimeout = 30 * time.Second

	// All outbound calls share one bucket.
	limiterKey = "backend"

	maxErrorBody = 64 << 10
)

func init() {
	backend.Register(open, "https", "http")
}

func open(_ context.Context, cfg backend.Config, logger *slog.Logger) (backend.Driver, error) {
	return New(cfg, logger)
}

// Client is a rate-limited PostgREST client.
type Client struct {
	base    *url.URL
	key     string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the project at cfg.URL. Table requests go to
// {URL}/rest/v1/{table}.
func New(cfg backend.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend url %q has no host", cfg.URL)
	}
	if !strings.HasSuffix(u.Path, "/rest/v1") {
		u.Path += "/rest/v1"
	}

	rps := cfg.RequestRate
	if rps <= 0 {
		rps = defaultRPS
	}

	c := &Client{
		base:    u,
		key:     cfg.Key,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: ratelimit.New(rps, int(2*rps)),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements backend.Driver.
func (c *Client) Name() string { return driverName }

// Close releases resources held by the client.
func (c *Client) Close() error {
	c.limiter.Stop()
	c.http.CloseIdleConnections()
	return nil
}

// Ping checks that the endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "", nil, nil, nil)
	return backend.WrapError(driverName, "ping", "", err)
}

// Select implements backend.Driver.
func (c *Client) Select(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	params := filterParams(q.Filters)
	params.Set("select", "*")
	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		params.Set("order", q.Order.Column+"."+dir)
	}
	if q.Single {
		params.Set("limit", "1")
	}

	rows, err := c.do(ctx, http.MethodGet, q.Table, params, nil, nil)
	return rows, backend.WrapError(driverName, "select", q.Table, err)
}

// Insert implements backend.Driver. A row without an id is sent without
// one, so the table's own default assigns it, whatever its type.
func (c *Client) Insert(ctx context.Context, table string, rec backend.Record) (backend.Record, error) {
	rows, err := c.do(ctx, http.MethodPost, table, nil, withoutEmptyID(rec), map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return nil, backend.WrapError(driverName, "insert", table, err)
	}
	return first(table, "insert", rows)
}

// Upsert implements backend.Driver.
func (c *Client) Upsert(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	params := url.Values{}
	if len(conflict) > 0 {
		params.Set("on_conflict", strings.Join(conflict, ","))
	}
	// No generated id here: on a conflict it would overwrite the existing key.
	rows, err := c.do(ctx, http.MethodPost, table, params, rec, map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	})
	if err != nil {
		return nil, backend.WrapError(driverName, "upsert", table, err)
	}
	return first(table, "upsert", rows)
}

// Delete implements backend.Driver. The count is the number of rows
// PostgREST returns with return=representation.
func (c *Client) Delete(ctx context.Context, table string, filters []backend.Filter) (int64, error) {
	rows, err := c.do(ctx, http.MethodDelete, table, filterParams(filters), nil, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}
	return int64(len(rows)), nil
}

// do executes one request with rate limiting and decodes a JSON array body.
func (c *Client) do(ctx context.Context, method, table string, params url.Values, body any, headers map[string]string) ([]backend.Record, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := *c.base
	if table != "" {
		u.Path += "/" + url.PathEscape(table)
	} else {
		u.Path += "/"
	}
	u.RawQuery = params.Encode()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("backend request",
		"method", method,
		"table", table,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	// The root endpoint answers with an OpenAPI document, not rows.
	if table == "" || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var rows []backend.Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	for _, row := range rows {
		keysAsText(row)
	}
	return rows, nil
}

// Key columns are text to callers; identity tables return them as numbers.
var keyColumns = []string{"id", "post_id", "parent_id", "entity_id", "destination_id"}

func keysAsText(row backend.Record) {
	for _, col := range keyColumns {
		if n, ok := row[col].(float64); ok {
			row[col] = strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
}

func withoutEmptyID(rec backend.Record) backend.Record {
	row := rec.Clone()
	if v, ok := row["id"].(string); ok && v == "" {
		delete(row, "id")
	}
	return row
}

// filterParams renders equality filters as PostgREST "col=eq.value" pairs.
func filterParams(filters []backend.Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		if f.Value == nil {
			params.Add(f.Column, "is.null")
			continue
		}
		params.Add(f.Column, "eq."+backend.CanonicalText(f.Value))
	}
	return params
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	httpErr := &backend.HTTPError{Status: resp.StatusCode}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && (body.Message != "" || body.Code != "") {
		httpErr.Code = body.Code
		httpErr.Message = body.Message
		if body.Details != "" {
			httpErr.Message += ": " + body.Details
		}
	} else {
		httpErr.Message = strings.TrimSpace(string(raw))
	}
	return httpErr
}

func first(table, op string, rows []backend.Record) (backend.Record, error) {
	if len(rows) == 0 {
		return nil, backend.WrapError(driverName, op, table, errors.New("no row returned"))
	}
	return rows[0], nil
}
