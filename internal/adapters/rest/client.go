// Package rest contains the data-access and PDF service adapters that talk
// JSON over HTTPS to the console backend.
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

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ctxutil"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// DefaultTimeout bounds every request. Requests are never retried.
const DefaultTimeout = 30 * time.Second

// Client is a generic client for the backend's resource endpoints.
// Every call carries the bearer credential found in the context.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListParams selects a page of a resource.
type ListParams struct {
	Page    int
	Limit   int
	Filters map[string]string
}

type listEnvelope[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// List fetches one page of resource, decoded into T.
func List[T any](ctx context.Context, c *Client, resource string, p ListParams) ([]T, int, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	var env listEnvelope[T]
	if err := c.do(ctx, http.MethodGet, resource, q, nil, "", &env); err != nil {
		return nil, 0, err
	}
	return env.Data, env.Total, nil
}

// ListAll walks every page of resource.
func ListAll[T any](ctx context.Context, c *Client, resource string, filters map[string]string) ([]T, error) {
	const pageSize = 100
	var out []T
	for page := 1; ; page++ {
		data, total, err := List[T](ctx, c, resource, ListParams{Page: page, Limit: pageSize, Filters: filters})
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
		if len(data) == 0 || len(out) >= total {
			return out, nil
		}
	}
}

// Get fetches one record of resource into out.
func (c *Client) Get(ctx context.Context, resource, id string, out any) error {
	return c.do(ctx, http.MethodGet, resource+"/"+url.PathEscape(id), nil, nil, "", out)
}

// Create posts payload to resource and decodes the created record into out.
func (c *Client) Create(ctx context.Context, resource string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", resource, err)
	}
	return c.do(ctx, http.MethodPost, resource, nil, bytes.NewReader(body), "application/json", out)
}

// Update replaces record id of resource and decodes the stored record into out.
func (c *Client) Update(ctx context.Context, resource, id string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", resource, err)
	}
	return c.do(ctx, http.MethodPut, resource+"/"+url.PathEscape(id), nil, bytes.NewReader(body), "application/json", out)
}

// Delete removes record id of resource.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, resource+"/"+url.PathEscape(id), nil, nil, "", nil)
}

// Send performs a raw request, for endpoints that are not plain resources.
func (c *Client) Send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	return c.do(ctx, method, path, nil, body, contentType, out)
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cred, ok := ctxutil.CredentialFromContext(ctx); ok && cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	if id := ctxutil.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed", "method", method, "path", path, "error", err)
		return errs.Wrap(err, errs.KindTransport, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(err, errs.KindTransport, fmt.Sprintf("failed to decode %s %s response", method, path))
	}
	return nil
}

// apiError is the error body the backend answers with.
type apiError struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// statusError classifies a non-2xx response.
func statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body apiError
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("%s %s answered %d", method, path, resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return errs.New(errs.KindSessionExpired, msg)
	case http.StatusNotFound:
		return errs.New(errs.KindNotFound, msg)
	case http.StatusConflict:
		return errs.New(errs.KindConflict, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(body.Errors) == 0 {
			return errs.New(errs.KindValidation, msg)
		}
		fields := make([]errs.FieldError, 0, len(body.Errors))
		for _, k := range sortedKeys(body.Errors) {
			fields = append(fields, errs.FieldError{Field: k, Message: body.Errors[k]})
		}
		return &errs.Error{Kind: errs.KindValidation, Message: msg, Fields: fields}
	default:
		return errs.New(errs.KindTransport, msg)
	}
}
