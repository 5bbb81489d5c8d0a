// Package backend is the HTTP client for the campus backend: the location
// directory, the chat endpoint and the admin data endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"

	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/config"
	"campus-kiosk/internal/infra/tracer"
)

// Compile-time interface assertions.
var (
	_ domain.LocationSource = (*Client)(nil)
	_ domain.ChatBackend    = (*Client)(nil)
	_ domain.AdminBackend   = (*Client)(nil)
)

// Endpoint paths.
const (
	pathLocations       = "/user/locations"
	pathChat            = "/user/chat"
	pathUploadLocations = "/admin/upload_locations"
	pathUploadDocuments = "/admin/upload_documents"
	pathResetLocations  = "/admin/reset_locations"
	pathResetDocuments  = "/admin/reset_documents"
	pathExportAnalytics = "/admin/export_analytics"
)

// Client talks to the campus backend.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *breaker
	maxBody int64
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a backend client from cfg.
func New(cfg config.BackendConfig, logger *slog.Logger, opts ...Option) *Client {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxResponseBody
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		breaker: newBreaker(cfg.CircuitBreaker, logger),
		maxBody: maxBody,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(cfg, logger)
	}
	return c
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// BreakerState returns the circuit breaker state.
func (c *Client) BreakerState() gobreaker.State { return c.breaker.state() }

// call runs req through the circuit breaker inside a span named op.
func (c *Client) call(ctx context.Context, op string, req request) ([]byte, error) {
	ctx, span := tracer.StartSpan(ctx, "backend."+op)
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("http.method", req.method),
		tracer.StringAttr("http.path", req.path),
	)

	body, err := c.breaker.execute(func() ([]byte, error) {
		return c.do(ctx, req)
	})
	if err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("backend."+op, err)
	}
	span.SetAttributes(tracer.IntAttr("http.response_size", len(body)))
	tracer.SetOK(span)
	return body, nil
}

// callStream is call for responses copied straight into w without a size
// limit.
func (c *Client) callStream(ctx context.Context, op string, req request, w io.Writer) (int64, error) {
	ctx, span := tracer.StartSpan(ctx, "backend."+op)
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("http.method", req.method),
		tracer.StringAttr("http.path", req.path),
	)

	var n int64
	_, err := c.breaker.execute(func() ([]byte, error) {
		var err error
		n, err = c.stream(ctx, req, w)
		return nil, err
	})
	if err != nil {
		tracer.RecordError(span, err)
		return n, domain.WrapOp("backend."+op, err)
	}
	span.SetAttributes(tracer.IntAttr("http.response_size", int(n)))
	tracer.SetOK(span)
	return n, nil
}

// Locations fetches the raw location list. Every row must pass
// Location.Validate; one bad row rejects the whole payload.
func (c *Client) Locations(ctx context.Context) ([]domain.Location, error) {
	body, err := c.call(ctx, "locations", request{method: http.MethodGet, path: pathLocations})
	if err != nil {
		return nil, err
	}

	var locs []domain.Location
	if err := json.Unmarshal(body, &locs); err != nil {
		return nil, domain.NewDomainError("backend.locations", domain.ErrBadPayload, err.Error())
	}
	for i, loc := range locs {
		if err := loc.Validate(); err != nil {
			return nil, domain.NewDomainError("backend.locations", err, fmt.Sprintf("row %d", i))
		}
	}

	c.logger.Debug("locations fetched", "count", len(locs))
	return locs, nil
}

type chatRequest struct {
	History []domain.ChatTurn `json:"history"`
}

type chatResponse struct {
	Reply *string `json:"reply"`
}

// Chat sends the full history and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, history []domain.ChatTurn) (string, error) {
	payload, err := json.Marshal(chatRequest{History: history})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	body, err := c.call(ctx, "chat", request{
		method:      http.MethodPost,
		path:        pathChat,
		body:        bytes.NewReader(payload),
		contentType: "application/json",
	})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", domain.NewDomainError("backend.chat", domain.ErrBadPayload, err.Error())
	}
	if resp.Reply == nil {
		return "", domain.NewDomainError("backend.chat", domain.ErrBadPayload, "missing reply")
	}

	c.logger.Debug("chat reply received", "history_len", len(history), "reply_len", len(*resp.Reply))
	return *resp.Reply, nil
}

type resetResponse struct {
	Message string `json:"message"`
}

// Reset clears a backend collection. Callers are responsible for obtaining
// confirmation first.
func (c *Client) Reset(ctx context.Context, target domain.ResetTarget) (domain.ResetResult, error) {
	path := pathResetLocations
	if target == domain.ResetDocuments {
		path = pathResetDocuments
	}

	body, err := c.call(ctx, "reset", request{method: http.MethodPost, path: path})
	if err != nil {
		return domain.ResetResult{}, err
	}

	var resp resetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ResetResult{}, domain.NewDomainError("backend.reset", domain.ErrBadPayload, err.Error())
	}
	return domain.ResetResult{Message: resp.Message}, nil
}

// ExportAnalytics streams the analytics CSV into w and returns the number
// of bytes written. The export is not subject to the response size limit.
func (c *Client) ExportAnalytics(ctx context.Context, w io.Writer) (int64, error) {
	return c.callStream(ctx, "export", request{
		method: http.MethodGet,
		path:   pathExportAnalytics,
		accept: "text/csv",
	}, w)
}
