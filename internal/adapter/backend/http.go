package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/config"
	"campus-kiosk/internal/infra/middleware"
)

// Pool defaults for the single backend host.
const (
	defaultConnTimeout     = 10 * time.Second
	defaultMaxIdleConns    = 10
	defaultIdleConnTimeout = 90 * time.Second
)

// defaultMaxResponseBody is used when the config leaves the limit unset.
const defaultMaxResponseBody = 10 * 1024 * 1024 // 10 MB

// NewPooledTransport creates an http.Transport tuned for one backend host.
// There is no response-header timeout: chat replies may take as long as
// the backend's model needs.
func NewPooledTransport(connTimeout time.Duration) *http.Transport {
	if connTimeout <= 0 {
		connTimeout = defaultConnTimeout
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConns,
		IdleConnTimeout:     defaultIdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
}

// NewHTTPClient builds the backend HTTP client with the outbound middleware
// chain. cfg.Timeout of zero leaves requests unbounded.
func NewHTTPClient(cfg config.BackendConfig, logger *slog.Logger) *http.Client {
	rt := middleware.Chain(NewPooledTransport(cfg.ConnTimeout),
		middleware.RequestID(),
		middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSec: cfg.RateLimit,
			BurstSize:      cfg.RateBurst,
		}),
		middleware.Logging(logger),
	)
	return &http.Client{Transport: rt, Timeout: cfg.Timeout}
}

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// Unwrap classifies the status: 429 is a transport-level rate limit, every
// other non-2xx status is a semantic failure. Both also match
// domain.ErrHTTPStatus.
func (e *StatusError) Unwrap() []error {
	if e.Code == http.StatusTooManyRequests {
		return []error{domain.ErrHTTPStatus, domain.ErrRateLimit}
	}
	return []error{domain.ErrHTTPStatus, domain.ErrBadStatus}
}

// serverSide reports whether the status indicates the backend itself is
// unhealthy. Only these count against the circuit breaker.
func (e *StatusError) serverSide() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// request is one backend call.
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	accept      string
}

// send executes req and returns the open response of a 2xx reply; the
// caller closes its body. Transport failures wrap domain.ErrTransport;
// non-2xx responses return a *StatusError.
func (c *Client) send(ctx context.Context, req request) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	accept := req.accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		defer httpResp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 256))
		return nil, &StatusError{Code: httpResp.StatusCode, Body: truncate(string(snippet), 256)}
	}
	return httpResp, nil
}

// do executes req and returns the body of a 2xx response. A body larger
// than maxBody is rejected with domain.ErrBadPayload rather than cut short.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	httpResp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", domain.ErrBadPayload, c.maxBody)
	}
	return body, nil
}

// stream executes req and copies the whole 2xx body into w.
func (c *Client) stream(ctx context.Context, req request, w io.Writer) (int64, error) {
	httpResp, err := c.send(ctx, req)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	n, err := io.Copy(w, httpResp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: copy response: %v", domain.ErrTransport, err)
	}
	return n, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
