package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-kiosk/internal/domain"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := Chain(base, mark("outer"), mark("inner"))
	req := httptest.NewRequest(http.MethodGet, "http://campus/user/locations", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	got := strings.Join(order, ",")
	if got != "outer,inner,base" {
		t.Errorf("order = %s, want outer,inner,base", got)
	}
}

func TestRequestIDStampsHeader(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	client := &http.Client{Transport: Chain(http.DefaultTransport, RequestID())}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if len(seen) != 26 {
		t.Errorf("request id = %q, want a 26-char ULID", seen)
	}
}

func TestRequestIDKeepsCallerValue(t *testing.T) {
	var seen string
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header.Get(RequestIDHeader)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	req := httptest.NewRequest(http.MethodGet, "http://campus/", nil)
	req.Header.Set(RequestIDHeader, "fixed")

	if _, err := RequestID()(base).RoundTrip(req); err != nil {
		t.Fatal(err)
	}
	if seen != "fixed" {
		t.Errorf("request id = %q, want fixed", seen)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	calls := 0
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	rt := RateLimit(RateLimitConfig{})(base)
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "http://campus/", nil)
		if _, err := rt.RoundTrip(req); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 50 {
		t.Errorf("calls = %d, want 50", calls)
	}
}

func TestRateLimitCancelledWait(t *testing.T) {
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	rt := RateLimit(RateLimitConfig{RequestsPerSec: 0.001, BurstSize: 1})(base)

	first := httptest.NewRequest(http.MethodGet, "http://campus/", nil)
	if _, err := rt.RoundTrip(first); err != nil {
		t.Fatalf("first request should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	second := httptest.NewRequest(http.MethodGet, "http://campus/", nil).WithContext(ctx)
	_, err := rt.RoundTrip(second)
	if !errors.Is(err, domain.ErrRateLimit) {
		t.Errorf("err = %v, want ErrRateLimit", err)
	}
}

func TestLoggingRecordsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	req := httptest.NewRequest(http.MethodPost, "http://campus/user/chat", nil)
	if _, err := Logging(logger)(base).RoundTrip(req); err == nil {
		t.Fatal("expected error")
	}

	out := buf.String()
	if !strings.Contains(out, "backend request failed") || !strings.Contains(out, "/user/chat") {
		t.Errorf("log output = %q", out)
	}
}
