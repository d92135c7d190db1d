package anchain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestDoGetSendsKeyAndQuery(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"risk_score": 73, "labels": ["mixer"]}`+"\n")
	}))
	defer ts.Close()

	c := New(ts.URL+"/", "k1", ts.Client())
	raw, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/api/intel/address/score",
		Query:  url.Values{"proto": {"eth"}, "address": {"0x1234"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"risk_score": 73, "labels": ["mixer"]}` {
		t.Fatalf("body not relayed verbatim: %s", raw)
	}
	if got.URL.Path != "/api/intel/address/score" {
		t.Fatalf("unexpected path %q", got.URL.Path)
	}
	if got.URL.Query().Get("proto") != "eth" || got.URL.Query().Get("address") != "0x1234" {
		t.Fatalf("unexpected query %q", got.URL.RawQuery)
	}
	if got.Header.Get(APIKeyHeader) != "k1" {
		t.Fatalf("expected api key header, got %q", got.Header.Get(APIKeyHeader))
	}
}

func TestDoPostEncodesBody(t *testing.T) {
	var body map[string]any
	var contentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "k1", ts.Client())
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "api/sanctions/ofac/search",
		Body:   map[string]any{"filters": map[string]any{"name": "x"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "application/json" {
		t.Fatalf("unexpected content type %q", contentType)
	}
	filters, _ := body["filters"].(map[string]any)
	if filters["name"] != "x" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestDoContextKeyOverridesDefault(t *testing.T) {
	var key string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get(APIKeyHeader)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "default", ts.Client())
	ctx := WithAPIKey(context.Background(), "per-request")
	if _, err := c.Do(ctx, Request{Path: "/x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "per-request" {
		t.Fatalf("expected context key, got %q", key)
	}
}

func TestDoMissingKeySendsNothing(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer ts.Close()

	c := New(ts.URL, "", ts.Client())
	_, err := c.Do(context.Background(), Request{Path: "/x"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no request, got %d", hits)
	}
}

func TestDoStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"message":"insufficient credits"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "k", ts.Client())
	_, err := c.Do(context.Background(), Request{Path: "/x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"message":"insufficient credits"}` {
		t.Fatalf("unexpected body %q", apiErr.Body)
	}
}

func TestDoMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>gateway</html>")
	}))
	defer ts.Close()

	c := New(ts.URL, "k", ts.Client())
	_, err := c.Do(context.Background(), Request{Path: "/x"})
	if !errors.Is(err, ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestDoCancelled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := New(ts.URL, "k", ts.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Do(ctx, Request{Path: "/slow"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
