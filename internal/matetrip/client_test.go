package matetrip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(context.Background(), zap.NewNop(), "test-token")
	client.APIURL = server.URL

	return client, server
}

func TestSearchMatchesWrappedResponse(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != MatchingSearchPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.URL.Query().Get("userId"); got != "u1" {
			t.Errorf("unexpected userId param: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"matches": [{"userId": "u2", "score": 0.5}]}`))
	}))

	candidates, err := client.SearchMatches("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if candidates.Len() != 1 || candidates.Items[0].UserID != "u2" {
		t.Fatalf("unexpected candidates: %+v", candidates.Items)
	}
}

func TestSearchMatchesRequiresUserID(t *testing.T) {
	t.Parallel()

	client := New(context.Background(), zap.NewNop(), "test-token")

	if _, err := client.SearchMatches(""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestRetryOnTransientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))

	posts, err := client.SearchPosts(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts.Len() != 0 {
		t.Fatalf("expected no posts, got %d", posts.Len())
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestNoRetryOnPermanentError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := client.SearchPosts(nil); err == nil {
		t.Fatalf("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestContentURLCaching(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/contents/img1/presigned-url" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"url": "https://cdn.example.com/img1?sig=abc", "expiresIn": 600}`))
	}))

	first, err := client.ContentURL("img1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := client.ContentURL("img1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical urls, got %q and %q", first, second)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestMyProfileUnauthenticated(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))

	if _, err := client.MyProfile(); err == nil {
		t.Fatalf("expected error for anonymous session")
	}
}
