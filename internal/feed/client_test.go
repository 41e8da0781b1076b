package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stickerdash/stickerdash-backend/pkg/config"
)

func testConfig() config.FeedConfig {
	return config.FeedConfig{
		Timeout:      2 * time.Second,
		MaxBodyBytes: 1024,
		RPS:          100,
		Burst:        10,
	}
}

func TestClientFetchDecodesEntries(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Orpheus","src":"https://img/o"},{"name":"Heidi","src":"https://img/h"}]`))
	}))
	defer srv.Close()

	entries, err := NewClient(testConfig(), nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected Accept header application/json, got %q", gotAccept)
	}
	if len(entries) != 2 || entries[1].Name != "Heidi" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestClientFetchRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(), nil).Fetch(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status error 404, got %v", err)
	}
}

func TestClientFetchRejectsNonJSON(t *testing.T) {
	for name, body := range map[string]string{
		"html":   "<html>not a feed</html>",
		"object": `{"name":"Orpheus"}`,
		"null":   "null",
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient(testConfig(), nil).Fetch(context.Background(), srv.URL)
			if !errors.Is(err, ErrNotJSON) {
				t.Fatalf("expected ErrNotJSON, got %v", err)
			}
		})
	}
}

func TestClientFetchEnforcesBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + strings.Repeat(`{"name":"x","src":"y"},`, 100) + `{"name":"x","src":"y"}]`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(), nil).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestClientFetchTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	if _, err := NewClient(cfg, nil).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClientFetchHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(testConfig(), nil).Fetch(ctx, "http://127.0.0.1:1"); err == nil {
		t.Fatal("expected canceled context to fail")
	}
}
