package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testFetcher(attempts int, maxBytes int64) *HTTPFetcher {
	return NewHTTPFetcher(FetcherOptions{
		Timeout:     2 * time.Second,
		Attempts:    attempts,
		MaxBytes:    maxBytes,
		BaseBackoff: time.Millisecond,
	})
}

func TestHTTPFetcherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "tweetvault" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	media, err := testFetcher(1, 0).Fetch(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(media.Data) != "png-bytes" || media.ContentType != "image/png" {
		t.Errorf("Fetch() = %+v", media)
	}
}

func TestHTTPFetcherRetries(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		attempts  int
		wantErr   bool
		wantCalls int32
	}{
		{name: "recovers after 503", status: http.StatusServiceUnavailable, attempts: 3, wantCalls: 2},
		{name: "recovers after 429", status: http.StatusTooManyRequests, attempts: 2, wantCalls: 2},
		{name: "no retry on 404", status: http.StatusNotFound, attempts: 3, wantErr: true, wantCalls: 1},
		{name: "gives up", status: http.StatusBadGateway, attempts: 1, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					w.Header().Set("Retry-After", "0")
					w.WriteHeader(tt.status)
					return
				}
				_, _ = w.Write([]byte("ok"))
			}))
			defer srv.Close()

			_, err := testFetcher(tt.attempts, 0).Fetch(context.Background(), srv.URL)
			if (err != nil) != tt.wantErr {
				t.Errorf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("server calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestHTTPFetcherSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	if _, err := testFetcher(3, 16).Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch() should reject bodies over the cap")
	}
	if _, err := testFetcher(1, 64).Fetch(context.Background(), srv.URL); err != nil {
		t.Errorf("Fetch() at exactly the cap error = %v", err)
	}
}

func TestHTTPFetcherCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testFetcher(3, 0).Fetch(ctx, srv.URL); err == nil {
		t.Error("Fetch() with a cancelled context should fail")
	}
}

func TestRetryAfter(t *testing.T) {
	if got := retryAfter("3"); got != 3*time.Second {
		t.Errorf("retryAfter(3) = %v", got)
	}
	if got := retryAfter(""); got != 0 {
		t.Errorf("retryAfter('') = %v", got)
	}
	if got := retryAfter("soon"); got != 0 {
		t.Errorf("retryAfter(soon) = %v", got)
	}
}
