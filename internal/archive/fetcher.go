package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/tweetvault/internal/metrics"
)

// Media is one downloaded file.
type Media struct {
	Data        []byte
	ContentType string
}

// Fetcher downloads the media behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Media, error)
}

// FetcherOptions configures an HTTPFetcher.
type FetcherOptions struct {
	Timeout     time.Duration // per request
	Attempts    int           // tries per URL, at least 1
	RPS         float64       // 0 = unlimited
	MaxBytes    int64         // 0 = unlimited
	BaseBackoff time.Duration // first wait between tries, doubled each time
	UserAgent   string
}

// HTTPFetcher fetches media over HTTP with rate limiting and bounded retries.
type HTTPFetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	attempts    int
	maxBytes    int64
	baseBackoff time.Duration
	userAgent   string
}

// errPermanent marks failures that another attempt cannot fix.
var errPermanent = errors.New("permanent fetch failure")

// NewHTTPFetcher creates a fetcher from opts.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{Timeout: opts.Timeout},
		attempts:    max(opts.Attempts, 1),
		maxBytes:    opts.MaxBytes,
		baseBackoff: opts.BaseBackoff,
		userAgent:   opts.UserAgent,
	}
	if f.baseBackoff <= 0 {
		f.baseBackoff = 500 * time.Millisecond
	}
	if f.userAgent == "" {
		f.userAgent = "tweetvault"
	}
	if opts.RPS > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	return f
}

// Fetch downloads url, retrying transport errors, 429 and 5xx responses.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Media, error) {
	backoff := f.baseBackoff
	var lastErr error

	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			metrics.MediaFetchRetries.Inc()
		}
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return Media{}, err
			}
		}

		media, wait, err := f.fetchOnce(ctx, url)
		if err == nil {
			return media, nil
		}
		if errors.Is(err, errPermanent) || ctx.Err() != nil {
			return Media{}, err
		}
		lastErr = err

		if attempt == f.attempts {
			break
		}
		if wait <= 0 {
			wait = backoff
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return Media{}, ctx.Err()
		}
		backoff *= 2
	}
	return Media{}, fmt.Errorf("fetch %s failed after %d attempts: %w", url, f.attempts, lastErr)
}

// fetchOnce performs one request. A positive wait is the server's Retry-After.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (Media, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Media{}, 0, fmt.Errorf("%w: invalid url: %v", errPermanent, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Media{}, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Media{}, retryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("server returned %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Media{}, 0, fmt.Errorf("%w: server returned %d", errPermanent, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Media{}, 0, fmt.Errorf("failed to read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return Media{}, 0, fmt.Errorf("%w: body exceeds %d bytes", errPermanent, f.maxBytes)
	}
	return Media{Data: data, ContentType: resp.Header.Get("Content-Type")}, 0, nil
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}
