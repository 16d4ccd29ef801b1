// Package fetch retrieves documents from the external source with
// politeness, retries, and typed failures. All retrying is resolved here;
// callers only ever see a document or a terminal error.
package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/ratelimit"
)

const (
	defaultMinDelay         = 2 * time.Second
	defaultMaxAttempts      = 3
	defaultRequestTimeout   = 30 * time.Second
	defaultRateLimitBackoff = 30 * time.Second
	maxBackoff              = 10 * time.Second

	// defaultUserAgent is the stable client identification string sent on
	// every request.
	defaultUserAgent = "Offside-Tool/1.0 (+https://github.com/flockwood/Offside-Tool)"

	maxBodyBytes = 4 << 20
)

// RawDocument is a retrieved document. It is owned by the Get call that
// produced it and is meant to be discarded after parsing.
type RawDocument struct {
	URL         string
	Body        []byte
	StatusCode  int
	RetrievedAt time.Time
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Fetcher performs rate-limited, retrying retrieval of documents.
// A single Fetcher instance owns the inter-request delay; share one
// instance across all workers hitting the same source.
type Fetcher struct {
	httpClient       HTTPDoer
	limiter          *ratelimit.Limiter
	userAgent        string
	maxAttempts      int
	rateLimitBackoff time.Duration
	backoffBase      time.Duration
}

// Option is a functional option for configuring the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithMinDelay sets the minimum delay between consecutive requests.
func WithMinDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.limiter = ratelimit.New("fetch", d)
		}
	}
}

// WithUserAgent sets the client identification string.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxAttempts sets the attempt budget for retryable network failures.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithRateLimitBackoff sets the wait before the single retry after a
// source-signaled throttle, used when the source declares no Retry-After.
func WithRateLimitBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.rateLimitBackoff = d
		}
	}
}

// New creates a Fetcher with the default politeness settings.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:       &http.Client{Timeout: defaultRequestTimeout},
		limiter:          ratelimit.New("fetch", defaultMinDelay),
		userAgent:        defaultUserAgent,
		maxAttempts:      defaultMaxAttempts,
		rateLimitBackoff: defaultRateLimitBackoff,
		backoffBase:      time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get retrieves the given URL. It blocks on the shared inter-request delay,
// retries transport errors and 5xx responses with exponential backoff, and
// retries a throttle response exactly once after a longer wait. Failures
// surface as NetworkError or RateLimitError.
func (f *Fetcher) Get(ctx context.Context, url string) (*RawDocument, error) {
	var lastErr error
	retriedThrottle := false

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, scouterrors.NewNetworkError(url, err)
		}

		doc, err := f.do(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		var rlErr *scouterrors.RateLimitError
		if errors.As(err, &rlErr) {
			if retriedThrottle {
				return nil, err
			}
			retriedThrottle = true
			wait := f.rateLimitBackoff
			if rlErr.RetryAfter > 0 {
				wait = rlErr.RetryAfter
			}
			slog.Warn("Source throttled, backing off once", "url", url, "wait", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, scouterrors.NewNetworkError(url, err)
			}
			// The throttle retry does not consume a network attempt.
			attempt--
			continue
		}

		// Client errors other than a throttle are terminal: the document
		// does not exist or the request is wrong, retrying cannot help.
		var netErr *scouterrors.NetworkError
		if errors.As(err, &netErr) && netErr.StatusCode >= 400 && netErr.StatusCode < 500 {
			return nil, err
		}

		if attempt == f.maxAttempts {
			break
		}
		delay := backoffDelay(f.backoffBase, attempt)
		slog.Warn("Fetch failed, retrying", "url", url, "attempt", attempt, "delay", delay, "error", err)
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, scouterrors.NewNetworkError(url, err)
		}
	}

	return nil, lastErr
}

func (f *Fetcher) do(ctx context.Context, url string) (*RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, scouterrors.NewNetworkError(url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, scouterrors.NewNetworkError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, scouterrors.NewRateLimitErrorWithRetry(
			"throttled by source", retryAfter(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, scouterrors.NewNetworkStatusError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, scouterrors.NewNetworkError(url, err)
	}

	return &RawDocument{
		URL:         url,
		Body:        body,
		StatusCode:  resp.StatusCode,
		RetrievedAt: time.Now(),
	}, nil
}

// retryAfter reads a source-declared Retry-After delay, 0 when absent.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	// exponential backoff capped at maxBackoff
	delay := base << uint(attempt-1)
	if delay > maxBackoff {
		return maxBackoff
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
