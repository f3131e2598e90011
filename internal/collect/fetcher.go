package collect

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ukaji/marketbrief/internal/cache"
	"github.com/ukaji/marketbrief/internal/model"
	"github.com/ukaji/marketbrief/internal/worker"
)

// FeedFetcher retrieves raw feed payloads over HTTP with caching, robots.txt
// compliance, and per-host rate limiting.
type FeedFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	store      cache.Cache // nil disables caching
	limiter    *worker.Limiter
	robots     *RobotsChecker
}

// NewFeedFetcher creates a fetcher from configuration. Pass a nil store to
// disable caching.
func NewFeedFetcher(cfg *model.Config, store cache.Cache) *FeedFetcher {
	transport := &http.Transport{
		Proxy: newProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &FeedFetcher{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
		},
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		store:     store,
		limiter:   worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		robots:    NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
	}
}

// fetchSleepFunc is replaced in tests to skip retry backoff
var fetchSleepFunc = time.Sleep

const fetchMaxAttempts = 3

// Fetch retrieves and parses one feed, returning at most limit items
func (f *FeedFetcher) Fetch(ctx context.Context, target FeedTarget, limit int) ([]model.NewsItem, error) {
	payload, err := f.payload(ctx, target.URL)
	if err != nil {
		return nil, err
	}

	items, err := ParseFeed(payload, target.Label, limit)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (f *FeedFetcher) payload(ctx context.Context, feedURL string) ([]byte, error) {
	key := cache.Key(feedURL)
	if f.store != nil {
		if payload, found := f.store.Get(key); found {
			return payload, nil
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", feedURL)
	}

	if err := f.limiter.WaitWithDelay(ctx, feedURL, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var payload []byte
	var lastErr error
	for attempt := 1; attempt <= fetchMaxAttempts; attempt++ {
		if attempt > 1 {
			fetchSleepFunc(time.Duration(attempt-1) * 500 * time.Millisecond)
		}

		var retryable bool
		payload, retryable, lastErr = f.fetchOnce(ctx, feedURL)
		if lastErr == nil {
			break
		}
		if !retryable {
			return nil, lastErr
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if f.store != nil {
		// Zero TTL lets each cache layer apply its own configured default
		// (memory and disk TTLs differ).
		_ = f.store.Set(key, payload, 0)
	}

	return payload, nil
}

// fetchOnce performs a single feed request. Network errors and 5xx statuses
// are retryable; everything else is not.
func (f *FeedFetcher) fetchOnce(ctx context.Context, feedURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	return payload, false, nil
}

// newProxyFunc builds the transport proxy resolver. Without explicit proxy
// URLs it falls back to the standard environment variables.
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
