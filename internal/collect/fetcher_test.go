package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ukaji/marketbrief/internal/cache"
	"github.com/ukaji/marketbrief/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.UserAgent = "test-agent"
	cfg.RateLimiting.RequestsPerSecond = 1000
	cfg.RateLimiting.BurstSize = 1000
	return cfg
}

func feedHandler(payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, payload)
	}
}

func TestFeedFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(feedHandler(sampleFeed))
	defer server.Close()

	f := NewFeedFetcher(testConfig(), nil)
	items, err := f.Fetch(context.Background(), FeedTarget{Label: "Test Feed", URL: server.URL + "/rss"}, 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(items) != 5 {
		t.Fatalf("Expected 5 items, got %d", len(items))
	}
	if items[0].Source != "Test Feed" {
		t.Errorf("Expected target label on items, got %q", items[0].Source)
	}
}

func TestFeedFetcher_SendsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = fmt.Fprint(w, sampleFeed)
	}))
	defer server.Close()

	f := NewFeedFetcher(testConfig(), nil)
	if _, err := f.Fetch(context.Background(), FeedTarget{Label: "T", URL: server.URL + "/rss"}, 5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ua, _ := gotUA.Load().(string); ua != "test-agent" {
		t.Errorf("Expected configured User-Agent, got %q", ua)
	}
}

func TestFeedFetcher_CachesPayload(t *testing.T) {
	var feedHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		feedHits.Add(1)
		_, _ = fmt.Fprint(w, sampleFeed)
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	f := NewFeedFetcher(testConfig(), store)
	target := FeedTarget{Label: "T", URL: server.URL + "/rss"}

	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), target, 5); err != nil {
			t.Fatalf("Expected no error on fetch %d, got %v", i, err)
		}
	}

	if feedHits.Load() != 1 {
		t.Errorf("Expected a single upstream hit with caching enabled, got %d", feedHits.Load())
	}
}

// recordingCache captures the TTL passed to Set
type recordingCache struct {
	entries map[string][]byte
	lastTTL time.Duration
	setCall bool
}

func (c *recordingCache) Get(key string) ([]byte, bool) {
	val, found := c.entries[key]
	return val, found
}

func (c *recordingCache) Set(key string, value []byte, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	c.entries[key] = value
	c.lastTTL = ttl
	c.setCall = true
	return nil
}

func (c *recordingCache) Delete(key string) error { delete(c.entries, key); return nil }
func (c *recordingCache) Clear() error            { c.entries = nil; return nil }

func TestFeedFetcher_StoresWithLayerDefaultTTL(t *testing.T) {
	server := httptest.NewServer(feedHandler(sampleFeed))
	defer server.Close()

	store := &recordingCache{}
	f := NewFeedFetcher(testConfig(), store)
	if _, err := f.Fetch(context.Background(), FeedTarget{Label: "T", URL: server.URL + "/rss"}, 5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !store.setCall {
		t.Fatal("Expected payload stored in cache")
	}
	if store.lastTTL != 0 {
		t.Errorf("Expected zero TTL so each layer applies its own default, got %v", store.lastTTL)
	}
}

func TestFeedFetcher_RetriesServerErrors(t *testing.T) {
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, sampleFeed)
	}))
	defer server.Close()

	f := NewFeedFetcher(testConfig(), nil)
	if _, err := f.Fetch(context.Background(), FeedTarget{Label: "T", URL: server.URL + "/rss"}, 5); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFeedFetcher_ClientErrorNotRetried(t *testing.T) {
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFeedFetcher(testConfig(), nil)
	if _, err := f.Fetch(context.Background(), FeedTarget{Label: "T", URL: server.URL + "/rss"}, 5); err == nil {
		t.Fatal("Expected error for 404 feed")
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected no retries for client error, got %d attempts", attempts.Load())
	}
}

func TestFeedFetcher_RespectsRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /rss\n")
			return
		}
		_, _ = fmt.Fprint(w, sampleFeed)
	}))
	defer server.Close()

	f := NewFeedFetcher(testConfig(), nil)
	_, err := f.Fetch(context.Background(), FeedTarget{Label: "T", URL: server.URL + "/rss"}, 5)
	if err == nil {
		t.Fatal("Expected error when robots.txt disallows the path")
	}
	if !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("Expected robots.txt error, got %v", err)
	}
}
