package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full marketbrief configuration tree
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" json:"http"`
	Cache        CacheConfig        `yaml:"cache" json:"cache"`
	Feeds        FeedsConfig        `yaml:"feeds" json:"feeds"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" json:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" json:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" json:"output"`
	LLM          LLMConfig          `yaml:"llm" json:"llm"`
}

// HTTPConfig controls outbound feed fetching
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
}

// CacheConfig controls feed payload caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// FeedsConfig controls which feeds are collected and how much of each
type FeedsConfig struct {
	Query           string `yaml:"query" json:"query"`
	MaxItemsPerFeed int    `yaml:"max_items_per_feed" json:"max_items_per_feed"`
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitingConfig controls per-host request pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose               bool `yaml:"verbose" json:"verbose"`
	IsolateUnknownSources bool `yaml:"isolate_unknown_sources" json:"isolate_unknown_sources"`
	IncludeFooter         bool `yaml:"include_footer" json:"include_footer"`
}

// LLMConfig controls the optional summary provider
type LLMConfig struct {
	Provider       string `yaml:"provider" json:"provider"` // "" disables LLM summaries
	Model          string `yaml:"model" json:"model"`
	APIKey         string `yaml:"-" json:"-"` // From environment only, never persisted
	BaseURL        string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout        int    `yaml:"timeout" json:"timeout"` // seconds
	StrictEvidence bool   `yaml:"strict_evidence" json:"strict_evidence"`
	MaxTokens      int    `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "MarketBriefingBot/1.0 (+https://example.local)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   1 * time.Hour,
		},
		Feeds: FeedsConfig{
			Query:           "マーケット",
			MaxItemsPerFeed: 5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IsolateUnknownSources: true,
			IncludeFooter:         true,
		},
		LLM: LLMConfig{
			Timeout:        30,
			StrictEvidence: true,
			MaxTokens:      1000,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "marketbrief-cache")
	}
	return filepath.Join(home, ".marketbrief", "cache")
}
