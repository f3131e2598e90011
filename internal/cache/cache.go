// Package cache stores raw feed payloads so repeated briefings within the
// TTL window do not hit the feed endpoints again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the caching interface
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a feed URL
func Key(feedURL string) string {
	sum := sha256.Sum256([]byte(feedURL))
	return "marketbrief:v1:" + hex.EncodeToString(sum[:])
}
