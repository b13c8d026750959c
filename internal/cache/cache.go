// Package cache provides short-lived response caching for read-heavy
// endpoints like the leaderboard.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a namespaced cache key from a logical name
func Key(name string) string {
	hash := sha256.Sum256([]byte(name))
	return "hcv:v1:" + hex.EncodeToString(hash[:])
}
