package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a cache miss. Store implementations must return it for
// absent or expired keys so the Manager can tell misses from outages.
var ErrNotFound = errors.New("cache: key not found")

// Store is the raw key/value layer under the Manager. Implementations own
// entry expiry; the Manager owns tier policy and invalidation semantics.
// A Store failure is never fatal to callers: the Manager degrades to miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching pattern. Patterns are either
	// exact keys or a prefix followed by "*". Returns the number removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

func patternMatches(pattern, key string) bool {
	if n := len(pattern); n > 0 && pattern[n-1] == '*' {
		prefix := pattern[:n-1]
		return len(key) >= len(prefix) && key[:len(prefix)] == prefix
	}
	return pattern == key
}
