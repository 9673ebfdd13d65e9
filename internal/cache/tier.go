package cache

import (
	"strings"
	"time"
)

// Tier is a named TTL class. Assignment is a static mapping from the key's
// resource prefix; callers cannot pick a tier, which keeps staleness budgets
// a property of the resource rather than of individual call sites.
type Tier string

const (
	TierShort  Tier = "short"  // 5 minutes
	TierMedium Tier = "medium" // 30 minutes
	TierLong   Tier = "long"   // 1 hour
	TierDaily  Tier = "daily"  // 24 hours
)

func (t Tier) TTL() time.Duration {
	switch t {
	case TierShort:
		return 5 * time.Minute
	case TierMedium:
		return 30 * time.Minute
	case TierLong:
		return time.Hour
	case TierDaily:
		return 24 * time.Hour
	default:
		return 30 * time.Minute
	}
}

var tierByPrefix = map[string]Tier{
	"product":    TierMedium,
	"products":   TierMedium,
	"category":   TierLong,
	"categories": TierLong,
	"search":     TierShort,
	"order":      TierShort,
	"orders":     TierShort,
	"user":       TierShort,
	"stats":      TierDaily,
}

// TierForKey maps a key to its tier via the segment before the first colon.
// Unknown prefixes fall back to medium.
func TierForKey(key string) Tier {
	prefix := key
	if i := strings.IndexByte(key, ':'); i >= 0 {
		prefix = key[:i]
	}
	if t, ok := tierByPrefix[prefix]; ok {
		return t
	}
	return TierMedium
}
