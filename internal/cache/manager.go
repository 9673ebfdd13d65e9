package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

// Manager wraps a Store with the tier policy and invalidation semantics the
// rest of the system relies on:
//
//   - Get degrades to miss when the store is unreachable; Put and Invalidate
//     are best-effort. The system of record stays correct without the cache.
//   - Invalidate wins over stale puts: a value whose load started before a
//     matching invalidation is discarded instead of stored.
//   - Concurrent misses for one key are coalesced through singleflight.
type Manager struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
	group  singleflight.Group

	mu            sync.Mutex
	invalidations []invalidation
}

type invalidation struct {
	pattern string
	at      time.Time
}

// invalidationWindow bounds how long an invalidation record is kept for the
// stale-put check. Nothing loads longer than the largest tier TTL.
const invalidationWindow = 24 * time.Hour

func NewManager(store Store, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// Get unmarshals the cached value for key into dest and reports whether it
// was a hit. Store failures are logged at debug level and reported as misses.
func (m *Manager) Get(ctx context.Context, key string, dest any) bool {
	data, err := m.store.Get(ctx, key)
	if err != nil {
		if err != ErrNotFound {
			m.logger.Debug("cache get skipped", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		m.logger.Debug("cache entry corrupt, treating as miss", "key", key, "error", err)
		return false
	}
	return true
}

// Put overwrites unconditionally and resets the entry's insertion time. The
// tier comes from the key prefix.
func (m *Manager) Put(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Debug("cache put skipped, unmarshalable value", "key", key, "error", err)
		return
	}
	m.putBytes(ctx, key, data, m.clock.Now())
}

// Invalidate removes every entry matching the given patterns. The record is
// taken before the store delete so a racing put computed from pre-write data
// observes the invalidation even if it lands afterwards.
func (m *Manager) Invalidate(ctx context.Context, patterns ...string) {
	now := m.clock.Now()

	m.mu.Lock()
	kept := m.invalidations[:0]
	for _, inv := range m.invalidations {
		if now.Sub(inv.at) < invalidationWindow {
			kept = append(kept, inv)
		}
	}
	m.invalidations = kept
	for _, p := range patterns {
		m.invalidations = append(m.invalidations, invalidation{pattern: p, at: now})
	}
	m.mu.Unlock()

	for _, p := range patterns {
		var err error
		if hasWildcard(p) {
			_, err = m.store.DeletePattern(ctx, p)
		} else {
			err = m.store.Delete(ctx, p)
		}
		if err != nil {
			m.logger.Debug("cache invalidate skipped", "pattern", p, "error", err)
		}
	}
}

// GetOrLoad returns the cached value for key or produces one via load,
// storing the result at the key's tier. Concurrent callers for the same key
// share a single load. A load error is returned as-is; the cache itself
// never produces errors here.
func (m *Manager) GetOrLoad(ctx context.Context, key string, dest any, load func(ctx context.Context) (any, error)) error {
	if m.Get(ctx, key, dest) {
		return nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		readStart := m.clock.Now()

		// Another coalesced caller may have already repopulated the entry.
		if data, getErr := m.store.Get(ctx, key); getErr == nil {
			return data, nil
		}

		fresh, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		data, marshalErr := json.Marshal(fresh)
		if marshalErr != nil {
			return nil, errs.Wrap(marshalErr, "failed to marshal cache value")
		}
		m.putBytes(ctx, key, data, readStart)
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dest)
}

// putBytes stores data unless a matching invalidation was recorded after
// readStart, in which case the value may reflect pre-write state and is
// dropped; the next Get misses and reloads from the system of record.
func (m *Manager) putBytes(ctx context.Context, key string, data []byte, readStart time.Time) {
	if m.invalidatedSince(key, readStart) {
		m.logger.Debug("cache put discarded by newer invalidation", "key", key)
		return
	}
	ttl := TierForKey(key).TTL()
	if err := m.store.Set(ctx, key, data, ttl); err != nil {
		m.logger.Debug("cache put skipped", "key", key, "error", err)
	}
}

func (m *Manager) invalidatedSince(key string, since time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, inv := range m.invalidations {
		// Ties go to the invalidation: a load that started in the same
		// instant may still have read pre-write state.
		if !inv.at.Before(since) && patternMatches(inv.pattern, key) {
			return true
		}
	}
	return false
}

func hasWildcard(pattern string) bool {
	return len(pattern) > 0 && pattern[len(pattern)-1] == '*'
}
