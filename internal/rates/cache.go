package rates

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTTL is the maximum snapshot age before a refresh is attempted.
const DefaultTTL = 24 * time.Hour

// Cache serves rate snapshots per base currency, minimizing redundant
// provider fetches and tolerating fetch failure by falling back to the last
// stored snapshot.
//
// Cache keys are base currency codes exactly as supplied; no case
// normalization is applied. Concurrent calls for the same base may each
// trigger an independent fetch; the store's last-write-wins semantics keep
// that harmless.
type Cache struct {
	store    Store
	provider Provider
	ttl      time.Duration
	now      func() time.Time
}

func NewCache(store Store, provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:    store,
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetRates returns a snapshot for baseCurrency, or nil when none can be
// obtained. It never returns an error: a fresh stored snapshot is served
// without any fetch; otherwise a fetch is attempted, and on failure the
// stored snapshot is returned even if stale. Callers must treat nil as
// "conversion unavailable".
func (c *Cache) GetRates(ctx context.Context, baseCurrency string) *Snapshot {
	cached := c.load(ctx, baseCurrency)
	if cached != nil && cached.Fresh(c.now(), c.ttl) {
		return cached
	}

	fetched, err := c.provider.Fetch(ctx, baseCurrency)
	if err != nil {
		slog.WarnContext(ctx, "Rate fetch failed, falling back to stored snapshot",
			"base_currency", baseCurrency,
			"stale_available", cached != nil,
			"error", err)
		return cached
	}

	if fetched.TimeLastUpdateUnix == 0 {
		fetched.TimeLastUpdateUnix = c.now().Unix()
	}

	if err := c.persist(ctx, baseCurrency, fetched); err != nil {
		slog.WarnContext(ctx, "Failed to persist rate snapshot",
			"base_currency", baseCurrency,
			"error", err)
		// The fetched snapshot is still good for this caller.
	}

	return fetched
}

func (c *Cache) load(ctx context.Context, baseCurrency string) *Snapshot {
	text, found, err := c.store.Get(baseCurrency)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read stored rate snapshot",
			"base_currency", baseCurrency,
			"error", err)
		return nil
	}
	if !found {
		return nil
	}

	snapshot, err := decodeSnapshot(text)
	if err != nil {
		slog.WarnContext(ctx, "Stored rate snapshot is corrupt, ignoring",
			"base_currency", baseCurrency,
			"error", err)
		return nil
	}
	return snapshot
}

func (c *Cache) persist(ctx context.Context, baseCurrency string, s *Snapshot) error {
	text, err := s.encode()
	if err != nil {
		return err
	}
	return c.store.Set(baseCurrency, text)
}
