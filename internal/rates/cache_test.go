package rates

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	snapshot *Snapshot
	err      error
	calls    int
}

func (f *fakeProvider) Fetch(ctx context.Context, base string) (*Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Copy so the cache cannot alias the fixture.
	s := *f.snapshot
	return &s, nil
}

func newTestCache(store Store, provider Provider, at time.Time) *Cache {
	c := NewCache(store, provider, DefaultTTL)
	c.now = func() time.Time { return at }
	return c
}

func usdSnapshot(fetchedAt time.Time) *Snapshot {
	return &Snapshot{
		BaseCode:           "USD",
		Rates:              map[string]float64{"EUR": 0.92, "GBP": 0.79},
		TimeLastUpdateUnix: fetchedAt.Unix(),
	}
}

func seedStore(t *testing.T, store Store, base string, s *Snapshot) {
	t.Helper()
	text, err := s.encode()
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	if err := store.Set(base, text); err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func TestCacheServesFreshSnapshotWithoutFetch(t *testing.T) {
	fetchedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		age       time.Duration
		wantFetch bool
	}{
		{name: "just fetched", age: 0, wantFetch: false},
		{name: "one hour old", age: time.Hour, wantFetch: false},
		{name: "just under ttl", age: 24*time.Hour - time.Second, wantFetch: false},
		{name: "exactly ttl", age: 24 * time.Hour, wantFetch: true},
		{name: "well past ttl", age: 48 * time.Hour, wantFetch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			seedStore(t, store, "USD", usdSnapshot(fetchedAt))

			provider := &fakeProvider{snapshot: usdSnapshot(fetchedAt.Add(tt.age))}
			cache := newTestCache(store, provider, fetchedAt.Add(tt.age))

			got := cache.GetRates(context.Background(), "USD")
			if got == nil {
				t.Fatal("GetRates() = nil, want snapshot")
			}
			if fetched := provider.calls > 0; fetched != tt.wantFetch {
				t.Errorf("provider fetched = %v, want %v", fetched, tt.wantFetch)
			}
		})
	}
}

func TestCachePersistsFetchedSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	provider := &fakeProvider{snapshot: usdSnapshot(now)}
	cache := newTestCache(store, provider, now)

	got := cache.GetRates(context.Background(), "USD")
	if got == nil {
		t.Fatal("GetRates() = nil, want snapshot")
	}
	if got.Rates["EUR"] != 0.92 {
		t.Errorf("Rates[EUR] = %v, want 0.92", got.Rates["EUR"])
	}

	// Second call must be served from the store without another fetch.
	if again := cache.GetRates(context.Background(), "USD"); again == nil {
		t.Fatal("second GetRates() = nil, want snapshot")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestCacheFallsBackToStaleSnapshotOnFetchFailure(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	now := fetchedAt.Add(72 * time.Hour) // stale well past the TTL

	store := NewMemoryStore()
	stale := usdSnapshot(fetchedAt)
	seedStore(t, store, "USD", stale)

	provider := &fakeProvider{err: errors.New("connection refused")}
	cache := newTestCache(store, provider, now)

	got := cache.GetRates(context.Background(), "USD")
	if got == nil {
		t.Fatal("GetRates() = nil, want stale snapshot")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
	if got.TimeLastUpdateUnix != stale.TimeLastUpdateUnix {
		t.Errorf("stale snapshot was modified: got timestamp %d, want %d",
			got.TimeLastUpdateUnix, stale.TimeLastUpdateUnix)
	}
	if got.Rates["EUR"] != 0.92 {
		t.Errorf("Rates[EUR] = %v, want 0.92", got.Rates["EUR"])
	}
}

func TestCacheReturnsNilWhenFetchFailsWithNoFallback(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	cache := newTestCache(NewMemoryStore(), &fakeProvider{err: errors.New("boom")}, now)

	if got := cache.GetRates(context.Background(), "USD"); got != nil {
		t.Fatalf("GetRates() = %+v, want nil", got)
	}
}

func TestCacheKeysAreIndependentPerBaseCurrency(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	seedStore(t, store, "USD", usdSnapshot(now))

	eur := &Snapshot{
		BaseCode:           "EUR",
		Rates:              map[string]float64{"USD": 1.09},
		TimeLastUpdateUnix: now.Unix(),
	}
	provider := &fakeProvider{snapshot: eur}
	cache := newTestCache(store, provider, now)

	got := cache.GetRates(context.Background(), "EUR")
	if got == nil || got.BaseCode != "EUR" {
		t.Fatalf("GetRates(EUR) = %+v, want EUR snapshot", got)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1: USD snapshot must not serve EUR", provider.calls)
	}

	// Case is part of the key: "usd" is a distinct entry from "USD".
	provider.err = errors.New("down")
	if got := cache.GetRates(context.Background(), "usd"); got != nil {
		t.Fatalf("GetRates(usd) = %+v, want nil (no lowercase entry)", got)
	}
}

func TestCacheIgnoresCorruptStoredSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	if err := store.Set("USD", "{not json"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	provider := &fakeProvider{snapshot: usdSnapshot(now)}
	cache := newTestCache(store, provider, now)

	got := cache.GetRates(context.Background(), "USD")
	if got == nil {
		t.Fatal("GetRates() = nil, want freshly fetched snapshot")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}
