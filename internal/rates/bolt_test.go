package rates

import (
	"path/filepath"
	"testing"
)

func TestBoltStoreRoundTrip(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "rates.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	if _, found, err := store.Get("USD"); err != nil || found {
		t.Fatalf("Get on empty store = found %v, err %v", found, err)
	}

	if err := store.Set("USD", `{"base_code":"USD"}`); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, found, err := store.Get("USD")
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got != `{"base_code":"USD"}` {
		t.Errorf("Get() = %q", got)
	}

	// Last write wins.
	if err := store.Set("USD", `{"base_code":"USD","rates":{"EUR":0.92}}`); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	got, _, _ = store.Get("USD")
	if got != `{"base_code":"USD","rates":{"EUR":0.92}}` {
		t.Errorf("overwrite Get() = %q", got)
	}
}
