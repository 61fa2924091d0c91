// Package rates provides exchange-rate fetching, caching and currency
// conversion for expense reporting.
package rates

import (
	"encoding/json"
	"time"
)

// Snapshot is an immutable set of exchange rates tied to one base currency
// and a fetch timestamp. Rates express units of the keyed currency obtainable
// for one unit of the base currency. A snapshot fetched for one base cannot
// be reused for another base.
type Snapshot struct {
	BaseCode           string             `json:"base_code"`
	Rates              map[string]float64 `json:"rates"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
}

// Fresh reports whether the snapshot is younger than ttl at the given time.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	age := now.Unix() - s.TimeLastUpdateUnix
	return age < int64(ttl.Seconds())
}

func (s *Snapshot) encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeSnapshot(text string) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
