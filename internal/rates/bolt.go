package rates

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const rateBucketName = "exchange_rates"

// BoltStore implements Store using a bbolt database file. One bucket holds
// all snapshots, keyed by base currency code as supplied by callers.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if needed) the bbolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening rates database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(rateBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating rates bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(key string) (string, bool, error) {
	var value string
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(rateBucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}
		value = string(data)
		found = true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading rates for %q: %w", key, err)
	}
	return value, found, nil
}

func (b *BoltStore) Set(key, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(rateBucketName)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("storing rates for %q: %w", key, err)
	}
	return nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
