package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const processedBucket = "processed"

// boltBackend stores the completion record in a bbolt bucket, one key per
// document id. Entry values are a single flag byte.
type boltBackend struct {
	db *bolt.DB
}

// openBolt initializes a bbolt-backed cache Backend.
func openBolt(path string) (Backend, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt cache: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(processedBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache bucket: %w", err)
	}

	return &boltBackend{db: db}, nil
}

// Load reads every recorded entry. Values that fail to decode are dropped.
func (b *boltBackend) Load() (map[string]Entry, error) {
	entries := make(map[string]Entry)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(processedBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			entry, ok := decodeEntry(v)
			if !ok {
				return nil
			}
			entries[string(k)] = entry
			return nil
		})
	})
	if err != nil {
		return map[string]Entry{}, nil
	}
	return entries, nil
}

// Save replaces the bucket contents with the in-memory record in one
// transaction.
func (b *boltBackend) Save(entries map[string]Entry) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(processedBucket)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(processedBucket))
		if err != nil {
			return err
		}
		for id, entry := range entries {
			if err := bucket.Put([]byte(id), encodeEntry(entry)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (b *boltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func encodeEntry(e Entry) []byte {
	if e.Promoted {
		return []byte{1}
	}
	return []byte{0}
}

func decodeEntry(value []byte) (Entry, bool) {
	if len(value) != 1 {
		return Entry{}, false
	}
	return Entry{Promoted: value[0] == 1}, true
}
