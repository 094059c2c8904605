package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/drakos74/opistocks/internal/storage"
	"go.etcd.io/bbolt"
)

// Storage persists json values in a bolt database, one bucket per key bucket.
type Storage struct {
	db *bbolt.DB
}

// NewStorage opens or creates the database at the given path.
func NewStorage(path string) (*Storage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open bolt db '%s': %w", path, err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Store(k storage.Key, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for '%s': %w", k.Path(), err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(k.Bucket))
		if err != nil {
			return fmt.Errorf("could not create bucket '%s': %w", k.Bucket, err)
		}
		return b.Put([]byte(k.Label), data)
	})
}

func (s *Storage) Load(k storage.Key, value interface{}) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(k.Bucket))
		if b == nil {
			return fmt.Errorf("bucket '%s': %w", k.Bucket, storage.NotFoundErr)
		}
		data := b.Get([]byte(k.Label))
		if data == nil {
			return fmt.Errorf("key '%s': %w", k.Path(), storage.NotFoundErr)
		}
		if err := json.Unmarshal(data, value); err != nil {
			return fmt.Errorf("could not unmarshal '%s': %v: %w", k.Path(), err, storage.CouldNotLoadErr)
		}
		return nil
	})
}

// Close releases the database.
func (s *Storage) Close() error {
	return s.db.Close()
}
