package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Entry is one string value of the key-value store
type Entry struct {
	Key       string `boltholdKey:"Key"`
	Value     string
	UpdatedAt time.Time
}

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// GetItem returns the value stored under key. The boolean is false when
// the key has never been written.
func (db *Database) GetItem(key string) (string, bool, error) {
	var entry Entry
	err := db.store.Get(key, &entry)
	if errors.Is(err, bolthold.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// SetItem stores value under key, replacing any previous value
func (db *Database) SetItem(key, value string) error {
	entry := &Entry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	if err := db.store.Upsert(key, entry); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (db *Database) RemoveItem(key string) error {
	err := db.store.Delete(key, &Entry{})
	if err != nil && !errors.Is(err, bolthold.ErrNotFound) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key
func (db *Database) Keys() ([]string, error) {
	var entries []Entry
	if err := db.store.Find(&entries, nil); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys, nil
}
