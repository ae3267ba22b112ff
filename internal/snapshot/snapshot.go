// Package snapshot persists the last successfully fetched records per feed
// source, so a total transport failure can serve recent real data before
// falling back to synthetic records.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fkoidl/heimdeck/internal/domain"
)

var bucketRecords = []byte("records")

// Store is a bbolt-backed snapshot cache. One bucket, one key per source.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the snapshot database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Store replaces the cached records for a source.
func (s *Store) Store(sourceID string, records []domain.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(sourceID), payload)
	})
}

// Load returns the cached records for a source; a missing key is an empty
// result, not an error.
func (s *Store) Load(sourceID string) ([]domain.Record, error) {
	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRecords).Get([]byte(sourceID)); v != nil {
			payload = append(payload, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}
