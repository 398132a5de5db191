package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"dbconsole/utils"

	"go.etcd.io/bbolt"
)

// BoltStorage is a fiber.Storage on the sessions bucket of a bolt DB.
// The DB is owned by the caller; Close does not close it.
type BoltStorage struct {
	db *bbolt.DB
}

// NewBoltStorage wraps a DB opened with InitDB
func NewBoltStorage(db *bbolt.DB) *BoltStorage {
	return &BoltStorage{db: db}
}

// Get returns nil, nil for missing or expired keys
func (s *BoltStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(sessionBucket)).Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %v", err)
	}
	if raw == nil {
		return nil, nil
	}

	e, err := decodeEntry(raw)
	if err != nil {
		utils.Log.Warn("Dropping unreadable session %q: %v", key, err)
		_ = s.Delete(key)
		return nil, nil
	}
	if e.expired(time.Now()) {
		_ = s.Delete(key)
		return nil, nil
	}
	return e.Data, nil
}

// Set stores val; exp of zero means no expiration
func (s *BoltStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	data, err := json.Marshal(newEntry(val, exp))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(key), data)
	})
}

// Delete removes key
func (s *BoltStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(key))
	})
}

// Reset drops every session
func (s *BoltStorage) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(sessionBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(sessionBucket))
		return err
	})
}

// Close is a no-op, see BoltStorage
func (s *BoltStorage) Close() error {
	return nil
}

// PurgeExpired removes expired sessions and returns how many were removed
func (s *BoltStorage) PurgeExpired() (int, error) {
	now := time.Now()
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			e, err := decodeEntry(v)
			if err != nil || e.expired(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}
