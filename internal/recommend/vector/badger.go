// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Preference vector key prefix for namespacing in BadgerDB.
const preferenceKeyPrefix = "pref:"

// BadgerPreferenceStore keeps learned preference vectors in BadgerDB, one
// JSON-encoded vector per user.
type BadgerPreferenceStore struct {
	db *badger.DB
}

// NewBadgerPreferenceStore opens (or creates) a store in path.
//
// Example:
//
//	store, err := NewBadgerPreferenceStore("/data/preferences")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func NewBadgerPreferenceStore(path string) (*BadgerPreferenceStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Vectors are small; keep value log files small too
	opts.ValueLogFileSize = 16 << 20 // 16MB (smaller than default 1GB)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for preference vectors: %w", err)
	}
	return &BadgerPreferenceStore{db: db}, nil
}

// NewBadgerPreferenceStoreFromDB creates a store from an existing BadgerDB.
func NewBadgerPreferenceStoreFromDB(db *badger.DB) *BadgerPreferenceStore {
	return &BadgerPreferenceStore{db: db}
}

// GetUserVector implements PreferenceStore.
func (s *BadgerPreferenceStore) GetUserVector(_ context.Context, userID string) ([]float32, error) {
	if userID == "" {
		return nil, ErrNoPreferenceVector
	}

	var vec []float32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(preferenceKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoPreferenceVector
		}
		if err != nil {
			return fmt.Errorf("get preference vector: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, ErrNoPreferenceVector
	}
	return vec, nil
}

// PutUserVector stores or replaces a user's preference vector.
func (s *BadgerPreferenceStore) PutUserVector(_ context.Context, userID string, vec []float32) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	if len(vec) == 0 {
		return errors.New("preference vector cannot be empty")
	}

	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal preference vector: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(preferenceKeyPrefix+userID), data)
	})
}

// DeleteUserVector removes a user's preference vector. Deleting a missing
// vector is not an error.
func (s *BadgerPreferenceStore) DeleteUserVector(_ context.Context, userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(preferenceKeyPrefix + userID))
	})
}

// Close closes the underlying BadgerDB.
func (s *BadgerPreferenceStore) Close() error {
	return s.db.Close()
}
