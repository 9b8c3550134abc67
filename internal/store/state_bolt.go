// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/wishvault/wishsync/models"
)

var (
	settingsBucket = []byte("settings")
	settingsKey    = []byte("sync")
)

// boltSettingsStore is the bbolt-backed implementation of [SettingsStore].
// The whole settings struct is stored as one JSON blob under a fixed key;
// bbolt serializes writers, which satisfies the store's own-write-ordering
// contract.
type boltSettingsStore struct {
	db *bolt.DB
}

// NewBoltSettingsStore opens (creating if absent) the bbolt file at path and
// ensures the settings bucket exists. The parent directory is created when
// missing.
func NewBoltSettingsStore(path string) (SettingsStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init settings bucket: %w", err)
	}

	return &boltSettingsStore{db: db}, nil
}

// Load implements [SettingsStore].
func (s *boltSettingsStore) Load(ctx context.Context) (models.SyncSettings, error) {
	var settings models.SyncSettings
	if err := ctx.Err(); err != nil {
		return settings, err
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(settingsBucket).Get(settingsKey)
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &settings)
	})
	if err != nil {
		return models.SyncSettings{}, fmt.Errorf("load sync settings: %w", err)
	}

	return settings, nil
}

// Save implements [SettingsStore].
func (s *boltSettingsStore) Save(ctx context.Context, settings models.SyncSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal sync settings: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Put(settingsKey, raw)
	})
	if err != nil {
		return fmt.Errorf("save sync settings: %w", err)
	}

	return nil
}

// Close implements [SettingsStore].
func (s *boltSettingsStore) Close() error {
	return s.db.Close()
}
