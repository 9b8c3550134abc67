// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wishvault/wishsync/models"
)

const (
	storedDocumentFile = "wishes.json"
	storedMetaFile     = "wishes.meta.json"
	remoteBackupDir    = "backups"
)

// StoredMeta is the sidecar metadata kept next to the stored document so the
// metadata action never has to read the payload itself.
type StoredMeta struct {
	Timestamp     int64  `json:"timestamp"`
	Hash          string `json:"hash"`
	SchemaVersion int    `json:"schemaVersion"`
	RecordCount   int    `json:"recordCount"`
	ClientID      string `json:"clientId,omitempty"`
	AppVersion    string `json:"appVersion,omitempty"`
}

// StoredDocument is the stored payload together with its sidecar metadata.
type StoredDocument struct {
	Meta    StoredMeta
	Payload models.SyncDocument
}

// RemoteDocumentStore is the file-backed document store behind the reference
// sync endpoint: one stored document, a metadata sidecar, and timestamped
// backups taken before every overwrite.
type RemoteDocumentStore struct {
	dir string
}

// NewRemoteDocumentStore returns a store rooted at dir. The directory tree
// is created lazily on the first write.
func NewRemoteDocumentStore(dir string) *RemoteDocumentStore {
	return &RemoteDocumentStore{dir: dir}
}

// Metadata reports the stored document's attributes from the sidecar alone.
// A store with nothing uploaded yet reports exists:false.
func (s *RemoteDocumentStore) Metadata() (models.SyncMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, storedMetaFile))
	if os.IsNotExist(err) {
		return models.SyncMetadata{Exists: false}, nil
	}
	if err != nil {
		return models.SyncMetadata{}, fmt.Errorf("read stored metadata: %w", err)
	}

	var meta StoredMeta
	if err = json.Unmarshal(raw, &meta); err != nil {
		return models.SyncMetadata{}, fmt.Errorf("parse stored metadata: %w", err)
	}

	return models.SyncMetadata{
		Exists:        true,
		Timestamp:     meta.Timestamp,
		Hash:          meta.Hash,
		RecordCount:   meta.RecordCount,
		SchemaVersion: meta.SchemaVersion,
	}, nil
}

// Load returns the stored document verbatim with its metadata, or
// ErrNothingStored when no upload has happened yet.
func (s *RemoteDocumentStore) Load() (StoredDocument, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, storedDocumentFile))
	if os.IsNotExist(err) {
		return StoredDocument{}, ErrNothingStored
	}
	if err != nil {
		return StoredDocument{}, fmt.Errorf("read stored document: %w", err)
	}

	metaRaw, err := os.ReadFile(filepath.Join(s.dir, storedMetaFile))
	if err != nil && !os.IsNotExist(err) {
		return StoredDocument{}, fmt.Errorf("read stored metadata: %w", err)
	}

	var meta StoredMeta
	if len(metaRaw) > 0 {
		if err = json.Unmarshal(metaRaw, &meta); err != nil {
			return StoredDocument{}, fmt.Errorf("parse stored metadata: %w", err)
		}
	}

	return StoredDocument{Meta: meta, Payload: payload}, nil
}

// Save persists a newly uploaded document with its provenance metadata.
// An already-stored document is copied into the backup location first, so an
// upload can never destroy the previous copy.
func (s *RemoteDocumentStore) Save(payload models.SyncDocument, meta StoredMeta, now time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	if _, err := s.Backup(now); err != nil {
		return fmt.Errorf("backup before overwrite: %w", err)
	}

	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal stored metadata: %w", err)
	}

	if err = writeFileAtomic(filepath.Join(s.dir, storedDocumentFile), payload); err != nil {
		return fmt.Errorf("write stored document: %w", err)
	}
	if err = writeFileAtomic(filepath.Join(s.dir, storedMetaFile), metaRaw); err != nil {
		return fmt.Errorf("write stored metadata: %w", err)
	}

	return nil
}

// Backup snapshots the currently stored document into the backup location.
// A store with nothing uploaded yet is a no-op, not an error.
func (s *RemoteDocumentStore) Backup(now time.Time) (string, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, storedDocumentFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read stored document: %w", err)
	}

	dir := filepath.Join(s.dir, remoteBackupDir)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := backupPrefix + now.UTC().Format(backupTimeFormat) + backupSuffix
	path := filepath.Join(dir, name)
	if err = os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", name, err)
	}

	return path, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
