// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wishvault/wishsync/models"
)

// LocalDocumentStore reads and writes the exported wish-history file. It is
// the file-backed implementation of the document generation/import
// collaborator pair used by the CLI; the desktop application substitutes its
// own generator built from the game log.
type LocalDocumentStore struct {
	path string
}

// NewLocalDocumentStore returns a store operating on the export file at path.
func NewLocalDocumentStore(path string) *LocalDocumentStore {
	return &LocalDocumentStore{path: path}
}

// Generate materializes the current local document. Returns ErrNoLocalData
// when no export exists yet. When allAccounts is false and the stored export
// is multi-account, the document is narrowed to the first account bucket in
// uid order so the produced shape matches the caller's preference.
func (s *LocalDocumentStore) Generate(ctx context.Context, schemaPreference string, allAccounts bool) (models.SyncDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoLocalData
	}
	if err != nil {
		return nil, fmt.Errorf("read local document: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrNoLocalData
	}

	doc := models.SyncDocument(raw)
	if !allAccounts && models.DetectShape(doc) == models.ShapeMultiAccount {
		return narrowToSingleAccount(doc)
	}

	return doc, nil
}

// Import validates the document shape and replaces the export file
// atomically (write to a temp file, then rename).
func (s *LocalDocumentStore) Import(ctx context.Context, doc models.SyncDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if models.DetectShape(doc) == models.ShapeUnknown {
		return ErrUnrecognizedFormat
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("write imported document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local document: %w", err)
	}

	return nil
}

func narrowToSingleAccount(doc models.SyncDocument) (models.SyncDocument, error) {
	var export struct {
		Version  *int                         `json:"version"`
		Accounts map[string][]json.RawMessage `json:"accounts"`
	}
	if err := json.Unmarshal(doc, &export); err != nil {
		return nil, fmt.Errorf("parse multi-account document: %w", err)
	}
	if len(export.Accounts) == 0 {
		return nil, ErrNoLocalData
	}

	uids := make([]string, 0, len(export.Accounts))
	for uid := range export.Accounts {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	single := struct {
		Version *int              `json:"version"`
		Wishes  []json.RawMessage `json:"wishes"`
	}{
		Version: export.Version,
		Wishes:  export.Accounts[uids[0]],
	}

	narrowed, err := json.Marshal(single)
	if err != nil {
		return nil, fmt.Errorf("build single-account document: %w", err)
	}
	return narrowed, nil
}
