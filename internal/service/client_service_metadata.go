// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wishvault/wishsync/internal/adapter"
	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
	"github.com/wishvault/wishsync/internal/utils"
	"github.com/wishvault/wishsync/models"
)

type metadataService struct {
	documents DocumentProvider
	remote    adapter.RemoteStore
	settings  store.SettingsStore
	clock     func() time.Time

	logger *logger.Logger
}

// NewMetadataService wires the per-side descriptor producers into a
// MetadataService.
func NewMetadataService(documents DocumentProvider, remote adapter.RemoteStore, settings store.SettingsStore, logger *logger.Logger) MetadataService {
	return &metadataService{
		documents: documents,
		remote:    remote,
		settings:  settings,
		clock:     time.Now,
		logger:    logger,
	}
}

// LocalMetadata implements [MetadataService]. The local side has no reliable
// per-file modification time, so the last confirmed sync timestamp stands in
// for it; a document that was never synced reports the current time.
func (m *metadataService) LocalMetadata(ctx context.Context) models.SyncMetadata {
	settings, err := m.settings.Load(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("load settings for local metadata")
		return models.SyncMetadata{Exists: false, Error: err.Error()}
	}

	doc, err := m.documents.Generate(ctx, settings.SchemaPreference, settings.AllAccounts)
	if errors.Is(err, store.ErrNoLocalData) {
		return models.SyncMetadata{Exists: false}
	}
	if err != nil {
		m.logger.Warn().Err(err).Msg("generate document for local metadata")
		return models.SyncMetadata{Exists: false, Error: err.Error()}
	}

	hash, err := utils.Fingerprint(doc)
	if err != nil {
		return models.SyncMetadata{Exists: false, Error: err.Error()}
	}

	timestamp := settings.LastSyncTimestamp
	if timestamp == 0 {
		timestamp = m.clock().UnixMilli()
	}

	return models.SyncMetadata{
		Exists:      true,
		Timestamp:   timestamp,
		Hash:        hash,
		RecordCount: models.CountRecords(doc),
	}
}

// RemoteMetadata implements [MetadataService]. Remote failures degrade to
// exists:false so a dead endpoint still yields a usable comparison.
func (m *metadataService) RemoteMetadata(ctx context.Context) models.SyncMetadata {
	meta, err := m.remote.Metadata(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("fetch remote metadata")
		return models.SyncMetadata{Exists: false, Error: err.Error()}
	}
	return meta
}

// Compare implements [MetadataService].
func (m *metadataService) Compare(ctx context.Context) models.ConflictReport {
	var local, cloud models.SyncMetadata

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		local = m.LocalMetadata(ctx)
	}()
	go func() {
		defer wg.Done()
		cloud = m.RemoteMetadata(ctx)
	}()
	wg.Wait()

	return models.NewConflictReport(local, cloud)
}
