// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
	"github.com/wishvault/wishsync/internal/utils"
	"github.com/wishvault/wishsync/models"
)

func newTestMetadataSvc(t *testing.T) (*metadataService, *stubDocuments, *stubRemote, *stubSettings) {
	t.Helper()

	documents := &stubDocuments{doc: models.SyncDocument(`{"version":1,"wishes":[{"id":"1"},{"id":"2"}]}`)}
	remote := &stubRemote{}
	settings := &stubSettings{}

	svc := NewMetadataService(documents, remote, settings, logger.Nop()).(*metadataService)
	svc.clock = func() time.Time { return time.UnixMilli(fixedNowMillis) }

	return svc, documents, remote, settings
}

// ── LocalMetadata ───────────────────────────────────────────────────────────

func TestLocalMetadata_DescribesDocument(t *testing.T) {
	svc, documents, _, settings := newTestMetadataSvc(t)
	settings.settings.LastSyncTimestamp = 424242

	meta := svc.LocalMetadata(context.Background())

	wantHash, err := utils.Fingerprint(documents.doc)
	require.NoError(t, err)

	assert.True(t, meta.Exists)
	assert.Equal(t, wantHash, meta.Hash)
	assert.Equal(t, 2, meta.RecordCount)
	assert.Equal(t, int64(424242), meta.Timestamp)
}

func TestLocalMetadata_NeverSyncedUsesCurrentTime(t *testing.T) {
	svc, _, _, _ := newTestMetadataSvc(t)

	meta := svc.LocalMetadata(context.Background())

	assert.Equal(t, fixedNowMillis, meta.Timestamp)
}

func TestLocalMetadata_NoLocalData(t *testing.T) {
	svc, documents, _, _ := newTestMetadataSvc(t)
	documents.doc = nil
	documents.err = store.ErrNoLocalData

	meta := svc.LocalMetadata(context.Background())

	assert.False(t, meta.Exists)
	assert.Empty(t, meta.Error)
}

func TestLocalMetadata_GenerateFailureDegrades(t *testing.T) {
	svc, documents, _, _ := newTestMetadataSvc(t)
	documents.err = errors.New("export file corrupted")

	meta := svc.LocalMetadata(context.Background())

	assert.False(t, meta.Exists)
	assert.Contains(t, meta.Error, "export file corrupted")
}

// ── RemoteMetadata ──────────────────────────────────────────────────────────

func TestRemoteMetadata_PassesThrough(t *testing.T) {
	svc, _, remote, _ := newTestMetadataSvc(t)
	remote.metadata = models.SyncMetadata{Exists: true, Hash: "b2", RecordCount: 120}

	meta := svc.RemoteMetadata(context.Background())

	assert.True(t, meta.Exists)
	assert.Equal(t, "b2", meta.Hash)
}

func TestRemoteMetadata_FailureDegrades(t *testing.T) {
	svc, _, remote, _ := newTestMetadataSvc(t)
	remote.metadataErr = errors.New("endpoint unreachable")

	meta := svc.RemoteMetadata(context.Background())

	assert.False(t, meta.Exists)
	assert.Contains(t, meta.Error, "endpoint unreachable")
}

// ── Compare ─────────────────────────────────────────────────────────────────

func TestCompare_BothSidesPresent(t *testing.T) {
	svc, _, remote, _ := newTestMetadataSvc(t)
	remote.metadata = models.SyncMetadata{Exists: true, Hash: "remote-hash", RecordCount: 120}

	report := svc.Compare(context.Background())

	assert.Equal(t, models.StatusOK, report.Status)
	assert.True(t, report.HasConflict)
	assert.True(t, report.Local.Exists)
	assert.True(t, report.Cloud.Exists)
}

func TestCompare_RemoteDownIsNotAConflict(t *testing.T) {
	svc, _, remote, _ := newTestMetadataSvc(t)
	remote.metadataErr = errors.New("http 503")

	report := svc.Compare(context.Background())

	assert.False(t, report.HasConflict)
	assert.True(t, report.Local.Exists)
	assert.False(t, report.Cloud.Exists)
	assert.Contains(t, report.Cloud.Error, "503")
}
