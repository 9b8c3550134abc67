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
	"github.com/wishvault/wishsync/models"
)

type stubLocalBackups struct {
	path  string
	err   error
	wrote []models.SyncDocument
	at    []time.Time
}

// Write mirrors the real store's contract: a prune failure still reports
// the written snapshot path alongside the error.
func (s *stubLocalBackups) Write(doc models.SyncDocument, now time.Time) (string, error) {
	if s.path != "" {
		s.wrote = append(s.wrote, doc)
		s.at = append(s.at, now)
	}
	return s.path, s.err
}

func newTestBackupSvc(t *testing.T) (*backupService, *stubDocuments, *stubLocalBackups, *stubSettings) {
	t.Helper()

	documents := &stubDocuments{doc: models.SyncDocument(`{"version":1,"wishes":[{"id":"1"}]}`)}
	backups := &stubLocalBackups{path: "/backups/wishes-20251223T101530.000Z.json"}
	settings := &stubSettings{}

	svc := NewBackupService(documents, backups, settings, logger.Nop()).(*backupService)
	svc.clock = func() time.Time { return time.UnixMilli(fixedNowMillis) }

	return svc, documents, backups, settings
}

func TestCreateLocalBackup_SnapshotsDocument(t *testing.T) {
	svc, documents, backups, _ := newTestBackupSvc(t)

	path, err := svc.CreateLocalBackup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, backups.path, path)
	require.Len(t, backups.wrote, 1)
	assert.Equal(t, documents.doc, backups.wrote[0])
	assert.Equal(t, time.UnixMilli(fixedNowMillis), backups.at[0])
}

func TestCreateLocalBackup_NoLocalDataSucceedsEmpty(t *testing.T) {
	svc, documents, backups, _ := newTestBackupSvc(t)
	documents.doc = nil
	documents.err = store.ErrNoLocalData

	path, err := svc.CreateLocalBackup(context.Background())

	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, backups.wrote)
}

func TestCreateLocalBackup_WriteFailure(t *testing.T) {
	svc, _, backups, _ := newTestBackupSvc(t)
	backups.path = ""
	backups.err = errors.New("read-only filesystem")

	_, err := svc.CreateLocalBackup(context.Background())

	assert.ErrorContains(t, err, "read-only filesystem")
}

func TestCreateLocalBackup_PruneFailureStillReturnsPath(t *testing.T) {
	svc, _, backups, _ := newTestBackupSvc(t)
	backups.err = errors.New("prune backups: permission denied")

	path, err := svc.CreateLocalBackup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, backups.path, path)
	require.Len(t, backups.wrote, 1)
}

func TestCreateLocalBackup_SettingsLoadFailure(t *testing.T) {
	svc, _, _, settings := newTestBackupSvc(t)
	settings.loadErr = errors.New("state db locked")

	_, err := svc.CreateLocalBackup(context.Background())

	assert.ErrorContains(t, err, "state db locked")
}
