// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"time"

	"github.com/wishvault/wishsync/models"
)

// DocumentProvider materializes the current local wish-history document.
// The file-backed store implements it for the CLI; an embedding application
// may substitute a generator that builds the export from its own database.
type DocumentProvider interface {
	// Generate returns the local document in the shape selected by
	// schemaPreference and allAccounts. Returns store.ErrNoLocalData when
	// nothing has been exported yet.
	Generate(ctx context.Context, schemaPreference string, allAccounts bool) (models.SyncDocument, error)
}

// DocumentImporter replaces the local document with a downloaded one.
type DocumentImporter interface {
	// Import validates the document shape and persists it atomically.
	// Returns store.ErrUnrecognizedFormat when doc matches no known shape.
	Import(ctx context.Context, doc models.SyncDocument) error
}

// LocalBackupStore snapshots the local document before destructive
// overwrites.
type LocalBackupStore interface {
	// Write stores doc under a timestamp-derived name and returns the
	// snapshot path. A non-empty path may accompany an error when the
	// snapshot was written but pruning older entries failed.
	Write(doc models.SyncDocument, now time.Time) (string, error)
}

// MetadataService produces the per-side sync descriptors and the read-only
// comparison between them. Both sides degrade to exists:false instead of
// failing, carrying the reason in the descriptor's Error field.
type MetadataService interface {
	// LocalMetadata describes the local document: fingerprint, record
	// count, and the last-sync timestamp as the modification proxy.
	LocalMetadata(ctx context.Context) models.SyncMetadata

	// RemoteMetadata describes the cloud copy via the remote store.
	RemoteMetadata(ctx context.Context) models.SyncMetadata

	// Compare fetches both descriptors and derives the conflict flag. The
	// two fetches run concurrently; neither side blocks the other's result.
	Compare(ctx context.Context) models.ConflictReport
}

// BackupService owns the rotating pre-overwrite snapshot history.
type BackupService interface {
	// CreateLocalBackup snapshots the current local document and returns
	// the snapshot path. When no local document exists there is nothing to
	// protect and the call succeeds with an empty path.
	CreateLocalBackup(ctx context.Context) (string, error)
}

// ClientSyncService orchestrates the sync operations end to end. Operations
// never surface raw errors; every outcome is normalized into the returned
// result with Status set to "ok" or "error".
type ClientSyncService interface {
	// Upload pushes the local document to the remote store and records the
	// confirmed sync timestamp.
	Upload(ctx context.Context) models.SyncResult

	// Download replaces the local document with the cloud copy, snapshotting
	// the local document first. The result reports the snapshot even when
	// the restore itself failed.
	Download(ctx context.Context) models.SyncResult

	// Status performs the read-only conflict check.
	Status(ctx context.Context) models.ConflictReport
}
