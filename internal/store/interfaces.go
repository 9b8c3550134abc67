// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/wishvault/wishsync/models"
)

// SettingsStore persists sync state and knobs between runs with an explicit
// load/save contract. Implementations serialize their own writes; the sync
// core depends only on this interface, never on a process-wide singleton.
type SettingsStore interface {
	// Load returns the persisted settings, or the zero value when nothing
	// has been saved yet.
	Load(ctx context.Context) (models.SyncSettings, error)

	// Save replaces the persisted settings atomically.
	Save(ctx context.Context, settings models.SyncSettings) error

	// Close releases the underlying storage.
	Close() error
}
