// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
)

type backupService struct {
	documents DocumentProvider
	backups   LocalBackupStore
	settings  store.SettingsStore
	clock     func() time.Time

	logger *logger.Logger
}

// NewBackupService wires the document provider and the snapshot store into a
// BackupService.
func NewBackupService(documents DocumentProvider, backups LocalBackupStore, settings store.SettingsStore, logger *logger.Logger) BackupService {
	return &backupService{
		documents: documents,
		backups:   backups,
		settings:  settings,
		clock:     time.Now,
		logger:    logger,
	}
}

// CreateLocalBackup implements [BackupService]. A missing local document is
// not an error: there is nothing a snapshot would protect.
func (b *backupService) CreateLocalBackup(ctx context.Context) (string, error) {
	settings, err := b.settings.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	doc, err := b.documents.Generate(ctx, settings.SchemaPreference, settings.AllAccounts)
	if errors.Is(err, store.ErrNoLocalData) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("generate document for backup: %w", err)
	}

	path, err := b.backups.Write(doc, b.clock())
	if err != nil {
		// A non-empty path means the snapshot itself landed and only the
		// prune of older entries failed. The snapshot must still reach the
		// caller.
		if path == "" {
			return "", err
		}
		b.logger.Warn().Err(err).Str("path", path).Msg("backup written, pruning old backups failed")
	}

	b.logger.Info().Str("path", path).Msg("created local backup")
	return path, nil
}
