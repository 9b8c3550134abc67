// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/wishvault/wishsync/internal/adapter"
	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
)

// ClientServices bundles the client-side sync services behind one
// constructor so the CLI wires a single value.
type ClientServices struct {
	MetadataService MetadataService
	BackupService   BackupService
	SyncService     ClientSyncService
}

func NewClientServices(
	documents DocumentProvider,
	importer DocumentImporter,
	remote adapter.RemoteStore,
	settings store.SettingsStore,
	backups LocalBackupStore,
	appVersion string,
	logger *logger.Logger,
) *ClientServices {
	metadataSvc := NewMetadataService(documents, remote, settings, logger)
	backupSvc := NewBackupService(documents, backups, settings, logger)
	syncSvc := NewClientSyncService(documents, importer, remote, settings, backupSvc, metadataSvc, appVersion, logger)

	return &ClientServices{
		MetadataService: metadataSvc,
		BackupService:   backupSvc,
		SyncService:     syncSvc,
	}
}
