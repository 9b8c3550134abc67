// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/wishvault/wishsync/internal/adapter"
	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
	"github.com/wishvault/wishsync/internal/utils"
	"github.com/wishvault/wishsync/models"
)

type clientSyncService struct {
	documents  DocumentProvider
	importer   DocumentImporter
	remote     adapter.RemoteStore
	settings   store.SettingsStore
	backups    BackupService
	metadata   MetadataService
	appVersion string
	clock      func() time.Time

	// inFlight serializes upload/download; the loser of the race gets an
	// error result instead of queueing behind the winner.
	inFlight atomic.Bool

	logger *logger.Logger
}

// NewClientSyncService wires the sync collaborators into the orchestrator.
func NewClientSyncService(
	documents DocumentProvider,
	importer DocumentImporter,
	remote adapter.RemoteStore,
	settings store.SettingsStore,
	backups BackupService,
	metadata MetadataService,
	appVersion string,
	logger *logger.Logger,
) ClientSyncService {
	return &clientSyncService{
		documents:  documents,
		importer:   importer,
		remote:     remote,
		settings:   settings,
		backups:    backups,
		metadata:   metadata,
		appVersion: appVersion,
		clock:      time.Now,
		logger:     logger,
	}
}

// Upload implements [ClientSyncService].
func (s *clientSyncService) Upload(ctx context.Context) models.SyncResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		return errorResult(ErrSyncInProgress)
	}
	defer s.inFlight.Store(false)

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return errorResult(fmt.Errorf("load settings: %w", err))
	}

	doc, err := s.documents.Generate(ctx, settings.SchemaPreference, settings.AllAccounts)
	if errors.Is(err, store.ErrNoLocalData) {
		return errorResult(ErrNoLocalDocument)
	}
	if err != nil {
		return errorResult(fmt.Errorf("generate document: %w", err))
	}

	hash, err := utils.Fingerprint(doc)
	if err != nil {
		return errorResult(fmt.Errorf("fingerprint document: %w", err))
	}

	if settings.ClientID == "" {
		settings.ClientID = utils.NewClientID()
	}

	envelope := models.SyncEnvelope{
		SchemaVersion: models.SchemaVersion,
		AppVersion:    s.appVersion,
		ClientID:      settings.ClientID,
		Timestamp:     s.clock().UnixMilli(),
		DataHash:      hash,
		Payload:       doc,
	}

	resp, err := s.remote.Upload(ctx, envelope)
	if err != nil {
		return errorResult(fmt.Errorf("upload: %w", err))
	}

	confirmed := resp.Timestamp
	if confirmed == 0 {
		confirmed = envelope.Timestamp
	}
	records := resp.RecordCount
	if records == 0 {
		records = models.CountRecords(doc)
	}

	settings.LastSyncTimestamp = confirmed
	if err = s.settings.Save(ctx, settings); err != nil {
		// The remote accepted the document; a failed state save must not
		// turn the operation into a reported failure.
		s.logger.Warn().Err(err).Msg("persist settings after upload")
	}

	s.logger.Info().Int("records", records).Str("hash", hash).Msg("uploaded wish history")

	return models.SyncResult{
		Status:      models.StatusOK,
		Timestamp:   confirmed,
		RecordCount: records,
	}
}

// Download implements [ClientSyncService]. The local document is snapshotted
// before anything destructive happens; every failure after that point still
// reports the snapshot so the previous state stays recoverable. A failed
// snapshot is logged and the restore continues without one.
func (s *clientSyncService) Download(ctx context.Context) models.SyncResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		return errorResult(ErrSyncInProgress)
	}
	defer s.inFlight.Store(false)

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return errorResult(fmt.Errorf("load settings: %w", err))
	}

	backupPath, err := s.backups.CreateLocalBackup(ctx)
	if err != nil {
		// The restore proceeds without a snapshot; the failure is surfaced
		// in the log only.
		s.logger.Warn().Err(err).Msg("backup before download failed")
		backupPath = ""
	}
	fail := func(err error) models.SyncResult {
		res := errorResult(err)
		res.BackupPath = backupPath
		res.BackupCreated = backupPath != ""
		return res
	}

	envelope, err := s.remote.Download(ctx)
	if err != nil {
		return fail(fmt.Errorf("download: %w", err))
	}

	if envelope.SchemaVersion > models.SchemaVersion {
		return fail(fmt.Errorf("%w: remote speaks schema %d, this build speaks %d",
			adapter.ErrIncompatibleVersion, envelope.SchemaVersion, models.SchemaVersion))
	}

	if models.DetectShape(envelope.Payload) == models.ShapeUnknown {
		return fail(store.ErrUnrecognizedFormat)
	}

	if err = s.importer.Import(ctx, envelope.Payload); err != nil {
		return fail(fmt.Errorf("import downloaded document: %w", err))
	}

	confirmed := envelope.Timestamp
	if confirmed == 0 {
		confirmed = s.clock().UnixMilli()
	}
	settings.LastSyncTimestamp = confirmed
	if err = s.settings.Save(ctx, settings); err != nil {
		s.logger.Warn().Err(err).Msg("persist settings after download")
	}

	records := models.CountRecords(envelope.Payload)
	s.logger.Info().Int("records", records).Str("backup", backupPath).Msg("downloaded wish history")

	return models.SyncResult{
		Status:        models.StatusOK,
		Timestamp:     confirmed,
		RecordCount:   records,
		BackupPath:    backupPath,
		BackupCreated: backupPath != "",
	}
}

// Status implements [ClientSyncService]. Read-only, so it runs even while an
// upload or download is in flight.
func (s *clientSyncService) Status(ctx context.Context) models.ConflictReport {
	return s.metadata.Compare(ctx)
}

func errorResult(err error) models.SyncResult {
	return models.SyncResult{Status: models.StatusError, Error: err.Error()}
}
