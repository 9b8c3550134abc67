// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/utils"
	"github.com/wishvault/wishsync/models"
)

// Property keys stamped onto the remote file so later metadata probes do not
// need a full download.
const (
	propHash          = "wishsync.hash"
	propSchemaVersion = "wishsync.schemaVersion"
	propRecordCount   = "wishsync.recordCount"
	propClientID      = "wishsync.clientId"
	propAppVersion    = "wishsync.appVersion"
)

// FileStoreConfig configures the direct file-API remote store (the legacy
// sync path using a bearer-authenticated cloud file endpoint).
type FileStoreConfig struct {
	// BaseURL is the file API root, e.g. "https://files.example.com/v1".
	BaseURL string
	// FileHandle identifies the stored document file. Empty until the
	// first upload creates one.
	FileHandle string
	// Timeout bounds every request. Zero means the 30s default.
	Timeout time.Duration
}

// StaticTokenSource is a TokenSource returning a fixed, pre-acquired bearer
// token. Token refresh stays with whoever configured it.
type StaticTokenSource string

func (s StaticTokenSource) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", errors.New("no access token configured")
	}
	return string(s), nil
}

// fileResource is the file API's resource representation.
type fileResource struct {
	ID            string            `json:"id"`
	Name          string            `json:"name,omitempty"`
	ModifiedTime  int64             `json:"modifiedTime,omitempty"`
	AppProperties map[string]string `json:"appProperties,omitempty"`
}

// fileRemoteStore implements [RemoteStore] against a generic cloud file API:
// GET /files/{id} for metadata, GET/PUT /files/{id}/content for the document
// itself, POST /files to create, POST /files/{id}/copy for backups. Sync
// attributes ride in appProperties; when the backend dropped them the
// adapter falls back to downloading the content and hashing locally, since
// the API only guarantees file-level metadata.
type fileRemoteStore struct {
	client *resty.Client
	base   string
	handle string
	tokens TokenSource

	// onHandle is invoked once when the first upload creates the remote
	// file, so the caller can persist the new handle.
	onHandle func(ctx context.Context, handle string) error

	logger *logger.Logger
}

// NewFileRemoteStore constructs the direct file-API implementation of
// [RemoteStore]. onHandle may be nil when the caller does not persist
// handles. Returns ErrNoEndpoint when cfg.BaseURL is empty.
func NewFileRemoteStore(cfg FileStoreConfig, tokens TokenSource, onHandle func(context.Context, string) error, logger *logger.Logger) (RemoteStore, error) {
	base, err := normalizeEndpointURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}

	client := resty.New().SetTimeout(cfg.Timeout)

	return &fileRemoteStore{
		client:   client,
		base:     base,
		handle:   cfg.FileHandle,
		tokens:   tokens,
		onHandle: onHandle,
		logger:   logger,
	}, nil
}

// Metadata implements [RemoteStore]. A store without a handle, or a handle
// the backend no longer knows, reports exists:false rather than failing.
func (f *fileRemoteStore) Metadata(ctx context.Context) (models.SyncMetadata, error) {
	if f.handle == "" {
		return models.SyncMetadata{Exists: false}, nil
	}

	req, err := f.authedRequest(ctx)
	if err != nil {
		return models.SyncMetadata{}, err
	}

	resp, err := req.Get(f.base + "/files/" + f.handle)
	if err != nil {
		return models.SyncMetadata{}, classifyTransportError(err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.SyncMetadata{Exists: false}, nil
	}
	if err = mapFileAPIError(resp); err != nil {
		return models.SyncMetadata{}, err
	}

	var res fileResource
	if err = json.Unmarshal(resp.Body(), &res); err != nil {
		return models.SyncMetadata{}, fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}

	meta := models.SyncMetadata{
		Exists:        true,
		Timestamp:     res.ModifiedTime,
		Hash:          res.AppProperties[propHash],
		SchemaVersion: atoiOrZero(res.AppProperties[propSchemaVersion]),
		RecordCount:   atoiOrZero(res.AppProperties[propRecordCount]),
	}

	if meta.Hash == "" {
		// Backend exposes file-level metadata only; a full fetch is the
		// one way left to fingerprint the remote copy.
		envelope, err := f.Download(ctx)
		if err != nil {
			return models.SyncMetadata{}, err
		}
		hash, err := utils.Fingerprint(envelope.Payload)
		if err != nil {
			return models.SyncMetadata{}, err
		}
		meta.Hash = hash
		meta.RecordCount = models.CountRecords(envelope.Payload)
	}

	return meta, nil
}

// Upload implements [RemoteStore]. The remote file is created on first use;
// the content and the stamped properties are then replaced in place.
func (f *fileRemoteStore) Upload(ctx context.Context, envelope models.SyncEnvelope) (models.RemoteResponse, error) {
	if err := f.ensureHandle(ctx); err != nil {
		return models.RemoteResponse{}, err
	}

	req, err := f.authedRequest(ctx)
	if err != nil {
		return models.RemoteResponse{}, err
	}
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(envelope.Payload)).
		Put(f.base + "/files/" + f.handle + "/content")
	if err != nil {
		return models.RemoteResponse{}, classifyTransportError(err)
	}
	if err = mapFileAPIError(resp); err != nil {
		return models.RemoteResponse{}, err
	}

	props := map[string]string{
		propHash:          envelope.DataHash,
		propSchemaVersion: strconv.Itoa(envelope.SchemaVersion),
		propRecordCount:   strconv.Itoa(models.CountRecords(envelope.Payload)),
		propClientID:      envelope.ClientID,
		propAppVersion:    envelope.AppVersion,
	}
	req, err = f.authedRequest(ctx)
	if err != nil {
		return models.RemoteResponse{}, err
	}
	resp, err = req.
		SetHeader("Content-Type", "application/json").
		SetBody(fileResource{AppProperties: props}).
		Put(f.base + "/files/" + f.handle)
	if err != nil {
		return models.RemoteResponse{}, classifyTransportError(err)
	}
	if err = mapFileAPIError(resp); err != nil {
		return models.RemoteResponse{}, err
	}

	return models.RemoteResponse{
		Status:        models.StatusOK,
		Timestamp:     envelope.Timestamp,
		Hash:          envelope.DataHash,
		RecordCount:   models.CountRecords(envelope.Payload),
		SchemaVersion: envelope.SchemaVersion,
	}, nil
}

// Download implements [RemoteStore].
func (f *fileRemoteStore) Download(ctx context.Context) (models.SyncEnvelope, error) {
	if f.handle == "" {
		return models.SyncEnvelope{}, &RemoteError{Message: "no document stored"}
	}

	req, err := f.authedRequest(ctx)
	if err != nil {
		return models.SyncEnvelope{}, err
	}
	metaResp, err := req.Get(f.base + "/files/" + f.handle)
	if err != nil {
		return models.SyncEnvelope{}, classifyTransportError(err)
	}
	if metaResp.StatusCode() == http.StatusNotFound {
		return models.SyncEnvelope{}, &RemoteError{Message: "no document stored"}
	}
	if err = mapFileAPIError(metaResp); err != nil {
		return models.SyncEnvelope{}, err
	}

	var res fileResource
	if err = json.Unmarshal(metaResp.Body(), &res); err != nil {
		return models.SyncEnvelope{}, fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}

	req, err = f.authedRequest(ctx)
	if err != nil {
		return models.SyncEnvelope{}, err
	}
	resp, err := req.Get(f.base + "/files/" + f.handle + "/content")
	if err != nil {
		return models.SyncEnvelope{}, classifyTransportError(err)
	}
	if err = mapFileAPIError(resp); err != nil {
		return models.SyncEnvelope{}, err
	}
	if len(resp.Body()) == 0 {
		return models.SyncEnvelope{}, fmt.Errorf("%w: stored file is empty", ErrMalformedResponse)
	}

	return models.SyncEnvelope{
		SchemaVersion: atoiOrZero(res.AppProperties[propSchemaVersion]),
		Timestamp:     res.ModifiedTime,
		DataHash:      res.AppProperties[propHash],
		Payload:       models.SyncDocument(resp.Body()),
	}, nil
}

// Backup implements [RemoteStore]. A store without a handle is a no-op,
// matching the relay protocol's backup semantics.
func (f *fileRemoteStore) Backup(ctx context.Context) error {
	if f.handle == "" {
		return nil
	}

	req, err := f.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Post(f.base + "/files/" + f.handle + "/copy")
	if err != nil {
		return classifyTransportError(err)
	}

	return mapFileAPIError(resp)
}

func (f *fileRemoteStore) ensureHandle(ctx context.Context) error {
	if f.handle != "" {
		return nil
	}

	req, err := f.authedRequest(ctx)
	if err != nil {
		return err
	}
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(fileResource{Name: "wishes.json"}).
		Post(f.base + "/files")
	if err != nil {
		return classifyTransportError(err)
	}
	if err = mapFileAPIError(resp); err != nil {
		return err
	}

	var created fileResource
	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}
	if created.ID == "" {
		return fmt.Errorf("%w: file creation returned no id", ErrMalformedResponse)
	}

	f.handle = created.ID
	f.logger.Info().Str("handle", created.ID).Msg("created remote sync file")

	if f.onHandle != nil {
		if err = f.onHandle(ctx, created.ID); err != nil {
			return fmt.Errorf("persist remote file handle: %w", err)
		}
	}
	return nil
}

func (f *fileRemoteStore) authedRequest(ctx context.Context) (*resty.Request, error) {
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire access token: %w", err)
	}

	return f.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

func mapFileAPIError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return &RequestFailedError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
