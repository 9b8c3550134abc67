// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"

	"github.com/wishvault/wishsync/models"
)

// RemoteStore is the capability a sync backend must provide. The sync core
// depends only on this interface; two implementations exist, the
// script-relay protocol (NewScriptRemoteStore) and the legacy direct
// file API (NewFileRemoteStore).
type RemoteStore interface {
	// Metadata reports the remote copy's attributes without transferring
	// the document, where the backend allows it.
	Metadata(ctx context.Context) (models.SyncMetadata, error)

	// Upload sends a full envelope and returns the remote's receipt
	// (stored timestamp, hash, record count).
	Upload(ctx context.Context, envelope models.SyncEnvelope) (models.RemoteResponse, error)

	// Download fetches the stored document wrapped in its envelope
	// metadata. Returns ErrMalformedResponse when the remote answers
	// without a payload.
	Download(ctx context.Context) (models.SyncEnvelope, error)

	// Backup asks the remote to snapshot its stored copy.
	Backup(ctx context.Context) error
}

// TokenSource supplies a bearer token for the direct file API. Token
// acquisition and refresh are owned by the caller; the adapter never
// inspects the token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
