// SPDX-License-Identifier: Apache-2.0

package models

// SyncSettings is the persisted sync state and the knobs that select which
// document shape the generator/importer works with. It is loaded at call
// time for every operation and saved back only after a confirmed successful
// upload or download, never speculatively.
type SyncSettings struct {
	// EndpointURL is the remote store endpoint for the script-relay path.
	EndpointURL string `json:"endpointUrl,omitempty"`

	// ClientID is a stable random identifier generated once per
	// installation. Used only for provenance tagging of uploads, never for
	// authentication.
	ClientID string `json:"clientId,omitempty"`

	// LastSyncTimestamp is the moment of the last confirmed upload or
	// download, in milliseconds since the Unix epoch. Zero means never
	// synced. Also serves as the local-modification timestamp proxy.
	LastSyncTimestamp int64 `json:"lastSyncTimestamp,omitempty"`

	// RemoteFileHandle identifies the stored file on the legacy direct
	// file-API path. Empty until the first upload creates it.
	RemoteFileHandle string `json:"remoteFileHandle,omitempty"`

	// SchemaPreference selects which export revision the document
	// generator produces.
	SchemaPreference string `json:"schemaPreference,omitempty"`

	// AllAccounts selects the multi-account export shape when true.
	AllAccounts bool `json:"allAccounts,omitempty"`
}
