// SPDX-License-Identifier: Apache-2.0

package models

// SchemaVersion is the wire-protocol schema revision this build speaks.
// Receivers must reject envelopes carrying a higher version before touching
// the payload.
const SchemaVersion = 2

// Actions understood by a remote store endpoint.
const (
	ActionMetadata = "metadata"
	ActionUpload   = "upload"
	ActionDownload = "download"
	ActionBackup   = "backup"
)

// ActionRequest is the minimal body for actions that carry no document.
type ActionRequest struct {
	Action string `json:"action"`
}

// SyncEnvelope wraps a SyncDocument with provenance and schema metadata for
// transport. Timestamps are milliseconds since the Unix epoch.
type SyncEnvelope struct {
	Action        string       `json:"action,omitempty"`
	SchemaVersion int          `json:"schemaVersion"`
	AppVersion    string       `json:"appVersion,omitempty"`
	ClientID      string       `json:"clientId,omitempty"`
	Timestamp     int64        `json:"timestamp"`
	DataHash      string       `json:"dataHash,omitempty"`
	Payload       SyncDocument `json:"payload,omitempty"`
}
