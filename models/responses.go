// SPDX-License-Identifier: Apache-2.0

package models

// Operation and protocol status values. Every caller-facing result and every
// remote response carries exactly one of these.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RemoteResponse is the JSON body a remote store endpoint returns for every
// action. Fields beyond Status/Error are populated per action: metadata and
// upload report the stored document's attributes, download additionally
// carries the payload verbatim.
type RemoteResponse struct {
	Status        string       `json:"status"`
	Error         string       `json:"error,omitempty"`
	Exists        *bool        `json:"exists,omitempty"`
	Timestamp     int64        `json:"timestamp,omitempty"`
	Hash          string       `json:"hash,omitempty"`
	RecordCount   int          `json:"recordCount,omitempty"`
	SchemaVersion int          `json:"schemaVersion,omitempty"`
	Payload       SyncDocument `json:"payload,omitempty"`
}

// SyncResult is the normalized caller-facing outcome of one sync operation.
// Operations never surface raw errors past this shape; internal failures are
// caught and reported through Error. After a download, BackupPath/
// BackupCreated report the pre-restore snapshot even when the restore itself
// failed, so the caller can recover manually.
type SyncResult struct {
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	Timestamp     int64  `json:"timestamp,omitempty"`
	RecordCount   int    `json:"recordCount,omitempty"`
	BackupPath    string `json:"backupPath,omitempty"`
	BackupCreated bool   `json:"backupCreated,omitempty"`
}
