// SPDX-License-Identifier: Apache-2.0

package models

// SyncMetadata describes one side of a sync comparison without carrying the
// document itself. Timestamp is milliseconds since the Unix epoch; Hash is
// the hex fingerprint of the canonical document serialization.
type SyncMetadata struct {
	Exists        bool   `json:"exists"`
	Timestamp     int64  `json:"timestamp,omitempty"`
	Hash          string `json:"hash,omitempty"`
	RecordCount   int    `json:"recordCount"`
	SchemaVersion int    `json:"schemaVersion,omitempty"`

	// Error carries the reason a side degraded to exists:false when the
	// metadata fetch itself failed. Advisory only.
	Error string `json:"error,omitempty"`
}

// ConflictReport is the result of a read-only metadata comparison between
// the local document and the cloud copy.
type ConflictReport struct {
	Status      string       `json:"status"`
	Local       SyncMetadata `json:"local"`
	Cloud       SyncMetadata `json:"cloud"`
	HasConflict bool         `json:"hasConflict"`
}

// NewConflictReport derives the conflict flag from both sides: a conflict
// exists iff both sides hold data and their fingerprints differ.
func NewConflictReport(local, cloud SyncMetadata) ConflictReport {
	return ConflictReport{
		Status:      StatusOK,
		Local:       local,
		Cloud:       cloud,
		HasConflict: local.Exists && cloud.Exists && local.Hash != cloud.Hash,
	}
}
