// SPDX-License-Identifier: Apache-2.0

package models

import "encoding/json"

// SyncDocument is the exported wish-history record set being synchronized.
// The sync core treats it as opaque JSON: only shape detection and record
// counting look inside, everything else moves the bytes verbatim.
type SyncDocument = json.RawMessage

// DocumentShape classifies the two recognized export layouts.
type DocumentShape int

const (
	// ShapeUnknown marks a document that matches neither recognized layout
	// or lacks the required top-level version descriptor.
	ShapeUnknown DocumentShape = iota

	// ShapeSingleAccount is a flat export: {"version": n, "wishes": [...]}.
	ShapeSingleAccount

	// ShapeMultiAccount groups records per account uid:
	// {"version": n, "accounts": {"<uid>": [...]}}.
	ShapeMultiAccount
)

// documentHeader is the subset of a SyncDocument the sync core inspects.
type documentHeader struct {
	Version  *int                         `json:"version"`
	Accounts map[string][]json.RawMessage `json:"accounts"`
	Wishes   []json.RawMessage            `json:"wishes"`
}

// DetectShape classifies doc into one of the recognized export layouts.
// The top-level "version" descriptor is required; a document without it is
// ShapeUnknown even when the rest of the layout looks familiar.
func DetectShape(doc SyncDocument) DocumentShape {
	var hdr documentHeader
	if err := json.Unmarshal(doc, &hdr); err != nil {
		return ShapeUnknown
	}

	switch {
	case hdr.Version == nil:
		return ShapeUnknown
	case hdr.Accounts != nil:
		return ShapeMultiAccount
	case hdr.Wishes != nil:
		return ShapeSingleAccount
	}
	return ShapeUnknown
}

// CountRecords reports how many wish records doc holds: the sum of every
// account bucket for a multi-account export, the length of the flat list for
// a single-account export, and zero for anything else.
func CountRecords(doc SyncDocument) int {
	var hdr documentHeader
	if err := json.Unmarshal(doc, &hdr); err != nil {
		return 0
	}

	if hdr.Accounts != nil {
		total := 0
		for _, bucket := range hdr.Accounts {
			total += len(bucket)
		}
		return total
	}

	return len(hdr.Wishes)
}
