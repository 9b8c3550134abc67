// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint computes the hex SHA-256 digest of the canonical JSON form of v.
//
// The value is marshalled, decoded back into untyped form and marshalled
// again: encoding/json emits object keys in sorted order for maps, so two
// documents with the same logical content hash identically regardless of the
// key order they were produced with. The digest is used for equality and
// conflict comparison only.
//
// The only failure mode is a value that cannot be serialized, which is fatal
// to the caller.
func Fingerprint(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	var untyped any
	if err = json.Unmarshal(raw, &untyped); err != nil {
		return "", fmt.Errorf("canonicalize document: %w", err)
	}

	canonical, err := json.Marshal(untyped)
	if err != nil {
		return "", fmt.Errorf("marshal canonical form: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
