package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid after merging and defaulting.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty document path or backup directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid outbound sync settings
	// (for example, a non-positive request timeout).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, a missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
