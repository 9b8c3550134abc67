// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for wishsync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string
	// reported in upload envelopes and the client log location.
	App App `envPrefix:"APP_"`

	// Sync holds the outbound sync settings: remote endpoint, request
	// timeout, and the document-shape knobs.
	Sync Sync `envPrefix:"SYNC_"`

	// Storage holds file-system locations for the local export document,
	// the backup store, and the persisted sync state.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network settings for the reference remote-store server.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged with the values already
	// loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application,
	// stamped into every upload envelope for provenance.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogPath is the client log file location. Empty means stdout.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Recognized values for [Sync.Backend].
const (
	// BackendScript is the script-relay action protocol (the default).
	BackendScript = "script"
	// BackendFileAPI is the legacy direct file API with bearer-token auth.
	BackendFileAPI = "file"
)

// Sync holds the outbound synchronization settings.
type Sync struct {
	// Backend selects the remote store implementation: "script" (default)
	// or "file".
	// Env: SYNC_BACKEND
	Backend string `env:"BACKEND"`

	// EndpointURL is the remote store endpoint: the relay URL for the
	// script backend, the file API root for the file backend.
	// May stay empty; operations then fail fast with a configuration error.
	// Env: SYNC_ENDPOINT_URL
	EndpointURL string `env:"ENDPOINT_URL"`

	// AccessToken is the bearer token for the file backend. Unused by the
	// script backend.
	// Env: SYNC_ACCESS_TOKEN
	AccessToken string `env:"ACCESS_TOKEN"`

	// RequestTimeout bounds every outbound request (e.g. "30s").
	// Env: SYNC_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// SchemaPreference selects which export revision the document
	// generator produces.
	// Env: SYNC_SCHEMA_PREFERENCE
	SchemaPreference string `env:"SCHEMA_PREFERENCE"`

	// AllAccounts selects the multi-account export shape when true.
	// Env: SYNC_ALL_ACCOUNTS
	AllAccounts bool `env:"ALL_ACCOUNTS"`
}

// Storage holds file-system locations used by the client and the server.
type Storage struct {
	// DataDir is the application's private data area. Unset sub-paths are
	// derived from it.
	// Env: STORAGE_DATA_DIR
	DataDir string `env:"DATA_DIR"`

	// DocumentPath is the local exported wish-history file.
	// Env: STORAGE_DOCUMENT_PATH
	DocumentPath string `env:"DOCUMENT_PATH"`

	// BackupDir is where pre-restore snapshots are kept.
	// Env: STORAGE_BACKUP_DIR
	BackupDir string `env:"BACKUP_DIR"`

	// StatePath is the bbolt file holding persisted sync state.
	// Env: STORAGE_STATE_PATH
	StatePath string `env:"STATE_PATH"`
}

// Server holds network settings for the inbound transport layer of the
// reference remote-store server.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on,
	// in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (earlier sources win
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// GetStructuredConfigNoFlags behaves like GetStructuredConfig but skips the
// command-line flag source. Used by the cobra-based client binary, whose
// argument parsing must not compete with the stdlib flag package.
func GetStructuredConfigNoFlags() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withJSON().
		build()
}
