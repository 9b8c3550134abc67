// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// ClientApp holds client-side application settings.
type ClientApp struct {
	// Version is stamped into every upload envelope.
	Version string
	// LogPath is the rotating client log file. Empty means stdout.
	LogPath string
}

// ClientSync holds the outbound sync settings used by the transport layer
// and the document generator.
type ClientSync struct {
	// Backend selects the remote store implementation, BackendScript or
	// BackendFileAPI.
	Backend string
	// EndpointURL is the remote store endpoint. May stay empty; operations
	// then fail fast with a configuration error at call time.
	EndpointURL string
	// AccessToken is the bearer token for the file backend.
	AccessToken string
	// RequestTimeout is the fixed timeout for outbound sync requests.
	RequestTimeout time.Duration
	// SchemaPreference selects the export revision to generate.
	SchemaPreference string
	// AllAccounts selects the multi-account export shape.
	AllAccounts bool
}

// ClientStorage groups the client's file-system locations.
type ClientStorage struct {
	// DocumentPath is the local exported wish-history file.
	DocumentPath string
	// BackupDir holds pre-restore snapshots.
	BackupDir string
	// StatePath is the bbolt file with persisted sync state.
	StatePath string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Sync    ClientSync
	Storage ClientStorage
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration (environment + optional JSON file; the
// client's command-line surface belongs to cobra, not the stdlib flag set).
//
// Unset storage paths are derived from the data directory, which itself
// defaults to ~/.wishsync.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfigNoFlags()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return BuildClientConfig(cfg)
}

// BuildClientConfig maps the merged structured configuration to the client
// view, applies defaults, and validates the result.
func BuildClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
			LogPath: cfg.App.LogPath,
		},
		Sync: ClientSync{
			Backend:          cfg.Sync.Backend,
			EndpointURL:      cfg.Sync.EndpointURL,
			AccessToken:      cfg.Sync.AccessToken,
			RequestTimeout:   cfg.Sync.RequestTimeout,
			SchemaPreference: cfg.Sync.SchemaPreference,
			AllAccounts:      cfg.Sync.AllAccounts,
		},
		Storage: ClientStorage{
			DocumentPath: cfg.Storage.DocumentPath,
			BackupDir:    cfg.Storage.BackupDir,
			StatePath:    cfg.Storage.StatePath,
		},
	}

	clientCfg.applyDefaults(cfg.Storage.DataDir)
	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults(dataDir string) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dataDir = ".wishsync"
		} else {
			dataDir = filepath.Join(home, ".wishsync")
		}
	}

	if cfg.Storage.DocumentPath == "" {
		cfg.Storage.DocumentPath = filepath.Join(dataDir, "wishes.json")
	}
	if cfg.Storage.BackupDir == "" {
		cfg.Storage.BackupDir = filepath.Join(dataDir, "backups")
	}
	if cfg.Storage.StatePath == "" {
		cfg.Storage.StatePath = filepath.Join(dataDir, "state.db")
	}
	if cfg.Sync.RequestTimeout <= 0 {
		cfg.Sync.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.Backend == "" {
		cfg.Sync.Backend = BackendScript
	}
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DocumentPath == "" || cfg.Storage.BackupDir == "" || cfg.Storage.StatePath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.RequestTimeout <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Sync.Backend != BackendScript && cfg.Sync.Backend != BackendFileAPI {
		return fmt.Errorf("%w: unknown sync backend %q", ErrInvalidSyncConfigs, cfg.Sync.Backend)
	}

	return nil
}
