// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── env source ──────────────────────────────────────────────────────────────

func TestParseEnv(t *testing.T) {
	t.Setenv("SYNC_ENDPOINT_URL", "https://sync.example.com/api.php")
	t.Setenv("SYNC_REQUEST_TIMEOUT", "45s")
	t.Setenv("SYNC_ALL_ACCOUNTS", "true")
	t.Setenv("STORAGE_DATA_DIR", "/tmp/wishsync")
	t.Setenv("APP_VERSION", "1.2.3")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://sync.example.com/api.php", cfg.Sync.EndpointURL)
	assert.Equal(t, 45*time.Second, cfg.Sync.RequestTimeout)
	assert.True(t, cfg.Sync.AllAccounts)
	assert.Equal(t, "/tmp/wishsync", cfg.Storage.DataDir)
	assert.Equal(t, "1.2.3", cfg.App.Version)
}

// ── json source ─────────────────────────────────────────────────────────────

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"app": {"version": "2.0.0"},
		"sync": {"endpoint_url": "https://relay.example.com", "request_timeout": "1m"},
		"storage": {"data_dir": "/data", "backup_dir": "/data/backups"},
		"server": {"http_address": "localhost:9090", "request_timeout": "20s"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "https://relay.example.com", cfg.Sync.EndpointURL)
	assert.Equal(t, time.Minute, cfg.Sync.RequestTimeout)
	assert.Equal(t, "/data/backups", cfg.Storage.BackupDir)
	assert.Equal(t, "localhost:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
}

// ── client view ─────────────────────────────────────────────────────────────

func TestBuildClientConfig_DerivesPathsFromDataDir(t *testing.T) {
	cfg, err := BuildClientConfig(&StructuredConfig{
		Storage: Storage{DataDir: "/srv/wishsync"},
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/wishsync", "wishes.json"), cfg.Storage.DocumentPath)
	assert.Equal(t, filepath.Join("/srv/wishsync", "backups"), cfg.Storage.BackupDir)
	assert.Equal(t, filepath.Join("/srv/wishsync", "state.db"), cfg.Storage.StatePath)
	assert.Equal(t, defaultRequestTimeout, cfg.Sync.RequestTimeout)
}

func TestBuildClientConfig_ExplicitPathsWin(t *testing.T) {
	cfg, err := BuildClientConfig(&StructuredConfig{
		Sync: Sync{RequestTimeout: 10 * time.Second},
		Storage: Storage{
			DataDir:      "/srv/wishsync",
			DocumentPath: "/elsewhere/export.json",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/elsewhere/export.json", cfg.Storage.DocumentPath)
	assert.Equal(t, 10*time.Second, cfg.Sync.RequestTimeout)
}

func TestBuildClientConfig_EndpointMayStayEmpty(t *testing.T) {
	cfg, err := BuildClientConfig(&StructuredConfig{})
	require.NoError(t, err)

	// A missing endpoint is a call-time configuration error, not a startup one.
	assert.Empty(t, cfg.Sync.EndpointURL)
}

func TestBuildClientConfig_BackendDefaultsToScript(t *testing.T) {
	cfg, err := BuildClientConfig(&StructuredConfig{})
	require.NoError(t, err)

	assert.Equal(t, BackendScript, cfg.Sync.Backend)
}

func TestBuildClientConfig_FileBackendCarriesToken(t *testing.T) {
	cfg, err := BuildClientConfig(&StructuredConfig{
		Sync: Sync{Backend: BackendFileAPI, AccessToken: "tok-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, BackendFileAPI, cfg.Sync.Backend)
	assert.Equal(t, "tok-1", cfg.Sync.AccessToken)
}

func TestBuildClientConfig_UnknownBackendRejected(t *testing.T) {
	_, err := BuildClientConfig(&StructuredConfig{
		Sync: Sync{Backend: "carrier-pigeon"},
	})

	assert.ErrorIs(t, err, ErrInvalidSyncConfigs)
}

// ── flag value ──────────────────────────────────────────────────────────────

func TestNetAddress_Set(t *testing.T) {
	var addr NetAddress

	require.NoError(t, addr.Set("localhost:8080"))
	assert.Equal(t, "localhost:8080", addr.String())

	assert.Error(t, addr.Set("no-port"))
	assert.Error(t, addr.Set("localhost:0"))
	assert.Error(t, addr.Set("not-an-ip:80"))
}
