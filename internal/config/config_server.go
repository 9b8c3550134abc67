// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"time"
)

const defaultServerAddress = "localhost:8080"

// ServerApp holds application-level settings for the reference server.
type ServerApp struct {
	// Version is reported back to probing clients.
	Version string
}

// ServerHTTP holds inbound network settings.
type ServerHTTP struct {
	// HTTPAddress is the listen address in "host:port" format.
	HTTPAddress string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
}

// ServerStorage holds the server-side document store location.
type ServerStorage struct {
	// DataDir is where the stored document, its metadata sidecar, and the
	// backups directory live.
	DataDir string
}

// ServerConfig is the top-level configuration for the reference remote-store
// server, assembled from [StructuredConfig].
type ServerConfig struct {
	App     ServerApp
	HTTP    ServerHTTP
	Storage ServerStorage
}

// GetServerConfig builds and validates the server config view from the
// merged structured configuration (environment + flags + optional JSON).
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			Version: cfg.App.Version,
		},
		HTTP: ServerHTTP{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Storage: ServerStorage{
			DataDir: cfg.Storage.DataDir,
		},
	}

	if serverCfg.HTTP.HTTPAddress == "" {
		serverCfg.HTTP.HTTPAddress = defaultServerAddress
	}
	if serverCfg.HTTP.RequestTimeout <= 0 {
		serverCfg.HTTP.RequestTimeout = defaultRequestTimeout
	}
	if serverCfg.Storage.DataDir == "" {
		serverCfg.Storage.DataDir = "wishsync-data"
	}

	return serverCfg, serverCfg.validate()
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTP.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Storage.DataDir == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
