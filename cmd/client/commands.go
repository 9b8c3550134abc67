// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wishvault/wishsync/internal/adapter"
	"github.com/wishvault/wishsync/internal/config"
	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/service"
	"github.com/wishvault/wishsync/internal/store"
	"github.com/wishvault/wishsync/models"
)

var flagEndpoint string

var rootCmd = &cobra.Command{
	Use:   "wishsync",
	Short: "Synchronize the exported wish history with a remote store",
	Long: `wishsync keeps the locally exported wish-history document and a remote
copy in step. The remote side is any endpoint speaking the action protocol
(POST with an "action" field, JSON responses); the reference server in this
repository is one such endpoint.

Configuration comes from the environment, an optional JSON config file, and
the --endpoint flag, in that order of increasing precedence. The endpoint
used last is remembered, so later runs may omit it. SYNC_BACKEND selects the
remote store implementation: "script" (default) or "file" for the legacy
bearer-token file API.`,
	SilenceUsage: true,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the local document with the cloud copy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := wire()
		if err != nil {
			return err
		}
		defer app.close()

		report := app.services.SyncService.Status(cmd.Context())
		return printJSON(report)
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Push the local document to the remote store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := wire()
		if err != nil {
			return err
		}
		defer app.close()

		return printResult(app.services.SyncService.Upload(cmd.Context()))
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Replace the local document with the cloud copy",
	Long: `Replace the local document with the cloud copy. The current local
document is snapshotted into the backup directory first; the snapshot path is
reported in the result even when the restore fails.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := wire()
		if err != nil {
			return err
		}
		defer app.close()

		return printResult(app.services.SyncService.Download(cmd.Context()))
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the local document into the backup directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := wire()
		if err != nil {
			return err
		}
		defer app.close()

		path, err := app.services.BackupService.CreateLocalBackup(cmd.Context())
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Println("nothing to back up: no local wish history")
			return nil
		}
		fmt.Printf("backup written to %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(_ *cobra.Command, _ []string) {
		printBuildInfo()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEndpoint, "endpoint", "e", "", "remote store endpoint URL")
	rootCmd.AddCommand(statusCmd, uploadCmd, downloadCmd, backupCmd, versionCmd)
}

type clientApp struct {
	services *service.ClientServices
	settings store.SettingsStore
}

func (a *clientApp) close() {
	_ = a.settings.Close()
}

// wire assembles the client service graph: config, logger, persisted state,
// the remote store adapter, and the sync services on top.
func wire() (*clientApp, error) {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.NewClientLogger("wishsync-client", cfg.App.LogPath)

	settings, err := store.NewBoltSettingsStore(cfg.Storage.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	endpoint, err := resolveEndpoint(settings, cfg)
	if err != nil {
		_ = settings.Close()
		return nil, err
	}

	remote, err := buildRemoteStore(cfg, endpoint, settings, log)
	if err != nil {
		_ = settings.Close()
		return nil, err
	}

	documents := store.NewLocalDocumentStore(cfg.Storage.DocumentPath)
	backups := store.NewBackupStore(cfg.Storage.BackupDir)

	services := service.NewClientServices(documents, documents, remote, settings, backups, cfg.App.Version, log)

	return &clientApp{services: services, settings: settings}, nil
}

// buildRemoteStore selects the remote store implementation from the
// configured backend. The file backend reads its remembered file handle from
// the settings store and persists a newly created one through the same store.
func buildRemoteStore(cfg *config.ClientConfig, endpoint string, settings store.SettingsStore, log *logger.Logger) (adapter.RemoteStore, error) {
	switch cfg.Sync.Backend {
	case config.BackendFileAPI:
		saved, err := settings.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("load sync state: %w", err)
		}

		onHandle := func(ctx context.Context, handle string) error {
			current, err := settings.Load(ctx)
			if err != nil {
				return err
			}
			current.RemoteFileHandle = handle
			return settings.Save(ctx, current)
		}

		return adapter.NewFileRemoteStore(adapter.FileStoreConfig{
			BaseURL:    endpoint,
			FileHandle: saved.RemoteFileHandle,
			Timeout:    cfg.Sync.RequestTimeout,
		}, adapter.StaticTokenSource(cfg.Sync.AccessToken), onHandle, log)
	default:
		return adapter.NewScriptRemoteStore(adapter.ScriptStoreConfig{
			EndpointURL: endpoint,
			Timeout:     cfg.Sync.RequestTimeout,
		}, log)
	}
}

// resolveEndpoint picks the endpoint with flag > config > remembered
// precedence and persists the winner for later runs.
func resolveEndpoint(settings store.SettingsStore, cfg *config.ClientConfig) (string, error) {
	ctx := context.Background()

	saved, err := settings.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load sync state: %w", err)
	}

	endpoint := saved.EndpointURL
	if cfg.Sync.EndpointURL != "" {
		endpoint = cfg.Sync.EndpointURL
	}
	if flagEndpoint != "" {
		endpoint = flagEndpoint
	}
	if endpoint == "" {
		return "", adapter.ErrNoEndpoint
	}

	changed := endpoint != saved.EndpointURL
	if cfg.Sync.SchemaPreference != "" && cfg.Sync.SchemaPreference != saved.SchemaPreference {
		saved.SchemaPreference = cfg.Sync.SchemaPreference
		changed = true
	}
	if cfg.Sync.AllAccounts != saved.AllAccounts {
		saved.AllAccounts = cfg.Sync.AllAccounts
		changed = true
	}
	if changed {
		saved.EndpointURL = endpoint
		if err = settings.Save(ctx, saved); err != nil {
			return "", fmt.Errorf("remember sync settings: %w", err)
		}
	}

	return endpoint, nil
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}

// printResult emits the normalized result and maps a failed operation to a
// non-zero exit code without double-printing through cobra.
func printResult(res models.SyncResult) error {
	if err := printJSON(res); err != nil {
		return err
	}
	if res.Status == models.StatusError {
		os.Exit(1)
	}
	return nil
}
