// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/wishvault/wishsync/internal/config"
	handler "github.com/wishvault/wishsync/internal/handler/http"
	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/server"
	"github.com/wishvault/wishsync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("wishsync-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	documentStore := store.NewRemoteDocumentStore(cfg.Storage.DataDir)
	h := handler.NewHandler(documentStore, cfg.App.Version, log)

	srv := server.NewServer(h.Init(), cfg.HTTP, log)
	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
