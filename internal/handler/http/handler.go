// SPDX-License-Identifier: Apache-2.0

package http

import (
	"time"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
)

// Handler serves the remote store protocol for the reference sync endpoint.
type Handler struct {
	store      *store.RemoteDocumentStore
	appVersion string
	clock      func() time.Time

	logger *logger.Logger
}

func NewHandler(documentStore *store.RemoteDocumentStore, appVersion string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		store:      documentStore,
		appVersion: appVersion,
		clock:      time.Now,
		logger:     logger,
	}
}
