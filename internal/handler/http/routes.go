// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	// The relay protocol is a single endpoint: every action POSTs to it,
	// a bare GET is a metadata probe.
	router.Post("/", h.handleAction)
	router.Get("/", h.handleProbe)

	return router
}
