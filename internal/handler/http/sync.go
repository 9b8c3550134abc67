// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/internal/store"
	"github.com/wishvault/wishsync/internal/utils"
	"github.com/wishvault/wishsync/models"
)

// handleAction dispatches one protocol action. Protocol-level failures ride
// inside a 200 response as {status: "error"}; only an unreadable request
// body is an HTTP-level failure.
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var envelope models.SyncEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		log.Warn().Err(err).Msg("undecodable action request")
		h.respondError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	switch envelope.Action {
	case models.ActionMetadata:
		h.metadata(w, r)
	case models.ActionUpload:
		h.upload(w, r, envelope)
	case models.ActionDownload:
		h.download(w, r)
	case models.ActionBackup:
		h.backup(w, r)
	default:
		h.respondError(w, http.StatusOK, fmt.Sprintf("unknown action %q", envelope.Action))
	}
}

// handleProbe answers a bare GET with the stored document's metadata, so a
// redirect-following client that lost its POST body still gets a usable
// response.
func (h *Handler) handleProbe(w http.ResponseWriter, r *http.Request) {
	h.metadata(w, r)
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.Metadata()
	if err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("read stored metadata")
		h.respondError(w, http.StatusOK, "stored metadata is unreadable")
		return
	}

	h.respond(w, models.RemoteResponse{
		Status:        models.StatusOK,
		Exists:        &meta.Exists,
		Timestamp:     meta.Timestamp,
		Hash:          meta.Hash,
		RecordCount:   meta.RecordCount,
		SchemaVersion: meta.SchemaVersion,
	})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, envelope models.SyncEnvelope) {
	log := logger.FromRequest(r)

	if envelope.SchemaVersion > models.SchemaVersion {
		h.respondError(w, http.StatusOK, fmt.Sprintf(
			"unsupported schema version %d, this endpoint supports up to %d",
			envelope.SchemaVersion, models.SchemaVersion))
		return
	}

	if models.DetectShape(envelope.Payload) == models.ShapeUnknown {
		h.respondError(w, http.StatusOK, "payload is not a recognized wish-history document")
		return
	}

	// The stored hash is recomputed server-side; the client's dataHash is
	// advisory and a mismatch points at transport corruption.
	hash, err := utils.Fingerprint(envelope.Payload)
	if err != nil {
		log.Error().Err(err).Msg("fingerprint uploaded payload")
		h.respondError(w, http.StatusOK, "payload could not be fingerprinted")
		return
	}
	if envelope.DataHash != "" && envelope.DataHash != hash {
		h.respondError(w, http.StatusOK, "payload hash does not match dataHash")
		return
	}

	now := h.clock()
	timestamp := envelope.Timestamp
	if timestamp == 0 {
		timestamp = now.UnixMilli()
	}

	meta := store.StoredMeta{
		Timestamp:     timestamp,
		Hash:          hash,
		SchemaVersion: envelope.SchemaVersion,
		RecordCount:   models.CountRecords(envelope.Payload),
		ClientID:      envelope.ClientID,
		AppVersion:    envelope.AppVersion,
	}

	if err = h.store.Save(envelope.Payload, meta, now); err != nil {
		log.Error().Err(err).Msg("persist uploaded document")
		h.respondError(w, http.StatusOK, "document could not be stored")
		return
	}

	log.Info().Str("clientId", envelope.ClientID).Int("records", meta.RecordCount).Msg("stored uploaded document")

	h.respond(w, models.RemoteResponse{
		Status:        models.StatusOK,
		Timestamp:     meta.Timestamp,
		Hash:          meta.Hash,
		RecordCount:   meta.RecordCount,
		SchemaVersion: meta.SchemaVersion,
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	stored, err := h.store.Load()
	if errors.Is(err, store.ErrNothingStored) {
		exists := false
		if werr := utils.WriteJSON(w, models.RemoteResponse{
			Status: models.StatusError,
			Error:  "no document stored",
			Exists: &exists,
		}, http.StatusOK); werr != nil {
			logger.FromRequest(r).Error().Err(werr).Msg("write download response")
		}
		return
	}
	if err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("load stored document")
		h.respondError(w, http.StatusOK, "stored document is unreadable")
		return
	}

	h.respond(w, models.RemoteResponse{
		Status:        models.StatusOK,
		Timestamp:     stored.Meta.Timestamp,
		Hash:          stored.Meta.Hash,
		RecordCount:   stored.Meta.RecordCount,
		SchemaVersion: stored.Meta.SchemaVersion,
		Payload:       stored.Payload,
	})
}

func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Backup(h.clock())
	if err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("backup stored document")
		h.respondError(w, http.StatusOK, "stored document could not be backed up")
		return
	}
	if path != "" {
		logger.FromRequest(r).Info().Str("path", path).Msg("backed up stored document")
	}

	h.respond(w, models.RemoteResponse{Status: models.StatusOK})
}

func (h *Handler) respond(w http.ResponseWriter, resp models.RemoteResponse) {
	if err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		h.logger.Error().Err(err).Msg("write action response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	if err := utils.WriteJSON(w, models.RemoteResponse{Status: models.StatusError, Error: message}, statusCode); err != nil {
		h.logger.Error().Err(err).Msg("write action error response")
	}
}
