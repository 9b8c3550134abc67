package store

import "errors"

var (
	// ErrNoLocalData is returned by document generation when no exported
	// wish history exists yet. Callers treat this as a valid empty state,
	// not a failure.
	ErrNoLocalData = errors.New("no local wish data")

	// ErrUnrecognizedFormat is returned when a document matches neither the
	// multi-account nor the single-account shape, or lacks the required
	// top-level version descriptor.
	ErrUnrecognizedFormat = errors.New("unrecognized wish document format")

	// ErrNothingStored is returned by the server-side document store when a
	// download is requested before anything was uploaded.
	ErrNothingStored = errors.New("no document stored")
)
