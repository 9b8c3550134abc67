// SPDX-License-Identifier: Apache-2.0

package service

import "errors"

var (
	// ErrSyncInProgress rejects an upload or download that would overlap a
	// running one. The caller retries after the current operation settles.
	ErrSyncInProgress = errors.New("another sync operation is already running")

	// ErrNoLocalDocument marks an upload attempted before any wish history
	// has been exported locally.
	ErrNoLocalDocument = errors.New("no local wish history to upload")
)
