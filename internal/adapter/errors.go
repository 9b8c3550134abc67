// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrNoEndpoint is a configuration failure: no remote endpoint was
	// configured and none was supplied explicitly. Raised before any I/O.
	ErrNoEndpoint = errors.New("no sync endpoint configured")

	// ErrTimeout marks a request aborted by the fixed transport timeout.
	ErrTimeout = errors.New("sync request timed out")

	// ErrRedirectLoop marks a redirect chain that exceeded the hop bound.
	ErrRedirectLoop = errors.New("too many redirects")

	// ErrResponseFormat marks a 2xx response whose body is not valid JSON.
	ErrResponseFormat = errors.New("remote response is not valid JSON")

	// ErrMalformedResponse marks a protocol-level violation in an otherwise
	// well-formed response, e.g. a download without a payload field.
	ErrMalformedResponse = errors.New("malformed remote response")

	// ErrIncompatibleVersion marks an envelope whose schema version exceeds
	// the version this build supports. Fatal until the client is updated.
	ErrIncompatibleVersion = errors.New("remote schema version is newer than supported")
)

// RequestFailedError reports a non-success HTTP status together with the raw
// response body for diagnostics.
type RequestFailedError struct {
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, body)
}

// RemoteError is an application-level failure reported by the remote store
// inside an otherwise successful HTTP response. The message is surfaced to
// the user verbatim.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "remote store reported an error"
	}
	return e.Message
}

// classifyTransportError separates timeouts from other network-level
// failures. Network faults are wrapped, not swallowed, so the original
// message reaches the user.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("transport failure: %w", err)
}
