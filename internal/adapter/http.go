// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/models"
)

const (
	defaultRequestTimeout = 30 * time.Second

	// maxRedirectHops bounds endpoint-initiated redirect chains. Naive
	// relay backends are known to answer with redirects; an unbounded
	// chain must fail instead of recursing forever.
	maxRedirectHops = 5
)

// ScriptStoreConfig configures the script-relay remote store.
type ScriptStoreConfig struct {
	// EndpointURL is the relay endpoint all actions are POSTed to.
	EndpointURL string
	// Timeout bounds every request including redirect hops. Zero means the
	// 30s default.
	Timeout time.Duration
}

// scriptRemoteStore talks to a relay endpoint implementing the action
// protocol: every call POSTs a JSON body with an "action" field and reads a
// JSON {status, ...} response. Redirects are followed manually as GETs.
type scriptRemoteStore struct {
	client   *resty.Client
	endpoint string

	logger *logger.Logger
}

// NewScriptRemoteStore constructs the script-relay implementation of
// [RemoteStore]. The endpoint URL is normalised (scheme defaulting to http)
// and validated; automatic redirect following is disabled so the adapter can
// apply the protocol's resolve-and-GET rule with an explicit hop bound.
//
// Returns ErrNoEndpoint when cfg.EndpointURL is empty.
func NewScriptRemoteStore(cfg ScriptStoreConfig, logger *logger.Logger) (RemoteStore, error) {
	endpoint, err := normalizeEndpointURL(cfg.EndpointURL)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy())

	return &scriptRemoteStore{client: client, endpoint: endpoint, logger: logger}, nil
}

func normalizeEndpointURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoEndpoint
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid sync endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid sync endpoint %q: must include host and scheme", raw)
	}

	return u.String(), nil
}

// Metadata implements [RemoteStore]. It POSTs {action: "metadata"} and maps
// the response to a SyncMetadata.
func (s *scriptRemoteStore) Metadata(ctx context.Context) (models.SyncMetadata, error) {
	resp, err := s.call(ctx, models.ActionRequest{Action: models.ActionMetadata})
	if err != nil {
		return models.SyncMetadata{}, err
	}

	return models.SyncMetadata{
		Exists:        resp.Exists != nil && *resp.Exists,
		Timestamp:     resp.Timestamp,
		Hash:          resp.Hash,
		RecordCount:   resp.RecordCount,
		SchemaVersion: resp.SchemaVersion,
	}, nil
}

// Upload implements [RemoteStore]. The envelope's action field is forced to
// "upload" so callers cannot accidentally smuggle another action.
func (s *scriptRemoteStore) Upload(ctx context.Context, envelope models.SyncEnvelope) (models.RemoteResponse, error) {
	envelope.Action = models.ActionUpload
	return s.call(ctx, envelope)
}

// Download implements [RemoteStore].
func (s *scriptRemoteStore) Download(ctx context.Context) (models.SyncEnvelope, error) {
	resp, err := s.call(ctx, models.ActionRequest{Action: models.ActionDownload})
	if err != nil {
		return models.SyncEnvelope{}, err
	}

	if len(resp.Payload) == 0 {
		return models.SyncEnvelope{}, fmt.Errorf("%w: download response carries no payload", ErrMalformedResponse)
	}

	return models.SyncEnvelope{
		SchemaVersion: resp.SchemaVersion,
		Timestamp:     resp.Timestamp,
		DataHash:      resp.Hash,
		Payload:       resp.Payload,
	}, nil
}

// Backup implements [RemoteStore].
func (s *scriptRemoteStore) Backup(ctx context.Context) error {
	_, err := s.call(ctx, models.ActionRequest{Action: models.ActionBackup})
	return err
}

// call POSTs payload to the configured endpoint and resolves the response,
// following redirects per the protocol rules.
func (s *scriptRemoteStore) call(ctx context.Context, payload any) (models.RemoteResponse, error) {
	return s.request(ctx, payload, s.endpoint, 0)
}

// request performs one hop. payload is sent as a POST body on the first hop
// only; endpoint-initiated redirects are re-issued as bodyless GETs against
// the resolved Location, bounded by maxRedirectHops.
func (s *scriptRemoteStore) request(ctx context.Context, payload any, target string, hop int) (models.RemoteResponse, error) {
	var parsed models.RemoteResponse

	if hop > maxRedirectHops {
		return parsed, fmt.Errorf("%w: gave up after %d hops", ErrRedirectLoop, hop)
	}

	req := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")

	var resp *resty.Response
	var err error
	if payload != nil && hop == 0 {
		resp, err = req.SetBody(payload).Post(target)
	} else {
		resp, err = req.Get(target)
	}

	// With automatic redirects disabled resty surfaces a 3xx as a response
	// plus resty.ErrAutoRedirectDisabled; the redirect check must run before
	// the error check.
	if resp != nil && resp.StatusCode() >= http.StatusMultipleChoices && resp.StatusCode() < http.StatusBadRequest {
		next, rerr := resolveLocation(target, resp.Header().Get("Location"))
		if rerr != nil {
			return parsed, rerr
		}
		s.logger.Debug().Str("from", target).Str("to", next).Int("hop", hop+1).Msg("following sync endpoint redirect")
		return s.request(ctx, nil, next, hop+1)
	}

	if err != nil {
		return parsed, classifyTransportError(err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return parsed, &RequestFailedError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	if err = json.Unmarshal(resp.Body(), &parsed); err != nil {
		return models.RemoteResponse{}, fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}

	// HTTP-level success does not imply protocol-level success.
	if parsed.Status == models.StatusError {
		return models.RemoteResponse{}, &RemoteError{Message: parsed.Error}
	}

	return parsed, nil
}

// resolveLocation resolves a redirect target (absolute or relative) against
// the URL the redirect came from.
func resolveLocation(current, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: redirect without Location header", ErrMalformedResponse)
	}

	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parse redirect base %q: %w", current, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse redirect target %q: %w", location, err)
	}

	return base.ResolveReference(ref).String(), nil
}
