// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishvault/wishsync/internal/logger"
	"github.com/wishvault/wishsync/models"
)

// newScriptStore создаёт scriptRemoteStore, направленный на тестовый сервер
func newScriptStore(t *testing.T, endpoint string) RemoteStore {
	t.Helper()
	s, err := NewScriptRemoteStore(ScriptStoreConfig{EndpointURL: endpoint}, logger.Nop())
	require.NoError(t, err)
	return s
}

func decodeAction(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

// ── construction ────────────────────────────────────────────────────────────

func TestNewScriptRemoteStore_NoEndpoint(t *testing.T) {
	_, err := NewScriptRemoteStore(ScriptStoreConfig{}, logger.Nop())

	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestNewScriptRemoteStore_SchemeDefaulted(t *testing.T) {
	s, err := NewScriptRemoteStore(ScriptStoreConfig{EndpointURL: "sync.example.com/api.php"}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "http://sync.example.com/api.php", s.(*scriptRemoteStore).endpoint)
}

// ── Metadata ────────────────────────────────────────────────────────────────

func TestMetadata_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body := decodeAction(t, r)
		assert.Equal(t, "metadata", body["action"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","exists":true,"timestamp":1766484930000,"hash":"b2","recordCount":120,"schemaVersion":2}`))
	}))
	defer srv.Close()

	meta, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	require.NoError(t, err)
	assert.True(t, meta.Exists)
	assert.Equal(t, "b2", meta.Hash)
	assert.Equal(t, 120, meta.RecordCount)
	assert.Equal(t, int64(1766484930000), meta.Timestamp)
}

func TestMetadata_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// HTTP-level success carrying a protocol-level failure.
		_, _ = w.Write([]byte(`{"status":"error","error":"storage quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "storage quota exceeded", remoteErr.Message)
}

// ── redirects ───────────────────────────────────────────────────────────────

func TestRequest_RelativeRedirectCompletesAsGET(t *testing.T) {
	var gotMethod, gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/api.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "relay/final.php")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/relay/final.php", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"ok","exists":false}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	meta, err := newScriptStore(t, srv.URL+"/api.php").Metadata(context.Background())

	require.NoError(t, err)
	assert.False(t, meta.Exists)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/relay/final.php", gotPath)
}

func TestRequest_AbsoluteRedirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"status":"ok","exists":true,"hash":"a1"}`))
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusMovedPermanently)
	}))
	defer redirecting.Close()

	meta, err := newScriptStore(t, redirecting.URL).Metadata(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "a1", meta.Hash)
}

func TestRequest_RedirectLoopBounded(t *testing.T) {
	hops := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, "/again", http.StatusFound)
	}))
	defer srv.Close()

	_, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	assert.ErrorIs(t, err, ErrRedirectLoop)
	assert.Equal(t, maxRedirectHops+1, hops)
}

func TestRequest_RedirectWithoutLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	_, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

// ── failure classification ──────────────────────────────────────────────────

func TestRequest_HTTPFailureCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	_, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	var reqErr *RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusTooManyRequests, reqErr.StatusCode)
	assert.Equal(t, "slow down", reqErr.Body)
}

func TestRequest_BodyNotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>truncated by proxy"))
	}))
	defer srv.Close()

	_, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	assert.ErrorIs(t, err, ErrResponseFormat)
}

func TestRequest_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use

	_, err := newScriptStore(t, srv.URL).Metadata(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRequest_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	s, err := NewScriptRemoteStore(ScriptStoreConfig{EndpointURL: srv.URL, Timeout: 20 * time.Millisecond}, logger.Nop())
	require.NoError(t, err)

	_, err = s.Metadata(context.Background())

	assert.ErrorIs(t, err, ErrTimeout)
}

// ── Upload / Download / Backup ──────────────────────────────────────────────

func TestUpload_SendsEnvelopeWithUploadAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeAction(t, r)
		assert.Equal(t, "upload", body["action"])
		assert.Equal(t, "client-1", body["clientId"])
		assert.EqualValues(t, 2, body["schemaVersion"])

		_, _ = w.Write([]byte(`{"status":"ok","timestamp":1766484930000,"hash":"a1","recordCount":100}`))
	}))
	defer srv.Close()

	resp, err := newScriptStore(t, srv.URL).Upload(context.Background(), models.SyncEnvelope{
		SchemaVersion: models.SchemaVersion,
		ClientID:      "client-1",
		DataHash:      "a1",
		Payload:       models.SyncDocument(`{"version":1,"wishes":[]}`),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1766484930000), resp.Timestamp)
	assert.Equal(t, 100, resp.RecordCount)
}

func TestDownload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeAction(t, r)
		assert.Equal(t, "download", body["action"])

		_, _ = w.Write([]byte(`{"status":"ok","schemaVersion":2,"timestamp":5,"hash":"a1","payload":{"version":1,"wishes":[{"id":"1"}]}}`))
	}))
	defer srv.Close()

	envelope, err := newScriptStore(t, srv.URL).Download(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, envelope.SchemaVersion)
	assert.Equal(t, 1, models.CountRecords(envelope.Payload))
}

func TestDownload_MissingPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","schemaVersion":2}`))
	}))
	defer srv.Close()

	_, err := newScriptStore(t, srv.URL).Download(context.Background())

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBackup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeAction(t, r)
		assert.Equal(t, "backup", body["action"])
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	err := newScriptStore(t, srv.URL).Backup(context.Background())

	assert.NoError(t, err)
}
