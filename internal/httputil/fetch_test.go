// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://api.zotero.org/users/1/items"))
	assert.True(t, IsRemote("http://localhost:8080/library.bib"))
	assert.False(t, IsRemote("library.bib"))
	assert.False(t, IsRemote("/home/user/library.json"))
	assert.False(t, IsRemote("ftp://host/file"))
}

func TestFetchExport(t *testing.T) {
	var gotKey, gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Zotero-API-Key")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`@article{a, title = {T}}`))
	}))
	defer ts.Close()

	data, err := FetchExport(context.Background(), ts.Client(), ts.URL, "zk_secret", "citelib/test")
	require.NoError(t, err)

	assert.Equal(t, `@article{a, title = {T}}`, string(data))
	assert.Equal(t, "zk_secret", gotKey)
	assert.Equal(t, "citelib/test", gotAgent)
}

func TestFetchExportNoAPIKey(t *testing.T) {
	var sawKeyHeader bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawKeyHeader = r.Header["Zotero-Api-Key"]
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	_, err := FetchExport(context.Background(), ts.Client(), ts.URL, "", "")
	require.NoError(t, err)
	assert.False(t, sawKeyHeader, "empty api key must not send the header")
}

func TestFetchExportErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := FetchExport(context.Background(), ts.Client(), ts.URL, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchExportRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	data, err := FetchExport(context.Background(), ts.Client(), ts.URL, "", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_ExhaustedReturnsLast429(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 2)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	require.Error(t, err)
}
