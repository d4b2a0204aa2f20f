package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_ReturnsResponseVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Client"))
		w.Header().Set("Content-Type", "text/javascript")
		w.Header().Set("X-Origin", "1")
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "teapot body")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/other.js", nil)
	require.NoError(t, err)
	req.Header.Set("X-Client", "yes")

	resp, err := NewFetcher(Options{}).Fetch(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "418 I'm a teapot", resp.Status)
	assert.Equal(t, "text/javascript", resp.Header.Get("Content-Type"))
	assert.Equal(t, "1", resp.Header.Get("X-Origin"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "teapot body", string(b))
}

func TestFetcher_ForwardsMethodAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_, _ = io.WriteString(w, r.Method+":"+string(b))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/submit", strings.NewReader("payload"))
	require.NoError(t, err)

	resp, err := NewFetcher(Options{}).Fetch(context.Background(), req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "POST:payload", string(b))
}

func TestFetcher_RepeatedFetchesHitTheNetwork(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	f := NewFetcher(Options{})
	for range 3 {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
		require.NoError(t, err)
		_, err = f.Fetch(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, hits)
}

func TestFetcher_LargeBodyIsNotTruncated(t *testing.T) {
	payload := strings.Repeat("x", MaxResponseSize+1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/big", nil)
	require.NoError(t, err)
	resp, err := NewFetcher(Options{}).Fetch(context.Background(), req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, b, len(payload))
}

func TestFetcher_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/big" {
			_, _ = io.WriteString(w, strings.Repeat("x", 101))
			return
		}
		_, _ = io.WriteString(w, strings.Repeat("x", 100))
	}))
	defer srv.Close()

	f := NewFetcher(Options{MaxBodySize: 100})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/big", nil)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), req)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/fits", nil)
	require.NoError(t, err)
	resp, err := f.Fetch(context.Background(), req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, b, 100)
}

func TestFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	req, err := http.NewRequest(http.MethodGet, addr+"/", nil)
	require.NoError(t, err)
	_, err = NewFetcher(Options{}).Fetch(context.Background(), req)
	assert.Error(t, err)
}

func TestFetcher_RejectsNonHTTP(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "ftp://example.test/file", nil)
	require.NoError(t, err)
	_, err = NewFetcher(Options{}).Fetch(context.Background(), req)
	assert.ErrorContains(t, err, "http:// or https://")
}

func TestFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)
	_, err = NewFetcher(Options{}).Fetch(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}
