package forwarder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/forwarder"
)

func TestForwardStripsHopByHopHeaders(t *testing.T) {
	var seen http.Header
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodGet, "http://client/unmocked?x=1", nil)
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Transfer-Encoding", "chunked")
	req.Header.Set("X-Custom", "keep-me")

	f := forwarder.New()
	_, err := f.Forward(req, upstream.URL)
	require.NoError(t, err)

	assert.Empty(t, seen.Get("Connection"))
	assert.Empty(t, seen.Get("Transfer-Encoding"))
	assert.Equal(t, "keep-me", seen.Get("X-Custom"))
}

func TestForwardBuildsTargetURLFromBaseAndPath(t *testing.T) {
	var gotPath, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodGet, "http://client/unmocked?x=1", nil)
	f := forwarder.New()
	result, err := f.Forward(req, upstream.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, "/unmocked", gotPath)
	assert.Equal(t, "x=1", gotQuery)
	assert.Equal(t, upstream.URL+"/unmocked?x=1", result.TookURL)
}

func TestForwardRelaysMethodBodyAndStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"created":true}`))
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodPost, "http://client/items", strings.NewReader(`{"a":1}`))
	f := forwarder.New()
	result, err := f.Forward(req, upstream.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, result.Status)
	assert.JSONEq(t, `{"created":true}`, string(result.Body))
}

func TestForwardFailureIsBadGateway(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://client/x", nil)
	f := forwarder.New()
	_, err := f.Forward(req, "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Equal(t, mockd.KindBadGateway, mockd.KindOf(err))
}

func TestForwardRelaysUpstreamResponseHeaders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream-Only", "yes")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodGet, "http://client/x", nil)
	f := forwarder.New()
	result, err := f.Forward(req, upstream.URL)
	require.NoError(t, err)
	assert.Equal(t, "yes", result.Header.Get("X-Upstream-Only"))
}
