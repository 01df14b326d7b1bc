package network

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

func testNetworkConfig() *models.MConfig {
	return &models.MConfig{
		Name:     "gold-observer-test",
		LogLevel: "error",
		Network: models.MNetworkConfig{
			RequestTimeout: 5,
			MaxRetries:     2,
		},
	}
}

// -----------------------------------------------------------------------------

func TestGet_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int64
	var openBodies atomic.Int64

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer upstream.Close()

	cfg := testNetworkConfig()
	nm := NewAsyncNetworkManager(cfg, logger.NewLogger(cfg, "test"))

	// Wrap the transport to count response bodies still open. Every attempt
	// must close its body before the next one starts.
	base := nm.Client.Transport
	nm.Client.Transport = roundTripFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		openBodies.Add(1)
		resp.Body = &countingBody{ReadCloser: resp.Body, open: &openBodies}
		return resp, nil
	})

	body, err := nm.Get(upstream.URL, map[string]string{"date_from": "1"})
	require.NoError(t, err)
	assert.Equal(t, `{"results":[]}`, string(body))
	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, int64(0), openBodies.Load(), "every attempt must close its response body")
}

func TestGet_ReportsLastErrorAfterRetries(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	cfg := testNetworkConfig()
	cfg.Network.MaxRetries = 0
	nm := NewAsyncNetworkManager(cfg, logger.NewLogger(cfg, "test"))

	_, err := nm.Get(upstream.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

// -----------------------------------------------------------------------------

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

type countingBody struct {
	io.ReadCloser
	open   *atomic.Int64
	closed bool
}

func (b *countingBody) Close() error {
	if !b.closed {
		b.closed = true
		b.open.Add(-1)
	}
	return b.ReadCloser.Close()
}
