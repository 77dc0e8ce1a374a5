package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/oiwatch/pkg/config"
	"github.com/wonny/oiwatch/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "error",
		Source: config.SourceConfig{
			Timeout: 2 * time.Second,
		},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	client := New(cfg, logger.Nop())

	require.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 2*time.Second, client.Timeout())
	assert.Nil(t, client.limiter, "limiter is off when rate limit is 0")

	cfg.Source.RateLimit = 5
	cfg.Source.RateBurst = 0
	limited := New(cfg, logger.Nop())
	require.NotNil(t, limited.limiter)
	assert.Equal(t, 1, limited.limiter.Burst())
}

func TestNewWithTimeout(t *testing.T) {
	client := NewWithTimeout(testConfig(), logger.Nop(), 7*time.Second)
	assert.Equal(t, 7*time.Second, client.Timeout())
}

func TestFetchBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "oiwatch/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("symbol,price\nBTC,2\n"))
	}))
	defer server.Close()

	body, err := New(testConfig(), logger.Nop()).FetchBytes(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "symbol,price\nBTC,2\n", string(body))
}

func TestFetchBytes_NoRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(testConfig(), logger.Nop()).FetchBytes(context.Background(), server.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestFetchBytes_BodyLimit(t *testing.T) {
	payload := "symbol,price\nBTC,2\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := New(testConfig(), logger.Nop())

	client.maxBody = int64(len(payload))
	body, err := client.FetchBytes(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))

	client.maxBody = int64(len(payload)) - 1
	body, err = client.FetchBytes(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Nil(t, body)
}

func TestFetchBytes_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewWithTimeout(testConfig(), logger.Nop(), 50*time.Millisecond)
	_, err := client.FetchBytes(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(errors.New("connection refused")))
	assert.True(t, IsTimeout(context.DeadlineExceeded))
}

func TestRateLimiterHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	cfg := testConfig()
	cfg.Source.RateLimit = 0.001
	cfg.Source.RateBurst = 1
	client := New(cfg, logger.Nop())

	_, err := client.FetchBytes(context.Background(), server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.FetchBytes(ctx, server.URL)
	assert.Error(t, err)
}
