package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/internal/transport"
	"github.com/nomina-io/nomina/pkg/errors"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 42}`))
	}))
	defer server.Close()

	client := transport.New()

	var out struct {
		Value int `json:"value"`
	}
	err := client.GetJSON(context.Background(), "test", server.URL, map[string][]string{"foo": {"bar"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
}

func TestGetJSONNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := transport.New()
	var out map[string]any
	err := client.GetJSON(context.Background(), "wikidata", server.URL, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestGetJSONMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := transport.New()
	var out map[string]any
	err := client.GetJSON(context.Background(), "viaf", server.URL, nil, &out)
	require.Error(t, err)

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGetJSONTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(WithShortTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out map[string]any
	err := client.GetJSON(ctx, "getty_aat", server.URL, nil, &out)
	require.Error(t, err)
}

// WithShortTimeout keeps the test fast without relying on the default deadline.
func WithShortTimeout() transport.Option {
	return transport.WithTimeout(100 * time.Millisecond)
}

func TestThrottleSpacing(t *testing.T) {
	throttle := transport.NewThrottle(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, throttle.Wait(ctx))
	require.NoError(t, throttle.Wait(ctx))
	require.NoError(t, throttle.Wait(ctx))
	elapsed := time.Since(start)

	// Three calls: the first is immediate, the next two each wait the interval.
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestThrottleDisabled(t *testing.T) {
	throttle := transport.NewThrottle(0)
	start := time.Now()
	for range 10 {
		require.NoError(t, throttle.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottleCancellation(t *testing.T) {
	throttle := transport.NewThrottle(time.Minute)
	ctx := context.Background()
	require.NoError(t, throttle.Wait(ctx)) // primes last-request time

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()
	err := throttle.Wait(cancelCtx)
	assert.ErrorIs(t, err, context.Canceled)
}
