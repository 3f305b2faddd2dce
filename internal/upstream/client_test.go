package upstream_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytrails/backend/internal/upstream"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestClient returns a Client with a negligible retry delay.
func newTestClient(ttl time.Duration) *upstream.Client {
	return upstream.NewClient(ttl, discardLogger, upstream.WithRetry(3, time.Millisecond))
}

// countingServer answers with the given statuses in order, repeating the last one.
func countingServer(t *testing.T, body string, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(calls.Add(1)) - 1
		status := statuses[min(n, len(statuses)-1)]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_GetJSON_OK(t *testing.T) {
	srv, _ := countingServer(t, `{"ok":true}`, http.StatusOK)

	var got struct{ OK bool }
	err := newTestClient(0).GetJSON(context.Background(), srv.URL, &got)

	require.NoError(t, err)
	assert.True(t, got.OK)
}

func TestClient_GetJSON_RetriesServerErrors(t *testing.T) {
	srv, calls := countingServer(t, `{"ok":true}`, http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK)

	var got struct{ OK bool }
	err := newTestClient(0).GetJSON(context.Background(), srv.URL, &got)

	require.NoError(t, err)
	assert.True(t, got.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GetJSON_GivesUpAfterAttempts(t *testing.T) {
	srv, calls := countingServer(t, `oops`, http.StatusBadGateway)

	err := newTestClient(0).GetJSON(context.Background(), srv.URL, &struct{}{})

	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "oops", se.Body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GetJSON_ClientErrorNotRetried(t *testing.T) {
	srv, calls := countingServer(t, `{}`, http.StatusUnauthorized)

	err := newTestClient(0).GetJSON(context.Background(), srv.URL, &struct{}{})

	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_GetJSON_CachesSuccess(t *testing.T) {
	srv, calls := countingServer(t, `{"n":1}`, http.StatusOK)
	c := newTestClient(time.Minute)

	for range 3 {
		var got struct{ N int }
		require.NoError(t, c.GetJSON(context.Background(), srv.URL, &got))
		assert.Equal(t, 1, got.N)
	}
	assert.Equal(t, int32(1), calls.Load())

	c.Invalidate(srv.URL)
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GetJSON_ErrorsNotCached(t *testing.T) {
	srv, calls := countingServer(t, `{}`, http.StatusNotFound, http.StatusOK)
	c := newTestClient(time.Minute)

	require.Error(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}))
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GetJSON_BadJSON(t *testing.T) {
	srv, _ := countingServer(t, `not json`, http.StatusOK)

	err := newTestClient(0).GetJSON(context.Background(), srv.URL, &struct{}{})

	require.Error(t, err)
	var se *upstream.StatusError
	assert.False(t, errors.As(err, &se))
}

type stubHTTPClient struct {
	do func(*http.Request) (*http.Response, error)
}

func (s stubHTTPClient) Do(r *http.Request) (*http.Response, error) { return s.do(r) }

func TestClient_GetJSON_InjectedTransport(t *testing.T) {
	var seen string
	c := upstream.NewClient(0, discardLogger,
		upstream.WithRetry(1, time.Millisecond),
		upstream.WithHTTPClient(stubHTTPClient{do: func(r *http.Request) (*http.Response, error) {
			seen = r.Header.Get("Accept")
			return nil, errors.New("dial tcp: connection refused")
		}}),
	)

	err := c.GetJSON(context.Background(), "http://example.invalid/x", &struct{}{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "application/json", seen)
}
