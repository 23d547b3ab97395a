package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/txt2metadata/pkg/errors"
)

// statusSequence replies with the given statuses in order, repeating the last one
func statusSequence(hits *int32, statuses ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(hits, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		_, _ = w.Write([]byte(`[]`))
	}
}

func newTestFailSafe(t *testing.T, policy RetryPolicy) *FailSafeClient {
	t.Helper()
	client := NewFailSafeClient(NewHTTPClient(testHTTPConfig(), nil), policy, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFailSafeClient_RetriesUntilSuccess(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(&hits, 404, 502, 200))
	defer server.Close()

	client := newTestFailSafe(t, DefaultRetryPolicy().WithDelay(time.Millisecond))

	resp, err := client.Execute(context.Background(), NewGet(server.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFailSafeClient_ExhaustsRetries(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(&hits, 404))
	defer server.Close()

	client := newTestFailSafe(t, DefaultRetryPolicy().WithDelay(time.Millisecond))

	resp, err := client.Execute(context.Background(), NewGet(server.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(7), atomic.LoadInt32(&hits))
}

func TestFailSafeClient_DoesNotRetryOtherStatuses(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(&hits, 500))
	defer server.Close()

	client := newTestFailSafe(t, DefaultRetryPolicy().WithDelay(time.Millisecond))

	resp, err := client.Execute(context.Background(), NewGet(server.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFailSafeClient_TransportErrorAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestFailSafe(t, DefaultRetryPolicy().WithMaxRetries(2).WithDelay(time.Millisecond))

	_, err := client.Execute(context.Background(), NewGet(url))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))

	total, failed := client.Client().Stats()
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(3), failed)
}

func TestFailSafeClient_CancelDuringBackoff(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(&hits, 404))
	defer server.Close()

	client := newTestFailSafe(t, DefaultRetryPolicy())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Execute(ctx, NewGet(server.URL))

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFailSafeClient_Policy(t *testing.T) {
	client := newTestFailSafe(t, DefaultRetryPolicy())

	policy := client.Policy()
	policy.RetryOnStatus[0] = 500

	assert.Equal(t, []int{404, 502}, client.Policy().RetryOnStatus)
}
