package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/rpctest"
)

// noSleep records requested waits instead of sleeping.
func noSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestCallEnvelope(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":42,"id":1}`))
	}))
	defer srv.Close()

	var out int
	err := NewTransport(srv.URL).Call(context.Background(), "getSlot", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, "2.0", got["jsonrpc"])
	assert.Equal(t, float64(1), got["id"])
	assert.Equal(t, "getSlot", got["method"])
	assert.Equal(t, []any{}, got["params"])
}

func TestCallRPCError(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleError("getBalance", -32602, "Invalid param")

	err := NewTransport(srv.URL).Call(context.Background(), "getBalance", []any{"x"}, nil)
	require.Error(t, err)

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errs.KindRPC, e.Kind)
	assert.Equal(t, -32602, e.Code)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "Invalid param", rpcErr.Message)
}

func TestCallUnknownMethod(t *testing.T) {
	srv := rpctest.NewServer(t)
	err := NewTransport(srv.URL).Call(context.Background(), "nope", nil, nil)
	assert.Equal(t, errs.KindRPC, errs.KindOf(err))
}

func TestCallServerErrorNoRetry(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getBalance", 1)
	srv.Intercept(func(w http.ResponseWriter, _ rpctest.Call) bool {
		w.WriteHeader(http.StatusInternalServerError)
		return true
	})

	var waits []time.Duration
	tr := NewTransport(srv.URL)
	tr.sleep = noSleep(&waits)

	err := tr.Call(context.Background(), "getBalance", nil, nil)
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errs.KindTransport, e.Kind)
	assert.Equal(t, http.StatusInternalServerError, e.Code)
	assert.Empty(t, waits)
	assert.Len(t, srv.Calls("getBalance"), 1)
}

func TestCallRetryAfter(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getBalance", rpctest.ContextValue(7))

	var limited atomic.Int32
	limited.Store(2)
	srv.Intercept(func(w http.ResponseWriter, _ rpctest.Call) bool {
		if limited.Add(-1) < 0 {
			return false
		}
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		return true
	})

	var waits []time.Duration
	tr := NewTransport(srv.URL)
	tr.sleep = noSleep(&waits)

	bal, err := (&SolanaClient{Transport: tr}).GetBalance(context.Background(), mustKey(t), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), bal)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, waits)
	assert.Len(t, srv.Calls("getBalance"), 3)
}

func TestCallRetryAfterZeroIsFailure(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Intercept(func(w http.ResponseWriter, _ rpctest.Call) bool {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		return true
	})

	err := NewTransport(srv.URL).Call(context.Background(), "getBalance", nil, nil)
	assert.Equal(t, errs.KindTransport, errs.KindOf(err))
}

func TestCallMaxRateLimitRetries(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Intercept(func(w http.ResponseWriter, _ rpctest.Call) bool {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		return true
	})

	var waits []time.Duration
	tr := NewTransport(srv.URL, WithMaxRateLimitRetries(2))
	tr.sleep = noSleep(&waits)

	err := tr.Call(context.Background(), "getBalance", nil, nil)
	assert.Equal(t, errs.KindTransport, errs.KindOf(err))
	assert.Len(t, waits, 2)
	assert.Len(t, srv.Calls(""), 3)
}

func TestCallCancelledDuringWait(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Intercept(func(w http.ResponseWriter, _ rpctest.Call) bool {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewTransport(srv.URL).Call(ctx, "getBalance", nil, nil)
	assert.Equal(t, errs.KindTransport, errs.KindOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCallMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":  `<html>`,
		"no result": `{"jsonrpc":"2.0","id":1}`,
		"bad type":  `{"jsonrpc":"2.0","id":1,"result":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			var out int
			err := NewTransport(srv.URL).Call(context.Background(), "getSlot", nil, &out)
			assert.Equal(t, errs.KindTransport, errs.KindOf(err))
		})
	}
}

func TestCallNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewTransport(url, WithTimeout(time.Second)).Call(context.Background(), "getSlot", nil, nil)
	assert.Equal(t, errs.KindTransport, errs.KindOf(err))
}

func TestCallRateLimit(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.HandleResult("getSlot", 1)

	const rps, calls = 20, 5
	tr := NewTransport(srv.URL, WithRateLimit(rps))

	start := time.Now()
	for i := 0; i < calls; i++ {
		require.NoError(t, tr.Call(context.Background(), "getSlot", nil, nil))
	}
	elapsed := time.Since(start)

	// The first call goes out at once, each later one waits 1/rps.
	minimum := time.Duration(calls-1) * time.Second / rps
	assert.GreaterOrEqual(t, elapsed, minimum-10*time.Millisecond)
	assert.Len(t, srv.Calls("getSlot"), calls)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 2, parseRetryAfter("2"))
	assert.Equal(t, 10, parseRetryAfter(" 10 "))
	assert.Equal(t, 0, parseRetryAfter(""))
	assert.Equal(t, 0, parseRetryAfter("soon"))
	assert.Equal(t, 0, parseRetryAfter("-4"))
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()
	p := RetryPolicy{Attempts: 5, Delay: time.Millisecond}

	calls := 0
	err := p.Do(ctx, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	boom := errors.New("boom")
	err = p.Do(ctx, func(context.Context) (bool, error) {
		calls++
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, calls)

	calls = 0
	err = p.Do(ctx, func(context.Context) (bool, error) {
		calls++
		return false, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 5, calls)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = RetryPolicy{Attempts: 3, Delay: time.Hour}.Do(cancelled, func(context.Context) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, context.Canceled)
}
