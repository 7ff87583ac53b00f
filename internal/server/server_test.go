package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	s := New(cfg, newTestLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func evalPath(src string, extra ...string) string {
	q := url.Values{"expr": {src}}
	for _, e := range extra {
		q.Set(e, "1")
	}
	return "/eval?" + q.Encode()
}

func TestHandleEval(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{})

	tests := []struct {
		src   string
		kind  string
		value string
	}{
		{"3 + 5", "ordinary", "8"},
		{"(1/3 + 2^-4) * 7", "ordinary", "133/48"},
		{"3 < 5", "bool", "true"},
		{"0 / 0", "undefined", "undefined"},
	}
	for _, tt := range tests {
		resp, body := get(t, ts, evalPath(tt.src))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

		var er EvalResponse
		require.NoError(t, json.Unmarshal(body, &er))
		assert.Equal(t, tt.src, er.Expr)
		assert.Equal(t, tt.kind, er.Kind)
		assert.Equal(t, tt.value, er.Value)
		assert.Empty(t, er.Dump)
		assert.NotEmpty(t, er.Duration)
	}

	// Requests never share variables, ans included.
	resp, _ := get(t, ts, evalPath("ans"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleEvalDump(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{})

	for _, path := range []string{evalPath("dump(3/5)"), evalPath("3/5", "dump")} {
		resp, body := get(t, ts, path)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var er EvalResponse
		require.NoError(t, json.Unmarshal(body, &er))
		assert.Contains(t, er.Dump, "num : size 1 expo 1 data [ 3 ]", path)
	}
}

func TestHandleEvalErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{MaxPowerExp: 10, Security: SecurityConfig{MaxExprLen: 16}})

	tests := []struct {
		name    string
		path    string
		status  int
		message string
		pos     int
	}{
		{"missing expr", "/eval", http.StatusBadRequest, "missing expr", -1},
		{"syntax error", evalPath("1 +"), http.StatusBadRequest, "syntax error", 3},
		{"too long", evalPath(strings.Repeat("1+", 10) + "1"), http.StatusRequestEntityTooLarge, "expression length 21 exceeds limit 16", -1},
		{"exponent limit", evalPath("2 ^ 11"), http.StatusUnprocessableEntity, "power exponent 11 exceeds limit 10", -1},
		{"not implemented", evalPath("sqrt(2)"), http.StatusUnprocessableEntity, "not implemented", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			var er ErrorResponse
			require.NoError(t, json.Unmarshal(body, &er))
			assert.Contains(t, er.Error, tt.message)
			if tt.pos >= 0 {
				require.NotNil(t, er.Pos)
				assert.Equal(t, tt.pos, *er.Pos)
			} else {
				assert.Nil(t, er.Pos)
			}
		})
	}
}

func TestHandleEvalMethodNotAllowed(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{})
	resp, err := ts.Client().Post(ts.URL+evalPath("1"), "text/plain", http.NoBody)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleEvalTimeout(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{RequestTimeout: time.Nanosecond})
	resp, _ := get(t, ts, evalPath("3 ^ 1000000"))
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

// Not parallel: the goroutine count must only reflect this server.
func TestHandleEvalTimeoutStopsEvaluation(t *testing.T) {
	ts := newTestServer(t, Config{RequestTimeout: 50 * time.Millisecond})
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	baseline := runtime.NumGoroutine()

	for range 4 {
		resp, err := client.Get(ts.URL + evalPath("(3 ^ 1000000) ^ 1000"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	}
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 5*time.Second, 20*time.Millisecond, "evaluations kept running after their deadline")
}

func TestHandleEvalWindowLimit(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{})
	start := time.Now()
	resp, body := get(t, ts, evalPath("(3 ^ 100000) ^ 100000"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "window")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{})
	resp, body := get(t, ts, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMetricsEndpointCountsEvaluations(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, Config{})
	get(t, ts, evalPath("1 + 1"))
	_, body := get(t, ts, "/metrics")
	assert.Contains(t, string(body), `numcalc_engine_operations_total{op="add",result="ordinary"} 1`)
	assert.Contains(t, string(body), `numcalc_requests_total{code="200",path="/eval"} 1`)
}

func TestServeGracefulShutdown(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{ShutdownTimeout: time.Second}, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	healthURL := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
