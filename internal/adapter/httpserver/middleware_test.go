package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureHandler collects slog records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func attrMap(r slog.Record) map[string]slog.Value {
	out := make(map[string]slog.Value, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

func TestAccessLogRecordsRequestLine(t *testing.T) {
	t.Parallel()
	logs := &captureHandler{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h := AccessLog()(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations?mood=calm", nil)
	req = req.WithContext(context.WithValue(req.Context(), loggerKey{}, slog.New(logs)))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, logs.records, 1)
	rec := logs.records[0]
	assert.Equal(t, slog.LevelInfo, rec.Level)
	assert.Equal(t, "http_access", rec.Message)
	attrs := attrMap(rec)
	assert.Equal(t, "GET", attrs["method"].String())
	assert.Equal(t, "/v1/recommendations", attrs["route"].String())
	assert.EqualValues(t, http.StatusOK, attrs["status"].Int64())
	assert.EqualValues(t, 2, attrs["bytes"].Int64())
}

func TestAccessLogLevelTracksStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		level  slog.Level
	}{
		{http.StatusOK, slog.LevelInfo},
		{http.StatusBadRequest, slog.LevelWarn},
		{http.StatusInternalServerError, slog.LevelError},
	}
	for _, tc := range cases {
		logs := &captureHandler{}
		h := AccessLog()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req = req.WithContext(context.WithValue(req.Context(), loggerKey{}, slog.New(logs)))
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.Len(t, logs.records, 1, "status %d", tc.status)
		assert.Equal(t, tc.level, logs.records[0].Level, "status %d", tc.status)
	}
}

func TestRequestIDAssignsAndEchoes(t *testing.T) {
	t.Parallel()
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))

	// Caller-supplied ids pass through untouched.
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	h.ServeHTTP(rr, req)
	assert.Equal(t, "caller-id", rr.Header().Get("X-Request-Id"))
}
