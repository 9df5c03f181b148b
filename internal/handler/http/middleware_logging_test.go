package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "read ok", method: http.MethodGet, path: "/api/handles/1/records?x=1", status: http.StatusOK, body: "[]", wantLevel: "info"},
		{name: "client error", method: http.MethodDelete, path: "/api/handles/1/records/9", status: http.StatusNotFound, body: "{}", wantLevel: "info"},
		{name: "server error is a warning", method: http.MethodPut, path: "/api/handles/1/records", status: http.StatusInternalServerError, wantLevel: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := zerolog.New(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(l.WithContext(req.Context()))
			rr := httptest.NewRecorder()

			newTestHandler().withLogging(next).ServeHTTP(rr, req)

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, tt.method, line["method"])
			assert.Equal(t, tt.path, line["uri"])
			assert.EqualValues(t, tt.status, line["status"])
			assert.EqualValues(t, len(tt.body), line["size"])
			assert.Contains(t, line, "duration")
		})
	}
}

func TestWithLogging_RoutePattern(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	h := newTestHandler()

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		})
	}, h.withLogging)
	router.Get("/api/handles/{handle}/records", func(w http.ResponseWriter, r *http.Request) {})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/handles/3/records", nil))

	assert.Contains(t, buf.String(), `"route":"/api/handles/{handle}/records"`)
}
