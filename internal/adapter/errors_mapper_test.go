package adapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pim-sync/internal/device"
)

func respond(t *testing.T, status int, body string) *resty.Response {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	resp, err := resty.New().R().Get(srv.URL)
	require.NoError(t, err)
	return resp
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantNil bool
	}{
		{name: "ok", status: http.StatusOK, body: `{}`, wantNil: true},
		{name: "coded not found", status: http.StatusNotFound, body: `{"code":"record_not_found","message":"x"}`, wantErr: device.ErrRecordNotFound},
		{name: "coded invalid handle", status: http.StatusNotFound, body: `{"code":"invalid_handle"}`, wantErr: device.ErrInvalidHandle},
		{name: "coded read only", status: http.StatusConflict, body: `{"code":"read_only"}`, wantErr: device.ErrReadOnly},
		{name: "unknown route", status: http.StatusNotFound, body: `{"code":"route_not_found","message":"GET /api/x"}`, wantErr: ErrUnsupportedRoute},
		{name: "plain bad request", status: http.StatusBadRequest, body: "nope", wantErr: ErrBadRequest},
		{name: "plain unavailable", status: http.StatusServiceUnavailable, wantErr: device.ErrNotConnected},
		{name: "plain server error", status: http.StatusBadGateway, body: "proxy", wantErr: ErrBridgeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapHTTPError(respond(t, tt.status, tt.body))
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMapHTTPError_UnknownStatus(t *testing.T) {
	err := mapHTTPError(respond(t, http.StatusTeapot, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 418")
}
