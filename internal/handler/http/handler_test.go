package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/models"
)

func newBridge(t *testing.T) (*device.MemoryLink, http.Handler) {
	t.Helper()
	link := device.NewMemoryLink("Jane Doe")
	link.CreateCollection("MemoDB", []byte("cats"))
	link.PutRecord("MemoDB", models.DeviceRecord{ID: 7, Dirty: true, RawData: []byte("milk\x00")})

	h := NewHandler(link, models.NewAppBuildInfo("1.0.0", "2026-10-18", "abc123"), logger.Nop())
	return link, h.Init()
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func openHandle(t *testing.T, router http.Handler, name string, rw bool) int {
	t.Helper()
	path := "/api/collections/" + name + "/open"
	if rw {
		path += "?rw=true"
	}
	rec := serve(router, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.OpenCollectionResponse](t, rec).Handle
}

func handlePath(handle int, suffix string) string {
	return "/api/handles/" + strconv.Itoa(handle) + suffix
}

func TestPing(t *testing.T) {
	link, router := newBridge(t)

	rec := serve(router, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[models.StatusResponse](t, rec).Status)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	link.Disconnect()
	rec = serve(router, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, models.BridgeErrNotConnected, decode[models.ErrorResponse](t, rec).Code)
}

func TestDeviceInfo(t *testing.T) {
	_, router := newBridge(t)

	rec := serve(router, http.MethodGet, "/api/device", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[models.DeviceInfo](t, rec)
	assert.Equal(t, "Jane Doe", info.UserName)
	assert.True(t, info.Connected)
}

func TestVersion(t *testing.T) {
	_, router := newBridge(t)

	rec := serve(router, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[versionResponse](t, rec)
	assert.Equal(t, versionResponse{Version: "1.0.0", Date: "2026-10-18", Commit: "abc123"}, v)
}

func TestOpenCollection(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "existing read-only", path: "/api/collections/MemoDB/open", wantStatus: http.StatusOK},
		{name: "missing read-only", path: "/api/collections/Nope/open", wantStatus: http.StatusNotFound, wantCode: models.BridgeErrCollectionNotFound},
		{name: "missing read-write is created", path: "/api/collections/ToDoDB/open?rw=true", wantStatus: http.StatusOK},
		{name: "bad rw flag", path: "/api/collections/MemoDB/open?rw=maybe", wantStatus: http.StatusBadRequest, wantCode: models.BridgeErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newBridge(t)

			rec := serve(router, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[models.ErrorResponse](t, rec).Code)
			}
		})
	}
}

func TestRecordLifecycle(t *testing.T) {
	link, router := newBridge(t)
	h := openHandle(t, router, "MemoDB", true)

	rec := serve(router, http.MethodGet, handlePath(h, "/records"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[[]models.DeviceRecord](t, rec)
	require.Len(t, records, 1)
	assert.Equal(t, uint32(7), records[0].ID)
	assert.Equal(t, []byte("milk\x00"), records[0].RawData)

	body, err := json.Marshal(models.DeviceRecord{RawData: []byte("eggs\x00")})
	require.NoError(t, err)
	rec = serve(router, http.MethodPut, handlePath(h, "/records"), string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	newID := decode[models.WriteRecordResponse](t, rec).ID
	assert.NotZero(t, newID)
	assert.Len(t, link.Records("MemoDB"), 2)

	rec = serve(router, http.MethodDelete, handlePath(h, "/records/7"), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodDelete, handlePath(h, "/records/7"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.BridgeErrRecordNotFound, decode[models.ErrorResponse](t, rec).Code)

	rec = serve(router, http.MethodPost, handlePath(h, "/close"), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, handlePath(h, "/records"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.BridgeErrInvalidHandle, decode[models.ErrorResponse](t, rec).Code)
}

func TestEmptyCollectionReturnsEmptyArray(t *testing.T) {
	_, router := newBridge(t)
	h := openHandle(t, router, "ToDoDB", true)

	rec := serve(router, http.MethodGet, handlePath(h, "/records"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWriteThroughReadOnlyHandle(t *testing.T) {
	_, router := newBridge(t)
	h := openHandle(t, router, "MemoDB", false)

	rec := serve(router, http.MethodPut, handlePath(h, "/records"), `{"id":0}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, models.BridgeErrReadOnly, decode[models.ErrorResponse](t, rec).Code)
}

func TestBadInput(t *testing.T) {
	_, router := newBridge(t)
	h := openHandle(t, router, "MemoDB", true)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "non numeric handle", method: http.MethodGet, path: "/api/handles/abc/records"},
		{name: "negative handle", method: http.MethodGet, path: "/api/handles/-1/records"},
		{name: "non numeric record id", method: http.MethodDelete, path: handlePath(h, "/records/x")},
		{name: "record id overflow", method: http.MethodDelete, path: handlePath(h, "/records/99999999999")},
		{name: "malformed record body", method: http.MethodPut, path: handlePath(h, "/records"), body: `{"id":`},
		{name: "malformed appinfo body", method: http.MethodPut, path: handlePath(h, "/appinfo"), body: `[`},
		{name: "unknown finalize step", method: http.MethodPost, path: handlePath(h, "/finalize?step=shred")},
		{name: "malformed finalize body", method: http.MethodPost, path: handlePath(h, "/finalize"), body: `{"keep":"all"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, models.BridgeErrBadRequest, decode[models.ErrorResponse](t, rec).Code)
		})
	}
}

func TestAppInfo(t *testing.T) {
	_, router := newBridge(t)
	h := openHandle(t, router, "MemoDB", true)

	rec := serve(router, http.MethodGet, handlePath(h, "/appinfo"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("cats"), decode[models.AppInfoBlock](t, rec).Data)

	body, err := json.Marshal(models.AppInfoBlock{Data: []byte("dogs")})
	require.NoError(t, err)
	rec = serve(router, http.MethodPut, handlePath(h, "/appinfo"), string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, handlePath(h, "/appinfo"), "")
	assert.Equal(t, []byte("dogs"), decode[models.AppInfoBlock](t, rec).Data)
}

func TestFinalize(t *testing.T) {
	link, router := newBridge(t)
	link.PutRecord("MemoDB", models.DeviceRecord{ID: 8, Deleted: true})
	h := openHandle(t, router, "MemoDB", true)

	rec := serve(router, http.MethodPost, handlePath(h, "/finalize?step="+models.FinalizeResetFlags), "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, r := range link.Records("MemoDB") {
		assert.False(t, r.Dirty)
	}
	assert.Len(t, link.Records("MemoDB"), 2)

	rec = serve(router, http.MethodPost, handlePath(h, "/finalize?step="+models.FinalizePurgeDeleted), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, link.Records("MemoDB"), 1)
}

func TestFinalize_KeepList(t *testing.T) {
	link, router := newBridge(t)
	link.PutRecord("MemoDB", models.DeviceRecord{ID: 8, Deleted: true})
	link.PutRecord("MemoDB", models.DeviceRecord{ID: 9, Deleted: true})
	h := openHandle(t, router, "MemoDB", true)

	rec := serve(router, http.MethodPost, handlePath(h, "/finalize"), `{"keep":[7,9]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	records := link.Records("MemoDB")
	require.Len(t, records, 2)
	assert.Equal(t, uint32(7), records[0].ID)
	assert.True(t, records[0].Dirty)
	assert.Equal(t, uint32(9), records[1].ID)
	assert.True(t, records[1].Deleted)
}

// plainLink hides the Finalizer methods of the embedded MemoryLink.
type plainLink struct{ device.Link }

func TestFinalize_Unsupported(t *testing.T) {
	link := device.NewMemoryLink("Jane Doe")
	link.CreateCollection("MemoDB", nil)
	router := NewHandler(plainLink{link}, models.AppBuildInfo{}, logger.Nop()).Init()

	h, err := link.OpenCollection(context.Background(), "MemoDB", true)
	require.NoError(t, err)

	rec := serve(router, http.MethodPost, handlePath(int(h), "/finalize"), "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestDisconnectedDevice(t *testing.T) {
	link, router := newBridge(t)
	h := openHandle(t, router, "MemoDB", true)
	link.Disconnect()

	rec := serve(router, http.MethodGet, handlePath(h, "/records"), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, models.BridgeErrNotConnected, decode[models.ErrorResponse](t, rec).Code)
}
