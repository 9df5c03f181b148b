package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-pim-sync/internal/config"
	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
	"github.com/go-resty/resty/v2"
)

const transportRetries = 2

// HTTPDeviceLink is a [device.Link] to a handheld served by pimbridge.
type HTTPDeviceLink struct {
	client    *utils.HTTPClient
	keepAlive *device.KeepAlive

	mu        sync.RWMutex
	userName  string
	connected bool

	logger *logger.Logger
}

// NewHTTPDeviceLink builds a link to the bridge at deviceCfg.BridgeAddress.
// The link is disconnected until Connect succeeds.
func NewHTTPDeviceLink(deviceCfg config.Device, log *logger.Logger) (*HTTPDeviceLink, error) {
	baseURL, err := normalizeBaseURL(deviceCfg.BridgeAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge address: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	h := &HTTPDeviceLink{
		client: utils.NewHTTPClient(baseURL, deviceCfg.RequestTimeout, transportRetries),
		logger: log,
	}
	h.keepAlive = device.NewKeepAlive(deviceCfg.KeepAliveInterval, h.Ping, log)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Connect fetches the device owner from the bridge and starts the keep-alive.
// The keep-alive runs until ctx is cancelled or Close is called.
func (h *HTTPDeviceLink) Connect(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/device")
	if err != nil {
		h.setConnected(false)
		return fmt.Errorf("%w: %w", ErrBridgeUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	var info models.DeviceInfo
	if err = json.Unmarshal(resp.Body(), &info); err != nil {
		return fmt.Errorf("decode device info: %w", err)
	}

	h.mu.Lock()
	h.userName = info.UserName
	h.connected = info.Connected
	h.mu.Unlock()

	h.keepAlive.Start(ctx)
	h.logger.Info().
		Str("user", info.UserName).
		Bool("connected", info.Connected).
		Msg("connected to device bridge")
	return nil
}

// Close stops the keep-alive and marks the link disconnected.
func (h *HTTPDeviceLink) Close() {
	h.keepAlive.Stop()
	h.setConnected(false)
}

// Ping calls GET /api/ping. A failed ping marks the link disconnected and a
// successful one marks it connected again.
func (h *HTTPDeviceLink) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/ping")
	if err != nil {
		h.setConnected(false)
		return fmt.Errorf("%w: %w", ErrBridgeUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.setConnected(false)
		return err
	}
	h.setConnected(true)
	return nil
}

// Pings returns the number of keep-alive pings sent so far.
func (h *HTTPDeviceLink) Pings() int {
	return h.keepAlive.Pings()
}

func (h *HTTPDeviceLink) PauseKeepAlive() {
	h.keepAlive.Pause()
}

func (h *HTTPDeviceLink) ResumeKeepAlive() {
	h.keepAlive.Resume()
}

func (h *HTTPDeviceLink) UserName() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userName
}

func (h *HTTPDeviceLink) IsConnected() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connected
}

func (h *HTTPDeviceLink) OpenCollection(ctx context.Context, name string, readWrite bool) (device.Handle, error) {
	resp, err := h.do(h.request(ctx).
		SetPathParam("name", name).
		SetQueryParam("rw", strconv.FormatBool(readWrite)),
		resty.MethodPost, "/api/collections/{name}/open")
	if err != nil {
		return 0, fmt.Errorf("open collection %q: %w", name, err)
	}

	var out models.OpenCollectionResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("decode open collection response: %w", err)
	}
	return device.Handle(out.Handle), nil
}

func (h *HTTPDeviceLink) CloseCollection(ctx context.Context, handle device.Handle) error {
	if _, err := h.do(h.handleRequest(ctx, handle), resty.MethodPost, "/api/handles/{handle}/close"); err != nil {
		return fmt.Errorf("close collection: %w", err)
	}
	return nil
}

func (h *HTTPDeviceLink) ReadAllRecords(ctx context.Context, handle device.Handle) ([]models.DeviceRecord, error) {
	resp, err := h.do(h.handleRequest(ctx, handle), resty.MethodGet, "/api/handles/{handle}/records")
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var records []models.DeviceRecord
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func (h *HTTPDeviceLink) WriteRecord(ctx context.Context, handle device.Handle, rec models.DeviceRecord) (uint32, error) {
	resp, err := h.do(h.handleRequest(ctx, handle).
		SetHeader("Content-Type", "application/json").
		SetBody(rec),
		resty.MethodPut, "/api/handles/{handle}/records")
	if err != nil {
		return 0, fmt.Errorf("write record %d: %w", rec.ID, err)
	}

	var out models.WriteRecordResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("decode write record response: %w", err)
	}
	return out.ID, nil
}

func (h *HTTPDeviceLink) DeleteRecord(ctx context.Context, handle device.Handle, id uint32) error {
	_, err := h.do(h.handleRequest(ctx, handle).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)),
		resty.MethodDelete, "/api/handles/{handle}/records/{id}")
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

func (h *HTTPDeviceLink) ReadAppInfoBlock(ctx context.Context, handle device.Handle) ([]byte, error) {
	resp, err := h.do(h.handleRequest(ctx, handle), resty.MethodGet, "/api/handles/{handle}/appinfo")
	if err != nil {
		return nil, fmt.Errorf("read appinfo: %w", err)
	}

	var block models.AppInfoBlock
	if err = json.Unmarshal(resp.Body(), &block); err != nil {
		return nil, fmt.Errorf("decode appinfo: %w", err)
	}
	return block.Data, nil
}

func (h *HTTPDeviceLink) WriteAppInfoBlock(ctx context.Context, handle device.Handle, data []byte) error {
	_, err := h.do(h.handleRequest(ctx, handle).
		SetHeader("Content-Type", "application/json").
		SetBody(models.AppInfoBlock{Data: data}),
		resty.MethodPut, "/api/handles/{handle}/appinfo")
	if err != nil {
		return fmt.Errorf("write appinfo: %w", err)
	}
	return nil
}

func (h *HTTPDeviceLink) ResetSyncFlags(ctx context.Context, handle device.Handle, keep []uint32) error {
	return h.finalize(ctx, handle, models.FinalizeResetFlags, keep)
}

func (h *HTTPDeviceLink) PurgeDeletedRecords(ctx context.Context, handle device.Handle, keep []uint32) error {
	return h.finalize(ctx, handle, models.FinalizePurgeDeleted, keep)
}

func (h *HTTPDeviceLink) finalize(ctx context.Context, handle device.Handle, step string, keep []uint32) error {
	_, err := h.do(h.handleRequest(ctx, handle).
		SetQueryParam("step", step).
		SetHeader("Content-Type", "application/json").
		SetBody(models.FinalizeRequest{Keep: keep}),
		resty.MethodPost, "/api/handles/{handle}/finalize")
	if err != nil {
		return fmt.Errorf("finalize %s: %w", step, err)
	}
	return nil
}

func (h *HTTPDeviceLink) request(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if traceID, ok := utils.GetTraceIDFromContext(ctx); ok {
		req.SetHeader("X-Trace-ID", traceID)
	}
	return req
}

func (h *HTTPDeviceLink) handleRequest(ctx context.Context, handle device.Handle) *resty.Request {
	return h.request(ctx).SetPathParam("handle", strconv.Itoa(int(handle)))
}

// do executes req and maps both transport and bridge errors. Record I/O on a
// link that is known to be down fails fast with device.ErrNotConnected.
func (h *HTTPDeviceLink) do(req *resty.Request, method, path string) (*resty.Response, error) {
	if !h.IsConnected() {
		return nil, device.ErrNotConnected
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		h.setConnected(false)
		return nil, fmt.Errorf("%w: %w", ErrBridgeUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (h *HTTPDeviceLink) setConnected(v bool) {
	h.mu.Lock()
	h.connected = v
	h.mu.Unlock()
}
