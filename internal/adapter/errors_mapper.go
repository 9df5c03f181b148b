package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/models"
	"github.com/go-resty/resty/v2"
)

var codeErrors = map[string]error{
	models.BridgeErrNotConnected:       device.ErrNotConnected,
	models.BridgeErrCollectionNotFound: device.ErrCollectionNotFound,
	models.BridgeErrRecordNotFound:     device.ErrRecordNotFound,
	models.BridgeErrInvalidHandle:      device.ErrInvalidHandle,
	models.BridgeErrReadOnly:           device.ErrReadOnly,
	models.BridgeErrBadRequest:         ErrBadRequest,
	models.BridgeErrInternal:           ErrBridgeInternal,
	models.BridgeErrRouteNotFound:      ErrUnsupportedRoute,
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Code != "" {
		if sentinel, ok := codeErrors[body.Code]; ok {
			return fmt.Errorf("%w: %s", sentinel, body.Message)
		}
	}

	text := strings.TrimSpace(string(resp.Body()))
	if text == "" {
		text = http.StatusText(resp.StatusCode())
	}

	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, text)
	case resp.StatusCode() == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", device.ErrNotConnected, text)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrBridgeInternal, text)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), text)
	}
}
