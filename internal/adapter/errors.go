package adapter

import "errors"

var (
	// ErrBridgeUnavailable wraps transport failures talking to pimbridge.
	ErrBridgeUnavailable = errors.New("device bridge unavailable")
	// ErrBadRequest is returned when the bridge rejects a request as malformed.
	ErrBadRequest = errors.New("bad request to device bridge")
	// ErrBridgeInternal is returned for 5xx responses without a known code.
	ErrBridgeInternal = errors.New("device bridge internal error")
	// ErrUnsupportedRoute is returned when the bridge does not serve a route,
	// usually because it runs an older version.
	ErrUnsupportedRoute = errors.New("route not supported by device bridge")
)
