package models

// Bodies exchanged with pimbridge.

type DeviceInfo struct {
	UserName  string `json:"userName"`
	Connected bool   `json:"connected"`
}

type OpenCollectionResponse struct {
	Handle int `json:"handle"`
}

type WriteRecordResponse struct {
	ID uint32 `json:"id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// Bridge error codes carried in ErrorResponse.Code.
const (
	BridgeErrNotConnected       = "not_connected"
	BridgeErrCollectionNotFound = "collection_not_found"
	BridgeErrRecordNotFound     = "record_not_found"
	BridgeErrInvalidHandle      = "invalid_handle"
	BridgeErrReadOnly           = "read_only"
	BridgeErrBadRequest         = "bad_request"
	BridgeErrInternal           = "internal"
	BridgeErrRouteNotFound      = "route_not_found"
)

// ErrorResponse is the body of every non-2xx bridge response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AppInfoBlock carries a collection's AppInfo block. A nil Data means the
// collection has none.
type AppInfoBlock struct {
	Data []byte `json:"data"`
}

// Finalize steps accepted by POST /api/handles/{handle}/finalize?step=.
const (
	FinalizeResetFlags   = "reset-flags"
	FinalizePurgeDeleted = "purge-deleted"
)

// FinalizeRequest is the optional body of a finalize call. Records listed in
// Keep are skipped by the cleanup.
type FinalizeRequest struct {
	Keep []uint32 `json:"keep,omitempty"`
}
