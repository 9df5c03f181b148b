package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

type errorStatus struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorStatus{
	device.ErrCollectionNotFound: {http.StatusNotFound, models.BridgeErrCollectionNotFound},
	device.ErrRecordNotFound:     {http.StatusNotFound, models.BridgeErrRecordNotFound},
	device.ErrInvalidHandle:      {http.StatusNotFound, models.BridgeErrInvalidHandle},
	device.ErrNotConnected:       {http.StatusServiceUnavailable, models.BridgeErrNotConnected},
	device.ErrReadOnly:           {http.StatusConflict, models.BridgeErrReadOnly},

	ErrInvalidHandleParam:  {http.StatusBadRequest, models.BridgeErrBadRequest},
	ErrInvalidQuery:        {http.StatusBadRequest, models.BridgeErrBadRequest},
	ErrInvalidRecordID:     {http.StatusBadRequest, models.BridgeErrBadRequest},
	ErrInvalidBody:         {http.StatusBadRequest, models.BridgeErrBadRequest},
	ErrUnknownFinalizeStep: {http.StatusBadRequest, models.BridgeErrBadRequest},
	ErrFinalizeUnsupported: {http.StatusNotImplemented, models.BridgeErrInternal},
}

func statusFromError(err error) errorStatus {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return errorStatus{http.StatusInternalServerError, models.BridgeErrInternal}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	s := statusFromError(err)
	if s.status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Int("status", s.status).Msg("bridge request failed")
	}
	utils.WriteJSON(w, models.ErrorResponse{Code: s.code, Message: err.Error()}, s.status)
}
