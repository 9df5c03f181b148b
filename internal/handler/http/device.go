package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if !h.link.IsConnected() {
		writeError(w, r, device.ErrNotConnected)
		return
	}
	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}

func (h *Handler) deviceInfo(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.DeviceInfo{
		UserName:  h.link.UserName(),
		Connected: h.link.IsConnected(),
	}, http.StatusOK)
}

func (h *Handler) openCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	readWrite := false
	if raw := r.URL.Query().Get("rw"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: rw=%q", ErrInvalidQuery, raw))
			return
		}
		readWrite = v
	}

	handle, err := h.link.OpenCollection(r.Context(), name, readWrite)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.OpenCollectionResponse{Handle: int(handle)}, http.StatusOK)
}

func (h *Handler) closeCollection(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.link.CloseCollection(r.Context(), handle); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, models.StatusResponse{Status: "closed"}, http.StatusOK)
}

func handleParam(r *http.Request) (device.Handle, error) {
	v, err := strconv.Atoi(chi.URLParam(r, "handle"))
	if err != nil || v < 0 {
		return 0, ErrInvalidHandleParam
	}
	return device.Handle(v), nil
}
