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

func (h *Handler) readRecords(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.link.ReadAllRecords(r.Context(), handle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []models.DeviceRecord{}
	}
	utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) writeRecord(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var rec models.DeviceRecord
	if err = utils.ReadJSON(w, r, &rec); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}

	id, err := h.link.WriteRecord(r.Context(), handle, rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, models.WriteRecordResponse{ID: id}, http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, r, ErrInvalidRecordID)
		return
	}

	if err = h.link.DeleteRecord(r.Context(), handle, uint32(id)); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, models.StatusResponse{Status: "deleted"}, http.StatusOK)
}

func (h *Handler) readAppInfo(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := h.link.ReadAppInfoBlock(r.Context(), handle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, models.AppInfoBlock{Data: data}, http.StatusOK)
}

func (h *Handler) writeAppInfo(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var block models.AppInfoBlock
	if err = utils.ReadJSON(w, r, &block); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}

	if err = h.link.WriteAppInfoBlock(r.Context(), handle, block.Data); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}

// finalize runs one end-of-sync cleanup step, or both when step is empty.
func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	handle, err := handleParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fin, ok := h.link.(device.Finalizer)
	if !ok {
		writeError(w, r, ErrFinalizeUnsupported)
		return
	}

	var req models.FinalizeRequest
	if r.ContentLength != 0 {
		if err = utils.ReadJSON(w, r, &req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidBody, err))
			return
		}
	}

	ctx := r.Context()
	switch step := r.URL.Query().Get("step"); step {
	case models.FinalizeResetFlags:
		err = fin.ResetSyncFlags(ctx, handle, req.Keep)
	case models.FinalizePurgeDeleted:
		err = fin.PurgeDeletedRecords(ctx, handle, req.Keep)
	case "":
		if err = fin.ResetSyncFlags(ctx, handle, req.Keep); err == nil {
			err = fin.PurgeDeletedRecords(ctx, handle, req.Keep)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFinalizeStep, step)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, models.StatusResponse{Status: "ok"}, http.StatusOK)
}
