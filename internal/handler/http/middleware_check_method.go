package http

import (
	"net/http"

	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

// routeNotFound answers unknown paths and known paths called with a method
// they do not serve. Both get 404 with the bridge error body, so a client
// sees one error shape and cannot tell which methods a route accepts.
func routeNotFound(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{
		Code:    models.BridgeErrRouteNotFound,
		Message: r.Method + " " + r.URL.Path,
	}, http.StatusNotFound)
}
