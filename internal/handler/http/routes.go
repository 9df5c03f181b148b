package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	router.Get("/api/ping", h.ping)
	router.Get("/api/version", h.getVersion)
	router.Get("/api/device", h.deviceInfo)
	router.Post("/api/collections/{name}/open", h.openCollection)

	router.Route("/api/handles/{handle}", func(r chi.Router) {
		r.Post("/close", h.closeCollection)
		r.Get("/records", h.readRecords)
		r.Put("/records", h.writeRecord)
		r.Delete("/records/{id}", h.deleteRecord)
		r.Get("/appinfo", h.readAppInfo)
		r.Put("/appinfo", h.writeAppInfo)
		r.Post("/finalize", h.finalize)
	})

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	return router
}
