package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// every sync route requires an authenticated user
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/sync", h.syncNow)
		r.Post("/api/sync/queue", h.queueSync)
		r.Post("/api/sync/process/{batchID}", h.processBatch)
		r.Get("/api/sync/conflicts", h.listConflicts)
		r.Post("/api/sync/conflicts/{conflictID}/resolve", h.resolveConflict)
		r.Get("/api/sync/status", h.getSyncStatus)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
