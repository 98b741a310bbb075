package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/munin/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Documents CRUD.
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/{dir}/{name}", h.GetDocument)
	r.Put("/documents/{dir}/{name}", h.PutDocument)
	r.Delete("/documents/{dir}/{name}", h.DeleteDocument)
	r.Post("/documents/{dir}/{name}/restore", h.RestoreDocument)

	// Directory removal.
	r.Delete("/directories/{dir}", h.DeleteDirectory)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
