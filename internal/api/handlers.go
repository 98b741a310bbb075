package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/munin/internal/docservice"
	"github.com/starford/munin/internal/docstore"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps docstore sentinels to HTTP statuses; anything else is a
// logged 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docstore.ErrFileNotFound),
		errors.Is(err, docstore.ErrDirectoryNotFound),
		errors.Is(err, docstore.ErrBundleFileNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, docstore.ErrDecode):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("api error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListDocuments handles GET /documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.List(r.Context(), q.Get("dir"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []DocumentListItem{}
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: total})
}

// GetDocument handles GET /documents/{dir}/{name}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	dir, name := chi.URLParam(r, "dir"), chi.URLParam(r, "name")
	doc, err := h.svc.Get(r.Context(), dir, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// PutDocument handles PUT /documents/{dir}/{name}.
func (h *Handler) PutDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	dir, name := chi.URLParam(r, "dir"), chi.URLParam(r, "name")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("body is required"))
		return
	}

	doc, err := h.svc.Put(r.Context(), dir, name, json.RawMessage(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /documents/{dir}/{name}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	dir, name := chi.URLParam(r, "dir"), chi.URLParam(r, "name")
	if err := h.svc.Delete(r.Context(), dir, name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDirectory handles DELETE /directories/{dir}.
func (h *Handler) DeleteDirectory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDirectory(r.Context(), chi.URLParam(r, "dir")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreDocument handles POST /documents/{dir}/{name}/restore.
func (h *Handler) RestoreDocument(w http.ResponseWriter, r *http.Request) {
	dir, name := chi.URLParam(r, "dir"), chi.URLParam(r, "name")
	doc, err := h.svc.Restore(r.Context(), dir, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
