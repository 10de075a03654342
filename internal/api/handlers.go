package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// filePath extracts the file path from the URL (everything after /files/).
// Supports encoded slashes (e.g. pages%2Ftopic.md).
func filePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Summary handles GET /summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		slog.Error("summary failed", slog.String("error", err.Error()))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListFiles handles GET /files.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	fileType := q.Get("type")

	items, total, err := h.svc.ListFiles(r.Context(), fileType, limit, offset)
	if err != nil {
		slog.Error("list files failed", slog.String("error", err.Error()))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"files": items,
		"total": total,
	})
}

// GetFile handles GET /files/*.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	if path == "" {
		jsonError(w, http.StatusBadRequest, "path is required")
		return
	}
	detail, err := h.svc.GetFile(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get file failed", slog.String("path", path), slog.String("error", err.Error()))
			jsonError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Timeline handles GET /timeline.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Timeline(r.Context())
	if err != nil {
		slog.Error("timeline failed", slog.String("error", err.Error()))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"timeline": rows})
}

// Dangling handles GET /dangling.
func (h *Handler) Dangling(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Dangling(r.Context())
	if err != nil {
		slog.Error("dangling failed", slog.String("error", err.Error()))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dangling": rows})
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		jsonError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	hits, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}
