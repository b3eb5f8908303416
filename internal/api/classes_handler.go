package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/alecgard/brofit/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// Catalog is the read-only class and plan catalog used by the handlers.
type Catalog interface {
	ListClasses(ctx context.Context, params catalog.ClassListParams) ([]*catalog.Class, string, error)
	GetClass(ctx context.Context, id string) (*catalog.Class, error)
	ListPlans(ctx context.Context) ([]*catalog.Plan, error)
}

// classesHandler serves the read-only class catalog.
type classesHandler struct {
	catalog Catalog
}

func newClassesHandler(c Catalog) *classesHandler {
	return &classesHandler{catalog: c}
}

// ListClasses handles GET /api/v1/classes.
func (h *classesHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "invalid_body", "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	classes, nextCursor, err := h.catalog.ListClasses(r.Context(), catalog.ClassListParams{
		Cursor: q.Get("cursor"),
		Limit:  limit,
		Day:    q.Get("day"),
		Type:   q.Get("type"),
		Query:  q.Get("q"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list classes")
		return
	}

	if classes == nil {
		classes = []*catalog.Class{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"classes":     classes,
		"next_cursor": nextCursor,
	})
}

// GetClass handles GET /api/v1/classes/{id}.
func (h *classesHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.catalog.GetClass(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "class not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get class")
		return
	}

	writeJSON(w, http.StatusOK, c)
}
