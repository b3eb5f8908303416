package api

import (
	"net/http"

	"github.com/alecgard/brofit/internal/catalog"
)

// plansHandler serves the read-only membership plan catalog.
type plansHandler struct {
	catalog Catalog
}

func newPlansHandler(c Catalog) *plansHandler {
	return &plansHandler{catalog: c}
}

// ListPlans handles GET /api/v1/plans.
func (h *plansHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.catalog.ListPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list plans")
		return
	}

	if plans == nil {
		plans = []*catalog.Plan{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans": plans,
	})
}
