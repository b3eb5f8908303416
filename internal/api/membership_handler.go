package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alecgard/brofit/internal/activity"
	"github.com/alecgard/brofit/internal/auth"
	"github.com/alecgard/brofit/internal/membership"
	"github.com/alecgard/brofit/internal/metrics"
)

// MembershipService is the membership purchase/cancel/read surface used by
// the handlers.
type MembershipService interface {
	Purchase(ctx context.Context, userID string, in membership.PurchaseInput) (*membership.Membership, error)
	Cancel(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*membership.Membership, error)
}

// membershipHandler serves the authenticated user's membership.
type membershipHandler struct {
	svc      MembershipService
	activity ActivityRecorder
	metrics  *metrics.Metrics
}

func newMembershipHandler(svc MembershipService, rec ActivityRecorder, m *metrics.Metrics) *membershipHandler {
	return &membershipHandler{svc: svc, activity: rec, metrics: m}
}

// membershipResponse augments the membership record with derived validity
// fields.
func membershipResponse(m *membership.Membership) map[string]interface{} {
	now := time.Now()
	return map[string]interface{}{
		"id":             m.ID,
		"plan_id":        m.PlanID,
		"plan_name":      m.PlanName,
		"duration":       m.DurationMonths,
		"price":          m.Price,
		"start_date":     m.StartDate,
		"end_date":       m.EndDate,
		"purchased_at":   m.PurchasedAt,
		"active":         m.ActiveAt(now),
		"days_remaining": m.DaysRemainingAt(now),
	}
}

// Purchase handles POST /api/v1/membership.
func (h *membershipHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	var req membership.PurchaseInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.PlanID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "plan_id is required")
		return
	}

	m, err := h.svc.Purchase(r.Context(), u.ID, req)
	if err != nil {
		if errors.Is(err, membership.ErrUnknownPlan) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown plan")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to purchase membership")
		return
	}

	h.metrics.IncMembershipPurchase(m.PlanID)
	h.activity.Record(activity.Event{UserID: u.ID, Kind: activity.KindMembershipPurchased, Detail: m.PlanName})
	auditLog(r, "membership_purchase", "membership", m.ID, "plan_id", m.PlanID)

	writeJSON(w, http.StatusCreated, membershipResponse(m))
}

// Get handles GET /api/v1/membership.
func (h *membershipHandler) Get(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	m, err := h.svc.Get(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, membership.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no membership")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get membership")
		return
	}

	writeJSON(w, http.StatusOK, membershipResponse(m))
}

// Cancel handles DELETE /api/v1/membership. Cancelling an absent membership
// is a no-op.
func (h *membershipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	if err := h.svc.Cancel(r.Context(), u.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to cancel membership")
		return
	}

	h.metrics.IncMembershipCancellation()
	h.activity.Record(activity.Event{UserID: u.ID, Kind: activity.KindMembershipCancelled})
	auditLog(r, "membership_cancel", "membership", u.ID)

	w.WriteHeader(http.StatusNoContent)
}
