package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/alecgard/brofit/internal/activity"
	"github.com/alecgard/brofit/internal/auth"
	"github.com/alecgard/brofit/internal/booking"
	"github.com/alecgard/brofit/internal/membership"
)

// ActivityFeed reads back a user's recorded activity.
type ActivityFeed interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*activity.Event, error)
}

// dashboardHandler aggregates the user's state into one response.
type dashboardHandler struct {
	memberships MembershipService
	bookings    BookingService
	feed        ActivityFeed
}

func newDashboardHandler(m MembershipService, b BookingService, feed ActivityFeed) *dashboardHandler {
	return &dashboardHandler{memberships: m, bookings: b, feed: feed}
}

// Dashboard handles GET /api/v1/dashboard.
func (h *dashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	var membershipPayload interface{}
	m, err := h.memberships.Get(r.Context(), u.ID)
	switch {
	case err == nil:
		membershipPayload = membershipResponse(m)
	case errors.Is(err, membership.ErrNotFound):
		membershipPayload = nil
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load dashboard")
		return
	}

	bookings, err := h.bookings.List(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load dashboard")
		return
	}
	if bookings == nil {
		bookings = []*booking.Booking{}
	}

	events, err := h.feed.ListByUser(r.Context(), u.ID, 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load dashboard")
		return
	}
	if events == nil {
		events = []*activity.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"created_at": u.CreatedAt,
		},
		"membership": membershipPayload,
		"bookings":   bookings,
		"activity":   events,
	})
}

// Activity handles GET /api/v1/me/activity.
func (h *dashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid_body", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	events, err := h.feed.ListByUser(r.Context(), u.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list activity")
		return
	}

	if events == nil {
		events = []*activity.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activity": events,
	})
}
