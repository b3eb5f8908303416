package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alecgard/brofit/internal/activity"
	"github.com/alecgard/brofit/internal/auth"
	"github.com/alecgard/brofit/internal/booking"
	"github.com/alecgard/brofit/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// BookingService is the booking surface used by the handlers.
type BookingService interface {
	Book(ctx context.Context, userID, classID string) (*booking.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) error
	List(ctx context.Context, userID string) ([]*booking.Booking, error)
	IsBooked(ctx context.Context, userID, classID string) (bool, error)
}

// bookingsHandler serves the authenticated user's bookings.
type bookingsHandler struct {
	svc      BookingService
	activity ActivityRecorder
	metrics  *metrics.Metrics
}

func newBookingsHandler(svc BookingService, rec ActivityRecorder, m *metrics.Metrics) *bookingsHandler {
	return &bookingsHandler{svc: svc, activity: rec, metrics: m}
}

// Create handles POST /api/v1/bookings.
func (h *bookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	var req struct {
		ClassID string `json:"class_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.ClassID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "class_id is required")
		return
	}

	b, err := h.svc.Book(r.Context(), u.ID, req.ClassID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrMembershipRequired):
			writeError(w, http.StatusForbidden, "membership_required", "an active membership is required to book classes")
		case errors.Is(err, booking.ErrAlreadyBooked):
			writeError(w, http.StatusConflict, "already_booked", "you have already booked this class")
		case errors.Is(err, booking.ErrClassFull):
			writeError(w, http.StatusConflict, "class_full", "this class is fully booked")
		case errors.Is(err, booking.ErrClassNotFound):
			writeError(w, http.StatusNotFound, "not_found", "class not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to book class")
		}
		return
	}

	h.metrics.IncBooking()
	h.activity.Record(activity.Event{UserID: u.ID, Kind: activity.KindClassBooked, Detail: b.ClassName})
	auditLog(r, "booking_create", "booking", b.ID, "class_id", b.ClassID)

	writeJSON(w, http.StatusCreated, b)
}

// List handles GET /api/v1/bookings.
func (h *bookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	bookings, err := h.svc.List(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []*booking.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
	})
}

// Delete handles DELETE /api/v1/bookings/{id}. Deleting a missing booking is
// a no-op.
func (h *bookingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Cancel(r.Context(), u.ID, id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to cancel booking")
		return
	}

	h.metrics.IncBookingCancellation()
	h.activity.Record(activity.Event{UserID: u.ID, Kind: activity.KindBookingCancelled, Detail: id})
	auditLog(r, "booking_cancel", "booking", id)

	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/v1/bookings/status?class_id=… and reports whether
// the user has booked a class.
func (h *bookingsHandler) Status(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	classID := r.URL.Query().Get("class_id")
	if classID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "class_id is required")
		return
	}

	booked, err := h.svc.IsBooked(r.Context(), u.ID, classID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check booking status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"class_id": classID,
		"booked":   booked,
	})
}
