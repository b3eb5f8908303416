package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alecgard/brofit/internal/activity"
	"github.com/alecgard/brofit/internal/auth"
	"github.com/alecgard/brofit/internal/metrics"
	"github.com/alecgard/brofit/internal/user"
)

// AccountStore is the subset of the user store used by the auth handlers.
type AccountStore interface {
	Create(ctx context.Context, in user.CreateUserInput) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	CreateSession(ctx context.Context, userID string) (string, *user.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// ActivityRecorder accepts activity events for asynchronous persistence.
type ActivityRecorder interface {
	Record(ev activity.Event)
}

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	store    AccountStore
	activity ActivityRecorder
	metrics  *metrics.Metrics
}

func newAuthHandler(store AccountStore, rec ActivityRecorder, m *metrics.Metrics) *authHandler {
	return &authHandler{store: store, activity: rec, metrics: m}
}

// userProjection is the password-stripped user payload.
func userProjection(u *user.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name, email and password are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is not valid")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password must be at least 8 characters")
		return
	}

	u, err := h.store.Create(r.Context(), user.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "duplicate_email", "an account with this email already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create account")
		return
	}

	token, _, err := h.store.CreateSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	h.metrics.IncAuthSuccess("register")
	h.activity.Record(activity.Event{UserID: u.ID, Kind: activity.KindRegistered, Detail: u.Email})
	auditLog(r, "register", "user", u.ID, "email", u.Email)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  userProjection(u),
	})
}

// Login handles POST /api/v1/auth/login. Unknown email and wrong password
// produce the same response.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.metrics.IncAuthFailure("login")
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	if !user.CheckPassword(u, req.Password) {
		h.metrics.IncAuthFailure("login")
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	token, _, err := h.store.CreateSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	h.metrics.IncAuthSuccess("login")
	h.activity.Record(activity.Event{UserID: u.ID, Kind: activity.KindLoggedIn, Detail: u.Email})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userProjection(u),
	})
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractBearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_ = h.store.DeleteSession(r.Context(), token)
	w.WriteHeader(http.StatusNoContent)
}
