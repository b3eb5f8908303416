package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alecgard/brofit/internal/auth"
	"github.com/alecgard/brofit/internal/metrics"
	"github.com/alecgard/brofit/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Accounts     AccountStore
	Sessions     auth.SessionLookup
	Memberships  MembershipService
	Bookings     BookingService
	Catalog      Catalog
	Feed         ActivityFeed
	Activity     ActivityRecorder
	Metrics      *metrics.Metrics
	LoginLimiter *ratelimit.Limiter
	UserLimiter  *ratelimit.Limiter

	AllowedOrigins []string

	// DBPing reports database reachability for the health endpoint. May be nil.
	DBPing func(ctx context.Context) error
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	r.Use(httpMetricsMiddleware(deps.Metrics))

	// Handlers.
	authH := newAuthHandler(deps.Accounts, deps.Activity, deps.Metrics)
	classes := newClassesHandler(deps.Catalog)
	plans := newPlansHandler(deps.Catalog)
	memberships := newMembershipHandler(deps.Memberships, deps.Activity, deps.Metrics)
	bookings := newBookingsHandler(deps.Bookings, deps.Activity, deps.Metrics)
	dashboard := newDashboardHandler(deps.Memberships, deps.Bookings, deps.Feed)

	// Health check with DB ping.
	r.Get("/health", healthHandler(deps.DBPing))

	// Well-known manifest.
	r.Get("/.well-known/brofit.json", WellKnownHandler)

	// Metrics.
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))
	r.Get("/metrics/summary", deps.Metrics.Handler())

	// Public catalog routes.
	r.Get("/api/v1/classes", classes.ListClasses)
	r.Get("/api/v1/classes/{id}", classes.GetClass)
	r.Get("/api/v1/plans", plans.ListPlans)

	// Credential routes (rate limited per client IP).
	r.Group(func(cr chi.Router) {
		cr.Use(ratelimit.Middleware(deps.LoginLimiter, ratelimit.KeyByIP, func() {
			deps.Metrics.IncRateLimitRejection("login")
		}))

		cr.Post("/api/v1/auth/register", authH.Register)
		cr.Post("/api/v1/auth/login", authH.Login)
	})

	// Session-authed routes.
	r.Route("/api/v1", func(ar chi.Router) {
		ar.Use(auth.SessionMiddleware(deps.Sessions))
		ar.Use(ratelimit.Middleware(deps.UserLimiter, ratelimit.KeyByUser, func() {
			deps.Metrics.IncRateLimitRejection("user")
		}))

		ar.Get("/auth/me", authH.Me)
		ar.Post("/auth/logout", authH.Logout)

		ar.Get("/membership", memberships.Get)
		ar.Post("/membership", memberships.Purchase)
		ar.Delete("/membership", memberships.Cancel)

		ar.Get("/bookings", bookings.List)
		ar.Post("/bookings", bookings.Create)
		ar.Get("/bookings/status", bookings.Status)
		ar.Delete("/bookings/{id}", bookings.Delete)

		ar.Get("/dashboard", dashboard.Dashboard)
		ar.Get("/me/activity", dashboard.Activity)
	})

	return r
}

// healthHandler reports service and database status.
func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := "connected"
		status := http.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				db = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"ok","db":"` + db + `"}`))
	}
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
		)
	})
}

// httpMetricsMiddleware records per-request counters and latency histograms
// labeled by the matched route pattern.
func httpMetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(ww.Status())).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}
