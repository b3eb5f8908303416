package api

import "net/http"

// wellKnownManifest is the static JSON manifest for /.well-known/brofit.json.
const wellKnownManifest = `{
  "name": "BroFit",
  "description": "Gym membership and class booking API",
  "version": "0.1.0",
  "api_base": "/api/v1",
  "auth": {
    "type": "bearer",
    "header": "Authorization"
  },
  "endpoints": {
    "classes": "/api/v1/classes",
    "plans": "/api/v1/plans",
    "membership": "/api/v1/membership",
    "bookings": "/api/v1/bookings",
    "dashboard": "/api/v1/dashboard"
  },
  "health": "/health"
}`

// WellKnownHandler returns the static BroFit well-known manifest.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(wellKnownManifest))
}
