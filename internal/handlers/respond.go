// Package handlers exposes the app's operations over HTTP. Handlers are thin:
// decode, call the owning component, map its error to a status code, encode.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/motormate/motormate/internal/cloudsync"
	"github.com/motormate/motormate/internal/radar"
	"github.com/motormate/motormate/internal/registry"
	"github.com/motormate/motormate/internal/triplog"
)

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps component errors onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrValidation),
		errors.Is(err, radar.ErrValidation),
		errors.Is(err, triplog.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, registry.ErrIndexOutOfRange),
		errors.Is(err, registry.ErrNoActiveVehicle),
		errors.Is(err, triplog.ErrNoActiveTrip),
		errors.Is(err, cloudsync.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, triplog.ErrTripActive):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, radar.ErrUnsupportedPlatform):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	case errors.Is(err, cloudsync.ErrNoSession):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, cloudsync.ErrSyncFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// requireMethod rejects other verbs
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
