package handlers

import (
	"net/http"

	"github.com/motormate/motormate/internal/cloudsync"
	"github.com/motormate/motormate/internal/middleware"
)

// SyncHandler handles cloud backup requests. Routes are behind the auth
// middleware; the user id comes from the validated token.
type SyncHandler struct {
	bridge *cloudsync.Bridge
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(bridge *cloudsync.Bridge) *SyncHandler {
	return &SyncHandler{bridge: bridge}
}

// Push uploads the local snapshot to the cloud
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if err := h.bridge.PushFor(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pushed"})
}

// Pull replaces the local snapshot with the cloud copy
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if err := h.bridge.PullFor(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pulled"})
}
