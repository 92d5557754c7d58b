package handlers

import (
	"context"
	"net/http"

	"github.com/motormate/motormate/internal/radar"
)

// RadarHandler handles speed camera radar requests
type RadarHandler struct {
	radar *radar.Radar
}

// NewRadarHandler creates a new radar handler
func NewRadarHandler(r *radar.Radar) *RadarHandler {
	return &RadarHandler{radar: r}
}

// Start begins scanning the position stream
func (h *RadarHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	// scanning outlives the request; Stop cancels it
	if err := h.radar.Start(context.Background()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.radar.Status())
}

// Stop ends scanning
func (h *RadarHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	h.radar.Stop()
	writeJSON(w, http.StatusOK, h.radar.Status())
}

// Status reports the live scan state
func (h *RadarHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.radar.Status())
}

// Cameras lists or clears saved camera marks, or saves a new one
func (h *RadarHandler) Cameras(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.radar.Cameras())
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		mark, err := h.radar.MarkCamera(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, mark)
	case http.MethodDelete:
		if err := h.radar.ClearCameras(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
