package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/motormate/motormate/internal/telemetry"
)

const obdReadTimeout = 5 * time.Second

// OBDHandler serves live vehicle-bus readings
type OBDHandler struct {
	source telemetry.Source
}

// NewOBDHandler creates a new live-data handler
func NewOBDHandler(source telemetry.Source) *OBDHandler {
	return &OBDHandler{source: source}
}

// Current returns the next frame from the vehicle bus
func (h *OBDHandler) Current(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), obdReadTimeout)
	defer cancel()

	stream, err := h.source.Subscribe(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	select {
	case frame, ok := <-stream:
		if !ok {
			http.Error(w, "Telemetry stream closed", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, frame)
	case <-ctx.Done():
		http.Error(w, "No telemetry received", http.StatusGatewayTimeout)
	}
}
