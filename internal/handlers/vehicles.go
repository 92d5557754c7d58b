package handlers

import (
	"net/http"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/registry"
)

// VehicleHandler handles garage requests
type VehicleHandler struct {
	reg *registry.Registry
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(reg *registry.Registry) *VehicleHandler {
	return &VehicleHandler{reg: reg}
}

// List returns every vehicle plus the active index
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.reg.Snapshot())
}

// Active returns the currently selected vehicle
func (h *VehicleHandler) Active(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// saveVehicleRequest wraps a vehicle draft with an optional edit target.
// EditIndex nil means append a new vehicle.
type saveVehicleRequest struct {
	Vehicle   models.Vehicle `json:"vehicle"`
	EditIndex *int           `json:"editIndex"`
}

// Save creates or edits a vehicle
func (h *VehicleHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req saveVehicleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	index, err := h.reg.Upsert(req.Vehicle, req.EditIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"index": index})
}

// Activate switches the active vehicle
func (h *VehicleHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.reg.SetActive(req.Index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"activeVehicleIndex": req.Index})
}

// Reset wipes the active vehicle's logs and care data
func (h *VehicleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.reg.ResetActiveData(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
