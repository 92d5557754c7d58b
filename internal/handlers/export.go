package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/motormate/motormate/internal/export"
	"github.com/motormate/motormate/internal/registry"
)

// ExportHandler serves log history as CSV downloads
type ExportHandler struct {
	reg *registry.Registry
}

// NewExportHandler creates a new export handler
func NewExportHandler(reg *registry.Registry) *ExportHandler {
	return &ExportHandler{reg: reg}
}

// FuelCSV downloads the active vehicle's fuel log
func (h *ExportHandler) FuelCSV(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fuel_logs.csv"`)
	if err := export.WriteFuelCSV(w, vehicle.FuelLogs); err != nil {
		log.WithError(err).Error("Failed to write fuel CSV")
	}
}

// ServiceCSV downloads the active vehicle's service log
func (h *ExportHandler) ServiceCSV(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="service_logs.csv"`)
	if err := export.WriteServiceCSV(w, vehicle.ServiceLogs); err != nil {
		log.WithError(err).Error("Failed to write service CSV")
	}
}
