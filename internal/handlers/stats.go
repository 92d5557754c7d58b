package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/motormate/motormate/internal/metrics"
	"github.com/motormate/motormate/internal/registry"
)

// StatsHandler serves computed dashboard figures and insights
type StatsHandler struct {
	reg *registry.Registry
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(reg *registry.Registry) *StatsHandler {
	return &StatsHandler{reg: reg}
}

// Dashboard returns the aggregate figures for the active vehicle
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeDashboard(vehicle.FuelLogs, vehicle.ServiceLogs))
}

// Insights returns the advisory strings for the active vehicle
func (h *StatsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"insights": metrics.ComputeInsights(vehicle)})
}

// Care returns the wash and tyre status lines
func (h *StatsHandler) Care(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, map[string]string{
		"wash": metrics.CareStatus(vehicle.CareData.LastWash, metrics.WashIntervalDays, now),
		"tyre": metrics.CareStatus(vehicle.CareData.LastTyre, metrics.TyreIntervalDays, now),
	})
}

// TripCost estimates fuel cost for a planned distance
func (h *StatsHandler) TripCost(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	distance, err := strconv.ParseFloat(r.URL.Query().Get("distance"), 64)
	if err != nil || distance <= 0 {
		http.Error(w, "Invalid distance", http.StatusBadRequest)
		return
	}

	vehicle, err := h.reg.Active()
	if err != nil {
		writeError(w, err)
		return
	}

	cost, litres := metrics.EstimateTripCost(vehicle, distance)
	writeJSON(w, http.StatusOK, map[string]float64{"cost": cost, "litres": litres})
}
