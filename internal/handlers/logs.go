package handlers

import (
	"net/http"
	"strconv"

	"github.com/motormate/motormate/internal/registry"
)

// LogHandler handles fuel, service, care, and document log requests
type LogHandler struct {
	reg *registry.Registry
}

// NewLogHandler creates a new log handler
func NewLogHandler(reg *registry.Registry) *LogHandler {
	return &LogHandler{reg: reg}
}

// AddFuel appends a refuel to the active vehicle
func (h *LogHandler) AddFuel(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Odometer float64 `json:"odometer"`
		Litres   float64 `json:"litres"`
		Price    float64 `json:"price"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.reg.AddFuel(req.Odometer, req.Litres, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// AddService appends a service record to the active vehicle
func (h *LogHandler) AddService(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Odometer float64 `json:"odometer"`
		Type     string  `json:"type"`
		Cost     float64 `json:"cost"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.reg.AddService(req.Odometer, req.Type, req.Cost)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// MarkWashed stamps the wash timer
func (h *LogHandler) MarkWashed(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.reg.MarkWashed(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "washed"})
}

// MarkTyreChecked stamps the tyre timer
func (h *LogHandler) MarkTyreChecked(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.reg.MarkTyreChecked(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "tyres checked"})
}

// Documents lists or adds document vault entries
func (h *LogHandler) Documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		vehicle, err := h.reg.Active()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, vehicle.DocumentLogs)
	case http.MethodPost:
		var req struct {
			Title string `json:"title"`
			Data  string `json:"data"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		doc, err := h.reg.AddDocument(req.Title, req.Data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// DeleteDocument removes a vault entry by index
func (h *LogHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	if err := h.reg.DeleteDocument(index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
