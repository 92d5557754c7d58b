package handlers

import (
	"net/http"
	"strconv"

	"github.com/motormate/motormate/internal/triplog"
)

// TripHandler handles trip ledger requests
type TripHandler struct {
	ledger *triplog.Ledger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(ledger *triplog.Ledger) *TripHandler {
	return &TripHandler{ledger: ledger}
}

// Start opens a trip on the active vehicle
func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	trip, err := h.ledger.Start(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// AddExpense appends an expense to the running trip
func (h *TripHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	expense, err := h.ledger.AddExpense(req.Amount, req.Category, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// End closes the running trip and archives it
func (h *TripHandler) End(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	trip, err := h.ledger.End()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// Active returns the running trip
func (h *TripHandler) Active(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	trip, err := h.ledger.Active()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// History returns the archived trips
func (h *TripHandler) History(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	trips, err := h.ledger.History()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// Split returns the per-person share of the running trip
func (h *TripHandler) Split(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	people, err := strconv.Atoi(r.URL.Query().Get("people"))
	if err != nil {
		http.Error(w, "Invalid people count", http.StatusBadRequest)
		return
	}

	trip, err := h.ledger.Active()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":     trip.Total(),
		"perPerson": trip.SplitPerPerson(people),
		"summary":   trip.SummaryText(people),
	})
}
