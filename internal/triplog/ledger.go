// Package triplog manages the optional active trip of the active vehicle and
// its archived history. All writes go through the vehicle registry's single
// save path.
package triplog

import (
	"errors"
	"fmt"
	"time"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/registry"
)

var (
	ErrNoActiveTrip  = errors.New("no active trip")
	ErrTripActive    = errors.New("a trip is already active")
	ErrInvalidAmount = errors.New("expense amount must be positive")
)

// Ledger tracks trip expenses for the registry's active vehicle.
type Ledger struct {
	reg *registry.Registry
}

// New creates a ledger over the given registry.
func New(reg *registry.Registry) *Ledger {
	return &Ledger{reg: reg}
}

// Start begins a trip on the active vehicle. Fails when one is already
// active; the caller must end it first. An empty name defaults to "Road Trip".
func (l *Ledger) Start(name string) (models.Trip, error) {
	vehicle, err := l.reg.Active()
	if err != nil {
		return models.Trip{}, err
	}
	if vehicle.ActiveTrip != nil {
		return models.Trip{}, fmt.Errorf("%w: %q", ErrTripActive, vehicle.ActiveTrip.Name)
	}

	if name == "" {
		name = "Road Trip"
	}
	trip := models.Trip{
		Name:      name,
		StartDate: time.Now(),
		Expenses:  []models.Expense{},
	}
	vehicle.ActiveTrip = &trip

	if err := l.reg.SaveActive(vehicle); err != nil {
		return models.Trip{}, err
	}
	return trip, nil
}

// AddExpense appends a spend to the active trip. The description defaults to
// the category when empty.
func (l *Ledger) AddExpense(amount float64, category, description string) (models.Expense, error) {
	if amount <= 0 {
		return models.Expense{}, fmt.Errorf("%w: %.2f", ErrInvalidAmount, amount)
	}

	vehicle, err := l.reg.Active()
	if err != nil {
		return models.Expense{}, err
	}
	if vehicle.ActiveTrip == nil {
		return models.Expense{}, ErrNoActiveTrip
	}

	if description == "" {
		description = category
	}
	expense := models.Expense{
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        time.Now(),
	}
	// copy the trip so a failed save leaves the registry's state untouched
	trip := *vehicle.ActiveTrip
	trip.Expenses = append(append([]models.Expense{}, trip.Expenses...), expense)
	vehicle.ActiveTrip = &trip

	if err := l.reg.SaveActive(vehicle); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

// End stamps the end date, archives the trip to the vehicle's history and
// clears the active slot. Returns the archived trip.
func (l *Ledger) End() (models.Trip, error) {
	vehicle, err := l.reg.Active()
	if err != nil {
		return models.Trip{}, err
	}
	if vehicle.ActiveTrip == nil {
		return models.Trip{}, ErrNoActiveTrip
	}

	trip := *vehicle.ActiveTrip
	now := time.Now()
	trip.EndDate = &now

	vehicle.TripHistory = append(vehicle.TripHistory, trip)
	vehicle.ActiveTrip = nil

	if err := l.reg.SaveActive(vehicle); err != nil {
		return models.Trip{}, err
	}
	return trip, nil
}

// Active returns the active trip, or ErrNoActiveTrip.
func (l *Ledger) Active() (models.Trip, error) {
	vehicle, err := l.reg.Active()
	if err != nil {
		return models.Trip{}, err
	}
	if vehicle.ActiveTrip == nil {
		return models.Trip{}, ErrNoActiveTrip
	}
	return *vehicle.ActiveTrip, nil
}

// History returns the archived trips of the active vehicle, oldest first.
func (l *Ledger) History() ([]models.Trip, error) {
	vehicle, err := l.reg.Active()
	if err != nil {
		return nil, err
	}
	return append([]models.Trip{}, vehicle.TripHistory...), nil
}
