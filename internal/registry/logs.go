package registry

import (
	"fmt"
	"time"

	"github.com/motormate/motormate/internal/models"
)

// AddFuel validates and appends a fill-up to the active vehicle, deriving the
// mileage against the previous entry at creation time.
func (r *Registry) AddFuel(odo, litres, price float64) (models.FuelEntry, error) {
	if odo <= 0 || litres <= 0 || price <= 0 {
		return models.FuelEntry{}, fmt.Errorf("%w: odometer, litres and price must be positive", ErrValidation)
	}

	vehicle, err := r.Active()
	if err != nil {
		return models.FuelEntry{}, err
	}

	prevOdo := odo
	if n := len(vehicle.FuelLogs); n > 0 {
		prevOdo = vehicle.FuelLogs[n-1].Odometer
	}
	entry := models.NewFuelEntry(time.Now(), prevOdo, odo, litres, price)
	vehicle.FuelLogs = append(vehicle.FuelLogs, entry)

	if err := r.SaveActive(vehicle); err != nil {
		return models.FuelEntry{}, err
	}
	return entry, nil
}

// AddService validates and appends a service record to the active vehicle.
func (r *Registry) AddService(odo float64, serviceType string, cost float64) (models.ServiceEntry, error) {
	if odo <= 0 || serviceType == "" || cost <= 0 {
		return models.ServiceEntry{}, fmt.Errorf("%w: odometer, type and cost are required", ErrValidation)
	}

	vehicle, err := r.Active()
	if err != nil {
		return models.ServiceEntry{}, err
	}

	entry := models.ServiceEntry{
		Date:     time.Now(),
		Odometer: odo,
		Type:     serviceType,
		Cost:     cost,
	}
	vehicle.ServiceLogs = append(vehicle.ServiceLogs, entry)

	if err := r.SaveActive(vehicle); err != nil {
		return models.ServiceEntry{}, err
	}
	return entry, nil
}

// MarkWashed stamps the active vehicle's last-wash time.
func (r *Registry) MarkWashed() error {
	vehicle, err := r.Active()
	if err != nil {
		return err
	}
	now := time.Now()
	vehicle.CareData.LastWash = &now
	return r.SaveActive(vehicle)
}

// MarkTyreChecked stamps the active vehicle's last tyre-pressure check.
func (r *Registry) MarkTyreChecked() error {
	vehicle, err := r.Active()
	if err != nil {
		return err
	}
	now := time.Now()
	vehicle.CareData.LastTyre = &now
	return r.SaveActive(vehicle)
}

// AddDocument appends a scanned document to the active vehicle.
func (r *Registry) AddDocument(title, data string) (models.Document, error) {
	if title == "" || data == "" {
		return models.Document{}, fmt.Errorf("%w: title and image are required", ErrValidation)
	}

	vehicle, err := r.Active()
	if err != nil {
		return models.Document{}, err
	}

	doc := models.Document{
		ID:    time.Now().UnixMilli(),
		Title: title,
		Data:  data,
	}
	vehicle.DocumentLogs = append(vehicle.DocumentLogs, doc)

	if err := r.SaveActive(vehicle); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// DeleteDocument removes the document at index from the active vehicle.
func (r *Registry) DeleteDocument(index int) error {
	vehicle, err := r.Active()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(vehicle.DocumentLogs) {
		return fmt.Errorf("%w: document %d of %d", ErrIndexOutOfRange, index, len(vehicle.DocumentLogs))
	}
	vehicle.DocumentLogs = append(vehicle.DocumentLogs[:index:index], vehicle.DocumentLogs[index+1:]...)
	return r.SaveActive(vehicle)
}

// ResetActiveData clears fuel, service and care data for the active vehicle
// only; profile fields, documents and trips are untouched.
func (r *Registry) ResetActiveData() error {
	vehicle, err := r.Active()
	if err != nil {
		return err
	}
	vehicle.FuelLogs = []models.FuelEntry{}
	vehicle.ServiceLogs = []models.ServiceEntry{}
	vehicle.CareData = models.CareData{}
	return r.SaveActive(vehicle)
}
