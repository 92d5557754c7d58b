// Package store provides the durable key-value storage backing the vehicle
// registry and the radar's camera marks. Values are JSON documents; the whole
// store lives in one file on the local device.
package store

import "errors"

// ErrKeyNotFound is returned by Get for keys that were never written.
var ErrKeyNotFound = errors.New("key not found")

// Storage keys. The legacy keys hold pre-multi-vehicle flat data and are read
// once during registry initialization.
const (
	KeyVehicles    = "vehicles"
	KeyActiveIndex = "activeVehicleIndex"
	KeyCameras     = "savedCameras"

	KeyLegacyFuelLogs    = "fuelLogs"
	KeyLegacyServiceLogs = "serviceLogs"
	KeyLegacyProfile     = "vehicleProfile"
	KeyLegacyCareData    = "careData"
)

// Store is the persistence contract. Implementations must make Put durable
// before returning.
type Store interface {
	// Get unmarshals the value at key into out, or returns ErrKeyNotFound.
	Get(key string, out any) error
	// Put marshals val and persists it at key.
	Put(key string, val any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
