package models

import "time"

// Snapshot is the whole-registry document mirrored to the cloud, one per
// authenticated user. Sync is last-write-wins: Push replaces the remote
// document, Pull replaces the local store.
type Snapshot struct {
	Vehicles           []Vehicle `bson:"vehicles" json:"vehicles"`
	ActiveVehicleIndex int       `bson:"activeVehicleIndex" json:"activeVehicleIndex"`
	LastUpdated        time.Time `bson:"lastUpdated" json:"lastUpdated"`
}
