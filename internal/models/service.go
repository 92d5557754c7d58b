package models

import "time"

// ServiceEntry is one workshop visit. Append-only.
type ServiceEntry struct {
	Date     time.Time `bson:"date" json:"date"`
	Odometer float64   `bson:"odometer" json:"odometer"` // km
	Type     string    `bson:"type" json:"type"`         // free text
	Cost     float64   `bson:"cost" json:"cost"`
}
