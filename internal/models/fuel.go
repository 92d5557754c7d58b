package models

import (
	"fmt"
	"strconv"
	"time"
)

// MileageUnknown marks a fuel entry whose mileage could not be derived
// (first fill, or the odometer did not increase since the previous fill).
const MileageUnknown = "-"

// FuelEntry is one fill-up. Entries are immutable once created; they are only
// appended, never edited.
type FuelEntry struct {
	Date     time.Time `bson:"date" json:"date"`
	Odometer float64   `bson:"odometer" json:"odometer"` // km
	Litres   float64   `bson:"litres" json:"litres"`
	Price    float64   `bson:"price" json:"price"` // per litre
	Total    float64   `bson:"total" json:"total"`
	Mileage  string    `bson:"mileage" json:"mileage"` // km/l, or MileageUnknown
}

// NewFuelEntry builds a fill-up record, deriving total cost and the mileage
// since the previous fill. prevOdo is the odometer of the previous entry; for
// a first entry pass the current odometer so the distance comes out zero.
func NewFuelEntry(date time.Time, prevOdo, odo, litres, price float64) FuelEntry {
	entry := FuelEntry{
		Date:     date,
		Odometer: odo,
		Litres:   litres,
		Price:    price,
		Total:    litres * price,
		Mileage:  MileageUnknown,
	}
	distance := odo - prevOdo
	if distance > 0 && litres > 0 {
		entry.Mileage = fmt.Sprintf("%.2f", distance/litres)
	}
	return entry
}

// MileageValue parses the stored mileage. The second return is false for
// unknown entries and for values that do not parse as a positive number.
func (e FuelEntry) MileageValue() (float64, bool) {
	m, err := strconv.ParseFloat(e.Mileage, 64)
	if err != nil || m <= 0 {
		return 0, false
	}
	return m, true
}
