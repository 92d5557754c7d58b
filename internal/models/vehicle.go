package models

import "time"

// VehicleType distinguishes cars from bikes; it drives fallback mileage
// estimates when a vehicle has no fuel history.
type VehicleType string

const (
	VehicleTypeCar  VehicleType = "Car"
	VehicleTypeBike VehicleType = "Bike"
)

// Vehicle is one tracked car or bike. All log slices are append-ordered by
// entry time; odometer readings are assumed non-decreasing across FuelLogs.
type Vehicle struct {
	ID              int64          `bson:"id" json:"id"` // creation timestamp, unique
	Name            string         `bson:"name" json:"name"`
	Brand           string         `bson:"brand" json:"brand"`
	Model           string         `bson:"model" json:"model"`
	Variant         string         `bson:"variant,omitempty" json:"variant,omitempty"`
	Year            int            `bson:"year" json:"year"`
	Type            VehicleType    `bson:"type" json:"type"`
	FuelType        string         `bson:"fuelType,omitempty" json:"fuelType,omitempty"`
	TankCapacity    float64        `bson:"tankCapacity,omitempty" json:"tankCapacity,omitempty"`
	RegNumber       string         `bson:"regNumber,omitempty" json:"regNumber,omitempty"`
	ServiceInterval float64        `bson:"serviceInterval,omitempty" json:"serviceInterval,omitempty"` // km
	LastServiceOdo  float64        `bson:"lastServiceOdo,omitempty" json:"lastServiceOdo,omitempty"`   // km
	InsuranceExpiry string         `bson:"insuranceExpiry,omitempty" json:"insuranceExpiry,omitempty"`
	PUCExpiry       string         `bson:"pucExpiry,omitempty" json:"pucExpiry,omitempty"`
	IsManual        bool           `bson:"isManual" json:"isManual"` // entered outside the brand/model catalog
	FuelLogs        []FuelEntry    `bson:"fuelLogs" json:"fuelLogs"`
	ServiceLogs     []ServiceEntry `bson:"serviceLogs" json:"serviceLogs"`
	CareData        CareData       `bson:"careData" json:"careData"`
	DocumentLogs    []Document     `bson:"documentLogs,omitempty" json:"documentLogs,omitempty"`
	ActiveTrip      *Trip          `bson:"activeTrip,omitempty" json:"activeTrip,omitempty"`
	TripHistory     []Trip         `bson:"tripHistory,omitempty" json:"tripHistory,omitempty"`
}

// CareData holds wash and tyre-check timestamps, overwritten in place.
type CareData struct {
	LastWash *time.Time `bson:"lastWash,omitempty" json:"lastWash,omitempty"`
	LastTyre *time.Time `bson:"lastTyre,omitempty" json:"lastTyre,omitempty"`
}

// Document is a scanned document stored against a vehicle. The payload is an
// already-compressed image (data URL); compression happens outside the core.
type Document struct {
	ID    int64  `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Data  string `bson:"data" json:"data"`
}

// CurrentOdometer returns the odometer of the most recent fuel entry.
// The second return is false when the vehicle has no fuel history.
func (v *Vehicle) CurrentOdometer() (float64, bool) {
	if len(v.FuelLogs) == 0 {
		return 0, false
	}
	return v.FuelLogs[len(v.FuelLogs)-1].Odometer, true
}

// LastFuelPrice returns the price-per-litre of the most recent fuel entry,
// or 0 when there is none.
func (v *Vehicle) LastFuelPrice() float64 {
	if len(v.FuelLogs) == 0 {
		return 0
	}
	return v.FuelLogs[len(v.FuelLogs)-1].Price
}
