package models

import "time"

// Position is one sample from a live position stream.
type Position struct {
	Location  Location  `bson:"location" json:"location"`
	Speed     float64   `bson:"speed" json:"speed"` // m/s, as reported by the source
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// SpeedKmh converts the reported ground speed to km/h for display.
func (p Position) SpeedKmh() float64 {
	return p.Speed * 3.6
}

// Telemetry is one live-data frame from the vehicle bus (or its simulation).
type Telemetry struct {
	RPM            int       `bson:"rpm" json:"rpm"`
	Speed          float64   `bson:"speed" json:"speed"` // km/h
	CoolantTemp    float64   `bson:"coolant_temp" json:"coolant_temp"`
	BatteryVoltage float64   `bson:"battery_voltage" json:"battery_voltage"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}
