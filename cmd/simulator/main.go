package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/telemetry"
)

// riderState is the simulated vehicle: a position wandering along short
// randomized legs around the base point, plus a noisy engine profile.
type riderState struct {
	Position models.Location
	Target   models.Location
	SpeedKmh float64

	RPM         int
	CoolantTemp float64
	BatteryVolt float64
}

func jitterLocation(base models.Location, meters float64) models.Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return models.Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

func haversineKm(a, b models.Location) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

func lerp(a, b models.Location, t float64) models.Location {
	return models.Location{Lat: a.Lat + (b.Lat-a.Lat)*t, Lon: a.Lon + (b.Lon-a.Lon)*t}
}

// step advances the rider towards the current target, picking a new leg of
// 0.5-2.5 km when the target is reached.
func (s *riderState) step(tickSec float64) {
	legKm := haversineKm(s.Position, s.Target)
	if legKm < 0.02 {
		s.Target = jitterLocation(s.Position, 500+rand.Float64()*2000)
		return
	}

	travelKm := s.SpeedKmh * (tickSec / 3600.0)
	t := travelKm / legKm
	if t > 1 {
		t = 1
	}
	s.Position = lerp(s.Position, s.Target, t)
}

func (s *riderState) tick(tickSec float64) {
	// speed noise within city limits
	s.SpeedKmh += (rand.Float64()*2 - 1) * 4
	if s.SpeedKmh < 10 {
		s.SpeedKmh = 10
	}
	if s.SpeedKmh > 70 {
		s.SpeedKmh = 70
	}
	s.step(tickSec)

	s.RPM = 1500 + int(s.SpeedKmh*40) + rand.Intn(300)
	s.CoolantTemp = 85 + rand.Float64()*10
	s.BatteryVolt = 13.5 + rand.Float64()*0.9
}

func (s *riderState) position() models.Position {
	return models.Position{
		Location:  s.Position,
		Speed:     s.SpeedKmh / 3.6, // m/s on the wire, like a GPS fix
		Timestamp: time.Now(),
	}
}

func (s *riderState) frame() models.Telemetry {
	return models.Telemetry{
		RPM:            s.RPM,
		Speed:          s.SpeedKmh,
		CoolantTemp:    s.CoolantTemp,
		BatteryVoltage: s.BatteryVolt,
		Timestamp:      time.Now(),
	}
}

func main() {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = "motormate-simulator"
	}

	interval := 1 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	base := models.Location{Lat: 9.9312, Lon: 76.2673}
	if v := os.Getenv("SIM_BASE_LAT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			base.Lat = f
		}
	}
	if v := os.Getenv("SIM_BASE_LON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			base.Lon = f
		}
	}

	client, err := telemetry.ConnectMQTT(broker, clientID)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}

	log.WithFields(log.Fields{
		"broker":   broker,
		"interval": interval,
		"base_lat": base.Lat,
		"base_lon": base.Lon,
	}).Info("Starting ride simulation")

	state := &riderState{
		Position: jitterLocation(base, 200),
		Target:   jitterLocation(base, 1500),
		SpeedKmh: 20 + rand.Float64()*20,
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		state.tick(interval.Seconds())

		posPayload, err := json.Marshal(state.position())
		if err != nil {
			log.WithError(err).Error("Failed to marshal position")
			continue
		}
		client.Publish(telemetry.TopicPosition, 0, false, posPayload)

		obdPayload, err := json.Marshal(state.frame())
		if err != nil {
			log.WithError(err).Error("Failed to marshal telemetry")
			continue
		}
		client.Publish(telemetry.TopicOBD, 0, false, obdPayload)

		log.WithFields(log.Fields{
			"lat":       state.Position.Lat,
			"lon":       state.Position.Lon,
			"speed_kmh": state.SpeedKmh,
		}).Info("Published tick")
	}
}
