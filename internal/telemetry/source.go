// Package telemetry provides the live data capabilities the radar and the
// live-data panel consume: a position stream and a vehicle-bus stream. Both
// are interfaces so the simulated generators can later be swapped for real
// GPS or OBD hardware without touching the consumers.
package telemetry

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/motormate/motormate/internal/models"
)

// PositionSource delivers GPS samples.
type PositionSource interface {
	// Watch streams positions until ctx is cancelled. The returned channel
	// is closed when the stream ends.
	Watch(ctx context.Context) (<-chan models.Position, error)
	// Current performs a one-shot position read.
	Current(ctx context.Context) (models.Position, error)
}

// Source delivers vehicle-bus frames (rpm, speed, temperatures, battery).
type Source interface {
	// Subscribe streams frames until ctx is cancelled. The returned channel
	// is closed when the stream ends.
	Subscribe(ctx context.Context) (<-chan models.Telemetry, error)
}

// SimulatedSource generates random but plausible vehicle-bus frames on a
// fixed cadence. It stands in for a real OBD reader.
type SimulatedSource struct {
	Interval time.Duration
}

// NewSimulatedSource returns a simulated source ticking once per second.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{Interval: time.Second}
}

// Subscribe implements Source.
func (s *SimulatedSource) Subscribe(ctx context.Context) (<-chan models.Telemetry, error) {
	out := make(chan models.Telemetry)
	go func() {
		defer close(out)
		tick := time.NewTicker(s.Interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				select {
				case out <- randomFrame():
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func randomFrame() models.Telemetry {
	return models.Telemetry{
		RPM:            800 + rand.Intn(2200),
		Speed:          float64(rand.Intn(80)),
		CoolantTemp:    85 + rand.Float64()*10,
		BatteryVoltage: 13.5 + rand.Float64()*0.9,
		Timestamp:      time.Now(),
	}
}

// SimulatedPositionSource walks randomly around a base location, for
// development without a GPS fix.
type SimulatedPositionSource struct {
	Base     models.Location
	Interval time.Duration

	mu       sync.Mutex
	position models.Location
}

// NewSimulatedPositionSource returns a simulated GPS ticking once per second
// around base.
func NewSimulatedPositionSource(base models.Location) *SimulatedPositionSource {
	return &SimulatedPositionSource{Base: base, Interval: time.Second, position: base}
}

// Watch implements PositionSource.
func (s *SimulatedPositionSource) Watch(ctx context.Context) (<-chan models.Position, error) {
	out := make(chan models.Position)
	go func() {
		defer close(out)
		tick := time.NewTicker(s.Interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				sample := models.Position{
					Location:  s.step(),
					Speed:     5 + rand.Float64()*20, // m/s
					Timestamp: time.Now(),
				}
				select {
				case out <- sample:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// step advances the walk by one jittered move. Watch's goroutine and Current
// both touch the position, so it is mutex-guarded.
func (s *SimulatedPositionSource) step() models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = jitter(s.position, 30)
	return s.position
}

// Current implements PositionSource.
func (s *SimulatedPositionSource) Current(_ context.Context) (models.Position, error) {
	s.mu.Lock()
	pos := s.position
	s.mu.Unlock()
	return models.Position{Location: pos, Timestamp: time.Now()}, nil
}

// jitter shifts a location by up to meters in each axis.
func jitter(base models.Location, meters float64) models.Location {
	const latMetersPerDeg = 111320.0
	lonMetersPerDeg := latMetersPerDeg * cosDeg(base.Lat)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return models.Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

func cosDeg(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}
