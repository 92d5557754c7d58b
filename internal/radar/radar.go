// Package radar raises throttled alerts when the live position comes within
// range of a saved speed-camera mark.
package radar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/motormate/motormate/internal/geo"
	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/store"
	"github.com/motormate/motormate/internal/telemetry"
)

var (
	// ErrUnsupportedPlatform is returned when no position source exists;
	// the radar stays stopped and the feature is simply unavailable.
	ErrUnsupportedPlatform = errors.New("no position source available")
	ErrValidation          = errors.New("camera name is required")
)

const (
	// DangerRadiusKm is the distance below which a camera counts as ahead.
	DangerRadiusKm = 0.5
	// alertThrottle is the minimum gap between two alert sounds.
	alertThrottle = 5 * time.Second
)

// Alerter plays the proximity alert. The audio backend lives outside the
// core; tests plug in a counter.
type Alerter interface {
	Alert()
}

// Status is the render-ready radar state.
type Status struct {
	Scanning  bool            `json:"scanning"`
	Danger    bool            `json:"danger"`
	NearestM  float64         `json:"nearestM"` // metres to the nearest camera when in danger
	SpeedKmh  float64         `json:"speedKmh"`
	Position  models.Location `json:"position"`
	CameraCnt int             `json:"cameraCount"`
}

// Radar consumes a live position stream and checks proximity to saved camera
// marks. It is a two-state toggle: stopped or scanning.
type Radar struct {
	store   store.Store
	source  telemetry.PositionSource
	alerter Alerter
	now     func() time.Time

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	cameras   []models.CameraMark
	status    Status
	lastAlert time.Time
}

// New builds a radar over the given store and position source. source may be
// nil on platforms without geolocation; Start will then fail with
// ErrUnsupportedPlatform. alerter may be nil to disable the sound.
func New(s store.Store, source telemetry.PositionSource, alerter Alerter) (*Radar, error) {
	r := &Radar{
		store:   s,
		source:  source,
		alerter: alerter,
		now:     time.Now,
	}
	if err := s.Get(store.KeyCameras, &r.cameras); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return nil, fmt.Errorf("load camera marks: %w", err)
	}
	r.status.CameraCnt = len(r.cameras)
	return r, nil
}

// Start begins scanning. Starting an already-scanning radar is a no-op.
func (r *Radar) Start(ctx context.Context) error {
	if r.source == nil {
		return ErrUnsupportedPlatform
	}

	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		log.Warn("Radar already scanning")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	stream, err := r.source.Watch(watchCtx)
	if err != nil {
		cancel()
		r.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrUnsupportedPlatform, err)
	}

	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.status.Scanning = true
	r.mu.Unlock()

	go func() {
		defer close(done)
		for pos := range stream {
			r.handleSample(pos)
		}
	}()
	log.Info("Radar scanning started")
	return nil
}

// Stop ends scanning, releasing the position subscription and resetting the
// displayed speed to zero. Stopping a stopped radar is a no-op.
func (r *Radar) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	r.mu.Lock()
	r.status.Scanning = false
	r.status.Danger = false
	r.status.SpeedKmh = 0
	r.status.NearestM = 0
	r.mu.Unlock()
	log.Info("Radar stopped")
}

// handleSample evaluates one position against the saved cameras.
func (r *Radar) handleSample(pos models.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.Position = pos.Location
	r.status.SpeedKmh = pos.SpeedKmh()

	danger := false
	nearestKm := 0.0
	for _, cam := range r.cameras {
		d := geo.HaversineKm(pos.Location.Lat, pos.Location.Lon, cam.Location.Lat, cam.Location.Lon)
		if d < DangerRadiusKm {
			if !danger || d < nearestKm {
				nearestKm = d
			}
			danger = true
		}
	}

	r.status.Danger = danger
	if !danger {
		r.status.NearestM = 0
		return
	}
	r.status.NearestM = nearestKm * 1000

	now := r.now()
	if now.Sub(r.lastAlert) >= alertThrottle {
		r.lastAlert = now
		if r.alerter != nil {
			r.alerter.Alert()
		}
		log.WithField("nearest_m", r.status.NearestM).Warn("Camera ahead")
	}
}

// Status returns the current radar state.
func (r *Radar) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// MarkCamera takes a one-shot position read and saves a camera mark there.
func (r *Radar) MarkCamera(ctx context.Context, name string) (models.CameraMark, error) {
	if name == "" {
		return models.CameraMark{}, ErrValidation
	}
	if r.source == nil {
		return models.CameraMark{}, ErrUnsupportedPlatform
	}

	pos, err := r.source.Current(ctx)
	if err != nil {
		return models.CameraMark{}, fmt.Errorf("read position: %w", err)
	}

	mark := models.CameraMark{
		ID:       time.Now().UnixMilli(),
		Name:     name,
		Location: pos.Location,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	next := append(append([]models.CameraMark{}, r.cameras...), mark)
	if err := r.store.Put(store.KeyCameras, next); err != nil {
		return models.CameraMark{}, fmt.Errorf("persist camera marks: %w", err)
	}
	r.cameras = next
	r.status.CameraCnt = len(next)
	return mark, nil
}

// Cameras returns the saved camera marks.
func (r *Radar) Cameras() []models.CameraMark {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CameraMark{}, r.cameras...)
}

// ClearCameras removes every saved mark. Individual deletion is not
// supported.
func (r *Radar) ClearCameras() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Put(store.KeyCameras, []models.CameraMark{}); err != nil {
		return fmt.Errorf("persist camera marks: %w", err)
	}
	r.cameras = nil
	r.status.CameraCnt = 0
	return nil
}
