// Package registry owns the vehicle list and the active-vehicle index. Every
// mutation of vehicle data flows through SaveActive, which persists the whole
// list; nothing else writes vehicle state to the store.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/store"
)

var (
	ErrValidation      = errors.New("missing required vehicle fields")
	ErrIndexOutOfRange = errors.New("vehicle index out of range")
	ErrNoActiveVehicle = errors.New("no active vehicle")
	ErrNotInitialized  = errors.New("registry not initialized")
)

// legacyProfile mirrors the flat single-vehicle profile key used before the
// multi-vehicle list existed. It is read once during migration.
type legacyProfile struct {
	Name            string  `json:"name"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	FuelType        string  `json:"fuelType"`
	TankCapacity    float64 `json:"tankCapacity"`
	ServiceInterval float64 `json:"interval"`
	LastServiceOdo  float64 `json:"lastService"`
}

// Registry mediates all reads and writes between callers and the persistent
// store for vehicle data.
type Registry struct {
	store store.Store

	mu          sync.Mutex
	vehicles    []models.Vehicle
	active      int
	initialized bool

	onChange []func(models.Vehicle)
	pushHook func(models.Snapshot)
}

// New creates a registry over the given store. Call Initialize before use.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// OnChange registers a callback fired after the active vehicle changes
// (dependent components recompute from the new vehicle).
func (r *Registry) OnChange(fn func(models.Vehicle)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// SetPushHook installs the best-effort cloud push invoked after every
// successful save. The hook runs on its own goroutine; its failures must not
// affect local state.
func (r *Registry) SetPushHook(fn func(models.Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushHook = fn
}

// Initialize loads the vehicle list. On a store with no list it migrates the
// legacy flat keys into a single vehicle; on an out-of-range active index it
// clamps to 0. Idempotent.
func (r *Registry) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return nil
	}

	var vehicles []models.Vehicle
	if err := r.store.Get(store.KeyVehicles, &vehicles); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return fmt.Errorf("load vehicle list: %w", err)
	}

	active := 0
	if err := r.store.Get(store.KeyActiveIndex, &active); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return fmt.Errorf("load active index: %w", err)
	}

	if len(vehicles) == 0 {
		migrated := r.migrateLegacy()
		vehicles = []models.Vehicle{migrated}
		active = 0
		if err := r.store.Put(store.KeyVehicles, vehicles); err != nil {
			return fmt.Errorf("persist migrated vehicle: %w", err)
		}
		if err := r.store.Put(store.KeyActiveIndex, active); err != nil {
			return fmt.Errorf("persist active index: %w", err)
		}
		log.WithField("vehicle", migrated.Name).Info("Migrated legacy data into vehicle list")
	} else if active < 0 || active >= len(vehicles) {
		active = 0
		if err := r.store.Put(store.KeyActiveIndex, active); err != nil {
			return fmt.Errorf("persist active index: %w", err)
		}
	}

	r.vehicles = vehicles
	r.active = active
	r.initialized = true
	return nil
}

// migrateLegacy builds the seed vehicle from the pre-multi-vehicle flat keys.
// Absent keys simply leave zero values behind.
func (r *Registry) migrateLegacy() models.Vehicle {
	var (
		profile     legacyProfile
		fuelLogs    []models.FuelEntry
		serviceLogs []models.ServiceEntry
		care        models.CareData
	)
	_ = r.store.Get(store.KeyLegacyProfile, &profile)
	_ = r.store.Get(store.KeyLegacyFuelLogs, &fuelLogs)
	_ = r.store.Get(store.KeyLegacyServiceLogs, &serviceLogs)
	_ = r.store.Get(store.KeyLegacyCareData, &care)

	name := profile.Name
	if name == "" {
		name = "My Vehicle"
	}
	if fuelLogs == nil {
		fuelLogs = []models.FuelEntry{}
	}
	if serviceLogs == nil {
		serviceLogs = []models.ServiceEntry{}
	}

	return models.Vehicle{
		ID:              time.Now().UnixMilli(),
		Name:            name,
		Brand:           profile.Brand,
		Model:           profile.Model,
		Year:            profile.Year,
		FuelType:        profile.FuelType,
		TankCapacity:    profile.TankCapacity,
		ServiceInterval: profile.ServiceInterval,
		LastServiceOdo:  profile.LastServiceOdo,
		FuelLogs:        fuelLogs,
		ServiceLogs:     serviceLogs,
		CareData:        care,
	}
}

// Active returns a copy of the vehicle at the active index.
func (r *Registry) Active() (models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

func (r *Registry) activeLocked() (models.Vehicle, error) {
	if !r.initialized {
		return models.Vehicle{}, ErrNotInitialized
	}
	if len(r.vehicles) == 0 {
		return models.Vehicle{}, ErrNoActiveVehicle
	}
	return r.vehicles[r.active], nil
}

// ActiveIndex returns the current active-vehicle index.
func (r *Registry) ActiveIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Vehicles returns a copy of the vehicle list.
func (r *Registry) Vehicles() []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	return out
}

// SetActive switches the active vehicle, persists the index and notifies
// change listeners. The previous index is untouched on failure.
func (r *Registry) SetActive(index int) error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return ErrNotInitialized
	}
	if index < 0 || index >= len(r.vehicles) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(r.vehicles))
	}
	if err := r.store.Put(store.KeyActiveIndex, index); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("persist active index: %w", err)
	}
	r.active = index
	vehicle := r.vehicles[index]
	listeners := append([]func(models.Vehicle){}, r.onChange...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(vehicle)
	}
	return nil
}

// SaveActive replaces the vehicle at the active index and persists the whole
// list. This is the single write path for every vehicle mutation. On success
// the cloud push hook fires on its own goroutine.
func (r *Registry) SaveActive(vehicle models.Vehicle) error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return ErrNotInitialized
	}
	if len(r.vehicles) == 0 {
		r.mu.Unlock()
		return ErrNoActiveVehicle
	}

	old := r.vehicles[r.active]
	merged := mergeVehicle(old, vehicle)

	next := make([]models.Vehicle, len(r.vehicles))
	copy(next, r.vehicles)
	next[r.active] = merged

	if err := r.persistLocked(next, merged); err != nil {
		r.mu.Unlock()
		return err
	}
	r.vehicles = next
	snap := r.snapshotLocked()
	hook := r.pushHook
	r.mu.Unlock()

	if hook != nil {
		go hook(snap)
	}
	return nil
}

// mergeVehicle keeps prior values for fields the caller left unspecified, the
// way the original spread the previous record under the new one.
func mergeVehicle(old, next models.Vehicle) models.Vehicle {
	if next.ID == 0 {
		next.ID = old.ID
	}
	if next.Name == "" {
		next.Name = old.Name
	}
	if next.FuelLogs == nil {
		next.FuelLogs = old.FuelLogs
	}
	if next.ServiceLogs == nil {
		next.ServiceLogs = old.ServiceLogs
	}
	if next.DocumentLogs == nil {
		next.DocumentLogs = old.DocumentLogs
	}
	if next.TripHistory == nil {
		next.TripHistory = old.TripHistory
	}
	return next
}

// persistLocked writes the list and mirrors the active vehicle into the
// legacy flat keys, keeping them loosely in sync as the original did.
func (r *Registry) persistLocked(vehicles []models.Vehicle, active models.Vehicle) error {
	if err := r.store.Put(store.KeyVehicles, vehicles); err != nil {
		return fmt.Errorf("persist vehicle list: %w", err)
	}
	_ = r.store.Put(store.KeyLegacyFuelLogs, active.FuelLogs)
	_ = r.store.Put(store.KeyLegacyServiceLogs, active.ServiceLogs)
	_ = r.store.Put(store.KeyLegacyCareData, active.CareData)
	_ = r.store.Put(store.KeyLegacyProfile, legacyProfile{
		Name:            active.Name,
		Brand:           active.Brand,
		Model:           active.Model,
		Year:            active.Year,
		FuelType:        active.FuelType,
		TankCapacity:    active.TankCapacity,
		ServiceInterval: active.ServiceInterval,
		LastServiceOdo:  active.LastServiceOdo,
	})
	return nil
}

// Upsert adds a vehicle or, when editIndex is given, merges the draft into an
// existing entry preserving its log arrays. New vehicles become active.
// Returns the index the vehicle landed at.
func (r *Registry) Upsert(draft models.Vehicle, editIndex *int) (int, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return 0, ErrNotInitialized
	}

	next := make([]models.Vehicle, len(r.vehicles))
	copy(next, r.vehicles)

	var index int
	if editIndex != nil {
		index = *editIndex
		if index < 0 || index >= len(next) {
			r.mu.Unlock()
			return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(next))
		}
		existing := next[index]
		draft.ID = existing.ID
		draft.FuelLogs = existing.FuelLogs
		draft.ServiceLogs = existing.ServiceLogs
		draft.CareData = existing.CareData
		draft.DocumentLogs = existing.DocumentLogs
		draft.ActiveTrip = existing.ActiveTrip
		draft.TripHistory = existing.TripHistory
		next[index] = draft
	} else {
		if draft.ID == 0 {
			draft.ID = time.Now().UnixMilli()
		}
		if draft.FuelLogs == nil {
			draft.FuelLogs = []models.FuelEntry{}
		}
		if draft.ServiceLogs == nil {
			draft.ServiceLogs = []models.ServiceEntry{}
		}
		next = append(next, draft)
		index = len(next) - 1
	}

	activeIndex := r.active
	if editIndex == nil {
		activeIndex = index
	}

	if err := r.store.Put(store.KeyVehicles, next); err != nil {
		r.mu.Unlock()
		return 0, fmt.Errorf("persist vehicle list: %w", err)
	}
	if activeIndex != r.active {
		if err := r.store.Put(store.KeyActiveIndex, activeIndex); err != nil {
			r.mu.Unlock()
			return 0, fmt.Errorf("persist active index: %w", err)
		}
	}
	r.vehicles = next
	r.active = activeIndex
	snap := r.snapshotLocked()
	hook := r.pushHook
	r.mu.Unlock()

	if hook != nil {
		go hook(snap)
	}
	return index, nil
}

func validateDraft(draft models.Vehicle) error {
	if draft.Brand == "" || draft.Model == "" {
		return fmt.Errorf("%w: brand and model", ErrValidation)
	}
	if draft.Year == 0 {
		return fmt.Errorf("%w: year", ErrValidation)
	}
	return nil
}

// Snapshot captures the whole registry for the cloud sync bridge.
func (r *Registry) Snapshot() models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() models.Snapshot {
	vehicles := make([]models.Vehicle, len(r.vehicles))
	copy(vehicles, r.vehicles)
	return models.Snapshot{
		Vehicles:           vehicles,
		ActiveVehicleIndex: r.active,
		LastUpdated:        time.Now().UTC(),
	}
}

// ReplaceAll overwrites the registry wholesale from a cloud snapshot. Used by
// the sync bridge's pull path; local data is replaced, not merged.
func (r *Registry) ReplaceAll(snap models.Snapshot) error {
	r.mu.Lock()

	vehicles := snap.Vehicles
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	active := snap.ActiveVehicleIndex
	if active < 0 || active >= len(vehicles) {
		active = 0
	}

	if err := r.store.Put(store.KeyVehicles, vehicles); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("persist vehicle list: %w", err)
	}
	if err := r.store.Put(store.KeyActiveIndex, active); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("persist active index: %w", err)
	}

	r.vehicles = vehicles
	r.active = active
	r.initialized = true

	var vehicle models.Vehicle
	if len(vehicles) > 0 {
		vehicle = vehicles[active]
	}
	listeners := append([]func(models.Vehicle){}, r.onChange...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(vehicle)
	}
	return nil
}
