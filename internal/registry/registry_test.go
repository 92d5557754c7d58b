package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/store"
)

func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	fs, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	return fs
}

func newTestRegistry(t *testing.T) (*Registry, *store.FileStore) {
	t.Helper()
	fs := newTestStore(t)
	r := New(fs)
	require.NoError(t, r.Initialize())
	return r, fs
}

func TestInitializeSeedsVehicleOnEmptyStore(t *testing.T) {
	r, _ := newTestRegistry(t)

	vehicles := r.Vehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, "My Vehicle", vehicles[0].Name)
	assert.Equal(t, 0, r.ActiveIndex())
}

func TestInitializeMigratesLegacyKeys(t *testing.T) {
	fs := newTestStore(t)

	legacyFuel := []models.FuelEntry{
		models.NewFuelEntry(time.Now(), 1000, 1000, 10, 100),
		models.NewFuelEntry(time.Now(), 1000, 1300, 10, 100),
	}
	legacyService := []models.ServiceEntry{
		{Date: time.Now(), Odometer: 1200, Type: "Oil Change", Cost: 900},
	}
	require.NoError(t, fs.Put(store.KeyLegacyFuelLogs, legacyFuel))
	require.NoError(t, fs.Put(store.KeyLegacyServiceLogs, legacyService))
	require.NoError(t, fs.Put(store.KeyLegacyProfile, map[string]any{
		"name": "Old Swift", "brand": "Maruti", "model": "Swift", "year": 2018,
	}))

	r := New(fs)
	require.NoError(t, r.Initialize())

	vehicles := r.Vehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Old Swift", vehicles[0].Name)
	assert.Equal(t, "Maruti", vehicles[0].Brand)
	assert.Len(t, vehicles[0].FuelLogs, 2)
	assert.Len(t, vehicles[0].ServiceLogs, 1)
	assert.Equal(t, "30.00", vehicles[0].FuelLogs[1].Mileage)
}

func TestInitializeClampsOutOfRangeIndex(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Put(store.KeyVehicles, []models.Vehicle{
		{ID: 1, Name: "A"}, {ID: 2, Name: "B"},
	}))
	require.NoError(t, fs.Put(store.KeyActiveIndex, 7))

	r := New(fs)
	require.NoError(t, r.Initialize())
	assert.Equal(t, 0, r.ActiveIndex())
}

func TestInitializeIdempotent(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.Initialize())
	require.NoError(t, r.Initialize())
	assert.Len(t, r.Vehicles(), 1)
}

func TestSetActiveOutOfRange(t *testing.T) {
	r, _ := newTestRegistry(t)

	err := r.SetActive(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 0, r.ActiveIndex())
}

func TestSetActiveFiresChangeListener(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.Upsert(models.Vehicle{Name: "Second", Brand: "Honda", Model: "City", Year: 2021}, nil)
	require.NoError(t, err)

	var got []string
	r.OnChange(func(v models.Vehicle) { got = append(got, v.Name) })

	require.NoError(t, r.SetActive(0))
	require.Equal(t, []string{"My Vehicle"}, got)
}

func TestUpsertValidation(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		name  string
		draft models.Vehicle
	}{
		{"missing brand", models.Vehicle{Model: "City", Year: 2021}},
		{"missing model", models.Vehicle{Brand: "Honda", Year: 2021}},
		{"missing year", models.Vehicle{Brand: "Honda", Model: "City"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Upsert(tt.draft, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Len(t, r.Vehicles(), 1)
}

func TestUpsertAppendsAndActivates(t *testing.T) {
	r, _ := newTestRegistry(t)

	idx, err := r.Upsert(models.Vehicle{Name: "City", Brand: "Honda", Model: "City", Year: 2021}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, r.ActiveIndex())

	active, err := r.Active()
	require.NoError(t, err)
	assert.Equal(t, "City", active.Name)
	assert.NotZero(t, active.ID)
}

func TestUpsertEditPreservesLogs(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.AddFuel(1000, 10, 100)
	require.NoError(t, err)

	edit := 0
	_, err = r.Upsert(models.Vehicle{Name: "Renamed", Brand: "Maruti", Model: "Swift", Year: 2019}, &edit)
	require.NoError(t, err)

	active, err := r.Active()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", active.Name)
	require.Len(t, active.FuelLogs, 1)
	assert.Equal(t, float64(1000), active.FuelLogs[0].Odometer)
}

func TestSaveActivePersists(t *testing.T) {
	fs := newTestStore(t)
	r := New(fs)
	require.NoError(t, r.Initialize())

	vehicle, err := r.Active()
	require.NoError(t, err)
	vehicle.Name = "Persisted"
	require.NoError(t, r.SaveActive(vehicle))

	reopened := New(fs)
	require.NoError(t, reopened.Initialize())
	active, err := reopened.Active()
	require.NoError(t, err)
	assert.Equal(t, "Persisted", active.Name)
}

func TestSaveActiveFiresPushHook(t *testing.T) {
	r, _ := newTestRegistry(t)

	pushed := make(chan models.Snapshot, 1)
	r.SetPushHook(func(s models.Snapshot) { pushed <- s })

	_, err := r.AddFuel(1000, 10, 100)
	require.NoError(t, err)

	select {
	case snap := <-pushed:
		require.Len(t, snap.Vehicles, 1)
		assert.Len(t, snap.Vehicles[0].FuelLogs, 1)
		assert.False(t, snap.LastUpdated.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("push hook never fired")
	}
}

func TestAddFuelValidation(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.AddFuel(0, 10, 100)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = r.AddFuel(1000, 0, 100)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = r.AddFuel(1000, 10, 0)
	assert.ErrorIs(t, err, ErrValidation)

	active, err := r.Active()
	require.NoError(t, err)
	assert.Empty(t, active.FuelLogs)
}

func TestAddFuelMileageSequence(t *testing.T) {
	r, _ := newTestRegistry(t)

	entries := []struct {
		odo, litres float64
		mileage     string
	}{
		{1000, 5, models.MileageUnknown}, // first fill, no distance yet
		{1300, 10, "30.00"},
		{1300, 8, models.MileageUnknown}, // odometer did not increase
		{1600, 12, "25.00"},
	}
	for _, e := range entries {
		entry, err := r.AddFuel(e.odo, e.litres, 100)
		require.NoError(t, err)
		assert.Equal(t, e.mileage, entry.Mileage)
	}
}

func TestDocuments(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.AddDocument("Insurance", "data:image/jpeg;base64,AAA")
	require.NoError(t, err)
	_, err = r.AddDocument("PUC", "data:image/jpeg;base64,BBB")
	require.NoError(t, err)

	require.NoError(t, r.DeleteDocument(0))
	active, err := r.Active()
	require.NoError(t, err)
	require.Len(t, active.DocumentLogs, 1)
	assert.Equal(t, "PUC", active.DocumentLogs[0].Title)

	assert.ErrorIs(t, r.DeleteDocument(5), ErrIndexOutOfRange)
}

func TestResetActiveData(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.AddFuel(1000, 10, 100)
	require.NoError(t, err)
	require.NoError(t, r.MarkWashed())

	require.NoError(t, r.ResetActiveData())

	active, err := r.Active()
	require.NoError(t, err)
	assert.Empty(t, active.FuelLogs)
	assert.Empty(t, active.ServiceLogs)
	assert.Nil(t, active.CareData.LastWash)
}

func TestReplaceAll(t *testing.T) {
	r, _ := newTestRegistry(t)

	snap := models.Snapshot{
		Vehicles: []models.Vehicle{
			{ID: 1, Name: "Cloud A"},
			{ID: 2, Name: "Cloud B"},
		},
		ActiveVehicleIndex: 1,
		LastUpdated:        time.Now(),
	}
	require.NoError(t, r.ReplaceAll(snap))

	assert.Len(t, r.Vehicles(), 2)
	assert.Equal(t, 1, r.ActiveIndex())
	active, err := r.Active()
	require.NoError(t, err)
	assert.Equal(t, "Cloud B", active.Name)
}

func TestReplaceAllClampsIndex(t *testing.T) {
	r, _ := newTestRegistry(t)

	require.NoError(t, r.ReplaceAll(models.Snapshot{
		Vehicles:           []models.Vehicle{{ID: 1, Name: "Only"}},
		ActiveVehicleIndex: 9,
	}))
	assert.Equal(t, 0, r.ActiveIndex())
}
