package cloudsync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/registry"
	"github.com/motormate/motormate/internal/store"
)

// fakeSnapshots is an in-memory SnapshotCollection.
type fakeSnapshots struct {
	docs    map[string]models.Snapshot
	failPut error
	failGet error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{docs: map[string]models.Snapshot{}}
}

func (f *fakeSnapshots) PutSnapshot(_ context.Context, userID string, snap models.Snapshot) error {
	if f.failPut != nil {
		return f.failPut
	}
	f.docs[userID] = snap
	return nil
}

func (f *fakeSnapshots) GetSnapshot(_ context.Context, userID string) (*models.Snapshot, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	snap, ok := f.docs[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &snap, nil
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	fs, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	reg := registry.New(fs)
	require.NoError(t, reg.Initialize())
	return reg
}

func sessionFor(userID string) SessionFunc {
	return func() (string, bool) { return userID, true }
}

func noSession() (string, bool) { return "", false }

func TestPushRequiresSession(t *testing.T) {
	b := New(newFakeSnapshots(), newTestRegistry(t), noSession, nil)

	assert.ErrorIs(t, b.Push(context.Background()), ErrNoSession)
	assert.ErrorIs(t, b.Pull(context.Background()), ErrNoSession)
}

func TestPushStoresSnapshot(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.AddFuel(1000, 10, 100)
	require.NoError(t, err)

	snaps := newFakeSnapshots()
	b := New(snaps, reg, sessionFor("user-1"), nil)

	require.NoError(t, b.Push(context.Background()))

	stored, ok := snaps.docs["user-1"]
	require.True(t, ok)
	require.Len(t, stored.Vehicles, 1)
	assert.Len(t, stored.Vehicles[0].FuelLogs, 1)
	assert.Equal(t, reg.ActiveIndex(), stored.ActiveVehicleIndex)
}

func TestPushFailureLeavesLocalStateAlone(t *testing.T) {
	reg := newTestRegistry(t)
	before := reg.Snapshot()

	snaps := newFakeSnapshots()
	snaps.failPut = errors.New("network down")
	b := New(snaps, reg, sessionFor("user-1"), nil)

	err := b.Push(context.Background())
	assert.ErrorIs(t, err, ErrSyncFailed)
	after := reg.Snapshot()
	assert.Equal(t, before.Vehicles, after.Vehicles)
	assert.Equal(t, before.ActiveVehicleIndex, after.ActiveVehicleIndex)
}

func TestPullReplacesRegistry(t *testing.T) {
	reg := newTestRegistry(t)

	remote := models.Snapshot{
		Vehicles: []models.Vehicle{
			{ID: 1, Name: "Cloud Car", Brand: "Tata", Model: "Nexon", Year: 2023},
			{ID: 2, Name: "Cloud Bike", Brand: "Hero", Model: "Splendor", Year: 2021},
		},
		ActiveVehicleIndex: 1,
	}
	snaps := newFakeSnapshots()
	snaps.docs["user-1"] = remote

	b := New(snaps, reg, sessionFor("user-1"), nil)
	require.NoError(t, b.Pull(context.Background()))

	assert.Len(t, reg.Vehicles(), 2)
	assert.Equal(t, 1, reg.ActiveIndex())
	active, err := reg.Active()
	require.NoError(t, err)
	assert.Equal(t, "Cloud Bike", active.Name)
}

func TestPullWithNoCloudDocument(t *testing.T) {
	reg := newTestRegistry(t)
	before := reg.Snapshot()

	b := New(newFakeSnapshots(), reg, sessionFor("user-1"), nil)
	err := b.Pull(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before.Vehicles, reg.Snapshot().Vehicles)
}

func TestPullFailureLeavesLocalStateAlone(t *testing.T) {
	reg := newTestRegistry(t)
	before := reg.Snapshot()

	snaps := newFakeSnapshots()
	snaps.failGet = errors.New("timeout")
	b := New(snaps, reg, sessionFor("user-1"), nil)

	err := b.Pull(context.Background())
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.Equal(t, before.Vehicles, reg.Snapshot().Vehicles)
}

func TestPushSnapshotWithSessionStores(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.AddFuel(1000, 10, 100)
	require.NoError(t, err)

	snaps := newFakeSnapshots()
	b := New(snaps, reg, sessionFor("user-1"), nil)

	// the sign-in observer pushes the whole local snapshot
	b.PushSnapshot(reg.Snapshot())

	stored, ok := snaps.docs["user-1"]
	require.True(t, ok)
	require.Len(t, stored.Vehicles, 1)
	assert.Len(t, stored.Vehicles[0].FuelLogs, 1)
}

func TestPushSnapshotHookWithoutSessionIsSilent(t *testing.T) {
	reg := newTestRegistry(t)
	snaps := newFakeSnapshots()
	b := New(snaps, reg, noSession, nil)

	b.PushSnapshot(reg.Snapshot())
	assert.Empty(t, snaps.docs)
}
