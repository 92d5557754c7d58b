package triplog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/registry"
	"github.com/motormate/motormate/internal/store"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	fs, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	reg := registry.New(fs)
	require.NoError(t, reg.Initialize())
	return New(reg)
}

func TestStartTrip(t *testing.T) {
	l := newTestLedger(t)

	trip, err := l.Start("Goa Run")
	require.NoError(t, err)
	assert.Equal(t, "Goa Run", trip.Name)
	assert.False(t, trip.StartDate.IsZero())
	assert.Nil(t, trip.EndDate)
}

func TestStartTripDefaultName(t *testing.T) {
	l := newTestLedger(t)

	trip, err := l.Start("")
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", trip.Name)
}

func TestStartTripWhileActive(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Start("First")
	require.NoError(t, err)

	_, err = l.Start("Second")
	assert.ErrorIs(t, err, ErrTripActive)

	active, err := l.Active()
	require.NoError(t, err)
	assert.Equal(t, "First", active.Name)
}

func TestAddExpense(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Start("Weekend")
	require.NoError(t, err)

	ex, err := l.AddExpense(450, "Fuel", "")
	require.NoError(t, err)
	assert.Equal(t, "Fuel", ex.Description) // defaults to category

	_, err = l.AddExpense(120, "Food", "breakfast")
	require.NoError(t, err)

	active, err := l.Active()
	require.NoError(t, err)
	require.Len(t, active.Expenses, 2)
	assert.Equal(t, float64(570), active.Total())
}

func TestAddExpenseInvalidAmount(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Start("Weekend")
	require.NoError(t, err)

	_, err = l.AddExpense(0, "Fuel", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = l.AddExpense(-5, "Fuel", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	active, err := l.Active()
	require.NoError(t, err)
	assert.Empty(t, active.Expenses)
}

func TestAddExpenseWithoutTrip(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.AddExpense(100, "Fuel", "")
	assert.ErrorIs(t, err, ErrNoActiveTrip)
}

func TestEndTripArchives(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Start("Weekend")
	require.NoError(t, err)
	_, err = l.AddExpense(300, "Tolls", "")
	require.NoError(t, err)

	archived, err := l.End()
	require.NoError(t, err)
	require.NotNil(t, archived.EndDate)

	_, err = l.Active()
	assert.ErrorIs(t, err, ErrNoActiveTrip)

	history, err := l.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Weekend", history[0].Name)
	assert.Equal(t, float64(300), history[0].Total())
}

func TestEndTripWithoutActive(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.End()
	assert.ErrorIs(t, err, ErrNoActiveTrip)
}

func TestSplitPerPerson(t *testing.T) {
	trip := models.Trip{Expenses: []models.Expense{
		{Amount: 500}, {Amount: 499},
	}}

	assert.Equal(t, float64(250), trip.SplitPerPerson(4)) // ceil(999/4)
	assert.Equal(t, float64(999), trip.SplitPerPerson(1))
	assert.Equal(t, float64(999), trip.SplitPerPerson(0)) // people floor 1
}

func TestSummaryText(t *testing.T) {
	trip := models.Trip{
		Name: "Weekend",
		Expenses: []models.Expense{
			{Amount: 500, Category: "Fuel", Description: "full tank"},
			{Amount: 499, Category: "Food", Description: "dinner"},
		},
	}
	text := trip.SummaryText(4)
	assert.Contains(t, text, "Trip Summary: Weekend")
	assert.Contains(t, text, "Fuel: 500.00 (full tank)")
	assert.Contains(t, text, "Total: 999.00")
	assert.Contains(t, text, "Split (4 ppl): 250 / person")
}
