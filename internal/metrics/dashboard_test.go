package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/motormate/motormate/internal/models"
)

func fuelSequence(odos, litres, prices []float64) []models.FuelEntry {
	logs := make([]models.FuelEntry, 0, len(odos))
	for i := range odos {
		prev := odos[i]
		if i > 0 {
			prev = odos[i-1]
		}
		logs = append(logs, models.NewFuelEntry(time.Now(), prev, odos[i], litres[i], prices[i]))
	}
	return logs
}

func TestComputeDashboardTotals(t *testing.T) {
	logs := fuelSequence(
		[]float64{1000, 1600},
		[]float64{10, 20},
		[]float64{100, 100},
	)
	stats := ComputeDashboard(logs, nil)

	assert.Equal(t, float64(600), stats.TotalDistance)
	assert.Equal(t, float64(3000), stats.TotalCost)
	assert.Equal(t, 20.00, stats.AvgMileage)
	assert.Equal(t, 5.00, stats.CostPerKm)
	assert.Equal(t, 2, stats.TotalRefills)
}

func TestComputeDashboardSingleEntry(t *testing.T) {
	logs := fuelSequence([]float64{1000}, []float64{10}, []float64{100})
	stats := ComputeDashboard(logs, nil)

	assert.Zero(t, stats.TotalDistance)
	assert.Zero(t, stats.AvgMileage)
	assert.Zero(t, stats.CostPerKm)
	assert.Equal(t, float64(1000), stats.TotalCost)
}

func TestComputeDashboardEmpty(t *testing.T) {
	stats := ComputeDashboard(nil, nil)
	assert.Zero(t, stats.TotalDistance)
	assert.Zero(t, stats.TotalCost)
	assert.Zero(t, stats.BestMileage)
	assert.Zero(t, stats.WorstMileage)
}

func TestMileagePerEntry(t *testing.T) {
	logs := fuelSequence(
		[]float64{1000, 1300, 1300, 1600},
		[]float64{5, 10, 8, 12},
		[]float64{100, 100, 100, 100},
	)

	assert.Equal(t, models.MileageUnknown, logs[0].Mileage)
	assert.Equal(t, "30.00", logs[1].Mileage)
	assert.Equal(t, models.MileageUnknown, logs[2].Mileage)
	assert.Equal(t, "25.00", logs[3].Mileage)
}

func TestBestWorstMileageExcludesUnknown(t *testing.T) {
	logs := fuelSequence(
		[]float64{1000, 1300, 1300, 1600},
		[]float64{5, 10, 8, 12},
		[]float64{100, 100, 100, 100},
	)
	stats := ComputeDashboard(logs, nil)

	assert.Equal(t, 30.00, stats.BestMileage)
	assert.Equal(t, 25.00, stats.WorstMileage)
}

func TestBestWorstMileageNeedsTwoValid(t *testing.T) {
	logs := fuelSequence(
		[]float64{1000, 1300},
		[]float64{5, 10},
		[]float64{100, 100},
	)
	// only the second entry has a valid mileage
	stats := ComputeDashboard(logs, nil)
	assert.Zero(t, stats.BestMileage)
	assert.Zero(t, stats.WorstMileage)
}

func TestRecentLists(t *testing.T) {
	logs := fuelSequence(
		[]float64{1000, 1100, 1200, 1300, 1400},
		[]float64{5, 5, 5, 5, 5},
		[]float64{100, 100, 100, 100, 100},
	)
	services := []models.ServiceEntry{
		{Type: "Oil Change", Cost: 900},
	}
	stats := ComputeDashboard(logs, services)

	assert.Len(t, stats.RecentFuel, 3)
	assert.Equal(t, float64(1200), stats.RecentFuel[0].Odometer)
	assert.Len(t, stats.RecentService, 1)
	assert.Equal(t, 1, stats.TotalServices)
}
