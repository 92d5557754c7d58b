// Package metrics derives mileage, cost and service-due insights from a
// vehicle's fuel and service logs. Everything here is a pure computation over
// the data it is handed.
package metrics

import (
	"math"

	"github.com/motormate/motormate/internal/models"
)

// Stats is the dashboard view computed from a vehicle's logs.
type Stats struct {
	TotalDistance float64                `json:"totalDistance"` // km
	TotalCost     float64                `json:"totalCost"`
	TotalLitres   float64                `json:"totalLitres"`
	AvgMileage    float64                `json:"avgMileage"` // km/l
	CostPerKm     float64                `json:"costPerKm"`
	BestMileage   float64                `json:"bestMileage"`
	WorstMileage  float64                `json:"worstMileage"`
	TotalRefills  int                    `json:"totalRefills"`
	TotalServices int                    `json:"totalServices"`
	RecentFuel    []models.FuelEntry     `json:"recentFuel"`
	RecentService []models.ServiceEntry  `json:"recentService"`
}

// ComputeDashboard derives the dashboard stats. Totals over distance need at
// least two fuel entries; best/worst need at least two entries with a valid
// per-entry mileage.
func ComputeDashboard(fuelLogs []models.FuelEntry, serviceLogs []models.ServiceEntry) Stats {
	stats := Stats{
		TotalRefills:  len(fuelLogs),
		TotalServices: len(serviceLogs),
		RecentFuel:    lastN(fuelLogs, 3),
		RecentService: lastN(serviceLogs, 3),
	}

	for _, e := range fuelLogs {
		stats.TotalCost += e.Total
		stats.TotalLitres += e.Litres
	}

	if len(fuelLogs) >= 2 {
		stats.TotalDistance = fuelLogs[len(fuelLogs)-1].Odometer - fuelLogs[0].Odometer
	}
	if stats.TotalLitres > 0 {
		stats.AvgMileage = round2(stats.TotalDistance / stats.TotalLitres)
	}
	if stats.TotalDistance > 0 {
		stats.CostPerKm = round2(stats.TotalCost / stats.TotalDistance)
	}

	valid := validMileages(fuelLogs)
	if len(valid) >= 2 {
		best, worst := valid[0], valid[0]
		for _, m := range valid[1:] {
			if m > best {
				best = m
			}
			if m < worst {
				worst = m
			}
		}
		stats.BestMileage = round2(best)
		stats.WorstMileage = round2(worst)
	}

	return stats
}

// validMileages extracts the per-entry mileage values that parse as positive
// numbers, in log order.
func validMileages(fuelLogs []models.FuelEntry) []float64 {
	var out []float64
	for _, e := range fuelLogs {
		if m, ok := e.MileageValue(); ok {
			out = append(out, m)
		}
	}
	return out
}

func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return append([]T{}, items...)
	}
	return append([]T{}, items[len(items)-n:]...)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
