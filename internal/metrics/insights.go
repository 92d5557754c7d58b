package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/motormate/motormate/internal/models"
)

// Care intervals in days.
const (
	WashIntervalDays = 7
	TyreIntervalDays = 14
)

// ComputeInsights generates the insight strings for a vehicle, in fixed
// order: mileage trend, service due, wash, tyre. Text is built fresh on every
// call.
func ComputeInsights(vehicle models.Vehicle) []string {
	return computeInsightsAt(vehicle, time.Now())
}

func computeInsightsAt(vehicle models.Vehicle, now time.Time) []string {
	insights := []string{
		trendInsight(vehicle.FuelLogs),
		serviceInsight(vehicle),
	}

	if vehicle.CareData.LastWash != nil {
		days := daysSince(*vehicle.CareData.LastWash, now)
		if days <= WashIntervalDays {
			insights = append(insights, fmt.Sprintf("Car wash is on time (last wash %d %s ago).", days, dayWord(days)))
		} else {
			insights = append(insights, fmt.Sprintf("Car wash may be due: last wash was %d %s ago.", days, dayWord(days)))
		}
	} else {
		insights = append(insights, "Start tracking car washes to get wash reminders.")
	}

	if vehicle.CareData.LastTyre != nil {
		days := daysSince(*vehicle.CareData.LastTyre, now)
		if days <= TyreIntervalDays {
			insights = append(insights, fmt.Sprintf("Tyre pressure check is on track (checked %d %s ago).", days, dayWord(days)))
		} else {
			insights = append(insights, fmt.Sprintf("Tyre pressure check overdue: last check was %d %s ago.", days, dayWord(days)))
		}
	} else {
		insights = append(insights, "Track tyre pressure checks to get tyre health insights.")
	}

	return insights
}

func trendInsight(fuelLogs []models.FuelEntry) string {
	valid := validMileages(fuelLogs)
	switch len(valid) {
	case 0:
		return "Add fuel entries to unlock mileage insights."
	case 1:
		return fmt.Sprintf("Mileage tracking started: current mileage is %.2f km/l. Add more fills to see trends.", valid[0])
	}

	last := valid[len(valid)-1]
	prev := valid[len(valid)-2]
	diff := last - prev
	percent := diff / prev * 100

	switch {
	case diff > 0:
		return fmt.Sprintf("Your latest mileage is %.2f km/l, about %.1f%% better than the previous fill.", last, percent)
	case diff < 0:
		return fmt.Sprintf("Your latest mileage is %.2f km/l, about %.1f%% lower than the previous fill.", last, math.Abs(percent))
	default:
		return fmt.Sprintf("Your last two mileage values are the same at %.2f km/l.", last)
	}
}

func serviceInsight(vehicle models.Vehicle) string {
	currentOdo, hasOdo := vehicle.CurrentOdometer()
	if vehicle.ServiceInterval <= 0 || vehicle.LastServiceOdo <= 0 || !hasOdo {
		return "Set your service interval and last service odometer to get service reminders."
	}

	remaining := vehicle.ServiceInterval - (currentOdo - vehicle.LastServiceOdo)
	switch {
	case remaining > 1000:
		return fmt.Sprintf("Next service is roughly due in %.0f km (interval %.0f km).", remaining, vehicle.ServiceInterval)
	case remaining > 0:
		return fmt.Sprintf("Service due soon: only about %.0f km left until the next scheduled service.", remaining)
	default:
		return fmt.Sprintf("Service overdue by about %.0f km. Consider servicing your vehicle soon.", math.Abs(remaining))
	}
}

// CareStatus phrases when a recurring care action is next due, in the style
// of the care-reminder panel. A nil timestamp means tracking never started.
func CareStatus(last *time.Time, intervalDays int, now time.Time) string {
	if last == nil {
		return "Tap button to start tracking"
	}
	days := daysSince(*last, now)
	remaining := intervalDays - days
	lastStr := last.Format("02 Jan 2006")

	switch {
	case remaining > 0:
		return fmt.Sprintf("Next due in %d %s (last: %s)", remaining, dayWord(remaining), lastStr)
	case remaining == 0:
		return fmt.Sprintf("Due today (last: %s)", lastStr)
	default:
		overdue := -remaining
		return fmt.Sprintf("Overdue by %d %s (last: %s)", overdue, dayWord(overdue), lastStr)
	}
}

// EstimateTripCost estimates the fuel cost of driving the given distance,
// using the vehicle's averaged mileage and its last recorded fuel price. With
// no usable history the estimate falls back to a type-based ballpark mileage
// and a default price.
func EstimateTripCost(vehicle models.Vehicle, distanceKm float64) (cost, litres float64) {
	const defaultPrice = 100.0

	price := vehicle.LastFuelPrice()
	if price <= 0 {
		price = defaultPrice
	}

	var mileage float64
	if logs := vehicle.FuelLogs; len(logs) > 1 {
		totalDistance := logs[len(logs)-1].Odometer - logs[0].Odometer
		var totalFuel float64
		for _, e := range logs[1:] {
			totalFuel += e.Litres
		}
		if totalFuel > 0 {
			mileage = totalDistance / totalFuel
		}
	}
	if mileage <= 0 {
		if vehicle.Type == models.VehicleTypeBike {
			mileage = 40
		} else {
			mileage = 15
		}
	}

	litres = distanceKm / mileage
	return litres * price, litres
}

func daysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
