package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Trip is a bounded sequence of expenses associated with a journey.
// A vehicle has at most one active trip; ending it stamps EndDate and moves
// it into the vehicle's trip history.
type Trip struct {
	Name      string     `bson:"name" json:"name"`
	StartDate time.Time  `bson:"startDate" json:"startDate"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"` // set on archival
	Expenses  []Expense  `bson:"expenses" json:"expenses"`
}

// Expense is one spend during a trip.
type Expense struct {
	Amount      float64   `bson:"amount" json:"amount"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description" json:"description"`
	Date        time.Time `bson:"date" json:"date"`
}

// Total sums all expenses of the trip.
func (t *Trip) Total() float64 {
	var total float64
	for _, ex := range t.Expenses {
		total += ex.Amount
	}
	return total
}

// SplitPerPerson divides the trip total across people, rounding up so the
// collected shares always cover the bill. People counts below 1 are treated
// as 1.
func (t *Trip) SplitPerPerson(people int) float64 {
	if people < 1 {
		people = 1
	}
	return math.Ceil(t.Total() / float64(people))
}

// SummaryText renders a shareable plain-text summary of the trip, including
// the per-person split for the given head count.
func (t *Trip) SummaryText(people int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip Summary: %s\n----------------\n", t.Name)
	for _, ex := range t.Expenses {
		fmt.Fprintf(&b, "%s: %.2f (%s)\n", ex.Category, ex.Amount, ex.Description)
	}
	if people < 1 {
		people = 1
	}
	fmt.Fprintf(&b, "----------------\nTotal: %.2f\n", t.Total())
	fmt.Fprintf(&b, "Split (%d ppl): %.0f / person\n", people, t.SplitPerPerson(people))
	return b.String()
}
