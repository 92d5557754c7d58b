// Package export renders fuel and service history as CSV downloads.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/motormate/motormate/internal/models"
)

const dateLayout = "2006-01-02"

var (
	fuelHeader    = []string{"Date", "Odometer", "Litres", "Price per Litre", "Total Cost", "Mileage"}
	serviceHeader = []string{"Date", "Odometer", "Service Type", "Cost"}
)

// WriteFuelCSV writes the fuel log in insertion order, one row per entry
// under the header row.
func WriteFuelCSV(w io.Writer, entries []models.FuelEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fuelHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Date.Format(dateLayout),
			num(e.Odometer),
			num(e.Litres),
			num(e.Price),
			num(e.Total),
			e.Mileage,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteServiceCSV writes the service log in insertion order.
func WriteServiceCSV(w io.Writer, entries []models.ServiceEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(serviceHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{e.Date.Format(dateLayout), num(e.Odometer), e.Type, num(e.Cost)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
