// Package vehicle implements the vehicle record, its validation rules and
// its persistence. Every vehicle belongs to exactly one customer.
package vehicle

import (
	"strconv"
	"time"

	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/validate"
)

// YearFloor is the oldest model year accepted for a vehicle.
const YearFloor = 1925

// Vehicle is the form-facing vehicle record.
type Vehicle struct {
	ID         record.ID
	CustomerID record.ID
	Make       string
	Model      string
	Year       string
	License    string
	VIN        string
	Notes      string
}

// New returns an empty, unsaved vehicle record.
func New() *Vehicle {
	return &Vehicle{ID: record.Unsaved, CustomerID: record.Unsaved}
}

// FromForm builds a vehicle record from submitted form fields. The customer
// link is not a form field; the controller wires it from the active customer.
func FromForm(fields map[string]string) *Vehicle {
	return &Vehicle{
		ID:         record.Normalize(fields["vehicle_id"]),
		CustomerID: record.Unsaved,
		Make:       fields["make"],
		Model:      fields["model"],
		Year:       fields["year"],
		License:    fields["license"],
		VIN:        fields["vin"],
		Notes:      fields["notes"],
	}
}

// Equal compares the visible form fields of two vehicle records.
func (v *Vehicle) Equal(o *Vehicle) bool {
	return v.Make == o.Make &&
		v.Model == o.Model &&
		v.Year == o.Year &&
		v.License == o.License &&
		v.VIN == o.VIN &&
		v.Notes == o.Notes
}

var requiredFields = map[string]bool{
	"customer_id": true,
	"make":        true,
	"model":       true,
	"year":        true,
	"license":     true,
}

// checkYear accepts a 4-digit year between YearFloor and three years into
// the future, both bounds inclusive.
func checkYear(value string) (bool, string) {
	if len(value) != 4 || !validate.Digits(value) {
		return false, "must be a 4 digit year"
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return false, "must be a 4 digit year"
	}
	ceiling := time.Now().Year() + 3
	if year < YearFloor || year > ceiling {
		return false, "must be between " + strconv.Itoa(YearFloor) + " and " + strconv.Itoa(ceiling)
	}
	return true, ""
}

// checkVIN does not attempt the full VIN check-digit scheme; length and
// character class catch the common transcription mistakes.
func checkVIN(value string) (bool, string) {
	if !validate.Alnum(value) {
		return false, "must contain only letters and digits"
	}
	return validate.LengthRange(16, 17)(value)
}

// Validate classifies every field of the record against its checker. The
// customer link is checked for presence only; whether it resolves is the
// gateway's concern.
func (v *Vehicle) Validate() *validate.Report {
	short := validate.LengthRange(1, 30)
	long := validate.LengthRange(1, 5000)
	customerID := v.CustomerID.String()
	if !v.CustomerID.Persisted() {
		customerID = ""
	}
	fields := []validate.Field{
		{Name: "customer_id", Value: customerID, Check: nil},
		{Name: "make", Value: v.Make, Check: short},
		{Name: "model", Value: v.Model, Check: short},
		{Name: "year", Value: v.Year, Check: checkYear},
		{Name: "license", Value: v.License, Check: short},
		{Name: "vin", Value: v.VIN, Check: checkVIN},
		{Name: "notes", Value: v.Notes, Check: long},
	}
	return validate.Run(fields, requiredFields)
}
