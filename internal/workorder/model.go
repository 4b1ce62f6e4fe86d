// Package workorder implements the work order record, its state-dependent
// validation rules and its persistence.
package workorder

import (
	"strconv"
	"time"

	"github.com/Les2015/auto-repair-shop/internal/mechanics"
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/validate"
)

// Status is the lifecycle state of a work order, persisted as a string.
type Status string

const (
	StatusOpen      Status = "OPEN"      // work not finished
	StatusCompleted Status = "COMPLETED" // ready for customer pickup
	StatusClosed    Status = "CLOSED"    // picked up and paid
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusOpen, StatusCompleted, StatusClosed}

// DateFormat is how timestamps cross the form boundary.
const DateFormat = "Jan 02, 2006 15:04:05"

// FormatDate renders a timestamp for the form; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

// ParseDate is the inverse of FormatDate; the empty string parses to the
// zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateFormat, s)
}

// Workorder is the form-facing work order record.
type Workorder struct {
	ID              record.ID
	VehicleID       record.ID
	Mileage         string
	Status          string
	DateCreated     string
	DateClosed      string
	CustomerRequest string
	Mechanic        string
	TaskList        string
	WorkPerformed   string
	Notes           string
}

// New returns an empty, unsaved work order. New orders start out open and
// unassigned.
func New() *Workorder {
	return &Workorder{
		ID:        record.Unsaved,
		VehicleID: record.Unsaved,
		Status:    string(StatusOpen),
		Mechanic:  mechanics.NoneSelected,
	}
}

// FromForm builds a work order record from submitted form fields. The vehicle
// link, creation date and close date are controller-owned, not user-edited.
func FromForm(fields map[string]string) *Workorder {
	return &Workorder{
		ID:              record.Normalize(fields["workorder_id"]),
		VehicleID:       record.Unsaved,
		Mileage:         fields["mileage"],
		Status:          fields["status"],
		DateCreated:     fields["date_created"],
		DateClosed:      fields["date_closed"],
		CustomerRequest: fields["customer_request"],
		Mechanic:        fields["mechanic"],
		TaskList:        fields["task_list"],
		WorkPerformed:   fields["work_performed"],
		Notes:           fields["notes"],
	}
}

// Equal compares the user-editable form fields of two work order records.
func (w *Workorder) Equal(o *Workorder) bool {
	return w.Mileage == o.Mileage &&
		w.Status == o.Status &&
		w.CustomerRequest == o.CustomerRequest &&
		w.Mechanic == o.Mechanic &&
		w.TaskList == o.TaskList &&
		w.WorkPerformed == o.WorkPerformed &&
		w.Notes == o.Notes
}

var requiredBase = map[string]bool{
	"vehicle_id":       true,
	"mileage":          true,
	"status":           true,
	"customer_request": true,
	"mechanic":         true,
	"date_created":     true,
}

// requiredDone is the second tier: fields that must be filled once the work
// order is ready for pickup (any status other than open).
var requiredDone = []string{"task_list", "work_performed", "notes"}

// RequiredFields computes the required set for the record's current status:
// the base set, the done tier when the order is not open, and the close date
// once it is closed.
func (w *Workorder) RequiredFields() map[string]bool {
	required := make(map[string]bool, len(requiredBase)+len(requiredDone)+1)
	for name := range requiredBase {
		required[name] = true
	}
	if w.Status != string(StatusOpen) {
		for _, name := range requiredDone {
			required[name] = true
		}
	}
	if w.Status == string(StatusClosed) {
		required["date_closed"] = true
	}
	return required
}

func checkMileage(value string) (bool, string) {
	if ok, msg := validate.LengthRange(1, 7)(value); !ok {
		return false, msg
	}
	if !validate.Digits(value) {
		return false, "must be a number of miles"
	}
	miles, err := strconv.Atoi(value)
	if err != nil || miles <= 0 || miles >= 1000000 {
		return false, "must be between 1 and 999999"
	}
	return true, ""
}

func checkStatus(value string) (bool, string) {
	for _, s := range Statuses {
		if value == string(s) {
			return true, ""
		}
	}
	return false, "not a work order status"
}

// checkMechanic accepts any roster name. The unassigned sentinel counts as a
// valid choice only while the order is still open; finishing the work means
// somebody did it.
func (w *Workorder) checkMechanic(value string) (bool, string) {
	if ok, msg := validate.LengthRange(1, 50)(value); !ok {
		return false, msg
	}
	if value == mechanics.NoneSelected && w.Status != string(StatusOpen) {
		return false, "a mechanic must be assigned"
	}
	return true, ""
}

func checkDate(value string) (bool, string) {
	if _, err := ParseDate(value); err != nil {
		return false, "not a recognized date"
	}
	return true, ""
}

// Validate classifies every field of the record against its checker, using
// the state-dependent required set.
func (w *Workorder) Validate() *validate.Report {
	long := validate.LengthRange(1, 5000)
	vehicleID := w.VehicleID.String()
	if !w.VehicleID.Persisted() {
		vehicleID = ""
	}
	fields := []validate.Field{
		{Name: "vehicle_id", Value: vehicleID, Check: nil},
		{Name: "mileage", Value: w.Mileage, Check: checkMileage},
		{Name: "status", Value: w.Status, Check: checkStatus},
		{Name: "date_created", Value: w.DateCreated, Check: checkDate},
		{Name: "date_closed", Value: w.DateClosed, Check: checkDate},
		{Name: "customer_request", Value: w.CustomerRequest, Check: long},
		{Name: "mechanic", Value: w.Mechanic, Check: w.checkMechanic},
		{Name: "task_list", Value: w.TaskList, Check: long},
		{Name: "work_performed", Value: w.WorkPerformed, Check: long},
		{Name: "notes", Value: w.Notes, Check: long},
	}
	return validate.Run(fields, w.RequiredFields())
}
