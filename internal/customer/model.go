// Package customer implements the customer record, its validation rules and
// its persistence.
package customer

import (
	"github.com/Les2015/auto-repair-shop/internal/record"
	"github.com/Les2015/auto-repair-shop/internal/validate"
)

// Customer is the form-facing customer record. Every field crosses the form
// boundary as a string; the repository owns the column types.
type Customer struct {
	ID        record.ID
	FirstName string
	LastName  string
	Address1  string
	Address2  string
	City      string
	State     string
	Zip       string
	Phone1    string
	Phone2    string
	Email     string
	Comments  string
}

// New returns an empty, unsaved customer record.
func New() *Customer {
	return &Customer{ID: record.Unsaved}
}

// FromForm builds a customer record from submitted form fields. The hidden
// customer_id field carries the identity; fields the current form did not
// include (the search form has no comments box) simply stay empty.
func FromForm(fields map[string]string) *Customer {
	return &Customer{
		ID:        record.Normalize(fields["customer_id"]),
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Address1:  fields["address1"],
		Address2:  fields["address2"],
		City:      fields["city"],
		State:     fields["state"],
		Zip:       fields["zip"],
		Phone1:    fields["phone1"],
		Phone2:    fields["phone2"],
		Email:     fields["email"],
		Comments:  fields["comments"],
	}
}

// Equal compares the visible form fields of two customer records. Identity is
// deliberately excluded: the comparison backs unsaved-edit detection, where a
// form copy is held against its persisted (or empty) counterpart.
func (c *Customer) Equal(o *Customer) bool {
	return c.FirstName == o.FirstName &&
		c.LastName == o.LastName &&
		c.Address1 == o.Address1 &&
		c.Address2 == o.Address2 &&
		c.City == o.City &&
		c.State == o.State &&
		c.Zip == o.Zip &&
		c.Phone1 == o.Phone1 &&
		c.Phone2 == o.Phone2 &&
		c.Email == o.Email &&
		c.Comments == o.Comments
}

var requiredFields = map[string]bool{
	"last_name": true,
	"address1":  true,
	"city":      true,
	"state":     true,
	"zip":       true,
	"phone1":    true,
}

// Validate classifies every field of the record against its checker. The
// state field is constrained to a fixed list by the form itself, so it is
// only checked for presence.
func (c *Customer) Validate() *validate.Report {
	name := validate.LengthRange(1, 50)
	long := validate.LengthRange(1, 5000)
	fields := []validate.Field{
		{Name: "first_name", Value: c.FirstName, Check: name},
		{Name: "last_name", Value: c.LastName, Check: name},
		{Name: "address1", Value: c.Address1, Check: name},
		{Name: "address2", Value: c.Address2, Check: name},
		{Name: "city", Value: c.City, Check: name},
		{Name: "state", Value: c.State, Check: nil},
		{Name: "zip", Value: c.Zip, Check: validate.Zip},
		{Name: "phone1", Value: c.Phone1, Check: validate.Phone},
		{Name: "phone2", Value: c.Phone2, Check: validate.Phone},
		{Name: "email", Value: c.Email, Check: name},
		{Name: "comments", Value: c.Comments, Check: long},
	}
	return validate.Run(fields, requiredFields)
}
