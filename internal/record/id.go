// Package record holds the identity conventions shared by all entity records.
package record

// ID is the string primary key of an entity record. Hidden form fields carry
// it between requests, so the zero-ish states need a wire representation:
// the sentinel "-1" marks a record that has not been persisted yet. Real keys
// are UUIDs, so the sentinel can never collide with an assigned key.
type ID string

// Unsaved marks a record that exists only in form fields.
const Unsaved ID = "-1"

// Persisted reports whether the id refers to a saved record.
func (id ID) Persisted() bool {
	return id != "" && id != Unsaved
}

// Normalize maps the empty string to the Unsaved sentinel so that ids read
// from forms always compare cleanly.
func Normalize(s string) ID {
	if s == "" {
		return Unsaved
	}
	return ID(s)
}

func (id ID) String() string {
	return string(id)
}
