package validate

import "strings"

// Field pairs a form field name and its submitted value with the checker that
// judges it. A nil checker means the field is only checked for presence.
type Field struct {
	Name  string
	Value string
	Check Checker
}

// Report accumulates the outcome of validating one entity. A fresh Report is
// produced per Run call; each missing or invalid field contributes one line
// of error text.
type Report struct {
	Missing []string
	Invalid []string

	text strings.Builder
}

// Run walks the field table and classifies every entry: absent and required
// means missing, absent and optional is silently skipped, present values are
// handed to their checker. Fields without a checker are never invalid.
func Run(fields []Field, required map[string]bool) *Report {
	r := &Report{}
	for _, f := range fields {
		if Missing(f.Value) {
			if required[f.Name] {
				r.Missing = append(r.Missing, f.Name)
				r.text.WriteString("missing " + f.Name + "\n")
			}
			continue
		}
		if f.Check == nil {
			continue
		}
		if ok, _ := f.Check(f.Value); !ok {
			r.Invalid = append(r.Invalid, f.Name)
			r.text.WriteString("invalid " + f.Name + "\n")
		}
	}
	return r
}

// Valid reports whether no required field was missing and no present field
// failed its checker.
func (r *Report) Valid() bool {
	return len(r.Missing)+len(r.Invalid) == 0
}

// FieldNames returns every field that should be highlighted on the form,
// invalid fields first, then missing ones.
func (r *Report) FieldNames() []string {
	names := make([]string, 0, len(r.Invalid)+len(r.Missing))
	names = append(names, r.Invalid...)
	names = append(names, r.Missing...)
	return names
}

// ErrorText returns one line per offending field, each newline-terminated.
func (r *Report) ErrorText() string {
	return r.text.String()
}

// Err converts a failed report into a *Error, or nil when the report is valid.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Text: r.ErrorText(), Fields: r.FieldNames()}
}
