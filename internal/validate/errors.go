package validate

// Error is the user-correctable outcome of a failed save: the accumulated
// error text plus the field names to highlight on the form. It aborts the
// save but never advances controller state.
type Error struct {
	Text   string
	Fields []string
}

func (e *Error) Error() string {
	return e.Text
}

// InternalError is a required-field violation on a field the user cannot see
// or edit directly, such as a broken foreign-key link. It surfaces exactly
// like a validation error but signals a programming defect rather than a
// user mistake. errors.As against *Error matches it through Unwrap.
type InternalError Error

func (e *InternalError) Error() string {
	return e.Text
}

func (e *InternalError) Unwrap() error {
	return (*Error)(e)
}

// Internal builds an InternalError from accumulated error text and the
// offending field names.
func Internal(text string, fields []string) *InternalError {
	return &InternalError{Text: text, Fields: fields}
}
