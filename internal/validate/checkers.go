// Package validate holds the field-level checkers and the report engine used
// by the entity records before anything is written to the database.
package validate

import (
	"fmt"
	"regexp"
)

// Checker inspects a single non-empty field value and reports whether it is
// acceptable, with a human-readable reason when it is not. Checkers never see
// empty values; presence is the engine's job.
type Checker func(value string) (ok bool, message string)

// Phone numbers arrive in a myriad of formats, so the check is deliberately
// loose: a 3-3-4 digit grouping separated by any non-digits, found anywhere
// in the string, optionally followed by extension digits.
var phonePattern = regexp.MustCompile(`\d{3}\D*\d{3}\D*\d{4}\D*\d*`)

func Phone(value string) (bool, string) {
	if !phonePattern.MatchString(value) {
		return false, "invalid phone number format"
	}
	return true, ""
}

// Zip accepts exactly 5 digits, exactly 9 digits, or the ZIP+4 form
// #####-####.
func Zip(value string) (bool, string) {
	switch len(value) {
	case 5, 9:
		if allDigits(value) {
			return true, ""
		}
	case 10:
		if allDigits(value[:5]) && value[5] == '-' && allDigits(value[6:]) {
			return true, ""
		}
	}
	return false, "bad zip code"
}

// LengthRange builds a checker that accepts values whose length falls in the
// closed range [min, max].
func LengthRange(min, max int) Checker {
	return func(value string) (bool, string) {
		if len(value) < min || len(value) > max {
			return false, fmt.Sprintf("needs to have a length between %d and %d", min, max)
		}
		return true, ""
	}
}

// Missing reports whether a form value is absent. Submitted forms represent
// absence as the empty string.
func Missing(value string) bool {
	return value == ""
}

// Digits reports whether the value is one or more ASCII digits.
func Digits(value string) bool {
	return value != "" && allDigits(value)
}

// Alnum reports whether the value is entirely ASCII letters and digits.
func Alnum(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
