// Package validation checks console form input before it is sent to the
// backend. Messages are shown next to the field.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Validator returns an error message for an invalid value, or "".
type Validator func(v string) string

// Required rejects blank values and values longer than maxLen runes.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional only limits the length of a value when one is given.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// NumberRange requires a number in [minVal, maxVal].
func NumberRange(fieldName string, minVal, maxVal float64) Validator {
	return func(v string) string {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fieldName + " must be a number."
		}
		if f < minVal || f > maxVal {
			return fmt.Sprintf("%s must be between %s and %s.", fieldName,
				strconv.FormatFloat(minVal, 'f', -1, 64), strconv.FormatFloat(maxVal, 'f', -1, 64))
		}
		return ""
	}
}

// Date accepts YYYY-MM-DD. Blank passes; pair with Required when needed.
func Date(fieldName string) Validator {
	return layout(fieldName, time.DateOnly, "YYYY-MM-DD")
}

// Clock accepts a 24-hour HH:MM time. Blank passes.
func Clock(fieldName string) Validator {
	return layout(fieldName, "15:04", "HH:MM")
}

func layout(fieldName, layout, hint string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if _, err := time.Parse(layout, v); err != nil {
			return fmt.Sprintf("%s must look like %s.", fieldName, hint)
		}
		return ""
	}
}

// OneOf requires one of options, ignoring case.
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// Pattern requires a match when a value is given.
func Pattern(fieldName string, re *regexp.Regexp) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" || re.MatchString(v) {
			return ""
		}
		return fieldName + " has an invalid format."
	}
}

// FieldValidator collects the first error per field.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate runs validators in order and keeps the first failure.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	if _, done := fv.errors[field]; done {
		return fv
	}
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

// Check records msg for field when ok is false and the field has no error yet.
// It covers rules that span fields, such as an end date after a start date.
func (fv *FieldValidator) Check(ok bool, field, msg string) *FieldValidator {
	if _, done := fv.errors[field]; !ok && !done {
		fv.errors[field] = msg
	}
	return fv
}

// Has reports whether field already failed.
func (fv *FieldValidator) Has(field string) bool {
	_, ok := fv.errors[field]
	return ok
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
