package validation

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	code := regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	tests := []struct {
		name  string
		check Validator
		value string
		want  string
	}{
		{"required ok", Required("Title", 10), "Spring", ""},
		{"required blank", Required("Title", 10), "   ", "Title is required."},
		{"required too long", Required("Title", 3), "Spring", "Title cannot exceed 3 characters."},
		{"required counts runes", Required("Title", 4), "Café", ""},
		{"optional blank", Optional("Notes", 5), "", ""},
		{"optional too long", Optional("Notes", 5), "abcdef", "Notes cannot exceed 5 characters."},
		{"number ok", NumberRange("Discount", 1, 100), "15.5", ""},
		{"number inclusive max", NumberRange("Discount", 1, 100), "100", ""},
		{"number not numeric", NumberRange("Discount", 1, 100), "ten", "Discount must be a number."},
		{"number out of range", NumberRange("Discount", 1, 100), "150", "Discount must be between 1 and 100."},
		{"date ok", Date("Start"), "2026-03-01", ""},
		{"date blank", Date("Start"), "", ""},
		{"date bad", Date("Start"), "03/01/2026", "Start must look like YYYY-MM-DD."},
		{"clock ok", Clock("Time"), "09:30", ""},
		{"clock bad", Clock("Time"), "9.30am", "Time must look like HH:MM."},
		{"one of ok", OneOf("Role", []string{"owner", "customer"}), "Owner", ""},
		{"one of bad", OneOf("Role", []string{"owner", "customer"}), "admin", "Role must be one of: owner, customer"},
		{"pattern ok", Pattern("Code", code), "SPRING-10", ""},
		{"pattern blank", Pattern("Code", code), "", ""},
		{"pattern bad", Pattern("Code", code), "no spaces", "Code has an invalid format."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.value))
		})
	}
}

func TestFieldValidator(t *testing.T) {
	t.Run("first error per field wins", func(t *testing.T) {
		errs := New().
			Validate("title", "", Required("Title", 10), Pattern("Title", regexp.MustCompile(`^[A-Z]+$`))).
			Validate("discount", "5", NumberRange("Discount", 1, 100)).
			Errors()
		assert.Equal(t, map[string]string{"title": "Title is required."}, errs)
	})

	t.Run("check does not overwrite", func(t *testing.T) {
		fv := New().Validate("ends_at", "bad", Date("End"))
		fv.Check(false, "ends_at", "End must be after start")
		assert.Equal(t, "End must look like YYYY-MM-DD.", fv.Errors()["ends_at"])
		assert.True(t, fv.Has("ends_at"))
	})

	t.Run("check records cross-field rule", func(t *testing.T) {
		fv := New().Check(false, "ends_at", "End must be after start").Check(true, "title", "unused")
		assert.Equal(t, map[string]string{"ends_at": "End must be after start"}, fv.Errors())
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, New().Errors())
	})
}
