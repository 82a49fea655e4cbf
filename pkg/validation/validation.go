// Package validation checks step field values against required and format rules.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// EmailErrorMessage is the fixed message for malformed email values.
const EmailErrorMessage = "Please enter a valid email address"

// Standard local@domain.tld shape. Anything stricter rejects addresses
// that mail servers accept.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateStep runs the full rule set over one step: the required check for
// every required field, plus type-specific format checks for non-empty
// values. Fields referenced by the step but missing from the definition map
// are skipped, never an error.
func ValidateStep(step models.WorkflowStep, fields map[string]models.FormField, values models.FormValues) models.FormErrors {
	errors := make(models.FormErrors)

	for _, name := range step.Fields {
		field, ok := fields[name]
		if !ok {
			continue
		}

		if field.Required && isBlank(values[name]) {
			errors[name] = capitalize(name) + " is required"

			continue
		}

		if isBlank(values[name]) {
			continue
		}

		if message := checkFormat(field, values[name]); message != "" {
			errors[name] = message
		}
	}

	return errors
}

// CanAdvance is the cheap gate for Next/Submit enablement: every required
// field of the step has a non-empty value. Format problems do not block
// here; they surface through ValidateStep.
func CanAdvance(step models.WorkflowStep, fields map[string]models.FormField, values models.FormValues) bool {
	for _, name := range step.Fields {
		field, ok := fields[name]
		if !ok {
			continue
		}

		if field.Required && isBlank(values[name]) {
			return false
		}
	}

	return true
}

func checkFormat(field models.FormField, value any) string {
	switch field.Type {
	case models.FieldTypeEmail:
		s, _ := value.(string)
		if !emailPattern.MatchString(s) {
			return EmailErrorMessage
		}
	case models.FieldTypeNumber:
		return checkNumberBounds(field, value)
	case models.FieldTypeText, models.FieldTypeTel, models.FieldTypeDate,
		models.FieldTypeTime, models.FieldTypeDateTime, models.FieldTypeSelect,
		models.FieldTypeTextarea, models.FieldTypeCheckbox, models.FieldTypeRadio:
	}

	return ""
}

func checkNumberBounds(field models.FormField, value any) string {
	if field.Validation == nil {
		return ""
	}

	number, ok := toFloat(value)
	if !ok {
		return boundsMessage(field.Validation)
	}

	if field.Validation.Min != nil && number < *field.Validation.Min {
		return boundsMessage(field.Validation)
	}

	if field.Validation.Max != nil && number > *field.Validation.Max {
		return boundsMessage(field.Validation)
	}

	return ""
}

func boundsMessage(v *models.FieldValidation) string {
	if v.Message != "" {
		return v.Message
	}

	switch {
	case v.Min != nil && v.Max != nil:
		return fmt.Sprintf("Value must be between %v and %v", *v.Min, *v.Max)
	case v.Min != nil:
		return fmt.Sprintf("Value must be at least %v", *v.Min)
	case v.Max != nil:
		return fmt.Sprintf("Value must be at most %v", *v.Max)
	default:
		return ""
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		number, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}

		return number, true
	default:
		return 0, false
	}
}

// isBlank reports an absent value or an empty string. A false checkbox is a
// value, not a blank.
func isBlank(value any) bool {
	if value == nil {
		return true
	}

	s, ok := value.(string)

	return ok && s == ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + s[size:]
}
