// Package fields renders form field definitions into input view models with
// a uniform change/blur contract across every field type.
package fields

import (
	"fmt"
	"strconv"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// InputKind is the rendering shape of a field, collapsing all text-like
// types into one kind.
type InputKind string

const (
	KindInput    InputKind = "input"
	KindSelect   InputKind = "select"
	KindTextarea InputKind = "textarea"
	KindCheckbox InputKind = "checkbox"
	KindRadio    InputKind = "radio"
)

// PlaceholderLabel is the label of the synthetic first option of an
// optional select.
const PlaceholderLabel = "Choose one"

// ChangeFunc receives every value change, regardless of the underlying
// input shape. Checkboxes propagate bool, numbers float64, everything else
// the raw string.
type ChangeFunc func(fieldName string, value any)

// BlurFunc receives focus-leave notifications by field name.
type BlurFunc func(fieldName string)

// RenderedField is the view model for one form field. The same model serves
// the live form and any preview surface.
type RenderedField struct {
	Name      string               `json:"name"`
	Label     string               `json:"label"`
	Kind      InputKind            `json:"kind"`
	InputType string               `json:"input_type,omitempty"`
	Required  bool                 `json:"required"`
	Value     string               `json:"value"`
	Checked   bool                 `json:"checked,omitempty"`
	Options   []models.FieldOption `json:"options,omitempty"`
}

// Render builds the view model for a field with its current value.
func Render(field models.FormField, value any) RenderedField {
	rendered := RenderedField{
		Name:     field.Name,
		Label:    field.Label,
		Kind:     kindOf(field.Type),
		Required: field.Required,
	}

	switch rendered.Kind {
	case KindCheckbox:
		checked, _ := value.(bool)
		rendered.Checked = checked
	case KindSelect:
		rendered.Value = stringValue(value)
		rendered.Options = selectOptions(field)
	case KindRadio:
		rendered.Value = stringValue(value)
		rendered.Options = field.Options
	case KindTextarea:
		rendered.Value = stringValue(value)
	case KindInput:
		rendered.Value = stringValue(value)
		rendered.InputType = inputType(field.Type)
	}

	return rendered
}

// Coerce converts a raw string input into the value shape the field
// propagates through onChange.
func Coerce(field models.FormField, raw string) any {
	switch field.Type {
	case models.FieldTypeCheckbox:
		checked, err := strconv.ParseBool(raw)
		if err != nil {
			return false
		}

		return checked
	case models.FieldTypeNumber:
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}

		return number
	case models.FieldTypeText, models.FieldTypeEmail, models.FieldTypeTel,
		models.FieldTypeDate, models.FieldTypeTime, models.FieldTypeDateTime,
		models.FieldTypeSelect, models.FieldTypeTextarea, models.FieldTypeRadio:
		return raw
	default:
		return raw
	}
}

// selectOptions prepends the placeholder option only when the field is not
// required; a required select must force a real choice.
func selectOptions(field models.FormField) []models.FieldOption {
	if field.Required {
		return field.Options
	}

	options := make([]models.FieldOption, 0, len(field.Options)+1)
	options = append(options, models.FieldOption{Value: "", Label: PlaceholderLabel})
	options = append(options, field.Options...)

	return options
}

func kindOf(fieldType models.FieldType) InputKind {
	switch fieldType {
	case models.FieldTypeSelect:
		return KindSelect
	case models.FieldTypeTextarea:
		return KindTextarea
	case models.FieldTypeCheckbox:
		return KindCheckbox
	case models.FieldTypeRadio:
		return KindRadio
	case models.FieldTypeText, models.FieldTypeEmail, models.FieldTypeTel,
		models.FieldTypeNumber, models.FieldTypeDate, models.FieldTypeTime,
		models.FieldTypeDateTime:
		return KindInput
	default:
		return KindInput
	}
}

func inputType(fieldType models.FieldType) string {
	if fieldType == models.FieldTypeDateTime {
		return "datetime-local"
	}

	return string(fieldType)
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
