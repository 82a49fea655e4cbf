package models

// FieldType classifies a form field input.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// IsTextLike reports whether the field renders as a plain input element
// (as opposed to select, textarea, checkbox or radio).
func (t FieldType) IsTextLike() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypeNumber,
		FieldTypeDate, FieldTypeTime, FieldTypeDateTime:
		return true
	case FieldTypeSelect, FieldTypeTextarea, FieldTypeCheckbox, FieldTypeRadio:
		return false
	default:
		return false
	}
}

// FieldOption is one selectable choice of a select or radio field.
type FieldOption struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// FieldValidation holds optional numeric bounds and a custom error message
// for a field.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Message string   `json:"message,omitempty"`
}

// FormField describes one form field of a workflow step.
type FormField struct {
	Name       string           `json:"name"                 validate:"required"`
	Type       FieldType        `json:"type"                 validate:"required,oneof=text email tel number date time datetime select textarea checkbox radio"`
	Label      string           `json:"label"`
	Required   bool             `json:"required"`
	Options    []FieldOption    `json:"options,omitempty"    validate:"omitempty,dive"`
	Validation *FieldValidation `json:"validation,omitempty"`
}

// FormValues maps field names to entered values. Values are raw scalars:
// string for text-like inputs, float64 for numbers, bool for checkboxes.
type FormValues map[string]any

// FormErrors maps field names to a single validation message each.
type FormErrors map[string]string
