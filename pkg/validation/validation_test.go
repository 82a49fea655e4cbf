package validation

import (
	"testing"

	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/stretchr/testify/assert"
)

func float(v float64) *float64 {
	return &v
}

func testFields() map[string]models.FormField {
	return map[string]models.FormField{
		"name": {
			Name:     "name",
			Type:     models.FieldTypeText,
			Label:    "Name",
			Required: true,
		},
		"email": {
			Name:     "email",
			Type:     models.FieldTypeEmail,
			Label:    "Email",
			Required: true,
		},
		"retries": {
			Name:       "retries",
			Type:       models.FieldTypeNumber,
			Label:      "Retries",
			Validation: &models.FieldValidation{Min: float(1), Max: float(5)},
		},
		"timeout": {
			Name: "timeout",
			Type: models.FieldTypeNumber,
			Validation: &models.FieldValidation{
				Min:     float(10),
				Message: "Timeout must be 10 seconds or more",
			},
		},
		"notify": {
			Name: "notify",
			Type: models.FieldTypeCheckbox,
		},
	}
}

func TestValidateStep_RequiredFields(t *testing.T) {
	step := models.WorkflowStep{
		ID:     "contact",
		Name:   "Contact",
		Fields: []string{"name", "email"},
	}

	errors := ValidateStep(step, testFields(), models.FormValues{})

	assert.Equal(t, "Name is required", errors["name"])
	assert.Equal(t, "Email is required", errors["email"])
}

func TestValidateStep_EmptyStringCountsAsMissing(t *testing.T) {
	step := models.WorkflowStep{ID: "contact", Fields: []string{"name"}}

	errors := ValidateStep(step, testFields(), models.FormValues{"name": ""})

	assert.Equal(t, "Name is required", errors["name"])
}

func TestValidateStep_EmailFormat(t *testing.T) {
	step := models.WorkflowStep{ID: "contact", Fields: []string{"email"}}
	fields := testFields()

	tests := []struct {
		name    string
		value   string
		message string
	}{
		{"valid address", "ana@example.com", ""},
		{"missing at sign", "ana.example.com", EmailErrorMessage},
		{"missing tld", "ana@example", EmailErrorMessage},
		{"embedded space", "ana maria@example.com", EmailErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateStep(step, fields, models.FormValues{"email": tt.value})
			if tt.message == "" {
				assert.NotContains(t, errors, "email")
			} else {
				assert.Equal(t, tt.message, errors["email"])
			}
		})
	}
}

func TestValidateStep_NumberBounds(t *testing.T) {
	step := models.WorkflowStep{ID: "settings", Fields: []string{"retries"}}
	fields := testFields()

	errors := ValidateStep(step, fields, models.FormValues{"retries": float64(7)})
	assert.Equal(t, "Value must be between 1 and 5", errors["retries"])

	errors = ValidateStep(step, fields, models.FormValues{"retries": float64(3)})
	assert.Empty(t, errors)

	// String values entered into number inputs still get bounds-checked.
	errors = ValidateStep(step, fields, models.FormValues{"retries": "0"})
	assert.Equal(t, "Value must be between 1 and 5", errors["retries"])
}

func TestValidateStep_CustomBoundsMessage(t *testing.T) {
	step := models.WorkflowStep{ID: "settings", Fields: []string{"timeout"}}

	errors := ValidateStep(step, testFields(), models.FormValues{"timeout": float64(3)})

	assert.Equal(t, "Timeout must be 10 seconds or more", errors["timeout"])
}

func TestValidateStep_OptionalBlankFieldSkipsFormatChecks(t *testing.T) {
	step := models.WorkflowStep{ID: "settings", Fields: []string{"retries"}}

	errors := ValidateStep(step, testFields(), models.FormValues{})

	assert.Empty(t, errors)
}

func TestValidateStep_MissingFieldDefinitionFailsClosed(t *testing.T) {
	step := models.WorkflowStep{ID: "contact", Fields: []string{"ghost"}}

	errors := ValidateStep(step, testFields(), models.FormValues{})

	assert.Empty(t, errors, "unknown fields are nothing to render, not an error")
}

func TestValidateStep_FalseCheckboxIsAValue(t *testing.T) {
	fields := testFields()
	notify := fields["notify"]
	notify.Required = true
	fields["notify"] = notify

	step := models.WorkflowStep{ID: "settings", Fields: []string{"notify"}}

	errors := ValidateStep(step, fields, models.FormValues{"notify": false})

	assert.Empty(t, errors)
}

func TestCanAdvance(t *testing.T) {
	step := models.WorkflowStep{ID: "contact", Fields: []string{"name", "email"}}
	fields := testFields()

	assert.False(t, CanAdvance(step, fields, models.FormValues{}))
	assert.False(t, CanAdvance(step, fields, models.FormValues{"name": "Ana"}))

	// CanAdvance only gates on presence; the malformed email surfaces
	// through ValidateStep instead.
	assert.True(t, CanAdvance(step, fields, models.FormValues{"name": "Ana", "email": "not-an-email"}))
	assert.True(t, CanAdvance(step, fields, models.FormValues{"name": "Ana", "email": "ana@example.com"}))
}
