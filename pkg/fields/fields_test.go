package fields

import (
	"testing"

	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_TextLikeInputTypes(t *testing.T) {
	tests := []struct {
		fieldType models.FieldType
		inputType string
	}{
		{models.FieldTypeText, "text"},
		{models.FieldTypeEmail, "email"},
		{models.FieldTypeTel, "tel"},
		{models.FieldTypeNumber, "number"},
		{models.FieldTypeDate, "date"},
		{models.FieldTypeTime, "time"},
		{models.FieldTypeDateTime, "datetime-local"},
	}

	for _, tt := range tests {
		t.Run(string(tt.fieldType), func(t *testing.T) {
			rendered := Render(models.FormField{Name: "f", Type: tt.fieldType}, "x")
			assert.Equal(t, KindInput, rendered.Kind)
			assert.Equal(t, tt.inputType, rendered.InputType)
			assert.Equal(t, "x", rendered.Value)
		})
	}
}

func TestRender_OptionalSelectGetsPlaceholder(t *testing.T) {
	field := models.FormField{
		Name: "channel",
		Type: models.FieldTypeSelect,
		Options: []models.FieldOption{
			{Value: "slack", Label: "Slack"},
			{Value: "email", Label: "Email"},
		},
	}

	rendered := Render(field, nil)

	require.Len(t, rendered.Options, 3)
	assert.Equal(t, "", rendered.Options[0].Value)
	assert.Equal(t, PlaceholderLabel, rendered.Options[0].Label)
}

func TestRender_RequiredSelectHasNoPlaceholder(t *testing.T) {
	field := models.FormField{
		Name:     "channel",
		Type:     models.FieldTypeSelect,
		Required: true,
		Options: []models.FieldOption{
			{Value: "slack", Label: "Slack"},
		},
	}

	rendered := Render(field, nil)

	require.Len(t, rendered.Options, 1)
	assert.Equal(t, "slack", rendered.Options[0].Value)
}

func TestRender_Checkbox(t *testing.T) {
	field := models.FormField{Name: "notify", Type: models.FieldTypeCheckbox}

	assert.True(t, Render(field, true).Checked)
	assert.False(t, Render(field, false).Checked)
	assert.False(t, Render(field, nil).Checked)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		field    models.FormField
		raw      string
		expected any
	}{
		{"checkbox true", models.FormField{Type: models.FieldTypeCheckbox}, "true", true},
		{"checkbox garbage", models.FormField{Type: models.FieldTypeCheckbox}, "banana", false},
		{"number", models.FormField{Type: models.FieldTypeNumber}, "42.5", 42.5},
		{"number garbage stays raw", models.FormField{Type: models.FieldTypeNumber}, "many", "many"},
		{"radio keeps option value", models.FormField{Type: models.FieldTypeRadio}, "slack", "slack"},
		{"text", models.FormField{Type: models.FieldTypeText}, "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Coerce(tt.field, tt.raw))
		})
	}
}
