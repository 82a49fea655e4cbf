package compiler

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// intentSchema guards the wire shape of intent payloads before they are
// unmarshalled. The extraction service lives outside this module, so its
// output is not trusted blindly.
const intentSchema = `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {
			"type": "string",
			"enum": ["create_workflow", "modify_workflow", "provide_info", "unknown"]
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1
		},
		"extracted_entities": {
			"type": "object",
			"properties": {
				"services": {
					"type": "array",
					"items": {"type": "string"}
				},
				"schedule": {"type": "string"},
				"condition": {"$ref": "#/definitions/condition"},
				"conditions": {
					"type": "array",
					"items": {"$ref": "#/definitions/condition"}
				},
				"needs_transformation": {"type": "boolean"},
				"needs_ai": {"type": "boolean"}
			}
		},
		"parameters": {"type": "object"},
		"node_progress": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	},
	"definitions": {
		"condition": {
			"type": "object",
			"required": ["field"],
			"properties": {
				"field": {"type": "string"},
				"operator": {"type": "string"},
				"value": {"type": "string"}
			}
		}
	}
}`

// ValidateIntentJSON checks a raw intent payload against the intent schema.
func ValidateIntentJSON(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(intentSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate intent payload: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("invalid intent payload: %s", strings.Join(details, "; "))
	}

	return nil
}
