package models

// IntentType classifies what the user is asking for, as extracted by the
// external NLP step.
type IntentType string

const (
	IntentTypeCreateWorkflow IntentType = "create_workflow"
	IntentTypeModifyWorkflow IntentType = "modify_workflow"
	IntentTypeProvideInfo    IntentType = "provide_info"
	IntentTypeUnknown        IntentType = "unknown"
)

// IntentCondition is one branching condition extracted from chat, e.g.
// "when priority equals high".
type IntentCondition struct {
	Field    string `json:"field"    validate:"required"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ExtractedEntities carries the workflow building blocks the NLP step
// recognized in the conversation.
type ExtractedEntities struct {
	Services            []string          `json:"services,omitempty"`
	Schedule            string            `json:"schedule,omitempty"`
	Condition           *IntentCondition  `json:"condition,omitempty"`
	Conditions          []IntentCondition `json:"conditions,omitempty"`
	NeedsTransformation bool              `json:"needs_transformation,omitempty"`
	NeedsAI             bool              `json:"needs_ai,omitempty"`
}

// AllConditions merges the single condition and the condition list into one
// slice, single first.
func (e *ExtractedEntities) AllConditions() []IntentCondition {
	if e.Condition == nil {
		return e.Conditions
	}

	conditions := make([]IntentCondition, 0, len(e.Conditions)+1)
	conditions = append(conditions, *e.Condition)
	conditions = append(conditions, e.Conditions...)

	return conditions
}

// WorkflowIntent is the structured extraction of user chat intent produced
// by the external NLP collaborator. It is the sole input of the graph
// compiler.
type WorkflowIntent struct {
	Type              IntentType        `json:"type"                        validate:"required,oneof=create_workflow modify_workflow provide_info unknown"`
	Confidence        float64           `json:"confidence"                  validate:"min=0,max=1"`
	SuggestedFields   []FormField       `json:"suggested_fields,omitempty"  validate:"omitempty,dive"`
	SuggestedSteps    []WorkflowStep    `json:"suggested_steps,omitempty"   validate:"omitempty,dive"`
	ExtractedEntities ExtractedEntities `json:"extracted_entities"`
	Parameters        map[string]any    `json:"parameters,omitempty"`
	NodeProgress      map[string]string `json:"node_progress,omitempty"`
}

// IsEmpty reports the defined "no graph yet" state: an unknown intent with
// zero confidence compiles to an empty graph, not an error.
func (i *WorkflowIntent) IsEmpty() bool {
	return i.Type == IntentTypeUnknown && i.Confidence == 0
}

// IsModification reports whether the intent edits an existing graph rather
// than creating a fresh one.
func (i *WorkflowIntent) IsModification() bool {
	return i.Type == IntentTypeModifyWorkflow
}
