package models

// WorkflowStep is a named grouping of form fields within the multi-step
// form. Fields lists field names belonging to this step.
type WorkflowStep struct {
	ID          string   `json:"id"          validate:"required"`
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Fields      []string `json:"fields"`
}
