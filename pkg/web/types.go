// Package web provides HTTP request and response types for the builder API.
package web

import (
	"github.com/flowsmith/flowsmith/pkg/canvas"
	"github.com/flowsmith/flowsmith/pkg/fields"
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/progress"
)

// CreateSessionRequest represents the request body for starting a builder
// session.
type CreateSessionRequest struct {
	Steps         []models.WorkflowStep `json:"steps"                    validate:"required,min=1,dive"`
	Fields        []models.FormField    `json:"fields,omitempty"         validate:"omitempty,dive"`
	Compact       bool                  `json:"compact"`
	EnableZoomPan bool                  `json:"enable_zoom_pan"`
	SaveDelayMS   int                   `json:"save_delay_ms,omitempty"  validate:"omitempty,min=0"`
}

// FieldChangeRequest represents the request body for a field value change
// or a blur notification.
type FieldChangeRequest struct {
	Value any `json:"value"`
}

// GoToStepRequest represents the request body for a step indicator jump.
type GoToStepRequest struct {
	Step int `json:"step" validate:"required,min=1"`
}

// InteractionRequest represents one canvas interaction. Type selects the
// gesture; the remaining fields apply to the matching gesture only.
type InteractionRequest struct {
	Type     string  `json:"type"                validate:"required,oneof=node_click connection_click node_enter node_leave key context_menu canvas_click wheel pan_begin pan_move pan_end"`
	NodeID   string  `json:"node_id,omitempty"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
	Key      string  `json:"key,omitempty"`
	DeltaY   float64 `json:"delta_y,omitempty"`
	Modifier bool    `json:"modifier,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
}

// StepResponse is the form state of the active step.
type StepResponse struct {
	Step       models.WorkflowStep      `json:"step"`
	Fields     []fields.RenderedField   `json:"fields"`
	Errors     models.FormErrors        `json:"errors"`
	CanAdvance bool                     `json:"can_advance"`
	Progress   models.ProgressData      `json:"progress"`
	Indicators []progress.StepIndicator `json:"indicators"`
	Notice     string                   `json:"notice,omitempty"`
}

// GraphResponse is the compiled graph plus its render model.
type GraphResponse struct {
	Nodes            []models.WorkflowNode       `json:"nodes"`
	Connections      []models.Connection         `json:"connections"`
	Positions        []canvas.Position           `json:"positions"`
	Paths            []canvas.Path               `json:"paths"`
	NodeStates       map[string]canvas.NodeState `json:"node_states"`
	ConnectionStates []canvas.NodeState          `json:"connection_states"`
	Empty            bool                        `json:"empty"`
}

// CanvasResponse is the full interaction state of the canvas.
type CanvasResponse struct {
	GraphResponse

	Zoom    float64            `json:"zoom"`
	PanX    float64            `json:"pan_x"`
	PanY    float64            `json:"pan_y"`
	Tooltip canvas.Tooltip     `json:"tooltip"`
	Menu    canvas.ContextMenu `json:"menu"`
}

// SessionResponse identifies a created session and its initial form state.
type SessionResponse struct {
	ID string `json:"id"`

	StepResponse
}
