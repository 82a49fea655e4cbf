// Package models defines the core domain models for the conversational workflow builder.
package models

// NodeType classifies a node on the workflow canvas and drives both its
// render style and its position in the shared rank table.
type NodeType string

const (
	NodeTypeTrigger        NodeType = "trigger"
	NodeTypeSource         NodeType = "source"
	NodeTypeCondition      NodeType = "condition"
	NodeTypeAction         NodeType = "action"
	NodeTypeTransformation NodeType = "transformation"
	NodeTypeAI             NodeType = "ai"
)

// WorkflowNode represents one visual stage of a compiled workflow graph.
// IDs are unique within a single compiled graph.
type WorkflowNode struct {
	ID    string         `json:"id"    validate:"required"`
	Type  NodeType       `json:"type"  validate:"required,oneof=trigger source condition action transformation ai"`
	Label string         `json:"label" validate:"required"`
	Data  map[string]any `json:"data,omitempty"`
}

// IsNew reports whether the node was added by a modification intent and has
// not been persisted to the canvas yet.
func (n *WorkflowNode) IsNew() bool {
	v, ok := n.Data["new"].(bool)

	return ok && v
}

// Connection is a directed, optionally labeled edge between two nodes. Both
// endpoints must reference existing node IDs.
type Connection struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to"   validate:"required"`
	Label string `json:"label,omitempty"`
}
