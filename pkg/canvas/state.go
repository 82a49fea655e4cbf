package canvas

import "github.com/flowsmith/flowsmith/pkg/models"

// NodeState is derived per render from the externally supplied current
// step, never stored on the node.
type NodeState struct {
	Active    bool `json:"active"`
	Completed bool `json:"completed"`
}

// nodeState derives a node's styling state. A node is active when the
// current step names its ID or its type; the generic "source" step value
// matches every source-typed node through the type comparison. A node is
// completed when its rank precedes the current step's rank, except the
// node whose own type is the current step, which is active instead.
func nodeState(node *models.WorkflowNode, currentStep string) NodeState {
	if currentStep == "" {
		return NodeState{}
	}

	active := currentStep == node.ID || currentStep == string(node.Type)

	stepRank, stepKnown := models.Rank(currentStep)
	nodeRank, nodeKnown := models.NodeRank(node)

	completed := stepKnown && nodeKnown &&
		nodeRank < stepRank &&
		string(node.Type) != currentStep

	return NodeState{Active: active, Completed: completed}
}

// connectionState applies the node logic to a connection's endpoints: a
// connection is completed when both endpoints are, and active when either
// endpoint is.
func connectionState(from, to NodeState) NodeState {
	return NodeState{
		Active:    from.Active || to.Active,
		Completed: from.Completed && to.Completed,
	}
}
