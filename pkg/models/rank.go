package models

// Node rank table shared by the graph compiler (sort order) and the canvas
// controller (active/completed lookup). This is the single source of truth;
// both consumers must read from here so the two can never diverge.
var nodeRank = map[string]int{
	string(NodeTypeTrigger):        0,
	ServiceHelpScout:               1,
	ServiceNotion:                  2,
	string(NodeTypeCondition):      3,
	string(NodeTypeTransformation): 4,
	string(NodeTypeAI):             5,
	ServiceSlack:                   6,
	ServiceEmail:                   7,
}

// RankUnknown is the rank assigned to identifiers missing from the table.
// Unrecognized nodes sort after every known one, keeping their discovery
// order.
const RankUnknown = 8

// Rank returns the sort rank for a node or step identifier. The second
// return value is false when the identifier is not in the table.
func Rank(id string) (int, bool) {
	r, ok := nodeRank[id]
	if !ok {
		return RankUnknown, false
	}

	return r, true
}

// NodeRank resolves a node's rank by its ID first, falling back to its
// type. Source and action nodes carry service IDs, everything else carries
// its type as its ID.
func NodeRank(n *WorkflowNode) (int, bool) {
	if r, ok := Rank(n.ID); ok {
		return r, true
	}

	return Rank(string(n.Type))
}
