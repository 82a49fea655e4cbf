// Package compiler turns extracted chat intents into workflow graphs.
package compiler

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// TriggerEdgeLabel is the fixed domain label carried by the edge from the
// trigger node to the first source node.
const TriggerEdgeLabel = "New Ticket"

// Node labels for stages that do not derive their label from a service.
const (
	webhookTriggerLabel = "Webhook Trigger"
	transformationLabel = "Transform Data"
	aiLabel             = "AI Analysis"
	conditionLabel      = "Condition"
	highPriorityLabel   = "High Priority?"
)

// Compile builds the node/connection graph for an intent. It is a pure
// function: the same intent always yields the same graph. An unknown intent
// with zero confidence compiles to an empty graph, the defined "no graph
// yet" state.
func Compile(intent *models.WorkflowIntent) ([]models.WorkflowNode, []models.Connection) {
	if intent == nil || intent.IsEmpty() {
		return []models.WorkflowNode{}, []models.Connection{}
	}

	builder := &graphBuilder{
		intent: intent,
		seen:   make(map[string]bool),
	}
	entities := &intent.ExtractedEntities

	if wantsTrigger(intent) {
		builder.add(models.WorkflowNode{
			ID:    string(models.NodeTypeTrigger),
			Type:  models.NodeTypeTrigger,
			Label: triggerLabel(entities.Schedule),
		})
	}

	for _, service := range entities.Services {
		if label, ok := models.SourceServiceLabel(service); ok {
			builder.add(models.WorkflowNode{
				ID:    service,
				Type:  models.NodeTypeSource,
				Label: label,
			})
		}
	}

	conditions := entities.AllConditions()
	if len(conditions) > 0 {
		builder.add(models.WorkflowNode{
			ID:    string(models.NodeTypeCondition),
			Type:  models.NodeTypeCondition,
			Label: labelForCondition(conditions[0]),
		})
	}

	if entities.NeedsTransformation {
		builder.add(models.WorkflowNode{
			ID:    string(models.NodeTypeTransformation),
			Type:  models.NodeTypeTransformation,
			Label: transformationLabel,
		})
	}

	if entities.NeedsAI {
		builder.add(models.WorkflowNode{
			ID:    string(models.NodeTypeAI),
			Type:  models.NodeTypeAI,
			Label: aiLabel,
		})
	}

	for _, service := range entities.Services {
		if label, ok := models.DestinationServiceLabel(service); ok {
			builder.add(models.WorkflowNode{
				ID:    service,
				Type:  models.NodeTypeAction,
				Label: label,
			})
		}
	}

	nodes := builder.sorted()
	connections := connect(nodes, conditions)

	return nodes, connections
}

// graphBuilder accumulates nodes in discovery order, deduplicating by ID.
type graphBuilder struct {
	intent *models.WorkflowIntent
	nodes  []models.WorkflowNode
	seen   map[string]bool
}

func (b *graphBuilder) add(node models.WorkflowNode) {
	if b.seen[node.ID] {
		return
	}

	b.seen[node.ID] = true

	// A modification intent flags nodes the canvas has not seen before,
	// without duplicating ones that are already present.
	if b.intent.IsModification() {
		if _, present := b.intent.NodeProgress[node.ID]; !present {
			node.Data = map[string]any{"new": true}
		}
	}

	b.nodes = append(b.nodes, node)
}

// sorted orders nodes by the shared rank table. Unrecognized IDs rank after
// every known one and keep their discovery order.
func (b *graphBuilder) sorted() []models.WorkflowNode {
	nodes := b.nodes
	if nodes == nil {
		nodes = []models.WorkflowNode{}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		ri, _ := models.NodeRank(&nodes[i])
		rj, _ := models.NodeRank(&nodes[j])

		return ri < rj
	})

	return nodes
}

// connect creates sequential edges between consecutive nodes, then replaces
// the condition's outgoing edge with one edge per (condition, downstream
// node) pair when the intent carries multiple conditions. The fan-out
// intentionally produces parallel edges into the same target so every
// branch cause stays visible.
func connect(nodes []models.WorkflowNode, conditions []models.IntentCondition) []models.Connection {
	connections := make([]models.Connection, 0, len(nodes))

	for i := 0; i+1 < len(nodes); i++ {
		label := ""
		if nodes[i].Type == models.NodeTypeTrigger && nodes[i+1].Type == models.NodeTypeSource {
			label = TriggerEdgeLabel
		}

		connections = append(connections, models.Connection{
			From:  nodes[i].ID,
			To:    nodes[i+1].ID,
			Label: label,
		})
	}

	if len(conditions) > 1 {
		connections = branch(nodes, conditions, connections)
	}

	return connections
}

func branch(nodes []models.WorkflowNode, conditions []models.IntentCondition, connections []models.Connection) []models.Connection {
	conditionIndex := -1

	for i := range nodes {
		if nodes[i].Type == models.NodeTypeCondition {
			conditionIndex = i

			break
		}
	}

	if conditionIndex < 0 || conditionIndex == len(nodes)-1 {
		return connections
	}

	conditionID := nodes[conditionIndex].ID
	nextID := nodes[conditionIndex+1].ID

	kept := make([]models.Connection, 0, len(connections))

	for _, conn := range connections {
		if conn.From == conditionID && conn.To == nextID {
			continue
		}

		kept = append(kept, conn)
	}

	for _, condition := range conditions {
		for _, target := range nodes[conditionIndex+1:] {
			kept = append(kept, models.Connection{
				From:  conditionID,
				To:    target.ID,
				Label: fmt.Sprintf("%s = %s", condition.Field, condition.Value),
			})
		}
	}

	return kept
}

// wantsTrigger reports whether the intent calls for a trigger node: it
// carries a schedule, a trigger-type parameter, or asks to create a
// workflow.
func wantsTrigger(intent *models.WorkflowIntent) bool {
	if intent.ExtractedEntities.Schedule != "" {
		return true
	}

	if _, ok := intent.Parameters["trigger_type"]; ok {
		return true
	}

	return intent.Type == models.IntentTypeCreateWorkflow
}

func triggerLabel(schedule string) string {
	if schedule == "" {
		return webhookTriggerLabel
	}

	return "Schedule: " + capitalize(schedule)
}

func labelForCondition(condition models.IntentCondition) string {
	equality := condition.Operator == "" || condition.Operator == "equals"
	if equality && condition.Field == "priority" && condition.Value == "high" {
		return highPriorityLabel
	}

	return conditionLabel
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + s[size:]
}
