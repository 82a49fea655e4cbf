// Package canvas lays out compiled workflow graphs and tracks every piece
// of interaction state (focus, hover, zoom, pan, context menu) as
// inspectable values.
package canvas

// Fixed layout geometry. Nodes sit left to right on one horizontal center
// line; positions only recompute when the node list changes, never on
// resize.
const (
	baseOffsetX     = 50
	centerY         = 150
	spacingExpanded = 220
	spacingCompact  = 150
	nodeWidth       = 120
	nodeHeight      = 60
)

// Position is the top-left corner of a node's bounding box.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Path is one rendered connection: a straight segment from the right edge
// of the source node to the left edge of the target node.
type Path struct {
	FromX int `json:"from_x"`
	FromY int `json:"from_y"`
	ToX   int `json:"to_x"`
	ToY   int `json:"to_y"`
}

func layoutPositions(count int, compact bool) []Position {
	spacing := spacingExpanded
	if compact {
		spacing = spacingCompact
	}

	positions := make([]Position, count)
	for i := range positions {
		positions[i] = Position{
			X: baseOffsetX + i*spacing,
			Y: centerY,
		}
	}

	return positions
}

func pathBetween(from, to Position) Path {
	return Path{
		FromX: from.X + nodeWidth,
		FromY: from.Y + nodeHeight/2,
		ToX:   to.X,
		ToY:   to.Y + nodeHeight/2,
	}
}
