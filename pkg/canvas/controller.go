package canvas

import (
	"sync"
	"time"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// Zoom limits and the multiplicative step applied per wheel tick.
const (
	ZoomMin  = 0.5
	ZoomMax  = 2.0
	ZoomStep = 1.1
)

// DefaultTooltipDelay is how long the pointer must rest on a node before
// its tooltip shows. The delay absorbs fast mouse passes.
const DefaultTooltipDelay = 300 * time.Millisecond

// ContextMenuActions are the entries of the node context menu, in display
// order.
var ContextMenuActions = []string{"edit", "delete", "duplicate"}

// Keyboard keys the controller understands.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyEnter      = "Enter"
	KeySpace      = " "
)

// Tooltip is the hover tooltip state.
type Tooltip struct {
	NodeID  string `json:"node_id,omitempty"`
	Visible bool   `json:"visible"`
}

// ContextMenu is the right-click menu state.
type ContextMenu struct {
	Open    bool     `json:"open"`
	NodeID  string   `json:"node_id,omitempty"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Actions []string `json:"actions,omitempty"`
}

// Callbacks are the controller's outbound interaction events. Nil callbacks
// are skipped.
type Callbacks struct {
	OnNodeClick       func(node models.WorkflowNode)
	OnConnectionClick func(connection models.Connection)
	OnNodeHover       func(nodeID string, hovering bool)
}

// Options configure a controller.
type Options struct {
	Compact       bool
	EnableZoomPan bool
	TooltipDelay  time.Duration
}

// Controller owns the render and interaction state for one canvas. All
// state is inspectable for testing; nothing hides inside transforms.
type Controller struct {
	mu sync.Mutex

	nodes       []models.WorkflowNode
	connections []models.Connection
	positions   []Position

	currentStep string
	focus       int

	zoom                   float64
	panX, panY             float64
	dragging               bool
	dragStartX, dragStartY float64
	panStartX, panStartY   float64

	tooltip    Tooltip
	hoveredID  string
	hoverTimer *time.Timer

	menu ContextMenu

	opts      Options
	callbacks Callbacks
	closed    bool
}

// NewController creates a controller with an empty graph.
func NewController(opts Options, callbacks Callbacks) *Controller {
	if opts.TooltipDelay <= 0 {
		opts.TooltipDelay = DefaultTooltipDelay
	}

	return &Controller{
		focus:     -1,
		zoom:      1.0,
		opts:      opts,
		callbacks: callbacks,
	}
}

// SetGraph replaces the rendered graph and recomputes node positions. Focus
// and the context menu reset because they reference the old node list.
func (c *Controller) SetGraph(nodes []models.WorkflowNode, connections []models.Connection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nodes = nodes
	c.connections = connections
	c.positions = layoutPositions(len(nodes), c.opts.Compact)
	c.focus = -1
	c.menu = ContextMenu{}
}

// SetCompact toggles the narrow spacing and relays out the current nodes.
func (c *Controller) SetCompact(compact bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts.Compact = compact
	c.positions = layoutPositions(len(c.nodes), compact)
}

// SetCurrentStep feeds the externally owned current-step value used for
// active/completed derivation.
func (c *Controller) SetCurrentStep(step string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentStep = step
}

// Empty reports whether the placeholder should render instead of the
// canvas.
func (c *Controller) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.nodes) == 0
}

// Nodes returns the rendered node list in render order.
func (c *Controller) Nodes() []models.WorkflowNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nodes
}

// Connections returns the rendered connection list.
func (c *Controller) Connections() []models.Connection {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connections
}

// Positions returns node positions aligned with Nodes().
func (c *Controller) Positions() []Position {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.positions
}

// NodeStates derives the styling state for every node, keyed by node ID.
func (c *Controller) NodeStates() map[string]NodeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	states := make(map[string]NodeState, len(c.nodes))
	for i := range c.nodes {
		states[c.nodes[i].ID] = nodeState(&c.nodes[i], c.currentStep)
	}

	return states
}

// ConnectionStates derives styling states aligned with the connection list.
func (c *Controller) ConnectionStates() []NodeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID := make(map[string]NodeState, len(c.nodes))
	for i := range c.nodes {
		byID[c.nodes[i].ID] = nodeState(&c.nodes[i], c.currentStep)
	}

	states := make([]NodeState, len(c.connections))
	for i, conn := range c.connections {
		states[i] = connectionState(byID[conn.From], byID[conn.To])
	}

	return states
}

// Paths returns the rendered connection segments aligned with the
// connection list.
func (c *Controller) Paths() []Path {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := make(map[string]int, len(c.nodes))
	for i := range c.nodes {
		index[c.nodes[i].ID] = i
	}

	paths := make([]Path, 0, len(c.connections))

	for _, conn := range c.connections {
		fromIdx, fromOK := index[conn.From]
		toIdx, toOK := index[conn.To]

		if !fromOK || !toOK {
			continue
		}

		paths = append(paths, pathBetween(c.positions[fromIdx], c.positions[toIdx]))
	}

	return paths
}

// HandleNodeClick dispatches a pointer click on a node.
func (c *Controller) HandleNodeClick(nodeID string) {
	c.mu.Lock()

	var (
		node  models.WorkflowNode
		found bool
	)

	for i := range c.nodes {
		if c.nodes[i].ID == nodeID {
			node = c.nodes[i]
			found = true

			break
		}
	}

	callback := c.callbacks.OnNodeClick
	c.mu.Unlock()

	if found && callback != nil {
		callback(node)
	}
}

// HandleConnectionClick dispatches a click on a connection path, passing
// the full connection including its label.
func (c *Controller) HandleConnectionClick(from, to string) {
	c.mu.Lock()

	var (
		connection models.Connection
		found      bool
	)

	for _, conn := range c.connections {
		if conn.From == from && conn.To == to {
			connection = conn
			found = true

			break
		}
	}

	callback := c.callbacks.OnConnectionClick
	c.mu.Unlock()

	if found && callback != nil {
		callback(connection)
	}
}

// HandleNodeEnter starts the tooltip delay for a node and reports the hover
// transition.
func (c *Controller) HandleNodeEnter(nodeID string) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()

		return
	}

	if c.hoverTimer != nil {
		c.hoverTimer.Stop()
	}

	c.hoveredID = nodeID
	c.hoverTimer = time.AfterFunc(c.opts.TooltipDelay, func() {
		c.showTooltip(nodeID)
	})

	callback := c.callbacks.OnNodeHover
	c.mu.Unlock()

	if callback != nil {
		callback(nodeID, true)
	}
}

// HandleNodeLeave cancels any pending tooltip, hides a shown one and
// reports the hover transition.
func (c *Controller) HandleNodeLeave(nodeID string) {
	c.mu.Lock()

	if c.hoverTimer != nil {
		c.hoverTimer.Stop()
		c.hoverTimer = nil
	}

	c.hoveredID = ""
	c.tooltip = Tooltip{}

	callback := c.callbacks.OnNodeHover
	c.mu.Unlock()

	if callback != nil {
		callback(nodeID, false)
	}
}

// Tooltip returns the current tooltip state.
func (c *Controller) Tooltip() Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tooltip
}

func (c *Controller) showTooltip(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The pointer may have left or moved on while the timer ran.
	if c.closed || c.hoveredID != nodeID {
		return
	}

	c.tooltip = Tooltip{NodeID: nodeID, Visible: true}
}

// HandleKey processes keyboard navigation. Arrow keys move focus through
// render order; Enter and Space activate the focused node like a click.
func (c *Controller) HandleKey(key string) {
	c.mu.Lock()

	switch key {
	case KeyArrowRight:
		if c.focus < len(c.nodes)-1 {
			c.focus++
		}

		c.mu.Unlock()
	case KeyArrowLeft:
		if c.focus > 0 {
			c.focus--
		}

		c.mu.Unlock()
	case KeyEnter, KeySpace:
		var nodeID string
		if c.focus >= 0 && c.focus < len(c.nodes) {
			nodeID = c.nodes[c.focus].ID
		}

		c.mu.Unlock()

		if nodeID != "" {
			c.HandleNodeClick(nodeID)
		}
	default:
		c.mu.Unlock()
	}
}

// FocusedNode returns the node holding keyboard focus, if any.
func (c *Controller) FocusedNode() (models.WorkflowNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.focus < 0 || c.focus >= len(c.nodes) {
		return models.WorkflowNode{}, false
	}

	return c.nodes[c.focus], true
}

// OpenContextMenu opens the node menu at the pointer position.
func (c *Controller) OpenContextMenu(nodeID string, x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.menu = ContextMenu{
		Open:    true,
		NodeID:  nodeID,
		X:       x,
		Y:       y,
		Actions: ContextMenuActions,
	}
}

// HandleCanvasClick processes a click on empty canvas area. Any click
// outside the menu closes it.
func (c *Controller) HandleCanvasClick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.menu = ContextMenu{}
}

// Menu returns the context menu state.
func (c *Controller) Menu() ContextMenu {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.menu
}

// HandleWheel applies one zoom tick. Zooming requires the feature flag and
// the modifier key; plain scrolling passes through untouched.
func (c *Controller) HandleWheel(deltaY float64, modifier bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opts.EnableZoomPan || !modifier {
		return
	}

	if deltaY < 0 {
		c.zoom *= ZoomStep
	} else {
		c.zoom /= ZoomStep
	}

	if c.zoom < ZoomMin {
		c.zoom = ZoomMin
	}

	if c.zoom > ZoomMax {
		c.zoom = ZoomMax
	}
}

// Zoom returns the current zoom factor.
func (c *Controller) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.zoom
}

// BeginPan starts a press-drag on empty canvas area.
func (c *Controller) BeginPan(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opts.EnableZoomPan {
		return
	}

	c.dragging = true
	c.dragStartX = x
	c.dragStartY = y
	c.panStartX = c.panX
	c.panStartY = c.panY
}

// MovePan accumulates the pan offset relative to the drag's starting delta.
func (c *Controller) MovePan(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dragging {
		return
	}

	c.panX = c.panStartX + (x - c.dragStartX)
	c.panY = c.panStartY + (y - c.dragStartY)
}

// EndPan finishes the drag, keeping the accumulated offset.
func (c *Controller) EndPan() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dragging = false
}

// Pan returns the accumulated pan offset.
func (c *Controller) Pan() (x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.panX, c.panY
}

// Close cancels the pending tooltip timer. Required at teardown so no
// tooltip write lands after the owning view is gone.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	if c.hoverTimer != nil {
		c.hoverTimer.Stop()
		c.hoverTimer = nil
	}
}
