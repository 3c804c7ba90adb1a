package domain

// GraphNode is one schedule placed in a relation graph. Level is the signed
// distance from the focus: negative for ancestors, positive for descendants.
type GraphNode struct {
	ScheduleID string
	Title      string
	Date       string
	Completed  bool
	Level      int
	X          float64
	Y          float64
	IsFocus    bool
}

// GraphEdge points from a predecessor to its descendant.
type GraphEdge struct {
	SourceID string
	TargetID string
}

// Graph is the bounded neighborhood of a focus schedule.
type Graph struct {
	FocusID string
	Nodes   []GraphNode
	Edges   []GraphEdge
}

// Node returns the node for scheduleID, if present.
func (g Graph) Node(scheduleID string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ScheduleID == scheduleID {
			return n, true
		}
	}
	return GraphNode{}, false
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

// ViewTransform is the pan offset and zoom applied to a rendered graph.
type ViewTransform struct {
	PanX  float64
	PanY  float64
	Scale float64
}

// IdentityTransform is the transform a viewer starts from and resets to.
func IdentityTransform() ViewTransform {
	return ViewTransform{Scale: 1}
}
