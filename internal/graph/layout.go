package graph

import "github.com/cstcaptive/cstlendar/internal/domain"

// LayoutConfig holds the spacing constants for Layout.
type LayoutConfig struct {
	Mode         domain.LayoutMode
	LevelSpacing float64
	RowSpacing   float64
	OriginX      float64
	OriginY      float64
}

// DefaultLayoutConfig returns the standard spacing with discovery-order rows.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Mode:         domain.LayoutDiscovery,
		LevelSpacing: 280,
		RowSpacing:   140,
		OriginX:      400,
		OriginY:      100,
	}
}

// Layout assigns coordinates in place and marks the focus node.
//
// x depends only on level. In discovery mode y is the node's index in the
// builder's output, so siblings are not grouped; in level mode y counts
// rows separately within each level.
func Layout(g *domain.Graph, cfg LayoutConfig) {
	perLevel := make(map[int]int)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		row := i
		if cfg.Mode == domain.LayoutByLevel {
			row = perLevel[n.Level]
			perLevel[n.Level]++
		}
		n.X = float64(n.Level)*cfg.LevelSpacing + cfg.OriginX
		n.Y = float64(row)*cfg.RowSpacing + cfg.OriginY
		n.IsFocus = n.ScheduleID == g.FocusID
	}
}

// Compute builds and lays out the graph for focusID in one call.
func Compute(snapshot []domain.Schedule, focusID string, maxNodes int, cfg LayoutConfig) domain.Graph {
	g := Build(NewIndex(snapshot), focusID, maxNodes)
	Layout(&g, cfg)
	return g
}
