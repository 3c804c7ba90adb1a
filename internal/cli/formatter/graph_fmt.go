package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cstcaptive/cstlendar/internal/domain"
)

// FormatGraph renders a relation graph grouped by level, followed by its
// edges. Nodes keep discovery order within each level.
func FormatGraph(g domain.Graph, week domain.WeekConfig) string {
	if g.Empty() {
		return Dim("Nothing to show: the focus schedule does not exist.")
	}

	byLevel := make(map[int][]domain.GraphNode)
	var levels []int
	for _, n := range g.Nodes {
		if _, ok := byLevel[n.Level]; !ok {
			levels = append(levels, n.Level)
		}
		byLevel[n.Level] = append(byLevel[n.Level], n)
	}
	sort.Ints(levels)

	var items []TreeItem
	for _, lvl := range levels {
		items = append(items, TreeItem{Title: LevelColor(lvl).Render(levelName(lvl))})
		nodes := byLevel[lvl]
		for i, n := range nodes {
			detail := fmt.Sprintf("%s  (%.0f, %.0f)", n.Date, n.X, n.Y)
			if tag := week.WeekTag(n.Date); tag != "" {
				detail = tag + "  " + detail
			}
			items = append(items, TreeItem{
				Title:  n.Title,
				Level:  1,
				IsLast: i == len(nodes)-1,
				Done:   n.Completed,
				Focus:  n.IsFocus,
				Detail: detail,
			})
		}
	}

	var b strings.Builder
	b.WriteString(RenderTree(items))
	if len(g.Edges) > 0 {
		b.WriteString("\n" + Header("Edges") + "\n")
		for _, e := range g.Edges {
			b.WriteString(fmt.Sprintf("%s %s %s\n", edgeLabel(g, e.SourceID), Dim("→"), edgeLabel(g, e.TargetID)))
		}
	}
	title := fmt.Sprintf("Graph · %d nodes · %d edges", len(g.Nodes), len(g.Edges))
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

func levelName(level int) string {
	switch {
	case level == 0:
		return "Focus"
	case level < 0:
		return fmt.Sprintf("Level %d (ancestors)", level)
	default:
		return fmt.Sprintf("Level +%d (descendants)", level)
	}
}

func edgeLabel(g domain.Graph, id string) string {
	if n, ok := g.Node(id); ok {
		return n.Title
	}
	return TruncID(id)
}
