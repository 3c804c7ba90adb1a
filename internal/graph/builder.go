package graph

import "github.com/cstcaptive/cstlendar/internal/domain"

// DefaultMaxNodes bounds how many schedules one traversal may discover.
const DefaultMaxNodes = 25

type pending struct {
	id    string
	level int
}

// Build discovers the PARENT neighborhood of focusID in both directions.
//
// The traversal is a FIFO work list over the index, so each schedule is
// expanded at most once and receives the level of the shortest path that
// reached it. Expansion stops once maxNodes nodes exist; nodes already
// found are kept. Dangling ids, self-loops, and edges to nodes that were
// never added are dropped. PARALLEL relations are not traversed.
func Build(idx *Index, focusID string, maxNodes int) domain.Graph {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	g := domain.Graph{FocusID: focusID}

	visited := make(map[string]bool)
	var edges []domain.GraphEdge
	queue := []pending{{id: focusID, level: 0}}

	for len(queue) > 0 && len(g.Nodes) < maxNodes {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		s, ok := idx.Lookup(cur.id)
		if !ok {
			continue
		}
		g.Nodes = append(g.Nodes, domain.GraphNode{
			ScheduleID: s.ID,
			Title:      s.Title,
			Date:       s.Date,
			Completed:  s.Completed,
			Level:      cur.level,
		})

		for _, d := range idx.Descendants(s.ID) {
			edges = append(edges, domain.GraphEdge{SourceID: s.ID, TargetID: d.ID})
			if !visited[d.ID] {
				queue = append(queue, pending{id: d.ID, level: cur.level + 1})
			}
		}
		for _, p := range idx.Predecessors(s.ID) {
			edges = append(edges, domain.GraphEdge{SourceID: p.ID, TargetID: s.ID})
			if !visited[p.ID] {
				queue = append(queue, pending{id: p.ID, level: cur.level - 1})
			}
		}
	}

	g.Edges = keepEdges(edges, g.Nodes)
	return g
}

// keepEdges drops duplicates, self-loops, and edges whose endpoints were
// not added as nodes, preserving first-seen order.
func keepEdges(edges []domain.GraphEdge, nodes []domain.GraphNode) []domain.GraphEdge {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ScheduleID] = true
	}
	seen := make(map[domain.GraphEdge]bool, len(edges))
	var out []domain.GraphEdge
	for _, e := range edges {
		if e.SourceID == e.TargetID || seen[e] {
			continue
		}
		if !present[e.SourceID] || !present[e.TargetID] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
