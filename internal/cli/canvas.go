package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cstcaptive/cstlendar/internal/cli/formatter"
	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/cstcaptive/cstlendar/internal/viewport"
)

// The explorer maps world pixels onto terminal cells at a fixed ratio.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	cardWidth  = 22
	cardHeight = 3
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellCard
	cellCardDone
	cellCardFocus
	cellCardSelected
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEdge:         formatter.StyleDim,
	cellCard:         formatter.StyleFg,
	cellCardDone:     formatter.StyleGreen,
	cellCardFocus:    formatter.StyleYellowBold,
	cellCardSelected: formatter.StyleBlue,
}

// card is a node's rectangle in canvas cells.
type card struct {
	node domain.GraphNode
	col  int
	row  int
}

func (c card) contains(col, row int) bool {
	return col >= c.col && col < c.col+cardWidth && row >= c.row && row < c.row+cardHeight
}

func (c card) center() (int, int) {
	return c.col + cardWidth/2, c.row + cardHeight/2
}

// placeCards centers a card on each node's transformed position.
func placeCards(g domain.Graph, vp *viewport.Controller) []card {
	cards := make([]card, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		col, row := pixelToCell(vp.ToScreen(n.X, n.Y))
		cards = append(cards, card{node: n, col: col - cardWidth/2, row: row - cardHeight/2})
	}
	return cards
}

func pixelToCell(p viewport.Point) (int, int) {
	return int(math.Round(p.X / cellWidth)), int(math.Round(p.Y / cellHeight))
}

func cellToPixel(col, row int) viewport.Point {
	return viewport.Point{X: float64(col) * cellWidth, Y: float64(row) * cellHeight}
}

// hitCard returns the card under (col, row). Later cards are drawn over
// earlier ones, so the search runs backwards.
func hitCard(cards []card, col, row int) (card, bool) {
	for i := len(cards) - 1; i >= 0; i-- {
		if cards[i].contains(col, row) {
			return cards[i], true
		}
	}
	return card{}, false
}

// canvas is a fixed-size grid of runes, each tagged with how it is styled.
type canvas struct {
	w     int
	h     int
	cells [][]rune
	kinds [][]cellKind
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h), kinds: make([][]cellKind, h)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
		c.kinds[y] = make([]cellKind, w)
	}
	return c
}

func (c *canvas) set(col, row int, r rune, k cellKind) {
	if col < 0 || row < 0 || col >= c.w || row >= c.h {
		return
	}
	c.cells[row][col] = r
	c.kinds[row][col] = k
}

func (c *canvas) text(col, row int, s string, k cellKind) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, k)
	}
}

// drawEdge steps from the source card's center to the target's and draws
// the cells outside both cards, ending in an arrowhead.
func (c *canvas) drawEdge(from, to card) {
	x0, y0 := from.center()
	x1, y1 := to.center()
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy

	glyph := edgeGlyph(x1-x0, y1-y0)
	lastX, lastY, drawn := 0, 0, false
	x, y := x0, y0
	for {
		if !from.contains(x, y) && !to.contains(x, y) {
			c.set(x, y, glyph, cellEdge)
			lastX, lastY, drawn = x, y, true
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	if drawn {
		c.set(lastX, lastY, arrowGlyph(x1-x0, y1-y0), cellEdge)
	}
}

func (c *canvas) drawCard(cd card, selected bool, week domain.WeekConfig) {
	kind := cellCard
	mark := "○"
	switch {
	case cd.node.IsFocus:
		kind, mark = cellCardFocus, "◆"
	case cd.node.Completed:
		kind, mark = cellCardDone, "✔"
	}
	if cd.node.Completed && cd.node.IsFocus {
		mark = "✔"
	}
	if selected {
		kind = cellCardSelected
	}

	inner := cardWidth - 2
	label := " " + cd.node.Date
	if tag := week.WeekTag(cd.node.Date); tag != "" {
		label += " " + tag
	}
	label += " "

	c.text(cd.col, cd.row, "╭"+strings.Repeat("─", inner)+"╮", kind)
	c.text(cd.col, cd.row+1, "│"+fitRunes(" "+mark+" "+cd.node.Title, inner, ' ')+"│", kind)
	c.text(cd.col, cd.row+2, "╰"+fitRunes(label, inner, '─')+"╯", kind)
}

// render joins the grid into lines, styling each run of same-kind cells.
func (c *canvas) render() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			run := string(c.cells[y][start:x])
			if style, ok := cellStyles[c.kinds[y][start]]; ok {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// renderCanvas draws g at the viewport's transform and returns the cards
// it placed, for hit testing.
func renderCanvas(g domain.Graph, vp *viewport.Controller, w, h int, selectedID string, week domain.WeekConfig) (string, []card) {
	c := newCanvas(w, h)
	cards := placeCards(g, vp)
	byID := make(map[string]card, len(cards))
	for _, cd := range cards {
		byID[cd.node.ScheduleID] = cd
	}
	for _, e := range g.Edges {
		c.drawEdge(byID[e.SourceID], byID[e.TargetID])
	}
	for _, cd := range cards {
		c.drawCard(cd, cd.node.ScheduleID == selectedID, week)
	}
	return c.render(), cards
}

func edgeGlyph(dx, dy int) rune {
	switch {
	case dy == 0 || abs(dx) > 3*abs(dy):
		return '─'
	case dx == 0 || abs(dy) > 3*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowGlyph(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy > 0 {
		return '▼'
	}
	return '▲'
}

// fitRunes truncates s to width runes with an ellipsis, or pads it with fill.
func fitRunes(s string, width int, fill rune) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(string(fill), width-len(r))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
