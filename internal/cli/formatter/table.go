package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Column describes one table column. Align is lipgloss.Left, Center or Right.
type Column struct {
	Title string
	Align lipgloss.Position
}

// Cols builds left-aligned columns from titles.
func Cols(titles ...string) []Column {
	cols := make([]Column, len(titles))
	for i, t := range titles {
		cols[i] = Column{Title: t, Align: lipgloss.Left}
	}
	return cols
}

// RenderTable renders rows under a styled header and a separator rule.
// Widths are measured on visible text so styled cells line up.
func RenderTable(cols []Column, rows [][]string) string {
	return renderTable(cols, rows, -1)
}

// RenderGroupedTable is RenderTable with a dim rule drawn wherever the value
// in column group changes, e.g. between semester weeks.
func RenderGroupedTable(cols []Column, rows [][]string, group int) string {
	return renderTable(cols, rows, group)
}

func renderTable(cols []Column, rows [][]string, group int) string {
	if len(cols) == 0 {
		return ""
	}
	widths := columnWidths(cols, rows)

	var b strings.Builder
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = StyleHeader.Render(c.Title)
	}
	writeRow(&b, cols, widths, header)
	writeRule(&b, widths)

	for i, row := range rows {
		if group >= 0 && i > 0 && cell(rows[i-1], group) != cell(row, group) {
			writeRule(&b, widths)
		}
		writeRow(&b, cols, widths, row)
	}
	return b.String()
}

func columnWidths(cols []Column, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range rows {
		for i := 0; i < len(cols) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// writeRow pads every cell to its column width. Trailing blanks are
// trimmed so lines never end in padding.
func writeRow(b *strings.Builder, cols []Column, widths []int, row []string) {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = lipgloss.PlaceHorizontal(widths[i], c.Align, cell(row, i))
	}
	b.WriteString(strings.TrimRight(strings.Join(cells, strings.Repeat(" ", colGap)), " "))
	b.WriteString("\n")
}

func writeRule(b *strings.Builder, widths []int) {
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
