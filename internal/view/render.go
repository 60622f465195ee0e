package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"pokecp/pokecp/internal/dataset"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 20

	// top border, header row, header separator, bottom border
	tableChrome = 4

	ellipsis = "…"

	EmptyMessage = "No matching records found"
)

type tableStyles struct {
	header   lipgloss.Style
	selected lipgloss.Style
	even     lipgloss.Style
	odd      lipgloss.Style
	border   lipgloss.Style
}

func newTableStyles(renderer *lipgloss.Renderer) tableStyles {
	base := renderer.NewStyle().Padding(0, 1)
	return tableStyles{
		header:   base.Foreground(lipgloss.Color("252")).Bold(true),
		selected: base.Foreground(lipgloss.Color("#01BE85")).Background(lipgloss.Color("#00432F")),
		even:     base.Foreground(lipgloss.Color("245")),
		odd:      base.Foreground(lipgloss.Color("252")),
		border:   renderer.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

func plainText(col Column, rec dataset.Record) string {
	if col.Plain != nil {
		return col.Plain(rec)
	}
	return col.Raw(rec)
}

func textWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

// columnWidths measures titles and the rows of the current page, clamped to
// [minColumnWidth, MaxWidth].
func (c *Controller) columnWidths(cols []Column, rows []int) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = runewidth.StringWidth(col.Title)
	}
	for _, idx := range rows {
		rec := c.table.Record(idx)
		for i, col := range cols {
			widths[i] = max(widths[i], textWidth(plainText(col, rec)))
		}
	}
	for i, col := range cols {
		limit := maxColumnWidth
		if col.MaxWidth > 0 {
			limit = col.MaxWidth
		}
		widths[i] = max(minColumnWidth, min(widths[i], limit))
	}
	return widths
}

// visibleRange returns the half-open range of columns that fit in width
// starting at startCol. At least one column is always shown.
func visibleRange(widths []int, startCol, width int) (int, int) {
	if len(widths) == 0 {
		return 0, 0
	}

	// left and right borders, plus a safety margin
	tableBorderWidth := 2
	marginWidth := 4
	availableWidth := width - tableBorderWidth - marginWidth

	startCol = max(0, min(startCol, len(widths)-1))
	currentWidth := 0
	endCol := startCol
	for i := startCol; i < len(widths); i++ {
		columnSpace := widths[i] + 2 // content + padding
		if i > startCol {
			columnSpace++ // separator
		}
		if currentWidth+columnSpace > availableWidth {
			break
		}
		currentWidth += columnSpace
		endCol = i + 1
	}
	if endCol <= startCol {
		endCol = startCol + 1
	}
	return startCol, endCol
}

func fitCell(cell string, width int) string {
	lines := strings.Split(cell, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, ellipsis)
	}
	return strings.Join(lines, "\n")
}

// VisibleColumnRange is the range of displayed columns Render would show at
// the given width.
func (c *Controller) VisibleColumnRange(width int) (int, int) {
	if c.state != Bound {
		return 0, 0
	}
	widths := c.columnWidths(c.schema.Visible(), c.table.PageRows())
	return visibleRange(widths, c.viewportX, width)
}

// Render draws the rows of the current page that fit in width x height,
// scrolled so the cursor row is visible.
func (c *Controller) Render(width, height int) string {
	if c.state != Bound {
		return ""
	}

	cols := c.schema.Visible()
	rows := c.table.PageRows()
	widths := c.columnWidths(cols, rows)
	start, end := visibleRange(widths, c.viewportX, width)

	rowHeight := max(1, c.schema.RowHeight)
	maxRows := max(1, (height-tableChrome)/rowHeight)
	offset := 0
	if c.cursor >= maxRows {
		offset = c.cursor - maxRows + 1
	}
	last := min(offset+maxRows, len(rows))

	headers := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		headers = append(headers, runewidth.Truncate(cols[i].Title, widths[i], ellipsis))
	}
	body := make([][]string, 0, max(0, last-offset))
	for _, idx := range rows[min(offset, last):last] {
		rec := c.table.Record(idx)
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, fitCell(cols[i].Render(c.theme, rec, c.sess.CP), widths[i]))
		}
		body = append(body, cells)
	}

	styles := newTableStyles(c.renderer)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			if offset+row == c.cursor {
				return styles.selected
			}
			if row%2 == 0 {
				return styles.even
			}
			return styles.odd
		})

	if len(body) == 0 {
		return t.String() + "\n" + EmptyMessage
	}
	return t.String()
}
