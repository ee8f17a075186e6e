package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a single column for TableGrid. Width is the visual
// width of the cell content, excluding separators.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// SelectedMark and UnselectedMark prefix rows in bulk-selectable tables.
const (
	SelectedMark   = "[x]"
	UnselectedMark = "[ ]"
)

const gridLeftOffset = 2

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	gridActiveRowStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(lipgloss.Color("#1f2530")).
				Bold(true)

	gridActiveSepStyle = lipgloss.NewStyle().
				Foreground(colorBorder).
				Background(lipgloss.Color("#1f2530"))

	gridSelectedMarkStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d1606b")).
				Bold(true)
)

// SpreadColumns builds one column per header. fixed columns keep their
// width; the rest share whatever tableWidth leaves, at least 4 each.
func SpreadColumns(headers []string, fixed map[int]int, tableWidth int) []TableColumn {
	cols := make([]TableColumn, len(headers))
	if len(headers) == 0 {
		return cols
	}
	sep := lipgloss.Width(lipgloss.RoundedBorder().Left)
	remaining := tableWidth - gridLeftOffset - (len(headers)-1)*sep
	flexible := 0
	for i, h := range headers {
		cols[i].Header = h
		if w, ok := fixed[i]; ok {
			cols[i].Width = w
			remaining -= w
			continue
		}
		flexible++
	}
	if flexible == 0 {
		return cols
	}
	share := remaining / flexible
	if share < 4 {
		share = 4
	}
	for i := range cols {
		if _, ok := fixed[i]; !ok {
			cols[i].Width = share
		}
	}
	return cols
}

// TableGrid renders a header, a rule and rows using the rounded border
// glyphs of the box components. activeRow highlights one row; pass -1 for
// none. The result is tableWidth wide.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int, activeRow int) string {
	if tableWidth <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", tableWidth)
	}

	border := lipgloss.RoundedBorder()
	cols := fitGridColumns(columns, border.Left, tableWidth)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	out := []string{
		renderGridRow(cols, headers, border.Left, tableWidth, true, false),
		renderGridRule(cols, border.Middle, border.Top, tableWidth),
	}
	for i, row := range rows {
		out = append(out, renderGridRow(cols, row, border.Left, tableWidth, false, i == activeRow))
	}
	return strings.Join(out, "\n")
}

// fitGridColumns stretches or shrinks the last column so the row spans
// exactly the content width.
func fitGridColumns(columns []TableColumn, sep string, tableWidth int) []TableColumn {
	fitted := make([]TableColumn, len(columns))
	copy(fitted, columns)

	contentWidth := tableWidth - gridLeftOffset
	if contentWidth < len(fitted) {
		contentWidth = len(fitted)
	}
	used := (len(fitted) - 1) * lipgloss.Width(sep)
	for i := range fitted {
		if fitted[i].Width < 1 {
			fitted[i].Width = 1
		}
		used += fitted[i].Width
	}
	last := &fitted[len(fitted)-1]
	last.Width += contentWidth - used
	if last.Width < 1 {
		last.Width = 1
	}
	return fitted
}

func renderGridRow(columns []TableColumn, cells []string, sep string, tableWidth int, header, active bool) string {
	sepStyle := gridLineStyle
	if active {
		sepStyle = gridActiveSepStyle
	}
	sepStyled := sepStyle.Inline(true).Render(sep)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(sepStyled)
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		rendered := renderGridCell(text, col.Width, col.Align)
		switch {
		case header:
			rendered = boxLabelStyle.Inline(true).Render(rendered)
		case active:
			rendered = gridActiveRowStyle.Inline(true).Render(rendered)
		}
		if !header {
			rendered = strings.ReplaceAll(rendered, SelectedMark, gridSelectedMarkStyle.Render(SelectedMark))
		}
		b.WriteString(rendered)
	}
	return padRight(b.String(), tableWidth)
}

func renderGridRule(columns []TableColumn, cross, horiz string, tableWidth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(cross)
		}
		b.WriteString(strings.Repeat(horiz, col.Width))
	}
	return gridLineStyle.Inline(true).Render(padRight(b.String(), tableWidth))
}

func renderGridCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	clamped := ClampTextWidth(text, width)
	pad := width - lipgloss.Width(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	default:
		return clamped + strings.Repeat(" ", pad)
	}
}
