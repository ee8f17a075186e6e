package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorBorder  = lipgloss.Color("#273540")
	colorPrimary = lipgloss.Color("#7f57b4")
	colorLabel   = lipgloss.Color("#436b77")
	colorMuted   = lipgloss.Color("#9ba0bf")
	colorText    = lipgloss.Color("#d7d9da")
)

var (
	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	boxMutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(colorLabel).
			Bold(true)

	errorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7a2f3a")).
			Padding(1, 2)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b5b5"))
)

// boxWidth is ~80% of the terminal, between 40 and 110 columns. The
// company table needs more room than a detail card.
func boxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := width * 80 / 100
	if w < 40 {
		w = 40
	}
	if w > 110 {
		w = 110
	}
	return w
}

func safeBoxWidth(width int) int {
	w := boxWidth(width)
	if width > 0 && w > width {
		return width
	}
	return w
}

// Box renders content inside a bordered box.
func Box(content string, width int) string {
	return boxBorder.Width(safeBoxWidth(width)).Render(content)
}

// BoxContentWidth returns the inner content width excluding border and padding.
func BoxContentWidth(width int) int {
	w := safeBoxWidth(width)
	// Border adds 2, padding adds 4.
	if w-6 < 0 {
		return 0
	}
	return w - 6
}

// ClampTextWidth sanitizes text to one line and truncates it to width.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	if width == 1 {
		return "…"
	}
	return truncateRunes(cleaned, width-1) + "…"
}

// ErrorBox renders a red bordered box for errors.
func ErrorBox(title, message string, width int) string {
	header := ""
	if title != "" {
		header = errorHeaderStyle.Render(title) + "\n\n"
	}
	body := errorBodyStyle.Render(SanitizeText(message))
	return errorBorder.Width(safeBoxWidth(width)).Render(header + body)
}

// TitledBox renders a box with the title set into its top border.
func TitledBox(title, content string, width int) string {
	boxed := boxBorder.Width(safeBoxWidth(width)).Render(content)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}

	border := lipgloss.RoundedBorder()
	middle := lineWidth - 2
	titleText := fmt.Sprintf(" [ %s ] ", SanitizeOneLine(title))
	if lipgloss.Width(titleText) > middle {
		titleText = truncateRunes(titleText, middle)
	}
	left := (middle - lipgloss.Width(titleText)) / 2
	right := middle - lipgloss.Width(titleText) - left
	if right < 0 {
		right = 0
	}

	borderStyle := lipgloss.NewStyle().Foreground(colorBorder)
	lines[0] = borderStyle.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

// TableRow is a single row in a key-value table.
type TableRow struct {
	Label string
	Value string
}

// Table renders label/value rows aligned inside a titled box.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(SanitizeOneLine(r.Label)); w > labelWidth {
			labelWidth = w
		}
	}
	contentWidth := BoxContentWidth(width)
	if contentWidth <= 0 {
		contentWidth = labelWidth + 40
	}
	if labelWidth > contentWidth/2 {
		labelWidth = contentWidth / 2
	}
	valueWidth := contentWidth - labelWidth - 2
	if valueWidth < 4 {
		valueWidth = 4
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := boxLabelStyle.Render(padRight(ClampTextWidth(r.Label, labelWidth), labelWidth))
		value := r.Value
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		lines = append(lines, label+"  "+boxValueStyle.Render(ClampTextWidth(value, valueWidth)))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// Muted renders secondary text.
func Muted(s string) string {
	return boxMutedStyle.Render(s)
}

// Indent adds left padding to every line of a multi-line string.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// CenterLine centers a single line within the standard box width.
func CenterLine(s string, width int) string {
	w := safeBoxWidth(width)
	lineWidth := lipgloss.Width(s)
	if w <= 0 || lineWidth >= w {
		return s
	}
	return strings.Repeat(" ", (w-lineWidth)/2) + s
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
