package components

import "github.com/charmbracelet/lipgloss"

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	segmentStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginRight(1)
	statusBarStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// StatusBar renders key hints as bordered segments, wrapping onto more
// rows when width is too narrow for one.
func StatusBar(hints []string, width int) string {
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, segmentStyle.Render(h))
	}
	rows := wrapSegments(segments, width)
	if len(rows) == 0 {
		return ""
	}
	if width <= 0 {
		return statusBarStyle.Render(rows[0])
	}
	block := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(block)
}

// Hint formats a single key hint like "Toggle space".
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapStyle.Render(key)
}

func wrapSegments(segments []string, width int) []string {
	if len(segments) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	var rows []string
	var current []string
	currentWidth := 0
	for _, seg := range segments {
		segWidth := lipgloss.Width(seg)
		if currentWidth > 0 && currentWidth+segWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, currentWidth = nil, 0
		}
		current = append(current, seg)
		currentWidth += segWidth
	}
	return append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
}
