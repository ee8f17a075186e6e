package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ____  _____ ____ ___ ____ _____ ______   __
|  _ \| ____/ ___|_ _/ ___|_   _|  _ \ \ / /
| |_) |  _|| |  _ | |\___ \ | | | |_) \ V /
|  _ <| |__| |_| || | ___) || | |  _ < | |
|_| \_\_____\____|___|____/ |_| |_| \_\|_|`

const bannerSubtitle = "Company Registry • Command-Line Console"

// RenderBanner returns the styled ASCII banner with its subtitle.
func RenderBanner() string {
	lines := strings.Split(strings.Trim(bannerArt, "\n"), "\n")
	blockWidth := lipgloss.Width(bannerSubtitle)
	for _, line := range lines {
		if w := lipgloss.Width(line); w > blockWidth {
			blockWidth = w
		}
	}

	art := lipgloss.NewStyle().Foreground(ColorPrimary).Width(blockWidth)
	var b strings.Builder
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(art.Render(line) + "\n")
	}

	centered := lipgloss.NewStyle().Width(blockWidth).Align(lipgloss.Center)
	b.WriteString("\n" + centered.Foreground(ColorMuted).Render(bannerSubtitle) + "\n")
	b.WriteString(centered.Foreground(ColorBorder).Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle))) + "\n")
	return b.String()
}
