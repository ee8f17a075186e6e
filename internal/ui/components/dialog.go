package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(48)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	dialogInputStyle = lipgloss.NewStyle().
				Foreground(colorLabel)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	body := boxMutedStyle.Render(SanitizeText(message))
	hint := boxMutedStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(dialogTitleStyle.Render(title) + "\n\n" + body + hint)
}

// InputDialog renders a single-line text prompt.
func InputDialog(title, input string) string {
	field := dialogInputStyle.Render("> " + SanitizeOneLine(input) + "█")
	hint := boxMutedStyle.Render("\nenter: submit | esc: cancel")
	return dialogStyle.Render(dialogTitleStyle.Render(title) + "\n\n" + field + hint)
}

// FormField is one labelled input of a FormDialog.
type FormField struct {
	Label string
	Value string
}

// FormDialog renders a multi-field form with the focused field marked.
// errText, when set, is shown above the key hints.
func FormDialog(title string, fields []FormField, focus int, errText string, width int) string {
	labelWidth := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > labelWidth {
			labelWidth = w
		}
	}
	valueWidth := BoxContentWidth(width) - labelWidth - 4
	lines := make([]string, 0, len(fields)+3)
	for i, f := range fields {
		marker := "  "
		label := boxLabelStyle.Render(padRight(f.Label, labelWidth))
		value := boxValueStyle.Render(ClampTextWidth(f.Value, valueWidth))
		if i == focus {
			marker = dialogTitleStyle.Render("› ")
			value = dialogInputStyle.Render(ClampTextWidth(f.Value, valueWidth-1) + "█")
		}
		lines = append(lines, marker+label+"  "+value)
	}
	if errText != "" {
		lines = append(lines, "", errorHeaderStyle.Render(SanitizeOneLine(errText)))
	}
	lines = append(lines, "", boxMutedStyle.Render("↑/↓: field | ctrl+s: save | esc: cancel"))
	return TitledBox(title, strings.Join(lines, "\n"), width)
}
