package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return isKey(msg, "up", "shift+tab")
}

func isDown(msg tea.KeyMsg) bool {
	return isKey(msg, "down", "tab")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter")
}

func isSpace(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || isKey(msg, " ")
}

func isSave(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

func isBackspace(msg tea.KeyMsg) bool {
	return isKey(msg, "backspace", "ctrl+h")
}

func isPrevPage(msg tea.KeyMsg) bool {
	return isKey(msg, "left", "pgup")
}

func isNextPage(msg tea.KeyMsg) bool {
	return isKey(msg, "right", "pgdown")
}

// typedText returns the printable text carried by msg, if any.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

// translateVimKey maps hjkl onto the arrow keys.
func translateVimKey(msg tea.KeyMsg) tea.KeyMsg {
	switch msg.String() {
	case "j":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "k":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "h":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "l":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return msg
}
