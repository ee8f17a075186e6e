package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogIncludesTitleMessageAndHints(t *testing.T) {
	out := ConfirmDialog("Remove", "Remove 2 companies?")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Remove")
	assert.Contains(t, clean, "Remove 2 companies?")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}

func TestInputDialogIncludesTitleInputAndHints(t *testing.T) {
	out := InputDialog("Search", "acme")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Search")
	assert.Contains(t, clean, "> acme")
	assert.Contains(t, clean, "enter: submit | esc: cancel")
}

func TestFormDialogMarksFocusAndError(t *testing.T) {
	fields := []FormField{{Label: "Name", Value: "Acme"}, {Label: "Plan", Value: "growth"}}
	out := SanitizeText(FormDialog("Add company", fields, 1, "duplicate name", 100))

	assert.Contains(t, out, "Add company")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "› ")
	assert.Contains(t, out, "growth█")
	assert.Contains(t, out, "duplicate name")
	assert.Contains(t, out, "ctrl+s: save")
}
