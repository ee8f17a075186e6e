package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableGridRowsSpanTableWidth(t *testing.T) {
	cols := SpreadColumns([]string{"", "Name", "Plan"}, map[int]int{0: 3}, 60)
	rows := [][]string{
		{SelectedMark, "Acme Corp", "enterprise"},
		{UnselectedMark, "Globex with a very long name that must be clamped", "growth"},
	}
	out := TableGrid(cols, rows, 60, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
	clean := SanitizeText(out)
	assert.Contains(t, clean, "Name")
	assert.Contains(t, clean, "Acme Corp")
	assert.Contains(t, clean, "…")
}

func TestSpreadColumnsKeepsFixedWidths(t *testing.T) {
	cols := SpreadColumns([]string{"", "A", "B"}, map[int]int{0: 3}, 40)
	require.Len(t, cols, 3)
	assert.Equal(t, 3, cols[0].Width)
	assert.Equal(t, cols[1].Width, cols[2].Width)
	assert.GreaterOrEqual(t, cols[1].Width, 4)
}

func TestTableGridEmpty(t *testing.T) {
	assert.Equal(t, "", TableGrid(nil, nil, 0, -1))
	assert.Equal(t, 10, lipgloss.Width(TableGrid(nil, nil, 10, -1)))
}

func TestRenderGridCellAlignment(t *testing.T) {
	assert.Equal(t, "ab  ", renderGridCell("ab", 4, lipgloss.Left))
	assert.Equal(t, "  ab", renderGridCell("ab", 4, lipgloss.Right))
	assert.Equal(t, " ab ", renderGridCell("ab", 4, lipgloss.Center))
}
