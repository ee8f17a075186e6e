package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/registry-console/internal/companies"
)

func TestCompaniesInitialLoadRenders(t *testing.T) {
	h := newUIHarness(t, nil)

	vm := h.vm()
	assert.Equal(t, 6, vm.Counts.All)
	assert.Len(t, vm.Columns, 5)
	assert.Equal(t, "Acme Corp", vmNames(vm)[0])

	out := h.app.View()
	assert.Contains(t, out, "Companies")
	assert.Contains(t, out, "6 total")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "VIP 2")
}

func TestCompaniesToggleSelectAllAndClear(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("space")
	assert.Equal(t, []string{h.vm().Companies[0].ID}, h.vm().Bulk)
	assert.Contains(t, h.app.View(), "selected: 1")

	h.press("space")
	assert.Empty(t, h.vm().Bulk)

	h.press("a")
	assert.Len(t, h.vm().Bulk, 6)
	h.press("a")
	assert.Empty(t, h.vm().Bulk)

	h.press("down", "space", "x")
	assert.Empty(t, h.vm().Bulk)
}

func TestCompaniesSearchNavigatesAndKeepsSelection(t *testing.T) {
	h := newUIHarness(t, nil)
	h.press("down", "down", "space") // Globex
	selected := h.vm().Bulk

	h.press("/")
	assert.True(t, h.app.capturesText())
	h.typeText("acme")
	h.finish(h.press("enter"))

	assert.Equal(t, "acme", h.controller.Query().Get("searchValue"))
	assert.Equal(t, []string{"Acme Corp", "Acme Labs"}, vmNames(h.vm()))
	assert.Equal(t, 2, h.vm().Counts.All)
	assert.Equal(t, selected, h.vm().Bulk)
	assert.Contains(t, h.app.View(), "search: acme")
}

func TestCompaniesSearchEscCancels(t *testing.T) {
	h := newUIHarness(t, nil)
	h.press("/")
	h.typeText("glo")
	assert.Nil(t, h.press("esc"))
	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.Empty(t, h.controller.Query().Get("searchValue"))
}

func TestCompaniesTagCycleFiltersList(t *testing.T) {
	h := newUIHarness(t, nil)
	tags := h.vm().Tags
	require.Len(t, tags, 2)

	h.finish(h.press("t"))
	assert.Equal(t, tags[0].ID, h.vm().Params.Tag)
	assert.Equal(t, []string{"Acme Corp", "Acme Labs"}, vmNames(h.vm()))
	assert.Contains(t, h.app.View(), "tag: VIP")

	h.finish(h.press("t"))
	assert.Equal(t, tags[1].ID, h.vm().Params.Tag)

	h.finish(h.press("t"))
	assert.Empty(t, h.vm().Params.Tag)
	assert.Equal(t, 6, h.vm().Counts.All)
}

func TestCompaniesPagingStopsAtBounds(t *testing.T) {
	h := newUIHarness(t, nil)
	assert.Nil(t, h.press("left"))
	assert.Nil(t, h.press("right"))
}

func TestCompaniesAddFlowClosesFormOnSuccess(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("n")
	require.Equal(t, companiesViewForm, h.app.companies.view)
	h.typeText("Hooli")
	h.press("down")
	h.typeText("250")

	h.finish(h.press("ctrl+s"))
	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.Equal(t, 7, h.vm().Counts.All)
	assert.Contains(t, vmNames(h.vm()), "Hooli")
	assert.Equal(t, []tea.Msg{noticeMsg{level: "success", text: companies.SuccessMessage}}, h.drain())
}

func TestCompaniesAddDuplicateKeepsFormOpen(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("n")
	h.typeText("Globex")
	h.finish(h.press("ctrl+s"))

	assert.Equal(t, companiesViewForm, h.app.companies.view)
	assert.Equal(t, "duplicate name", h.app.companies.formErr)
	assert.Equal(t, 6, h.vm().Counts.All)
	assert.Equal(t, []tea.Msg{noticeMsg{level: "error", text: "duplicate name"}}, h.drain())
	assert.Contains(t, h.app.View(), "duplicate name")
}

func TestCompaniesAddRejectsNonNumericSize(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("n")
	h.typeText("Hooli")
	h.press("down")
	h.typeText("lots")
	assert.Nil(t, h.press("ctrl+s"))
	assert.Equal(t, "Size must be a whole number", h.app.companies.formErr)
	assert.False(t, h.app.companies.saving)
}

func TestCompaniesFormBackspaceAndCancel(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("n")
	h.typeText("Hoolx")
	h.press("backspace")
	h.typeText("i")
	assert.Equal(t, "Hooli", h.app.companies.formFields[0].Value)
	assert.True(t, h.app.companies.hasUnsaved())

	h.press("esc")
	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.False(t, h.app.companies.hasUnsaved())
}

func TestCompaniesRemoveCursorRowAfterConfirm(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("down", "d")
	require.Equal(t, companiesViewConfirmRemove, h.app.companies.view)
	assert.Equal(t, []string{h.vm().Companies[1].ID}, h.app.companies.removeIDs)
	assert.Contains(t, h.app.View(), "Remove 1 company?")

	h.finish(h.press("y"))
	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.Equal(t, 5, h.vm().Counts.All)
	assert.NotContains(t, vmNames(h.vm()), "Acme Labs")
}

func TestCompaniesRemoveSelectionEmptiesIt(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("space", "down", "space", "d")
	assert.Len(t, h.app.companies.removeIDs, 2)

	h.press("n")
	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.Len(t, h.vm().Bulk, 2)

	h.press("d")
	h.finish(h.press("y"))
	assert.Empty(t, h.vm().Bulk)
	assert.Equal(t, 4, h.vm().Counts.All)
}

func TestCompaniesMergeNeedsTwoSelected(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("space", "m")
	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.Contains(t, h.app.View(), "Select at least two companies to merge.")
}

func TestCompaniesMergeOpensDetailOfSurvivor(t *testing.T) {
	h := newUIHarness(t, nil)

	h.press("space", "down", "space", "m")
	require.Equal(t, companiesViewForm, h.app.companies.view)
	assert.Equal(t, "Acme Corp", h.app.companies.formFields[0].Value)

	for range "Acme Corp" {
		h.press("backspace")
	}
	h.typeText("Acme Group")
	h.finish(h.press("ctrl+s"))

	assert.Equal(t, companiesViewList, h.app.companies.view)
	assert.Equal(t, 5, h.vm().Counts.All)
	assert.Len(t, h.vm().Bulk, 2)

	msgs := h.drain()
	require.Len(t, msgs, 2)
	assert.Equal(t, noticeMsg{level: "success", text: companies.SuccessMessage}, msgs[0])
	nav, ok := msgs[1].(navigateMsg)
	require.True(t, ok)

	h.finish(h.update(nav))
	assert.Equal(t, screenDetail, h.app.screen)
	out := h.app.View()
	assert.Contains(t, out, "Acme Group")
	assert.Contains(t, out, "Acme Corp, Acme Labs")
}
