package ui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/companies"
	"github.com/gravitrone/registry-console/internal/ui/components"
)

// --- Messages ---

type companiesLoadedMsg struct{ err error }

type companiesMutatedMsg struct {
	kind      string
	err       error
	closeForm bool
}

// --- View States ---

type companiesView int

const (
	companiesViewList companiesView = iota
	companiesViewSearch
	companiesViewForm
	companiesViewConfirmRemove
)

type companyFormKind int

const (
	companyFormAdd companyFormKind = iota
	companyFormMerge
)

// numericFields are submitted as integers.
var numericFields = map[string]bool{"size": true, "employees": true}

// --- Companies Model ---

// CompaniesModel is the company list screen. All state that outlives a
// keypress lives in the controller; the model only tracks what is on
// screen.
type CompaniesModel struct {
	controller *companies.Controller
	vm         companies.ViewModel
	list       *components.List
	loading    bool
	view       companiesView
	searchBuf  string
	errText    string
	width      int
	height     int

	// add and merge
	formKind   companyFormKind
	formNames  []string
	formFields []components.FormField
	formFocus  int
	formErr    string
	saving     bool

	// remove
	removeIDs []string
}

// NewCompaniesModel builds the list screen around controller.
func NewCompaniesModel(controller *companies.Controller) CompaniesModel {
	m := CompaniesModel{
		controller: controller,
		list:       components.NewList(15),
		view:       companiesViewList,
	}
	m.refresh()
	return m
}

func (m CompaniesModel) Init() tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		return companiesLoadedMsg{err: c.Load(context.Background())}
	}
}

func (m CompaniesModel) Update(msg tea.Msg) (CompaniesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case companiesLoadedMsg:
		m.loading = false
		m.refresh()
		return m, nil

	case companiesMutatedMsg:
		m.saving = false
		m.refresh()
		if msg.err != nil {
			if m.view == companiesViewForm {
				m.formErr = msg.err.Error()
			} else {
				m.view = companiesViewList
			}
			return m, nil
		}
		if m.view == companiesViewForm && !msg.closeForm {
			return m, nil
		}
		m.view = companiesViewList
		m.removeIDs = nil
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case companiesViewSearch:
			return m.handleSearchKeys(msg)
		case companiesViewForm:
			return m.handleFormKeys(msg)
		case companiesViewConfirmRemove:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

// capturesText reports whether printable keys belong to an input.
func (m CompaniesModel) capturesText() bool {
	return m.view == companiesViewSearch || m.view == companiesViewForm
}

func (m CompaniesModel) hasUnsaved() bool {
	if m.view != companiesViewForm {
		return false
	}
	for _, f := range m.formFields {
		if strings.TrimSpace(f.Value) != "" {
			return true
		}
	}
	return false
}

func (m *CompaniesModel) refresh() {
	m.vm = m.controller.ViewModel(context.Background())
	m.list.SetLen(len(m.vm.Companies))
}

// --- List View ---

func (m CompaniesModel) handleListKeys(msg tea.KeyMsg) (CompaniesModel, tea.Cmd) {
	m.errText = ""
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isSpace(msg):
		if company, ok := m.cursorCompany(); ok {
			m.vm.Actions.ToggleBulk(company.ID)
			m.refresh()
		}
	case isKey(msg, "a"):
		m.vm.Actions.ToggleAll(m.pageIDs())
		m.refresh()
	case isKey(msg, "x"):
		m.vm.Actions.EmptyBulk()
		m.refresh()
	case isKey(msg, "n"):
		m.openForm(companyFormAdd)
	case isKey(msg, "m"):
		if len(m.vm.Bulk) < 2 {
			m.errText = "Select at least two companies to merge."
			return m, nil
		}
		m.openForm(companyFormMerge)
	case isKey(msg, "d"):
		ids := m.vm.Bulk
		if len(ids) == 0 {
			if company, ok := m.cursorCompany(); ok {
				ids = []string{company.ID}
			}
		}
		if len(ids) > 0 {
			m.removeIDs = ids
			m.view = companiesViewConfirmRemove
		}
	case isKey(msg, "/"):
		m.searchBuf = m.vm.SearchValue
		m.view = companiesViewSearch
	case isPrevPage(msg):
		if page := m.page(); page > 1 {
			return m.navigate(map[string]string{"page": strconv.Itoa(page - 1)})
		}
	case isNextPage(msg):
		if page := m.page(); page < m.pageCount() {
			return m.navigate(map[string]string{"page": strconv.Itoa(page + 1)})
		}
	case isKey(msg, "t"):
		return m.navigate(map[string]string{"tag": m.nextTag(), "page": ""})
	case isKey(msg, "r"):
		m.loading = true
		c := m.controller
		return m, func() tea.Msg {
			return companiesLoadedMsg{err: c.Refetch(context.Background())}
		}
	case isEnter(msg):
		if company, ok := m.cursorCompany(); ok {
			path := companies.DetailPath(company.ID)
			return m, func() tea.Msg { return navigateMsg{path: path} }
		}
	}
	return m, nil
}

// navigate applies set to the current query (empty values delete the key)
// and refetches.
func (m CompaniesModel) navigate(set map[string]string) (CompaniesModel, tea.Cmd) {
	query := m.controller.Query()
	for k, v := range set {
		if v == "" {
			query.Del(k)
			continue
		}
		query.Set(k, v)
	}
	m.loading = true
	m.list.Reset()
	c := m.controller
	return m, func() tea.Msg {
		return companiesLoadedMsg{err: c.Navigate(context.Background(), query)}
	}
}

func (m CompaniesModel) cursorCompany() (api.Company, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.vm.Companies) {
		return api.Company{}, false
	}
	return m.vm.Companies[idx], true
}

func (m CompaniesModel) pageIDs() []string {
	ids := make([]string, 0, len(m.vm.Companies))
	for _, c := range m.vm.Companies {
		ids = append(ids, c.ID)
	}
	return ids
}

func (m CompaniesModel) page() int {
	if m.vm.Params.Page < 1 {
		return 1
	}
	return m.vm.Params.Page
}

func (m CompaniesModel) pageCount() int {
	perPage := m.vm.Params.PerPage
	if perPage <= 0 {
		perPage = companies.DefaultPerPage
	}
	pages := (m.vm.TotalCount + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// nextTag cycles the tag filter through every company tag and back to none.
func (m CompaniesModel) nextTag() string {
	current := m.vm.Params.Tag
	if current == "" {
		if len(m.vm.Tags) == 0 {
			return ""
		}
		return m.vm.Tags[0].ID
	}
	for i, tag := range m.vm.Tags {
		if tag.ID == current && i+1 < len(m.vm.Tags) {
			return m.vm.Tags[i+1].ID
		}
	}
	return ""
}

func (m CompaniesModel) tagName(id string) string {
	for _, tag := range m.vm.Tags {
		if tag.ID == id {
			return tag.Name
		}
	}
	return id
}

func (m CompaniesModel) isSelected(id string) bool {
	for _, selected := range m.vm.Bulk {
		if selected == id {
			return true
		}
	}
	return false
}

// --- Search ---

func (m CompaniesModel) handleSearchKeys(msg tea.KeyMsg) (CompaniesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = companiesViewList
	case isEnter(msg):
		m.view = companiesViewList
		return m.navigate(map[string]string{"searchValue": strings.TrimSpace(m.searchBuf), "page": ""})
	case isBackspace(msg):
		if m.searchBuf != "" {
			runes := []rune(m.searchBuf)
			m.searchBuf = string(runes[:len(runes)-1])
		}
	case isKey(msg, "ctrl+u"):
		m.searchBuf = ""
	default:
		if text, ok := typedText(msg); ok {
			m.searchBuf += text
		}
	}
	return m, nil
}

// --- Add & Merge Form ---

func (m *CompaniesModel) openForm(kind companyFormKind) {
	m.formKind = kind
	m.formFocus = 0
	m.formErr = ""
	m.formNames = make([]string, 0, len(m.vm.BasicInfos))
	m.formFields = make([]components.FormField, 0, len(m.vm.BasicInfos))

	var seed *api.Company
	if kind == companyFormMerge {
		for _, c := range m.vm.Companies {
			if c.ID == m.vm.Bulk[0] {
				c := c
				seed = &c
				break
			}
		}
	}
	for _, info := range m.vm.BasicInfos {
		value := ""
		if seed != nil {
			value = seed.Field(info.Name)
		}
		m.formNames = append(m.formNames, info.Name)
		m.formFields = append(m.formFields, components.FormField{Label: info.Label, Value: value})
	}
	m.view = companiesViewForm
}

func (m CompaniesModel) handleFormKeys(msg tea.KeyMsg) (CompaniesModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	switch {
	case isBack(msg):
		m.view = companiesViewList
		m.formErr = ""
	case isDown(msg):
		if m.formFocus < len(m.formFields)-1 {
			m.formFocus++
		}
	case isUp(msg):
		if m.formFocus > 0 {
			m.formFocus--
		}
	case isSave(msg), isEnter(msg) && m.formFocus == len(m.formFields)-1:
		return m.submitForm()
	case isEnter(msg):
		m.formFocus++
	case isBackspace(msg):
		value := []rune(m.formFields[m.formFocus].Value)
		if len(value) > 0 {
			m.formFields[m.formFocus].Value = string(value[:len(value)-1])
		}
	default:
		if text, ok := typedText(msg); ok {
			m.formFields[m.formFocus].Value += text
		}
	}
	return m, nil
}

func (m CompaniesModel) submitForm() (CompaniesModel, tea.Cmd) {
	fields, err := m.formValues()
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.formErr = ""
	m.saving = true
	actions := m.vm.Actions
	if m.formKind == companyFormAdd {
		return m, func() tea.Msg {
			closed := false
			err := actions.AddCompany(context.Background(), fields, func() { closed = true })
			return companiesMutatedMsg{kind: "add", err: err, closeForm: closed}
		}
	}
	ids := append([]string(nil), m.vm.Bulk...)
	return m, func() tea.Msg {
		closed := false
		_, err := actions.MergeCompanies(context.Background(), ids, fields, func() { closed = true })
		return companiesMutatedMsg{kind: "merge", err: err, closeForm: closed}
	}
}

// formValues converts the form into mutation fields, skipping blanks.
func (m CompaniesModel) formValues() (map[string]any, error) {
	fields := map[string]any{}
	for i, f := range m.formFields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		name := m.formNames[i]
		if numericFields[name] {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%s must be a whole number", f.Label)
			}
			fields[name] = n
			continue
		}
		fields[name] = value
	}
	return fields, nil
}

// --- Remove Confirm ---

func (m CompaniesModel) handleConfirmKeys(msg tea.KeyMsg) (CompaniesModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		ids := m.removeIDs
		actions := m.vm.Actions
		m.saving = true
		return m, func() tea.Msg {
			return companiesMutatedMsg{kind: "remove", err: actions.RemoveCompanies(context.Background(), ids)}
		}
	case isKey(msg, "n"), isBack(msg):
		m.removeIDs = nil
		m.view = companiesViewList
	}
	return m, nil
}

// --- Rendering ---

func (m CompaniesModel) View() string {
	switch m.view {
	case companiesViewSearch:
		return components.Indent(components.InputDialog("Search companies", m.searchBuf), 1)
	case companiesViewForm:
		title := "Add company"
		if m.formKind == companyFormMerge {
			title = fmt.Sprintf("Merge %d companies", len(m.vm.Bulk))
		}
		body := components.FormDialog(title, m.formFields, m.formFocus, m.formErr, m.width)
		if m.saving {
			body += "\n  " + MutedStyle.Render("Saving...")
		}
		return components.Indent(body, 1)
	case companiesViewConfirmRemove:
		noun := "companies"
		if len(m.removeIDs) == 1 {
			noun = "company"
		}
		return components.Indent(components.ConfirmDialog("Remove", fmt.Sprintf("Remove %d %s?", len(m.removeIDs), noun)), 1)
	}
	return components.Indent(m.renderList(), 1)
}

func (m CompaniesModel) renderList() string {
	if m.vm.ListErr != nil {
		return components.ErrorBox("Could not load companies", m.vm.ListErr.Error(), m.width)
	}
	if m.loading && len(m.vm.Companies) == 0 {
		return "  " + MutedStyle.Render("Loading companies...")
	}

	summary := MutedStyle.Render(m.summaryLine())
	if facets := m.facetLine(); facets != "" {
		summary += "\n" + MutedStyle.Render(facets)
	}
	if m.errText != "" {
		summary += "\n" + WarningStyle.Render(m.errText)
	}
	if len(m.vm.Companies) == 0 {
		return components.TitledBox("Companies", summary+"\n\n"+MutedStyle.Render("No companies found."), m.width)
	}
	return components.TitledBox("Companies", summary+"\n\n"+m.renderTable(), m.width)
}

func (m CompaniesModel) summaryLine() string {
	parts := []string{
		fmt.Sprintf("%d total", m.vm.Counts.All),
		fmt.Sprintf("page %d/%d", m.page(), m.pageCount()),
	}
	if n := len(m.vm.Bulk); n > 0 {
		parts = append(parts, fmt.Sprintf("selected: %d", n))
	}
	if m.vm.SearchValue != "" {
		parts = append(parts, "search: "+m.vm.SearchValue)
	}
	if m.vm.Params.Tag != "" {
		parts = append(parts, "tag: "+m.tagName(m.vm.Params.Tag))
	}
	if m.loading {
		parts = append(parts, "loading...")
	}
	return strings.Join(parts, " · ")
}

// facetLine lists per-tag counts, largest first.
func (m CompaniesModel) facetLine() string {
	if len(m.vm.Counts.ByTag) == 0 {
		return ""
	}
	ids := make([]string, 0, len(m.vm.Counts.ByTag))
	for id := range m.vm.Counts.ByTag {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.vm.Counts.ByTag[ids[i]], m.vm.Counts.ByTag[ids[j]]
		if a != b {
			return a > b
		}
		return m.tagName(ids[i]) < m.tagName(ids[j])
	})
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s %d", m.tagName(id), m.vm.Counts.ByTag[id]))
	}
	return "tags: " + strings.Join(parts, " · ")
}

func (m CompaniesModel) renderTable() string {
	tableWidth := components.BoxContentWidth(m.width)
	if tableWidth <= 0 {
		tableWidth = 100
	}
	columns := m.vm.Columns
	if len(columns) == 0 {
		columns = []api.Column{{Name: "primaryName", Label: "Name"}}
	}
	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "")
	for _, col := range columns {
		headers = append(headers, col.Label)
	}
	gridCols := components.SpreadColumns(headers, map[int]int{0: 3}, tableWidth)

	start, end := m.list.Window()
	rows := make([][]string, 0, end-start)
	for _, company := range m.vm.Companies[start:end] {
		mark := components.UnselectedMark
		if m.isSelected(company.ID) {
			mark = components.SelectedMark
		}
		row := make([]string, 0, len(columns)+1)
		row = append(row, mark)
		for _, col := range columns {
			if col.Name == "primaryName" {
				row = append(row, company.Name())
				continue
			}
			row = append(row, company.Field(col.Name))
		}
		rows = append(rows, row)
	}
	return components.TableGrid(gridCols, rows, tableWidth, m.list.Selected()-start)
}

func (m CompaniesModel) statusHints() []string {
	switch m.view {
	case companiesViewSearch:
		return []string{components.Hint("enter", "Apply"), components.Hint("esc", "Cancel")}
	case companiesViewForm:
		return []string{components.Hint("↑/↓", "Field"), components.Hint("ctrl+s", "Save"), components.Hint("esc", "Cancel")}
	case companiesViewConfirmRemove:
		return []string{components.Hint("y", "Confirm"), components.Hint("n", "Cancel")}
	}
	return []string{
		components.Hint("space", "Toggle"),
		components.Hint("a", "All"),
		components.Hint("x", "Clear"),
		components.Hint("n", "Add"),
		components.Hint("d", "Remove"),
		components.Hint("m", "Merge"),
		components.Hint("/", "Search"),
		components.Hint("t", "Tag"),
		components.Hint("←/→", "Page"),
		components.Hint("enter", "Open"),
	}
}
