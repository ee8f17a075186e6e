package ui

import (
	"context"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/companies"
	"github.com/gravitrone/registry-console/internal/ui/components"
)

// CompanyLoader fetches a single company record.
type CompanyLoader interface {
	CompanyDetail(ctx context.Context, id string) (*api.Company, error)
}

type companyLoadedMsg struct {
	id      string
	company *api.Company
	err     error
}

// DetailModel shows one company. It is reached through the navigation
// path a successful merge emits, or by opening a row from the list.
type DetailModel struct {
	loader  CompanyLoader
	id      string
	company *api.Company
	loading bool
	err     error
	width   int
	height  int
}

func NewDetailModel(loader CompanyLoader) DetailModel {
	return DetailModel{loader: loader}
}

// Open points the model at id and returns the fetch command.
func (m DetailModel) Open(id string) (DetailModel, tea.Cmd) {
	m.id = id
	m.company = nil
	m.err = nil
	if m.loader == nil {
		return m, nil
	}
	m.loading = true
	loader := m.loader
	return m, func() tea.Msg {
		company, err := loader.CompanyDetail(context.Background(), id)
		return companyLoadedMsg{id: id, company: company, err: err}
	}
}

func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case companyLoadedMsg:
		// stale response for a record we already left
		if msg.id != m.id {
			return m, nil
		}
		m.loading = false
		m.company = msg.company
		m.err = msg.err
	case tea.KeyMsg:
		if isKey(msg, "r") {
			return m.Open(m.id)
		}
	}
	return m, nil
}

func (m DetailModel) View() string {
	switch {
	case m.loading:
		return components.Indent(MutedStyle.Render("Loading company..."), 2)
	case m.err != nil:
		return components.Indent(components.ErrorBox("Could not load company", m.err.Error(), m.width), 1)
	case m.company == nil:
		return components.Indent(components.TitledBox("Company", MutedStyle.Render("Company not found."), m.width), 1)
	}
	return components.Indent(components.Table(m.company.Name(), detailRows(*m.company), m.width), 1)
}

// detailRows lists the basic fields first, then everything else by name.
func detailRows(company api.Company) []components.TableRow {
	rows := []components.TableRow{{Label: "ID", Value: company.ID}}
	seen := map[string]bool{}
	for _, info := range companies.BasicInfos {
		seen[info.Name] = true
		rows = append(rows, components.TableRow{Label: info.Label, Value: company.Field(info.Name)})
	}
	rest := make([]string, 0, len(company.Fields))
	for name := range company.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		rows = append(rows, components.TableRow{Label: name, Value: company.Field(name)})
	}
	return rows
}

func (m DetailModel) statusHints() []string {
	return []string{components.Hint("r", "Reload"), components.Hint("esc", "Back")}
}
