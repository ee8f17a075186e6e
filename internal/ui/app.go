package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/registry-console/internal/companies"
	"github.com/gravitrone/registry-console/internal/config"
	"github.com/gravitrone/registry-console/internal/ui/components"
)

// --- Screens ---

type screen int

const (
	screenCompanies screen = iota
	screenDetail
)

var screenNames = []string{"Companies", "Detail"}

// --- Messages ---

type clearToastMsg struct{}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model that routes between the list and detail screens.
type App struct {
	controller  *companies.Controller
	bus         *NoticeBus
	config      *config.Config
	screen      screen
	width       int
	height      int
	helpOpen    bool
	quitConfirm bool
	toast       *appToast

	companies CompaniesModel
	detail    DetailModel
}

// NewApp creates the root application model. bus must be the same value
// the controller was built with as its Notifier and Navigator.
func NewApp(controller *companies.Controller, loader CompanyLoader, bus *NoticeBus, cfg *config.Config) App {
	if bus == nil {
		bus = NewNoticeBus()
	}
	return App{
		controller: controller,
		bus:        bus,
		config:     cfg,
		screen:     screenCompanies,
		companies:  NewCompaniesModel(controller),
		detail:     NewDetailModel(loader),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.companies.Init(), a.bus.listen())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && a.vimKeys() && !a.capturesText() {
		msg = translateVimKey(key)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.companies.width = msg.Width
		a.companies.height = msg.Height
		a.detail.width = msg.Width
		a.detail.height = msg.Height
		return a, nil

	case busMsg:
		model, cmd := a.Update(msg.msg)
		return model, tea.Batch(cmd, a.bus.listen())

	case noticeMsg:
		return a, a.setToast(msg.level, msg.text)

	case navigateMsg:
		return a.navigate(msg.path)

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case companyLoadedMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case companiesLoadedMsg, companiesMutatedMsg:
		var cmd tea.Cmd
		a.companies, cmd = a.companies.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if isKey(msg, "ctrl+c") || (!a.capturesText() && isQuit(msg)) {
			if a.companies.hasUnsaved() {
				a.quitConfirm = true
				return a, nil
			}
			return a, tea.Quit
		}
		if !a.capturesText() {
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if a.screen == screenDetail && isBack(msg) {
				a.screen = screenCompanies
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenDetail:
		a.detail, cmd = a.detail.Update(msg)
	default:
		a.companies, cmd = a.companies.Update(msg)
	}
	return a, cmd
}

func (a App) capturesText() bool {
	return a.screen == screenCompanies && a.companies.capturesText()
}

func (a App) vimKeys() bool {
	return a.config != nil && a.config.VimKeys
}

// navigate resolves an application path. Only the list and detail routes
// exist; anything else falls back to the list.
func (a App) navigate(path string) (tea.Model, tea.Cmd) {
	prefix := companies.DetailPath("")
	if id, ok := strings.CutPrefix(path, prefix); ok && id != "" {
		a.screen = screenDetail
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Open(id)
		return a, cmd
	}
	a.screen = screenCompanies
	return a, nil
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = a.renderQuitConfirm()
	case a.helpOpen:
		content = a.renderHelp()
	case a.screen == screenDetail:
		content = a.detail.View()
	default:
		content = a.companies.View()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a App) renderTabs() string {
	parts := make([]string, 0, len(screenNames))
	for i, name := range screenNames {
		if screen(i) == a.screen {
			parts = append(parts, TabActiveStyle.Render(name))
			continue
		}
		parts = append(parts, TabInactiveStyle.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{components.Hint("y", "Quit"), components.Hint("n", "Stay")}
	}
	if a.helpOpen {
		return []string{components.Hint("esc", "Close")}
	}
	hints := a.statusHintsForScreen()
	return append(hints, components.Hint("?", "Help"), components.Hint("q", "Quit"))
}

func (a App) statusHintsForScreen() []string {
	if a.screen == screenDetail {
		return a.detail.statusHints()
	}
	return a.companies.statusHints()
}

func (a App) renderHelp() string {
	hints := a.statusHintsForScreen()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "You have unsaved changes. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
