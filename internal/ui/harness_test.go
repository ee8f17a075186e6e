package ui

import (
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/companies"
	"github.com/gravitrone/registry-console/internal/config"
	"github.com/gravitrone/registry-console/internal/devserver"
	"github.com/gravitrone/registry-console/internal/store"
)

// uiHarness drives an App against a seeded in-process registry.
type uiHarness struct {
	t          *testing.T
	app        App
	bus        *NoticeBus
	controller *companies.Controller
}

func newUIHarness(t *testing.T, cfg *config.Config) *uiHarness {
	t.Helper()
	srv := httptest.NewServer(devserver.New(devserver.NewSeededRegistry()))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "")
	bus := NewNoticeBus()
	controller := companies.NewController(companies.Deps{
		Querier:   client,
		Mutator:   client,
		Store:     store.NewMemory(),
		Notifier:  bus,
		Navigator: bus,
	}, nil)

	h := &uiHarness{t: t, app: NewApp(controller, client, bus, cfg), bus: bus, controller: controller}
	h.update(tea.WindowSizeMsg{Width: 140, Height: 50})
	h.finish(h.app.companies.Init())
	return h
}

func (h *uiHarness) update(msg tea.Msg) tea.Cmd {
	model, cmd := h.app.Update(msg)
	h.app = model.(App)
	return cmd
}

func (h *uiHarness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.update(keyMsg(k))
	}
	return cmd
}

func (h *uiHarness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// finish runs a model command synchronously and feeds its result back.
func (h *uiHarness) finish(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	return h.update(cmd())
}

// drain returns every message currently queued on the bus.
func (h *uiHarness) drain() []tea.Msg {
	var out []tea.Msg
	for {
		select {
		case msg := <-h.bus.ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func (h *uiHarness) vm() companies.ViewModel {
	return h.app.companies.vm
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func vmNames(vm companies.ViewModel) []string {
	out := make([]string, 0, len(vm.Companies))
	for _, c := range vm.Companies {
		out = append(out, c.Name())
	}
	return out
}
