package cmd

import (
	"context"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"

	"github.com/gravitrone/registry-console/internal/ui"
)

// RunTUI opens a session and runs the interactive list screen, starting
// from the navigation state in query.
func RunTUI(ctx context.Context, query url.Values) error {
	s, err := OpenSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	bus := ui.NewNoticeBus()
	controller := s.Controller(query, bus, bus)
	app := ui.NewApp(controller, s.Client, bus, s.Config)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return goerr.Wrap(err, "tui error")
	}
	return nil
}
