package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// noticeMsg is a toast raised by the mutation coordinator.
type noticeMsg struct {
	level string
	text  string
}

// navigateMsg asks the app to switch screens.
type navigateMsg struct{ path string }

// busMsg wraps whatever arrived on the bus so the app knows to re-arm it.
type busMsg struct{ msg tea.Msg }

// NoticeBus carries notifications and navigation requests from commands
// running off the update loop back into it. It satisfies both
// companies.Notifier and companies.Navigator.
type NoticeBus struct {
	ch chan tea.Msg
}

// NewNoticeBus returns an empty bus.
func NewNoticeBus() *NoticeBus {
	return &NoticeBus{ch: make(chan tea.Msg, 16)}
}

func (b *NoticeBus) NotifySuccess(message string) {
	b.ch <- noticeMsg{level: "success", text: message}
}

func (b *NoticeBus) NotifyFailure(message string) {
	b.ch <- noticeMsg{level: "error", text: message}
}

func (b *NoticeBus) NavigateTo(path string) {
	b.ch <- navigateMsg{path: path}
}

// listen blocks until the next message on the bus.
func (b *NoticeBus) listen() tea.Cmd {
	return func() tea.Msg {
		return busMsg{msg: <-b.ch}
	}
}
