package companies

import (
	"context"
	"log/slog"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/logging"
)

// SuccessMessage is the notification text for every successful mutation.
const SuccessMessage = "Success"

// Mutator is the write half of the remote data service.
type Mutator interface {
	CreateCompany(ctx context.Context, fields map[string]any) (*api.Company, error)
	RemoveCompanies(ctx context.Context, ids []string) error
	MergeCompanies(ctx context.Context, ids []string, fields map[string]any) (string, error)
}

// Notifier shows transient user-visible alerts.
type Notifier interface {
	NotifySuccess(message string)
	NotifyFailure(message string)
}

// Navigator moves the client to another screen.
type Navigator interface {
	NavigateTo(path string)
}

// Refetcher re-issues the list queries after a mutation.
type Refetcher interface {
	Refetch(ctx context.Context) error
}

// DetailPath is the route of a single company's detail screen.
func DetailPath(id string) string {
	return "/companies/details/" + id
}

// Mutations issues add, remove and merge against the remote service and
// keeps the list and selection consistent afterwards. A failed mutation
// only produces a failure notification: no refetch, no selection change,
// no callback and no navigation. Nothing is retried.
type Mutations struct {
	mutator   Mutator
	refetcher Refetcher
	selection *Selection
	notifier  Notifier
	navigator Navigator
	logger    *slog.Logger
}

// NewMutations wires the coordinator. notifier and navigator may be nil.
func NewMutations(mutator Mutator, refetcher Refetcher, selection *Selection, notifier Notifier, navigator Navigator, logger *slog.Logger) *Mutations {
	if logger == nil {
		logger = logging.Default()
	}
	return &Mutations{
		mutator:   mutator,
		refetcher: refetcher,
		selection: selection,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// AddCompany creates a company from fields. On success it refetches,
// notifies and then calls done (used to close a creation dialog).
func (m *Mutations) AddCompany(ctx context.Context, fields map[string]any, done func()) error {
	if _, err := m.mutator.CreateCompany(ctx, fields); err != nil {
		return m.fail("add company", err)
	}
	m.refetch(ctx)
	m.success()
	if done != nil {
		done()
	}
	return nil
}

// RemoveCompanies deletes ids. On success the selection is emptied
// before the list is refetched.
func (m *Mutations) RemoveCompanies(ctx context.Context, ids []string) error {
	if err := m.mutator.RemoveCompanies(ctx, ids); err != nil {
		return m.fail("remove companies", err)
	}
	if m.selection != nil {
		m.selection.Empty()
	}
	m.refetch(ctx)
	m.success()
	return nil
}

// MergeCompanies consolidates ids into one record with fields and then
// navigates to the surviving company. The selection is left untouched.
func (m *Mutations) MergeCompanies(ctx context.Context, ids []string, fields map[string]any, done func()) (string, error) {
	survivingID, err := m.mutator.MergeCompanies(ctx, ids, fields)
	if err != nil {
		return "", m.fail("merge companies", err)
	}
	m.success()
	m.refetch(ctx)
	if done != nil {
		done()
	}
	if m.navigator != nil {
		m.navigator.NavigateTo(DetailPath(survivingID))
	}
	return survivingID, nil
}

func (m *Mutations) refetch(ctx context.Context) {
	if m.refetcher == nil {
		return
	}
	// Query failures are tracked by the data source itself.
	if err := m.refetcher.Refetch(ctx); err != nil {
		m.logger.Warn("refetch after mutation failed", logging.ErrAttrs(err)...)
	}
}

func (m *Mutations) success() {
	if m.notifier != nil {
		m.notifier.NotifySuccess(SuccessMessage)
	}
}

func (m *Mutations) fail(action string, err error) error {
	m.logger.Error(action+" failed", logging.ErrAttrs(err)...)
	if m.notifier != nil {
		m.notifier.NotifyFailure(err.Error())
	}
	return err
}
