// Package companies holds the company list-management screen logic: bulk
// selection, query composition, persisted column layout, the cached list
// data source, the mutation coordinator and the controller that composes
// them into a view-model.
package companies

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/logging"
)

// BasicInfos are the basic company fields offered by create and merge forms.
var BasicInfos = []api.Column{
	{Name: "primaryName", Label: "Name"},
	{Name: "size", Label: "Size"},
	{Name: "industry", Label: "Industry"},
	{Name: "plan", Label: "Plan"},
	{Name: "website", Label: "Website"},
	{Name: "email", Label: "Email"},
	{Name: "phone", Label: "Phone"},
	{Name: "employees", Label: "Employees"},
	{Name: "description", Label: "Description"},
}

// Deps are the collaborators a Controller is built from.
type Deps struct {
	Querier   Querier
	Mutator   Mutator
	Store     Store
	Notifier  Notifier
	Navigator Navigator
	Logger    *slog.Logger
}

// CountsView is the breakdown plus an "all" count equal to the list's total.
type CountsView struct {
	All int
	api.Counts
}

// Actions are the mutators bound to one controller.
type Actions struct {
	ToggleBulk      func(id string)
	ToggleAll       func(ids []string)
	EmptyBulk       func()
	AddCompany      func(ctx context.Context, fields map[string]any, done func()) error
	RemoveCompanies func(ctx context.Context, ids []string) error
	MergeCompanies  func(ctx context.Context, ids []string, fields map[string]any, done func()) (string, error)
}

// ViewModel is everything the list screen renders, built fresh per update.
type ViewModel struct {
	Columns     []api.Column
	Counts      CountsView
	Tags        []api.Tag
	SearchValue string
	Params      api.ListParams
	Companies   []api.Company
	TotalCount  int
	Loading     bool
	LoadingTags bool
	ListErr     error
	CountsErr   error
	Bulk        []string
	BasicInfos  []api.Column
	Actions     Actions
}

// Controller composes the list screen's collaborators. It holds no
// business logic of its own.
type Controller struct {
	source    *DataSource
	selection *Selection
	view      *ViewConfig
	mutations *Mutations
	logger    *slog.Logger

	mu    sync.Mutex
	query url.Values
}

// NewController builds a controller for the navigation state in query.
func NewController(deps Deps, query url.Values) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if query == nil {
		query = url.Values{}
	}
	source := NewDataSource(deps.Querier, ComposeQuery(query), logger)
	selection := NewSelection()
	return &Controller{
		source:    source,
		selection: selection,
		view:      NewViewConfig(deps.Store, logger),
		mutations: NewMutations(deps.Mutator, source, selection, deps.Notifier, deps.Navigator, logger),
		logger:    logger,
		query:     cloneValues(query),
	}
}

// Load runs the initial list, counts, columns and tags queries.
func (c *Controller) Load(ctx context.Context) error {
	return c.source.Load(ctx)
}

// Navigate applies new navigation state and refetches with the
// recomposed parameters. The selection is kept.
func (c *Controller) Navigate(ctx context.Context, query url.Values) error {
	c.mu.Lock()
	c.query = cloneValues(query)
	c.mu.Unlock()
	c.source.SetParams(ComposeQuery(query))
	return c.source.Refetch(ctx)
}

// Refetch re-runs the list and counts queries with the current state.
func (c *Controller) Refetch(ctx context.Context) error {
	return c.source.Refetch(ctx)
}

// Query returns a copy of the current navigation state.
func (c *Controller) Query() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneValues(c.query)
}

// Selection exposes the controller's bulk selection.
func (c *Controller) Selection() *Selection { return c.selection }

// Mutations exposes the controller's mutation coordinator.
func (c *Controller) Mutations() *Mutations { return c.mutations }

// ViewConfig exposes the persisted column layout.
func (c *Controller) ViewConfig() *ViewConfig { return c.view }

// ViewModel assembles the current view-model.
func (c *Controller) ViewModel(ctx context.Context) ViewModel {
	snap := c.source.Snapshot()
	return ViewModel{
		Columns: c.view.Resolve(ctx, snap.Columns),
		Counts: CountsView{
			All:    snap.List.TotalCount,
			Counts: snap.Counts,
		},
		Tags:        snap.Tags,
		SearchValue: snap.Params.SearchValue,
		Params:      snap.Params,
		Companies:   snap.List.List,
		TotalCount:  snap.List.TotalCount,
		Loading:     snap.ListState.Loading,
		LoadingTags: snap.TagsState.Loading,
		ListErr:     snap.ListState.Err,
		CountsErr:   snap.CountsState.Err,
		Bulk:        c.selection.IDs(),
		BasicInfos:  BasicInfos,
		Actions: Actions{
			ToggleBulk:      c.selection.Toggle,
			ToggleAll:       c.selection.ToggleAll,
			EmptyBulk:       c.selection.Empty,
			AddCompany:      c.mutations.AddCompany,
			RemoveCompanies: c.mutations.RemoveCompanies,
			MergeCompanies:  c.mutations.MergeCompanies,
		},
	}
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
