package companies

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/logging"
)

// Querier is the read-only half of the remote data service.
type Querier interface {
	ListCompanies(ctx context.Context, params api.ListParams) (*api.ListResult, error)
	CountCompanies(ctx context.Context, params api.ListParams) (*api.Counts, error)
	DefaultColumns(ctx context.Context) ([]api.Column, error)
	ListTags(ctx context.Context, tagType string) ([]api.Tag, error)
}

// QueryState is the status of one remote read.
type QueryState struct {
	Loading bool
	Err     error
}

// Snapshot is a consistent copy of everything a DataSource has cached.
type Snapshot struct {
	Params  api.ListParams
	List    api.ListResult
	Counts  api.Counts
	Columns []api.Column
	Tags    []api.Tag

	ListState    QueryState
	CountsState  QueryState
	ColumnsState QueryState
	TagsState    QueryState
}

// DataSource caches the paginated company list, the counts breakdown, the
// default columns and the company tags. Each cache is replaced wholesale
// on a successful fetch. Overlapping refetches are last-writer-wins and
// in-flight requests are never cancelled.
type DataSource struct {
	querier Querier
	logger  *slog.Logger

	mu      sync.RWMutex
	params  api.ListParams
	list    api.ListResult
	counts  api.Counts
	columns []api.Column
	tags    []api.Tag

	listState    QueryState
	countsState  QueryState
	columnsState QueryState
	tagsState    QueryState
}

// NewDataSource returns a DataSource that will query with params.
func NewDataSource(querier Querier, params api.ListParams, logger *slog.Logger) *DataSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &DataSource{
		querier: querier,
		logger:  logger,
		params:  params,
		list:    api.ListResult{List: []api.Company{}},
		counts:  api.EmptyCounts(),
		columns: []api.Column{},
		tags:    []api.Tag{},
	}
}

// SetParams swaps the parameters used by the next Refetch.
func (d *DataSource) SetParams(params api.ListParams) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.params = params
}

// Params returns the parameters the next Refetch will use.
func (d *DataSource) Params() api.ListParams {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.params
}

// Refetch re-issues the list and counts queries with the latest params.
// The two run concurrently and complete in any order; each one's cache is
// replaced only when it succeeds. The first error is returned after both
// finish.
func (d *DataSource) Refetch(ctx context.Context) error {
	params := d.Params()
	var g errgroup.Group
	g.Go(func() error { return d.fetchList(ctx, params) })
	g.Go(func() error { return d.fetchCounts(ctx, params) })
	return g.Wait()
}

// Load runs every query the list screen needs: list, counts, default
// columns and company tags.
func (d *DataSource) Load(ctx context.Context) error {
	params := d.Params()
	var g errgroup.Group
	g.Go(func() error { return d.fetchList(ctx, params) })
	g.Go(func() error { return d.fetchCounts(ctx, params) })
	g.Go(func() error { return d.fetchColumns(ctx) })
	g.Go(func() error { return d.fetchTags(ctx) })
	return g.Wait()
}

// Snapshot copies the current cache and query states.
func (d *DataSource) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := api.ListResult{
		List:       append([]api.Company(nil), d.list.List...),
		TotalCount: d.list.TotalCount,
	}
	if list.List == nil {
		list.List = []api.Company{}
	}
	return Snapshot{
		Params:       d.params,
		List:         list,
		Counts:       copyCounts(d.counts),
		Columns:      append([]api.Column{}, d.columns...),
		Tags:         append([]api.Tag{}, d.tags...),
		ListState:    d.listState,
		CountsState:  d.countsState,
		ColumnsState: d.columnsState,
		TagsState:    d.tagsState,
	}
}

func (d *DataSource) fetchList(ctx context.Context, params api.ListParams) error {
	d.begin(&d.listState)
	result, err := d.querier.ListCompanies(ctx, params)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listState = QueryState{Err: err}
	if err != nil {
		d.logger.Error("list companies failed", logging.ErrAttrs(err)...)
		return err
	}
	if result == nil {
		result = &api.ListResult{}
	}
	d.list = *result
	if d.list.List == nil {
		d.list.List = []api.Company{}
	}
	return nil
}

func (d *DataSource) fetchCounts(ctx context.Context, params api.ListParams) error {
	d.begin(&d.countsState)
	counts, err := d.querier.CountCompanies(ctx, params)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.countsState = QueryState{Err: err}
	if err != nil {
		d.logger.Error("count companies failed", logging.ErrAttrs(err)...)
		return err
	}
	if counts == nil {
		d.counts = api.EmptyCounts()
		return nil
	}
	d.counts = counts.Normalize()
	return nil
}

func (d *DataSource) fetchColumns(ctx context.Context) error {
	d.begin(&d.columnsState)
	cols, err := d.querier.DefaultColumns(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.columnsState = QueryState{Err: err}
	if err != nil {
		d.logger.Error("load default columns failed", logging.ErrAttrs(err)...)
		return err
	}
	if cols == nil {
		cols = []api.Column{}
	}
	d.columns = cols
	return nil
}

func (d *DataSource) fetchTags(ctx context.Context) error {
	d.begin(&d.tagsState)
	tags, err := d.querier.ListTags(ctx, api.TagTypeCompany)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tagsState = QueryState{Err: err}
	if err != nil {
		d.logger.Error("load company tags failed", logging.ErrAttrs(err)...)
		return err
	}
	if tags == nil {
		tags = []api.Tag{}
	}
	d.tags = tags
	return nil
}

func (d *DataSource) begin(state *QueryState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	state.Loading = true
}

func copyCounts(c api.Counts) api.Counts {
	out := api.EmptyCounts()
	for k, v := range c.ByBrand {
		out.ByBrand[k] = v
	}
	for k, v := range c.ByIntegrationType {
		out.ByIntegrationType[k] = v
	}
	for k, v := range c.BySegment {
		out.BySegment[k] = v
	}
	for k, v := range c.ByTag {
		out.ByTag[k] = v
	}
	return out
}
