package companies

import (
	"context"
	"errors"
	"sync"

	"github.com/gravitrone/registry-console/internal/api"
)

type fakeQuerier struct {
	mu         sync.Mutex
	listFn     func(api.ListParams) (*api.ListResult, error)
	countsFn   func(api.ListParams) (*api.Counts, error)
	columns    []api.Column
	columnsErr error
	tags       []api.Tag
	listCalls  []api.ListParams
	countCalls []api.ListParams
}

func (f *fakeQuerier) ListCompanies(_ context.Context, params api.ListParams) (*api.ListResult, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, params)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return &api.ListResult{}, nil
	}
	return fn(params)
}

func (f *fakeQuerier) CountCompanies(_ context.Context, params api.ListParams) (*api.Counts, error) {
	f.mu.Lock()
	f.countCalls = append(f.countCalls, params)
	fn := f.countsFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(params)
}

func (f *fakeQuerier) DefaultColumns(context.Context) ([]api.Column, error) {
	return f.columns, f.columnsErr
}

func (f *fakeQuerier) ListTags(_ context.Context, tagType string) ([]api.Tag, error) {
	if tagType != api.TagTypeCompany {
		return nil, errors.New("unexpected tag type " + tagType)
	}
	return f.tags, nil
}

type fakeMutator struct {
	createErr   error
	removeErr   error
	mergeErr    error
	mergeResult string
	created     []map[string]any
	removed     [][]string
	merged      [][]string
}

func (f *fakeMutator) CreateCompany(_ context.Context, fields map[string]any) (*api.Company, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, fields)
	return &api.Company{ID: "new", Fields: fields}, nil
}

func (f *fakeMutator) RemoveCompanies(_ context.Context, ids []string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, ids)
	return nil
}

func (f *fakeMutator) MergeCompanies(_ context.Context, ids []string, _ map[string]any) (string, error) {
	if f.mergeErr != nil {
		return "", f.mergeErr
	}
	f.merged = append(f.merged, ids)
	return f.mergeResult, nil
}

type countingRefetcher struct {
	calls int
	err   error
}

func (r *countingRefetcher) Refetch(context.Context) error {
	r.calls++
	return r.err
}

type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) NotifySuccess(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) NotifyFailure(msg string) { n.failures = append(n.failures, msg) }

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) NavigateTo(path string) { n.paths = append(n.paths, path) }

type memStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
