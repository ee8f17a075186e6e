package companies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mutationsHarness struct {
	mutator   *fakeMutator
	refetcher *countingRefetcher
	selection *Selection
	notifier  *recordingNotifier
	navigator *recordingNavigator
	mutations *Mutations
}

func newMutationsHarness(selected ...string) *mutationsHarness {
	h := &mutationsHarness{
		mutator:   &fakeMutator{mergeResult: "E3"},
		refetcher: &countingRefetcher{},
		selection: NewSelection(),
		notifier:  &recordingNotifier{},
		navigator: &recordingNavigator{},
	}
	for _, id := range selected {
		h.selection.Toggle(id)
	}
	h.mutations = NewMutations(h.mutator, h.refetcher, h.selection, h.notifier, h.navigator, nil)
	return h
}

func TestAddCompanySuccessRefetchesNotifiesThenCallsBack(t *testing.T) {
	h := newMutationsHarness("E1")
	var refetchesAtCallback int
	done := func() { refetchesAtCallback = h.refetcher.calls }

	err := h.mutations.AddCompany(context.Background(), map[string]any{"primaryName": "Acme"}, done)
	require.NoError(t, err)

	assert.Equal(t, 1, h.refetcher.calls)
	assert.Equal(t, 1, refetchesAtCallback)
	assert.Equal(t, []string{SuccessMessage}, h.notifier.successes)
	assert.Empty(t, h.notifier.failures)
	assert.Equal(t, []string{"E1"}, h.selection.IDs())
}

type refetchFunc func(ctx context.Context) error

func (f refetchFunc) Refetch(ctx context.Context) error { return f(ctx) }

func TestAddAndRemoveNotifyOnlyAfterRefetchReturns(t *testing.T) {
	notifier := &recordingNotifier{}
	var toastsDuringRefetch []int
	refetcher := refetchFunc(func(context.Context) error {
		toastsDuringRefetch = append(toastsDuringRefetch, len(notifier.successes))
		return nil
	})
	m := NewMutations(&fakeMutator{}, refetcher, NewSelection(), notifier, nil, nil)

	require.NoError(t, m.AddCompany(context.Background(), map[string]any{"primaryName": "Acme"}, nil))
	require.NoError(t, m.RemoveCompanies(context.Background(), []string{"E1"}))

	assert.Equal(t, []int{0, 1}, toastsDuringRefetch)
	assert.Len(t, notifier.successes, 2)
}

func TestAddCompanyFailureNotifiesExactMessageOnly(t *testing.T) {
	h := newMutationsHarness("E1")
	h.mutator.createErr = errors.New("duplicate name")
	called := false

	err := h.mutations.AddCompany(context.Background(), map[string]any{"primaryName": "Acme"}, func() { called = true })
	require.Error(t, err)

	assert.Equal(t, []string{"duplicate name"}, h.notifier.failures)
	assert.Empty(t, h.notifier.successes)
	assert.Equal(t, 0, h.refetcher.calls)
	assert.False(t, called)
	assert.Equal(t, []string{"E1"}, h.selection.IDs())
}

func TestRemoveCompaniesSuccessEmptiesSelection(t *testing.T) {
	h := newMutationsHarness("E1", "E7", "E9")

	require.NoError(t, h.mutations.RemoveCompanies(context.Background(), []string{"E1"}))

	assert.Equal(t, 0, h.selection.Len())
	assert.Equal(t, 1, h.refetcher.calls)
	assert.Equal(t, []string{SuccessMessage}, h.notifier.successes)
	assert.Equal(t, [][]string{{"E1"}}, h.mutator.removed)
}

func TestRemoveCompaniesFailureLeavesSelection(t *testing.T) {
	h := newMutationsHarness("E1", "E2")
	h.mutator.removeErr = errors.New("company is linked to deals")

	err := h.mutations.RemoveCompanies(context.Background(), []string{"E1", "E2"})
	require.Error(t, err)

	assert.Equal(t, []string{"E1", "E2"}, h.selection.IDs())
	assert.Equal(t, 0, h.refetcher.calls)
	assert.Equal(t, []string{"company is linked to deals"}, h.notifier.failures)
}

func TestMergeCompaniesSuccessNavigatesAndKeepsSelection(t *testing.T) {
	h := newMutationsHarness("E1", "E2")
	called := false

	id, err := h.mutations.MergeCompanies(context.Background(), []string{"E1", "E2"},
		map[string]any{"primaryName": "Merged Co"}, func() { called = true })
	require.NoError(t, err)

	assert.Equal(t, "E3", id)
	assert.Equal(t, []string{"/companies/details/E3"}, h.navigator.paths)
	assert.Equal(t, 1, h.refetcher.calls)
	assert.True(t, called)
	assert.Equal(t, []string{SuccessMessage}, h.notifier.successes)
	assert.Equal(t, []string{"E1", "E2"}, h.selection.IDs())
}

func TestMergeCompaniesFailureSkipsNavigation(t *testing.T) {
	h := newMutationsHarness("E1", "E2")
	h.mutator.mergeErr = errors.New("cannot merge a company with itself")
	called := false

	_, err := h.mutations.MergeCompanies(context.Background(), []string{"E1", "E2"}, nil, func() { called = true })
	require.Error(t, err)

	assert.Empty(t, h.navigator.paths)
	assert.Equal(t, 0, h.refetcher.calls)
	assert.False(t, called)
	assert.Equal(t, []string{"cannot merge a company with itself"}, h.notifier.failures)
	assert.Equal(t, []string{"E1", "E2"}, h.selection.IDs())
}

func TestMutationSucceedsEvenWhenRefetchFails(t *testing.T) {
	h := newMutationsHarness("E1")
	h.refetcher.err = errors.New("list unavailable")

	require.NoError(t, h.mutations.RemoveCompanies(context.Background(), []string{"E1"}))
	assert.Equal(t, []string{SuccessMessage}, h.notifier.successes)
	assert.Empty(t, h.notifier.failures)
}

func TestMutationsToleratesNilCollaborators(t *testing.T) {
	m := NewMutations(&fakeMutator{mergeResult: "E3"}, nil, nil, nil, nil, nil)
	ctx := context.Background()
	assert.NoError(t, m.AddCompany(ctx, map[string]any{}, nil))
	assert.NoError(t, m.RemoveCompanies(ctx, []string{"E1"}))
	_, err := m.MergeCompanies(ctx, []string{"E1", "E2"}, nil, nil)
	assert.NoError(t, err)
}
