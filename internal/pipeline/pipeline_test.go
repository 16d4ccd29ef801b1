package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

// fakeResolver maps names to identifiers, NotFoundError for the rest.
type fakeResolver struct {
	ids map[string]string
	err error
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.ids[name]
	if !ok {
		return "", scouterrors.NewNotFoundError(name)
	}
	return id, nil
}

// fakeSource serves candidates by identifier and records call counts.
type fakeSource struct {
	mu         sync.Mutex
	candidates map[string]*player.Candidate
	errs       map[string]error
	calls      int
}

func (f *fakeSource) Profile(_ context.Context, externalID string) (*player.Candidate, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[externalID]; ok {
		return nil, err
	}
	cand, ok := f.candidates[externalID]
	if !ok {
		return nil, scouterrors.NewNetworkStatusError("http://example.test/"+externalID, 404)
	}
	return cand, nil
}

// fakeMerger reports created for every first sighting of an identifier,
// unchanged after that.
type fakeMerger struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (f *fakeMerger) Reconcile(_ context.Context, cand *player.Candidate) (player.Outcome, error) {
	if f.err != nil {
		return player.Outcome{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[cand.ExternalID] {
		return player.Outcome{Status: player.StatusUnchanged, ExternalID: cand.ExternalID}, nil
	}
	f.seen[cand.ExternalID] = true
	return player.Outcome{Status: player.StatusCreated, ExternalID: cand.ExternalID}, nil
}

func candidateFor(id, first, last string) *player.Candidate {
	return &player.Candidate{ExternalID: id, FirstName: &first, LastName: &last}
}

func newTestOrchestrator(source *fakeSource, resolver *fakeResolver, merger *fakeMerger) *Orchestrator {
	return New(source, resolver, merger, WithWorkers(2))
}

func TestRunSingleByName(t *testing.T) {
	source := &fakeSource{candidates: map[string]*player.Candidate{
		"342229": candidateFor("342229", "Kylian", "Mbappé"),
	}}
	resolver := &fakeResolver{ids: map[string]string{"Kylian Mbappé": "342229"}}
	o := newTestOrchestrator(source, resolver, &fakeMerger{})

	out := o.RunSingle(context.Background(), Target{Name: "Kylian Mbappé"})

	assert.Equal(t, player.StatusCreated, out.Status)
	assert.Equal(t, "Kylian Mbappé", out.Target)
	assert.Equal(t, "342229", out.ExternalID)
}

func TestRunSingleByIdentifierSkipsResolution(t *testing.T) {
	source := &fakeSource{candidates: map[string]*player.Candidate{
		"342229": candidateFor("342229", "Kylian", "Mbappé"),
	}}
	// A resolver that always fails proves it is never consulted.
	resolver := &fakeResolver{err: errors.New("must not be called")}
	o := newTestOrchestrator(source, resolver, &fakeMerger{})

	out := o.RunSingle(context.Background(), Target{ExternalID: "342229"})

	assert.Equal(t, player.StatusCreated, out.Status)
	assert.Equal(t, "342229", out.Target)
}

func TestRunSingleUnknownNameIsNotFound(t *testing.T) {
	o := newTestOrchestrator(&fakeSource{}, &fakeResolver{}, &fakeMerger{})

	out := o.RunSingle(context.Background(), Target{Name: "Nobody Atall"})

	assert.Equal(t, player.StatusNotFound, out.Status)
	assert.NotEmpty(t, out.Detail)
}

func TestRunSingleGoneProfileIsNotFound(t *testing.T) {
	o := newTestOrchestrator(&fakeSource{}, &fakeResolver{}, &fakeMerger{})

	out := o.RunSingle(context.Background(), Target{ExternalID: "999"})

	assert.Equal(t, player.StatusNotFound, out.Status)
}

func TestRunSingleParsingFailureIsError(t *testing.T) {
	source := &fakeSource{errs: map[string]error{
		"342229": scouterrors.NewParsingError("profile header not found"),
	}}
	o := newTestOrchestrator(source, &fakeResolver{}, &fakeMerger{})

	out := o.RunSingle(context.Background(), Target{ExternalID: "342229"})

	assert.Equal(t, player.StatusError, out.Status)
	assert.True(t, strings.Contains(out.Detail, "header"))
}

func TestRunSingleAmbiguousNameIsError(t *testing.T) {
	resolver := &fakeResolver{err: scouterrors.NewAmbiguousError("Kylian Mbappé", 2)}
	o := newTestOrchestrator(&fakeSource{}, resolver, &fakeMerger{})

	out := o.RunSingle(context.Background(), Target{Name: "Kylian Mbappé"})

	assert.Equal(t, player.StatusError, out.Status)
}

func TestRunBulkOutcomesAreIndexAligned(t *testing.T) {
	source := &fakeSource{candidates: map[string]*player.Candidate{
		"111": candidateFor("111", "A", "One"),
		"333": candidateFor("333", "C", "Three"),
	}}
	resolver := &fakeResolver{ids: map[string]string{
		"A One":   "111",
		"C Three": "333",
	}}
	o := newTestOrchestrator(source, resolver, &fakeMerger{})

	targets := []Target{
		{Name: "A One"},
		{Name: "B Two"},
		{Name: "C Three"},
	}
	outcomes, summary := o.RunBulk(context.Background(), targets)

	require.Len(t, outcomes, 3)
	assert.Equal(t, player.StatusCreated, outcomes[0].Status)
	assert.Equal(t, player.StatusNotFound, outcomes[1].Status)
	assert.Equal(t, player.StatusCreated, outcomes[2].Status)
	assert.Equal(t, "B Two", outcomes[1].Target)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.NotFound)
	assert.Equal(t, 3, summary.Total())
}

func TestRunBulkIsolatesFailures(t *testing.T) {
	source := &fakeSource{
		candidates: map[string]*player.Candidate{
			"111": candidateFor("111", "A", "One"),
			"333": candidateFor("333", "C", "Three"),
		},
		errs: map[string]error{
			"222": scouterrors.NewParsingError("results table not found"),
		},
	}
	o := newTestOrchestrator(source, &fakeResolver{}, &fakeMerger{})

	outcomes, summary := o.RunBulk(context.Background(), []Target{
		{ExternalID: "111"},
		{ExternalID: "222"},
		{ExternalID: "333"},
	})

	require.Len(t, outcomes, 3)
	assert.Equal(t, player.StatusError, outcomes[1].Status)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunBulkEmptyTargets(t *testing.T) {
	o := newTestOrchestrator(&fakeSource{}, &fakeResolver{}, &fakeMerger{})

	outcomes, summary := o.RunBulk(context.Background(), nil)

	assert.Empty(t, outcomes)
	assert.Equal(t, 0, summary.Total())
}

type fakeLister struct {
	ids []string
	err error
}

func (f *fakeLister) ListLinkedExternalIDs(_ context.Context) ([]string, error) {
	return f.ids, f.err
}

func TestRunRefreshOnlyTouchesLinkedRecords(t *testing.T) {
	source := &fakeSource{candidates: map[string]*player.Candidate{
		"111": candidateFor("111", "A", "One"),
		"333": candidateFor("333", "C", "Three"),
	}}
	merger := &fakeMerger{seen: map[string]bool{"111": true, "333": true}}
	o := newTestOrchestrator(source, &fakeResolver{}, merger)

	outcomes, summary, err := o.RunRefresh(context.Background(), &fakeLister{ids: []string{"111", "333"}})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.Equal(t, 2, summary.Unchanged)
	assert.Equal(t, 2, source.calls)
}

func TestRunRefreshListingFailureAborts(t *testing.T) {
	lister := &fakeLister{err: scouterrors.NewStoreError("list", errors.New("disk on fire"))}
	o := newTestOrchestrator(&fakeSource{}, &fakeResolver{}, &fakeMerger{})

	_, _, err := o.RunRefresh(context.Background(), lister)
	require.Error(t, err)
	assert.True(t, scouterrors.IsStoreError(err))
}
