package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/pipeline"
	"github.com/flockwood/Offside-Tool/internal/player"
)

type fakeJobs struct {
	refreshErr error
}

func (f *fakeJobs) RunSingle(_ context.Context, target pipeline.Target) player.Outcome {
	return player.Outcome{Target: target.Label(), Status: player.StatusCreated}
}

func (f *fakeJobs) RunBulk(_ context.Context, targets []pipeline.Target) ([]player.Outcome, player.Summary) {
	outcomes := make([]player.Outcome, len(targets))
	for i, target := range targets {
		outcomes[i] = player.Outcome{Target: target.Label(), Status: player.StatusUnchanged}
	}
	return outcomes, player.Summarize(outcomes)
}

func (f *fakeJobs) RunRefresh(ctx context.Context, lister pipeline.LinkLister) ([]player.Outcome, player.Summary, error) {
	if f.refreshErr != nil {
		return nil, player.Summary{}, f.refreshErr
	}
	ids, err := lister.ListLinkedExternalIDs(ctx)
	if err != nil {
		return nil, player.Summary{}, err
	}
	targets := make([]pipeline.Target, len(ids))
	for i, id := range ids {
		targets[i] = pipeline.Target{ExternalID: id}
	}
	outcomes, summary := f.RunBulk(ctx, targets)
	return outcomes, summary, nil
}

type fakeLister struct{ ids []string }

func (f *fakeLister) ListLinkedExternalIDs(_ context.Context) ([]string, error) {
	return f.ids, nil
}

type memoryBackend struct {
	stored []Result
	err    error
}

func (m *memoryBackend) Store(_ context.Context, result Result) error {
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, result)
	return nil
}

func TestScrapePlayerProducesIdentifiedResult(t *testing.T) {
	backend := &memoryBackend{}
	r := NewRunner(&fakeJobs{}, &fakeLister{}, WithResultBackend(backend))

	result := r.ScrapePlayer(context.Background(), pipeline.Target{Name: "Kylian Mbappé"})

	assert.NotEmpty(t, result.TaskID)
	assert.Equal(t, KindScrapePlayer, result.TaskName)
	assert.False(t, result.Timestamp.IsZero())
	require.NotNil(t, result.Outcome)
	assert.Equal(t, player.StatusCreated, result.Outcome.Status)
	assert.Nil(t, result.Summary)

	require.Len(t, backend.stored, 1)
	assert.Equal(t, result.TaskID, backend.stored[0].TaskID)
}

func TestBulkScrapeCarriesSummaryAndItems(t *testing.T) {
	r := NewRunner(&fakeJobs{}, &fakeLister{})

	result := r.BulkScrape(context.Background(), []pipeline.Target{
		{Name: "A One"}, {Name: "B Two"},
	})

	assert.Equal(t, KindBulkScrape, result.TaskName)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 2, result.Summary.Unchanged)
	assert.Len(t, result.Items, 2)
	assert.Nil(t, result.Outcome)
}

func TestRefreshCatalogUsesLister(t *testing.T) {
	r := NewRunner(&fakeJobs{}, &fakeLister{ids: []string{"111", "333"}})

	result, err := r.RefreshCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, KindRefreshCatalog, result.TaskName)
	assert.Len(t, result.Items, 2)
}

func TestRefreshCatalogListingFailure(t *testing.T) {
	jobs := &fakeJobs{refreshErr: scouterrors.NewStoreError("list", errors.New("disk on fire"))}
	r := NewRunner(jobs, &fakeLister{})

	_, err := r.RefreshCatalog(context.Background())
	require.Error(t, err)
	assert.True(t, scouterrors.IsStoreError(err))
}

func TestBackendFailureDoesNotFailTask(t *testing.T) {
	backend := &memoryBackend{err: errors.New("backend down")}
	r := NewRunner(&fakeJobs{}, &fakeLister{}, WithResultBackend(backend))

	result := r.ScrapePlayer(context.Background(), pipeline.Target{ExternalID: "342229"})
	assert.NotEmpty(t, result.TaskID)
	require.NotNil(t, result.Outcome)
}

func TestResultJSONShape(t *testing.T) {
	r := NewRunner(&fakeJobs{}, &fakeLister{})
	result := r.ScrapePlayer(context.Background(), pipeline.Target{Name: "Kylian Mbappé"})

	payload, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Contains(t, decoded, "task_id")
	assert.Equal(t, "scrape_player", decoded["task_name"])
	assert.Contains(t, decoded, "timestamp")
	assert.Contains(t, decoded, "outcome")
	assert.NotContains(t, decoded, "summary")
}
