package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun() *domain.RunResult {
	return &domain.RunResult{
		ID:        "run-1",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Config:    domain.DefaultExperimentConfig(),
	}
}

func TestCreateRun_And_GetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, testRun()))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, domain.DefaultExperimentConfig(), got.Config)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Empty(t, got.Series)
}

func TestGetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendRound_GroupsIntoSeries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateRun(ctx, testRun()))

	for round := 0; round < 3; round++ {
		m := domain.RoundMetrics{Round: round, Labeled: 10 + round*5, Recall: float64(round) * 0.1, Positives: round}
		require.NoError(t, store.AppendRound(ctx, "run-1", domain.AlgorithmSEALS, 0, m))
	}
	require.NoError(t, store.AppendRound(ctx, "run-1", domain.AlgorithmRandomAll, 0,
		domain.RoundMetrics{Round: 0, Labeled: 10}))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got.Series, 2)

	seals := got.SeriesFor(domain.AlgorithmSEALS)
	require.Len(t, seals, 1)
	require.Len(t, seals[0].Rounds, 3)
	assert.Equal(t, 1, seals[0].Rounds[1].Positives)
	assert.InDelta(t, 0.2, seals[0].Rounds[2].Recall, 1e-9)
}

func TestAppendRound_DuplicateRoundRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateRun(ctx, testRun()))

	m := domain.RoundMetrics{Round: 0, Labeled: 10}
	require.NoError(t, store.AppendRound(ctx, "run-1", domain.AlgorithmSEALS, 0, m))

	err := store.AppendRound(ctx, "run-1", domain.AlgorithmSEALS, 0, m)

	require.Error(t, err)
}

func TestListRuns_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testRun()
	newer := &domain.RunResult{
		ID:        "run-2",
		CreatedAt: older.CreatedAt.Add(time.Hour),
		Config:    domain.DefaultExperimentConfig(),
	}
	require.NoError(t, store.CreateRun(ctx, older))
	require.NoError(t, store.CreateRun(ctx, newer))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CreateRun(context.Background(), testRun()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
}
