package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

func storeTestRun(t *testing.T) *domain.RunResult {
	t.Helper()
	run := &domain.RunResult{
		ID:        "run-cli-test",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Config:    domain.DefaultExperimentConfig(),
	}
	require.NoError(t, resultStore.CreateRun(context.Background(), run))
	require.NoError(t, resultStore.AppendRound(context.Background(), run.ID, domain.AlgorithmSEALS, 0,
		domain.RoundMetrics{Round: 0, Labeled: 10, Recall: 0.4, Positives: 3}))
	return run
}

func TestResultsCmd_Use(t *testing.T) {
	assert.Equal(t, "results [run-id]", resultsCmd.Use)
}

func TestResultsCmd_EmptyStore(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"results"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No stored runs")
}

func TestResultsCmd_ListsRuns(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	storeTestRun(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"results"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run-cli-test")
	assert.Contains(t, buf.String(), "rounds=20")
}

func TestResultsCmd_ShowRun(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	storeTestRun(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"results", "run-cli-test"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), domain.AlgorithmSEALS)
}

func TestResultsCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	storeTestRun(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"results", "run-cli-test", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		resultsJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"id\": \"run-cli-test\"")
	assert.Contains(t, buf.String(), "\"series\"")
}

func TestResultsCmd_UnknownRun(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"results", "missing"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResultsCmd_StoreNotConfigured(t *testing.T) {
	oldStore := resultStore
	resultStore = nil
	defer func() { resultStore = oldStore }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"results"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "result store not configured")
}
