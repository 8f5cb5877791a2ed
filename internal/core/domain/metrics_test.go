package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLog_AppendInOrder(t *testing.T) {
	log := &MetricsLog{}

	require.NoError(t, log.Append(RoundMetrics{Round: 0, Labeled: 10}))
	require.NoError(t, log.Append(RoundMetrics{Round: 1, Labeled: 20}))

	assert.Equal(t, 2, log.Len())
	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, 20, last.Labeled)
}

func TestMetricsLog_RejectsOutOfOrder(t *testing.T) {
	log := &MetricsLog{}
	require.NoError(t, log.Append(RoundMetrics{Round: 0}))

	assert.Error(t, log.Append(RoundMetrics{Round: 0}))
	assert.Error(t, log.Append(RoundMetrics{Round: 2}))
	assert.Equal(t, 1, log.Len())
}

func TestMetricsLog_RoundsIsACopy(t *testing.T) {
	log := &MetricsLog{}
	require.NoError(t, log.Append(RoundMetrics{Round: 0, Recall: 0.5}))

	rounds := log.Rounds()
	rounds[0].Recall = 0.9

	again := log.Rounds()
	assert.InDelta(t, 0.5, again[0].Recall, 1e-9)
}

func TestMetricsLog_LastEmpty(t *testing.T) {
	log := &MetricsLog{}

	_, ok := log.Last()

	assert.False(t, ok)
}
