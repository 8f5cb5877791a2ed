// Package memory provides in-memory implementations of the storage
// ports. Used in tests and for throwaway runs that don't need to
// persist.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore is an in-memory implementation of driven.ResultStore.
type ResultStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.RunResult
}

// NewResultStore creates an empty in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{runs: make(map[string]*domain.RunResult)}
}

// CreateRun implements driven.ResultStore.
func (s *ResultStore) CreateRun(ctx context.Context, run *domain.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	s.runs[run.ID] = &domain.RunResult{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		Config:    run.Config,
	}
	return nil
}

// AppendRound implements driven.ResultStore.
func (s *ResultStore) AppendRound(ctx context.Context, runID, algorithm string, repetition int, m domain.RoundMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}

	for i := range run.Series {
		series := &run.Series[i]
		if series.Algorithm != algorithm || series.Repetition != repetition {
			continue
		}
		if len(series.Rounds) != m.Round {
			return fmt.Errorf("run %s %s: got round %d, want %d", runID, algorithm, m.Round, len(series.Rounds))
		}
		series.Rounds = append(series.Rounds, m)
		return nil
	}

	if m.Round != 0 {
		return fmt.Errorf("run %s %s: got round %d, want 0", runID, algorithm, m.Round)
	}
	run.Series = append(run.Series, domain.Series{
		Algorithm:  algorithm,
		Repetition: repetition,
		Rounds:     []domain.RoundMetrics{m},
	})
	return nil
}

// GetRun implements driven.ResultStore.
func (s *ResultStore) GetRun(ctx context.Context, runID string) (*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}

	out := &domain.RunResult{ID: run.ID, CreatedAt: run.CreatedAt, Config: run.Config}
	for _, series := range run.Series {
		rounds := make([]domain.RoundMetrics, len(series.Rounds))
		copy(rounds, series.Rounds)
		out.Series = append(out.Series, domain.Series{
			Algorithm:  series.Algorithm,
			Repetition: series.Repetition,
			Rounds:     rounds,
		})
	}
	return out, nil
}

// ListRuns implements driven.ResultStore.
func (s *ResultStore) ListRuns(ctx context.Context) ([]*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RunResult, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, &domain.RunResult{ID: run.ID, CreatedAt: run.CreatedAt, Config: run.Config})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Close implements driven.ResultStore.
func (s *ResultStore) Close() error { return nil }
