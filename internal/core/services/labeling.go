package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seals-cli/internal/logger"
)

// Ensure LabelingSession implements both sides of the exchange.
var (
	_ driven.Oracle           = (*LabelingSession)(nil)
	_ driving.LabelingService = (*LabelingSession)(nil)
)

// pendingCandidate is the single in-flight labeling request.
type pendingCandidate struct {
	id     uint32
	answer chan int
}

// LabelingSession bridges the experiment loop and the dashboard.
//
// It is the manual Oracle: Label publishes the candidate and blocks
// until a human submits through the web interface. One candidate is in
// flight at a time; there are no concurrent labelers.
type LabelingSession struct {
	mu        sync.Mutex
	dataset   *domain.Dataset
	budget    int
	labeled   int
	positives int
	pending   *pendingCandidate
	closed    bool
}

// NewLabelingSession creates a session over the training split with the
// given total label budget.
func NewLabelingSession(train *domain.Dataset, budget int) *LabelingSession {
	return &LabelingSession{dataset: train, budget: budget}
}

// Label implements driven.Oracle. It blocks until Submit provides the
// label for id, or the context is cancelled.
func (s *LabelingSession) Label(ctx context.Context, id uint32) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, domain.ErrSessionClosed
	}
	pending := &pendingCandidate{id: id, answer: make(chan int, 1)}
	s.pending = pending
	s.mu.Unlock()

	logger.Debug("Waiting for manual label of index %d", id)

	select {
	case label := <-pending.answer:
		s.mu.Lock()
		s.labeled++
		s.positives += label
		s.mu.Unlock()
		return label, nil
	case <-ctx.Done():
		s.mu.Lock()
		if s.pending == pending {
			s.pending = nil
		}
		s.mu.Unlock()
		return 0, ctx.Err()
	}
}

// Current implements driving.LabelingService.
func (s *LabelingSession) Current(ctx context.Context) (driving.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return driving.Candidate{}, domain.ErrSessionClosed
	}
	if s.pending == nil {
		return driving.Candidate{}, domain.ErrNoCandidate
	}
	return driving.Candidate{
		ID:      s.pending.id,
		Preview: preview(s.dataset.Vector(int(s.pending.id))),
	}, nil
}

// Submit implements driving.LabelingService. A submission for anything
// other than the pending candidate, or with a label outside {0, 1}, is
// rejected.
func (s *LabelingSession) Submit(ctx context.Context, id uint32, label int) error {
	if label != 0 && label != 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidLabel, label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.pending == nil || s.pending.id != id {
		return fmt.Errorf("%w: index %d is not awaiting a label", domain.ErrNoCandidate, id)
	}

	s.pending.answer <- label
	s.pending = nil
	return nil
}

// Progress implements driving.LabelingService.
func (s *LabelingSession) Progress(ctx context.Context) driving.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return driving.Progress{
		Labeled:   s.labeled,
		Positives: s.positives,
		Budget:    s.budget,
		Done:      s.closed,
	}
}

// Close ends the session. Pending and future Label calls fail with
// ErrSessionClosed once their contexts are cancelled; Submit and
// Current report the closed state immediately.
func (s *LabelingSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
}

// preview renders the first few feature components for the dashboard.
func preview(vec []float32) string {
	n := len(vec)
	if n > 8 {
		n = 8
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%.3f", vec[i])
	}
	suffix := ""
	if len(vec) > n {
		suffix = ", ..."
	}
	return "[" + strings.Join(parts, ", ") + suffix + "]"
}
