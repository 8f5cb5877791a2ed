package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyDataset indicates a dataset with no examples was supplied.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrDimensionMismatch indicates vectors of inconsistent dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidLabel indicates a label outside {0, 1}.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrAlreadyLabeled indicates an index was submitted for labeling twice.
	// An index moves from unlabeled to labeled exactly once per run.
	ErrAlreadyLabeled = errors.New("already labeled")

	// ErrPoolExhausted indicates the unlabeled pool is empty.
	// The experiment loop terminates when it sees this.
	ErrPoolExhausted = errors.New("unlabeled pool exhausted")

	// ErrUntrained indicates the classifier was queried before Fit.
	ErrUntrained = errors.New("classifier not trained")

	// ErrSessionClosed indicates the manual labeling session has ended.
	// Submissions after the run completes (or is cancelled) are rejected.
	ErrSessionClosed = errors.New("labeling session closed")

	// ErrNoCandidate indicates no candidate is currently awaiting a label.
	ErrNoCandidate = errors.New("no candidate pending")
)
