package driving

import "context"

// Candidate is the item currently awaiting a human label.
type Candidate struct {
	// ID is the dataset index to be labeled.
	ID uint32 `json:"id"`

	// Preview is a short textual rendering of the candidate's features.
	Preview string `json:"preview"`
}

// Progress summarises the state of a manual labeling session.
type Progress struct {
	// Labeled is the number of labels collected so far, seed included.
	Labeled int `json:"labeled"`

	// Positives is the number of positives found so far.
	Positives int `json:"positives"`

	// Budget is the total number of labels the session will request.
	Budget int `json:"budget"`

	// Done reports whether the session has finished.
	Done bool `json:"done"`
}

// LabelingService is the surface the dashboard drives. One candidate is
// in flight at a time: the experiment loop blocks in the oracle until
// Submit answers for the current candidate.
type LabelingService interface {
	// Current returns the candidate awaiting a label.
	// Returns domain.ErrNoCandidate when the loop is busy retraining,
	// or domain.ErrSessionClosed after the session has ended.
	Current(ctx context.Context) (Candidate, error)

	// Submit provides the label for the candidate with the given id.
	// Returns domain.ErrInvalidLabel for labels outside {0, 1},
	// domain.ErrNoCandidate if id is not the pending candidate.
	Submit(ctx context.Context, id uint32, label int) error

	// Progress reports the session's counters.
	Progress(ctx context.Context) Progress
}
