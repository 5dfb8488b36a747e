package bulk

import (
	"context"

	"github.com/google/uuid"
)

// Status classifies a bulk outcome
type Status string

const (
	StatusFullSuccess    Status = "FULL_SUCCESS"
	StatusPartialSuccess Status = "PARTIAL_SUCCESS"
	StatusTotalFailure   Status = "TOTAL_FAILURE"
)

// Failure is one identifier that could not be processed
type Failure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// Outcome is the per-item result of a batch operation.
// Every item is committed or rolled back on its own, so an Outcome never
// describes a half-applied item.
type Outcome struct {
	Success []uuid.UUID `json:"success"`
	Failed  []Failure   `json:"failed"`
}

// NewOutcome returns an empty outcome with non-nil slices
func NewOutcome() *Outcome {
	return &Outcome{
		Success: make([]uuid.UUID, 0),
		Failed:  make([]Failure, 0),
	}
}

// Succeed records a processed identifier
func (o *Outcome) Succeed(id uuid.UUID) {
	o.Success = append(o.Success, id)
}

// Fail records an identifier together with the reason it failed
func (o *Outcome) Fail(id uuid.UUID, err error) {
	o.Failed = append(o.Failed, Failure{ID: id, Error: err.Error()})
}

// Status reports whether every, some or no item succeeded.
// An empty batch is a full success.
func (o *Outcome) Status() Status {
	switch {
	case len(o.Failed) == 0:
		return StatusFullSuccess
	case len(o.Success) > 0:
		return StatusPartialSuccess
	default:
		return StatusTotalFailure
	}
}

// RemoveFunc removes a single record in its own transaction
type RemoveFunc func(ctx context.Context, id uuid.UUID) error

// RemoveAll applies removeOne to every id in order.
// A failing id is recorded in Failed and never stops the remaining ids.
// A panic in removeOne is not recovered.
func RemoveAll(ctx context.Context, ids []uuid.UUID, removeOne RemoveFunc) *Outcome {
	outcome := NewOutcome()
	for _, id := range ids {
		if err := removeOne(ctx, id); err != nil {
			outcome.Fail(id, err)
			continue
		}
		outcome.Succeed(id)
	}
	return outcome
}
