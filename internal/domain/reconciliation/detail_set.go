package reconciliation

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Plan partitions the detail lines touched by an aggregate update.
// The three sets are disjoint and their union is the union of the old and
// new identifier sets.
type Plan struct {
	ToCreate []uuid.UUID
	ToUpdate []uuid.UUID
	ToDelete []uuid.UUID
}

// Len returns the number of line identifiers covered by the plan
func (p Plan) Len() int {
	return len(p.ToCreate) + len(p.ToUpdate) + len(p.ToDelete)
}

// IsEmpty reports whether the plan touches no line at all
func (p Plan) IsEmpty() bool {
	return p.Len() == 0
}

// Diff compares the identifiers of the lines present after an edit (newIDs)
// with those persisted before it (oldIDs).
//
// New lines must already carry their freshly assigned identifier; a nil
// identifier or a duplicate in either list is rejected instead of being
// silently deduplicated. Input order does not matter and each output set is
// sorted.
func Diff(newIDs, oldIDs []uuid.UUID) (Plan, error) {
	next, err := toSet("new", newIDs)
	if err != nil {
		return Plan{}, err
	}
	prev, err := toSet("persisted", oldIDs)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		ToCreate: make([]uuid.UUID, 0),
		ToUpdate: make([]uuid.UUID, 0),
		ToDelete: make([]uuid.UUID, 0),
	}
	for id := range next {
		if _, ok := prev[id]; ok {
			plan.ToUpdate = append(plan.ToUpdate, id)
		} else {
			plan.ToCreate = append(plan.ToCreate, id)
		}
	}
	for id := range prev {
		if _, ok := next[id]; !ok {
			plan.ToDelete = append(plan.ToDelete, id)
		}
	}

	sortIDs(plan.ToCreate)
	sortIDs(plan.ToUpdate)
	sortIDs(plan.ToDelete)
	return plan, nil
}

// AssignMissingIDs gives every nil identifier a fresh one, in place
func AssignMissingIDs(ids []uuid.UUID) []uuid.UUID {
	for i := range ids {
		if ids[i] == uuid.Nil {
			ids[i] = uuid.New()
		}
	}
	return ids
}

// RequireOwnedIDs rejects every non-nil draft identifier that is not one of
// the owned line identifiers. An aggregate being created owns no lines, so
// any identifier its draft carries is rejected.
func RequireOwnedIDs(draftIDs, owned []uuid.UUID) error {
	known := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		known[id] = struct{}{}
	}
	verr := shared.NewValidationError()
	for i, id := range draftIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := known[id]; !ok {
			verr.Add(fmt.Sprintf("details[%d].id %s is not a line of this record", i, id))
		}
	}
	return verr.OrNil()
}

func toSet(label string, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("%s detail lines contain an unassigned identifier", label))
		}
		if _, dup := set[id]; dup {
			return nil, shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("%s detail lines contain identifier %s more than once", label, id))
		}
		set[id] = struct{}{}
	}
	return set, nil
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
