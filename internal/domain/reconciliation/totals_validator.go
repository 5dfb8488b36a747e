package reconciliation

import (
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentLine is a detail line flattened into named fields
type DocumentLine struct {
	Values map[string]decimal.Decimal
	Units  map[string]valueobject.MeasureUnit
	Refs   map[string]uuid.UUID
}

// Document is an aggregate flattened into named totals and lines, the
// input of RuleSet.Validate
type Document struct {
	Totals     map[string]decimal.Decimal
	TotalUnits map[string]valueobject.MeasureUnit
	Lines      []DocumentLine
}

// SumRule requires Σ line[LineField] to equal Totals[Total] exactly.
// With Convert set, every line value is first normalised through the unit
// recorded for LineField and the total through TotalUnits[Total].
type SumRule struct {
	Total     string
	LineField string
	Convert   bool
}

// UniqueRule requires Refs[LineRef] to differ on every line
type UniqueRule struct {
	LineRef string
}

// RuleSet is the declarative totals contract of one aggregate type
type RuleSet struct {
	Sums    []SumRule
	Uniques []UniqueRule
}

// Validate runs every rule against doc and reports all violations at once.
// It returns nil or a *shared.ValidationError.
func (rs RuleSet) Validate(doc Document) error {
	verr := shared.NewValidationError()
	for _, rule := range rs.Sums {
		if msg := rule.check(doc); msg != "" {
			verr.Add(msg)
		}
	}
	for _, rule := range rs.Uniques {
		for _, msg := range rule.check(doc) {
			verr.Add(msg)
		}
	}
	return verr.OrNil()
}

func (r SumRule) check(doc Document) string {
	total, ok := doc.Totals[r.Total]
	if !ok {
		return fmt.Sprintf("%s is required", r.Total)
	}
	if !r.Convert {
		sum := decimal.Zero
		for i, line := range doc.Lines {
			v, ok := line.Values[r.LineField]
			if !ok {
				return fmt.Sprintf("details[%d].%s is required", i, r.LineField)
			}
			sum = sum.Add(v)
		}
		if !sum.Equal(total) {
			return fmt.Sprintf("sum of details %s (%s) does not match %s (%s)", r.LineField, sum, r.Total, total)
		}
		return ""
	}

	totalUnit := doc.TotalUnits[r.Total]
	canonicalTotal, err := totalUnit.ToCanonical(total)
	if err != nil {
		return fmt.Sprintf("%s: unknown unit of measure %q", r.Total, totalUnit)
	}

	sum := decimal.Zero
	for i, line := range doc.Lines {
		v, ok := line.Values[r.LineField]
		if !ok {
			return fmt.Sprintf("details[%d].%s is required", i, r.LineField)
		}
		unit := line.Units[r.LineField]
		if !unit.IsValid() {
			return fmt.Sprintf("details[%d]: unknown unit of measure %q", i, unit)
		}
		if !unit.SameFamily(totalUnit) {
			return fmt.Sprintf("details[%d]: unit %s cannot be summed into %s measured in %s", i, unit, r.Total, totalUnit)
		}
		canonical, _ := unit.ToCanonical(v)
		sum = sum.Add(canonical)
	}

	if !sum.Equal(canonicalTotal) {
		return fmt.Sprintf("sum of details %s (%s %s) does not match %s (%s %s)",
			r.LineField, sum.Div(totalUnit.Factor()), totalUnit, r.Total, total, totalUnit)
	}
	return ""
}

func (r UniqueRule) check(doc Document) []string {
	var msgs []string
	seen := make(map[uuid.UUID]bool, len(doc.Lines))
	for _, line := range doc.Lines {
		id, ok := line.Refs[r.LineRef]
		if !ok || id == uuid.Nil {
			continue
		}
		reported, dup := seen[id]
		if dup && !reported {
			msgs = append(msgs, fmt.Sprintf("details %s %s appears more than once", r.LineRef, id))
			seen[id] = true
			continue
		}
		if !dup {
			seen[id] = false
		}
	}
	return msgs
}
