// Package insights checks AI-written financial insights against recomputed
// figures and rewrites the ones whose claims are wrong.
//
// Claims are detected by keyword triggers on free text, so each kind of claim is
// a Checker that can be tested on its own; hosts add their own with NewValidator.
package insights

import (
	"github.com/castlemilk/pfinance/automation/internal/model"
)

// Correction records that the insight at Index was rewritten by Checker.
type Correction struct {
	Index    int
	Checker  string
	Original model.Insight
}

// Validator runs an ordered list of claim checkers over insights.
type Validator struct {
	checkers []Checker
}

// NewValidator creates a Validator with the default checkers followed by extra.
func NewValidator(extra ...Checker) *Validator {
	return &Validator{checkers: append(DefaultCheckers(), extra...)}
}

// Validate returns insights with every wrong claim replaced. Order and length
// are preserved; insights no checker objects to pass through unchanged.
func (v *Validator) Validate(insights []model.Insight, in Inputs) []model.Insight {
	out, _ := v.Check(insights, in)
	return out
}

// Check is Validate plus the list of corrections applied.
func (v *Validator) Check(insights []model.Insight, in Inputs) ([]model.Insight, []Correction) {
	facts := ComputeFacts(in)
	out := make([]model.Insight, len(insights))
	var corrections []Correction

	for i, ins := range insights {
		out[i] = ins
		for _, c := range v.checkers {
			if c.Trigger == nil || c.Fix == nil || !c.Trigger(ins) {
				continue
			}
			if fixed, rewritten := c.Fix(facts, ins); rewritten {
				out[i] = fixed
				corrections = append(corrections, Correction{Index: i, Checker: c.Name, Original: ins})
				break
			}
		}
	}

	return out, corrections
}
