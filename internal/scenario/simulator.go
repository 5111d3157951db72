package scenario

import (
	"github.com/rshade/carbonlens/internal/carbon"
)

// Calculator computes a footprint breakdown. *carbon.Calculator implements it.
type Calculator interface {
	Calculate(input carbon.FootprintInput) (carbon.EmissionBreakdown, error)
}

// Result is the outcome of a scenario simulation. Reduction is Before - After
// and is negative when the actions increase emissions.
type Result struct {
	Before    float64 `json:"before"`
	After     float64 `json:"after"`
	Reduction float64 `json:"reduction"`

	// ReductionPercent is Reduction as a percentage of Before, or 0 when Before is 0.
	ReductionPercent float64 `json:"reduction_percent"`

	BaselineBreakdown carbon.EmissionBreakdown `json:"baseline_breakdown"`
	ModifiedBreakdown carbon.EmissionBreakdown `json:"modified_breakdown"`
	ModifiedInput     carbon.FootprintInput    `json:"modified_input"`
}

// Simulator evaluates what-if scenarios. It is stateless and safe for
// concurrent use.
type Simulator struct {
	calc Calculator
}

// NewSimulator creates a simulator backed by calc.
func NewSimulator(calc Calculator) *Simulator {
	return &Simulator{calc: calc}
}

// Simulate applies actions to baseline in order and reports the change in
// total emissions:
//  1. before = Calculate(baseline).Total
//  2. modified = left fold of Apply over actions
//  3. after = Calculate(modified).Total
//  4. reduction = before - after
//
// Errors from the calculator or the action model are returned unchanged.
// An empty action list yields a zero reduction.
func (s *Simulator) Simulate(baseline carbon.FootprintInput, actions []Action) (Result, error) {
	before, err := s.calc.Calculate(baseline)
	if err != nil {
		return Result{}, err
	}

	modified, err := ApplyAll(baseline, actions)
	if err != nil {
		return Result{}, err
	}

	after, err := s.calc.Calculate(modified)
	if err != nil {
		return Result{}, err
	}

	reduction := before.Total - after.Total
	percent := 0.0
	if before.Total != 0 {
		percent = reduction / before.Total * 100
	}

	return Result{
		Before:            before.Total,
		After:             after.Total,
		Reduction:         reduction,
		ReductionPercent:  percent,
		BaselineBreakdown: before,
		ModifiedBreakdown: after,
		ModifiedInput:     modified,
	}, nil
}
