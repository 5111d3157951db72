// Package recommend ranks candidate behaviour changes by the emission
// reduction each would achieve on its own.
package recommend

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/scenario"
)

const (
	// highImpactPercent is the reduction share at or above which a recommendation is high priority.
	highImpactPercent = 10.0
	// mediumImpactPercent is the reduction share at or above which a recommendation is medium priority.
	mediumImpactPercent = 3.0
)

// Priority indicates how much a recommendation would cut the footprint.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one ranked candidate action.
type Recommendation struct {
	ID               string          `json:"id"`
	Action           scenario.Action `json:"action"`
	Reduction        float64         `json:"reduction"`
	ReductionPercent float64         `json:"reduction_percent"`
	Priority         Priority        `json:"priority"`
	Description      string          `json:"description"`
}

// DefaultMenu returns the fixed candidate actions in declared order.
// Every action here uses a recognised enum value, so evaluating the menu
// against a baseline that calculates successfully cannot fail.
func DefaultMenu() []scenario.Action {
	return []scenario.Action{
		scenario.ReduceElectricity(10),
		scenario.ReduceElectricity(20),
		scenario.ChangeTransportMode(carbon.TransportPublicTransport),
		scenario.ChangeDiet(carbon.DietVeg),
	}
}

// Ranker evaluates candidate actions with a Simulator.
type Ranker struct {
	sim    *scenario.Simulator
	logger zerolog.Logger
}

// NewRanker creates a ranker. The logger receives one summary line per ranking.
func NewRanker(sim *scenario.Simulator, logger zerolog.Logger) *Ranker {
	return &Ranker{sim: sim, logger: logger}
}

// Rank evaluates DefaultMenu against baseline.
func (r *Ranker) Rank(baseline carbon.FootprintInput) ([]Recommendation, error) {
	return r.RankActions(baseline, DefaultMenu())
}

// RankActions simulates each candidate on its own (never combined) and
// returns one recommendation per candidate, sorted by descending reduction.
// Ties keep candidate order: the sort is stable and there is no secondary key.
//
// The first failing simulation fails the whole ranking; no candidate is
// silently dropped. Callers passing their own candidates get the same policy,
// so an unknown mode or diet among them fails the ranking.
func (r *Ranker) RankActions(baseline carbon.FootprintInput, candidates []scenario.Action) ([]Recommendation, error) {
	start := time.Now()

	recommendations := make([]Recommendation, 0, len(candidates))
	for _, action := range candidates {
		result, err := r.sim.Simulate(baseline, []scenario.Action{action})
		if err != nil {
			r.logger.Debug().
				Err(err).
				Str("action", string(action.Type)).
				Msg("candidate simulation failed")
			return nil, err
		}

		recommendations = append(recommendations, Recommendation{
			ID:               uuid.New().String(),
			Action:           action,
			Reduction:        result.Reduction,
			ReductionPercent: result.ReductionPercent,
			Priority:         priorityFor(result.ReductionPercent),
			Description:      action.String(),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Reduction > recommendations[j].Reduction
	})

	// Summary logging (one line per ranking, not per candidate)
	event := r.logger.Info().
		Str("operation", "Rank").
		Int("candidate_count", len(candidates)).
		Int64("duration_ms", time.Since(start).Milliseconds())
	if len(recommendations) > 0 {
		event = event.
			Str("best_action", recommendations[0].Description).
			Float64("best_reduction", recommendations[0].Reduction)
	}
	event.Msg("recommendations ranked")

	return recommendations, nil
}

// priorityFor maps a reduction share of the baseline to a Priority.
func priorityFor(reductionPercent float64) Priority {
	switch {
	case reductionPercent >= highImpactPercent:
		return PriorityHigh
	case reductionPercent >= mediumImpactPercent:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
