// Package signal holds the classification engine shared by phase, stack and
// workspace detection: weighted aggregation of independent votes, and the
// additive clamped accumulator used by ordered first-match detectors.
//
// Nothing in this package performs I/O or logs.
package signal

// OverrideSource records what short-circuited a verdict.
type OverrideSource string

const (
	// OverrideNone marks verdicts computed from evidence.
	OverrideNone OverrideSource = "none"
	// OverrideUser marks verdicts dictated by user configuration.
	OverrideUser OverrideSource = "user"
	// OverrideCache marks verdicts served from the result cache.
	OverrideCache OverrideSource = "cache"
)

// Vote is what an evaluator returns when it does not abstain.
type Vote[L comparable] struct {
	Label      L
	Confidence float64
	Evidence   []string
}

// Result is a Vote stamped with the evaluator's name and weight.
type Result[L comparable] struct {
	Name       string   `json:"signal_name"`
	Label      L        `json:"candidate_label"`
	Confidence float64  `json:"confidence"`
	Weight     float64  `json:"weight"`
	Evidence   []string `json:"evidence"`
}

// Verdict is the outcome of one classification run.
type Verdict[L comparable] struct {
	Label          L              `json:"label"`
	Confidence     float64        `json:"confidence"`
	Signals        []Result[L]    `json:"contributing_signals"`
	Evidence       []string       `json:"evidence"`
	OverrideSource OverrideSource `json:"override_source"`
}

// Evaluator is a named, weighted function over evidence E. Returning false
// means the evaluator abstains.
type Evaluator[E any, L comparable] struct {
	Name     string
	Weight   float64
	Evaluate func(E) (Vote[L], bool)
}

// Aggregator combines a fixed, ordered set of evaluators.
type Aggregator[E any, L comparable] struct {
	// Labels in declaration order; earlier labels win ties.
	Labels     []L
	Evaluators []Evaluator[E, L]
	// Fallback is returned when every evaluator abstains.
	Fallback Vote[L]
}

// Collect runs every evaluator and returns the non-abstaining results in
// evaluator order.
func (a *Aggregator[E, L]) Collect(evidence E) []Result[L] {
	var results []Result[L]
	for _, ev := range a.Evaluators {
		vote, ok := ev.Evaluate(evidence)
		if !ok {
			continue
		}
		results = append(results, Result[L]{
			Name:       ev.Name,
			Label:      vote.Label,
			Confidence: Clamp(vote.Confidence),
			Weight:     ev.Weight,
			Evidence:   vote.Evidence,
		})
	}
	return results
}

// Run collects results and aggregates them.
func (a *Aggregator[E, L]) Run(evidence E) Verdict[L] {
	return Aggregate(a.Labels, a.Collect(evidence), a.Fallback)
}

// Aggregate sums confidence×weight per label, normalises every label by the
// total weight of the results that fired and picks the arg-max. Ties go to
// the label declared first in labels. With no results the fallback vote is
// returned as the verdict.
func Aggregate[L comparable](labels []L, results []Result[L], fallback Vote[L]) Verdict[L] {
	if len(results) == 0 {
		return Verdict[L]{
			Label:          fallback.Label,
			Confidence:     Clamp(fallback.Confidence),
			Evidence:       append([]string(nil), fallback.Evidence...),
			OverrideSource: OverrideNone,
		}
	}

	scores := make(map[L]float64, len(labels))
	totalWeight := 0.0
	var evidence []string
	for _, r := range results {
		scores[r.Label] += r.Confidence * r.Weight
		totalWeight += r.Weight
		evidence = append(evidence, r.Evidence...)
	}

	order := labels
	for _, r := range results {
		if !containsLabel(order, r.Label) {
			order = append(append([]L(nil), order...), r.Label)
		}
	}

	best := order[0]
	bestScore := -1.0
	for _, l := range order {
		score := 0.0
		if totalWeight > 0 {
			score = scores[l] / totalWeight
		}
		if score > bestScore {
			best, bestScore = l, score
		}
	}

	return Verdict[L]{
		Label:          best,
		Confidence:     Clamp(bestScore),
		Signals:        results,
		Evidence:       evidence,
		OverrideSource: OverrideNone,
	}
}

// Override builds a verdict dictated entirely by one result.
func Override[L comparable](r Result[L]) Verdict[L] {
	return Verdict[L]{
		Label:          r.Label,
		Confidence:     Clamp(r.Confidence),
		Signals:        []Result[L]{r},
		Evidence:       append([]string(nil), r.Evidence...),
		OverrideSource: OverrideUser,
	}
}

func containsLabel[L comparable](labels []L, l L) bool {
	for _, x := range labels {
		if x == l {
			return true
		}
	}
	return false
}
