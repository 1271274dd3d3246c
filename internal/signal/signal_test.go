package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

const (
	low  label = "low"
	mid  label = "mid"
	high label = "high"
)

var labels = []label{low, mid, high}

func fixed(l label, conf float64, ev ...string) func(int) (Vote[label], bool) {
	return func(int) (Vote[label], bool) {
		return Vote[label]{Label: l, Confidence: conf, Evidence: ev}, true
	}
}

func abstain(int) (Vote[label], bool) { return Vote[label]{}, false }

func TestAggregate_WeightedNormalisation(t *testing.T) {
	agg := Aggregator[int, label]{
		Labels: labels,
		Evaluators: []Evaluator[int, label]{
			{Name: "a", Weight: 0.30, Evaluate: fixed(high, 0.9, "a says high")},
			{Name: "b", Weight: 0.20, Evaluate: fixed(mid, 0.7, "b says mid")},
			{Name: "c", Weight: 0.15, Evaluate: abstain},
			{Name: "d", Weight: 0.10, Evaluate: fixed(high, 0.8, "d says high")},
		},
		Fallback: Vote[label]{Label: low, Confidence: 0.3},
	}

	v := agg.Run(0)

	// high: (0.9*0.3 + 0.8*0.1) / 0.6 = 0.35/0.6
	assert.Equal(t, high, v.Label)
	assert.InDelta(t, 0.35/0.6, v.Confidence, 1e-6)
	assert.Equal(t, OverrideNone, v.OverrideSource)
	require.Len(t, v.Signals, 3)
	assert.Equal(t, []string{"a", "b", "d"}, []string{v.Signals[0].Name, v.Signals[1].Name, v.Signals[2].Name})
	assert.Equal(t, []string{"a says high", "b says mid", "d says high"}, v.Evidence)
}

func TestAggregate_NoSignalsFallback(t *testing.T) {
	agg := Aggregator[int, label]{
		Labels:     labels,
		Evaluators: []Evaluator[int, label]{{Name: "a", Weight: 0.5, Evaluate: abstain}},
		Fallback:   Vote[label]{Label: low, Confidence: 0.3, Evidence: []string{"nothing found"}},
	}

	v := agg.Run(0)
	assert.Equal(t, low, v.Label)
	assert.Equal(t, 0.3, v.Confidence)
	assert.Empty(t, v.Signals)
	assert.Equal(t, []string{"nothing found"}, v.Evidence)
}

func TestAggregate_TieGoesToFirstDeclaredLabel(t *testing.T) {
	results := []Result[label]{
		{Name: "x", Label: high, Confidence: 0.5, Weight: 0.2},
		{Name: "y", Label: mid, Confidence: 0.5, Weight: 0.2},
	}

	v := Aggregate(labels, results, Vote[label]{Label: low})
	assert.Equal(t, mid, v.Label, "mid is declared before high")
	assert.InDelta(t, 0.25, v.Confidence, 1e-9)
}

func TestAggregate_ConfidenceBounds(t *testing.T) {
	results := []Result[label]{
		{Name: "x", Label: high, Confidence: 1, Weight: 0.3},
		{Name: "y", Label: high, Confidence: 1, Weight: 0.7},
	}
	v := Aggregate(labels, results, Vote[label]{Label: low})
	assert.Equal(t, 1.0, v.Confidence)

	clamped := Aggregator[int, label]{
		Labels:     labels,
		Evaluators: []Evaluator[int, label]{{Name: "z", Weight: 1, Evaluate: fixed(mid, 1.7)}},
	}
	assert.Equal(t, 1.0, clamped.Run(0).Confidence)
}

func TestAggregate_UndeclaredLabelStillCounted(t *testing.T) {
	results := []Result[label]{{Name: "x", Label: "other", Confidence: 0.9, Weight: 0.5}}
	v := Aggregate(labels, results, Vote[label]{Label: low})
	assert.Equal(t, label("other"), v.Label)
}

func TestOverride(t *testing.T) {
	r := Result[label]{Name: "user", Label: high, Confidence: 1, Weight: 1, Evidence: []string{"user says high"}}
	v := Override(r)
	assert.Equal(t, high, v.Label)
	assert.Equal(t, 1.0, v.Confidence)
	assert.Equal(t, OverrideUser, v.OverrideSource)
	assert.Equal(t, []string{"user says high"}, v.Evidence)
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("package.json exists", 0.1)
	acc.Add("'next' dependency", 0.4)
	acc.Add("next.config.js", 0.3)
	acc.Add("app/ directory (App Router)", 0.2)
	acc.Note("TypeScript detected")

	assert.Equal(t, 1.0, acc.Confidence())
	assert.Equal(t, []string{
		"package.json exists: +0.1",
		"'next' dependency: +0.4",
		"next.config.js: +0.3",
		"app/ directory (App Router): +0.2",
		"TypeScript detected",
	}, acc.Evidence())
}

func TestAccumulator_ClampAndNoise(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("a", 0.1)
	acc.Add("b", 0.2)
	acc.Add("c", 0.2)
	assert.Equal(t, 0.5, acc.Confidence(), "float noise must not lift 0.5 over a strict floor")

	acc.Subtract("competing framework", 0.9)
	assert.Equal(t, 0.0, acc.Confidence())
	assert.Contains(t, acc.Evidence(), "competing framework: -0.9")

	big := NewAccumulator()
	for i := 0; i < 5; i++ {
		big.Add("x", 0.4)
	}
	assert.Equal(t, 1.0, big.Confidence())
}

func TestFirstMatch(t *testing.T) {
	var called []string
	cand := func(name string, conf float64, ok bool) Candidate[int, float64] {
		return Candidate[int, float64]{Name: name, Detect: func(int) (float64, bool) {
			called = append(called, name)
			return conf, ok
		}}
	}
	overFloor := func(c float64) bool { return c > 0.5 }

	r, name, ok := FirstMatch(0, []Candidate[int, float64]{
		cand("abstains", 0, false),
		cand("weak", 0.5, true),
		cand("strong", 0.8, true),
		cand("never", 0.9, true),
	}, overFloor)

	assert.True(t, ok)
	assert.Equal(t, "strong", name)
	assert.Equal(t, 0.8, r)
	assert.Equal(t, []string{"abstains", "weak", "strong"}, called)

	_, _, ok = FirstMatch(0, []Candidate[int, float64]{cand("weak", 0.5, true)}, overFloor)
	assert.False(t, ok)

	_, name, ok = FirstMatch(0, []Candidate[int, float64]{cand("any", 0.1, true)}, nil)
	assert.True(t, ok)
	assert.Equal(t, "any", name)
}
