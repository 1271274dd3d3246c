// Package phase classifies a project's development maturity as prototype,
// mvp or production and maps it to a review rigor level.
//
// Classification is a weighted vote over six independent signals (version
// number, git history, tests, CI/CD, documentation, layout). A well-formed
// .claude/phase.yml overrides every signal.
package phase

import (
	"strings"

	"adaptive/internal/signal"
)

// Phase is a development maturity label.
type Phase string

const (
	Prototype  Phase = "prototype"
	MVP        Phase = "mvp"
	Production Phase = "production"
)

// Phases lists every label in declaration order. Earlier labels win ties.
var Phases = []Phase{Prototype, MVP, Production}

var rigor = map[Phase]int{
	Prototype:  3,
	MVP:        6,
	Production: 10,
}

var descriptions = map[Phase]string{
	Prototype:  `Prototype phase - Focus on "Does it work?" with light review`,
	MVP:        `MVP phase - Focus on "Is it secure?" with moderate review`,
	Production: `Production phase - Focus on "Is it perfect?" with strict review`,
}

// Parse lower-cases s and reports whether it names a phase.
func Parse(s string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	_, ok := rigor[p]
	return p, ok
}

// Rigor returns the review strictness on a 1-10 scale.
func (p Phase) Rigor() int {
	return rigor[p]
}

// Description returns a one-line summary of the review focus.
func (p Phase) Description() string {
	return descriptions[p]
}

func (p Phase) String() string { return string(p) }

// Result is the outcome of phase detection.
type Result struct {
	Phase          Phase                  `json:"phase"`
	Confidence     float64                `json:"confidence"`
	Rigor          int                    `json:"rigor"`
	Description    string                 `json:"description"`
	Indicators     []string               `json:"indicators"`
	Signals        []signal.Result[Phase] `json:"signals"`
	OverrideSource signal.OverrideSource  `json:"override_source"`
}

func newResult(v signal.Verdict[Phase]) *Result {
	signals := v.Signals
	if signals == nil {
		signals = []signal.Result[Phase]{}
	}
	indicators := v.Evidence
	if indicators == nil {
		indicators = []string{}
	}
	return &Result{
		Phase:          v.Label,
		Confidence:     v.Confidence,
		Rigor:          v.Label.Rigor(),
		Description:    v.Label.Description(),
		Indicators:     indicators,
		Signals:        signals,
		OverrideSource: v.OverrideSource,
	}
}
