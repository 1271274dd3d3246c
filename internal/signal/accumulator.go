package signal

import (
	"math"

	"adaptive/internal/output"
)

// Clamp bounds v to [0, 1] and rounds away float noise below 1e-6, so that
// 0.1+0.2+0.2 compares equal to 0.5.
func Clamp(v float64) float64 {
	v = math.Round(v*1e6) / 1e6
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Accumulator adds fixed increments for independent positive indicators and
// records one "<match>: +<increment>" evidence line per indicator.
type Accumulator struct {
	total    float64
	evidence []string
}

// NewAccumulator starts at zero.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add credits inc for match.
func (a *Accumulator) Add(match string, inc float64) {
	a.total += inc
	a.evidence = append(a.evidence, match+": +"+formatIncrement(inc))
}

// Subtract debits dec for disqualifying evidence.
func (a *Accumulator) Subtract(match string, dec float64) {
	a.total -= dec
	a.evidence = append(a.evidence, match+": -"+formatIncrement(dec))
}

// Note records evidence that carries no score.
func (a *Accumulator) Note(line string) {
	a.evidence = append(a.evidence, line)
}

// Confidence returns the clamped total.
func (a *Accumulator) Confidence() float64 {
	return Clamp(a.total)
}

// Evidence returns the recorded lines in order.
func (a *Accumulator) Evidence() []string {
	return append([]string(nil), a.evidence...)
}

func formatIncrement(v float64) string {
	return output.FormatFloat(v)
}
