package signal

// Candidate is one entry of an ordered first-match list. Detect returns
// false to abstain.
type Candidate[E any, R any] struct {
	Name   string
	Detect func(E) (R, bool)
}

// FirstMatch tries candidates in order and returns the first non-abstaining
// result that qualify accepts, with the candidate's name. A nil qualify
// accepts every result. Later candidates are never evaluated once one wins.
func FirstMatch[E any, R any](evidence E, candidates []Candidate[E, R], qualify func(R) bool) (R, string, bool) {
	for _, c := range candidates {
		r, ok := c.Detect(evidence)
		if !ok {
			continue
		}
		if qualify == nil || qualify(r) {
			return r, c.Name, true
		}
	}
	var zero R
	return zero, "", false
}
