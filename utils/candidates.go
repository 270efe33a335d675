package utils

// Candidate is a tentative extracted value competing for a single field.
// Evidence keeps the source line so callers can log why a value was chosen.
type Candidate struct {
	Value    string
	Evidence string
	Priority int
}

// TieBreak selects among candidates that share the winning priority.
type TieBreak int

const (
	// TieBreakFirst keeps the candidate seen earliest in document order.
	TieBreakFirst TieBreak = iota
	// TieBreakMostFrequent keeps the value repeated most often at the
	// winning priority; frequency ties fall back to document order.
	TieBreakMostFrequent
)

// Rank reduces a candidate pool to a single winner. Higher priority wins
// outright; equal-priority ties are resolved by the given strategy. The
// framework knows nothing about amounts or dates, only the triple.
func Rank(candidates []Candidate, tb TieBreak) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := candidates[0].Priority
	for _, c := range candidates[1:] {
		if c.Priority > best {
			best = c.Priority
		}
	}

	var top []Candidate
	for _, c := range candidates {
		if c.Priority == best {
			top = append(top, c)
		}
	}

	if tb == TieBreakMostFrequent && len(top) > 1 {
		counts := make(map[string]int, len(top))
		for _, c := range top {
			counts[c.Value]++
		}
		winner := top[0]
		for _, c := range top[1:] {
			if counts[c.Value] > counts[winner.Value] {
				winner = c
			}
		}
		return winner, true
	}

	return top[0], true
}
