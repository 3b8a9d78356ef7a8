package problem

import "lukechampine.com/frand"

// PickTieBreak returns a uniformly random element of candidates. The
// driver's pair-scheduling heuristic (spec.md §9) is a pure performance
// ordering with no effect on correctness, so when several candidate pairs
// are tied on score it breaks the tie randomly rather than favouring
// whichever pair happens to sort first.
func PickTieBreak[T any](candidates []T) T {
	return candidates[frand.Intn(len(candidates))]
}
