package engine

// ParetoFrontier returns the names of options not dominated across the
// six dimension scores, in input order. An option is dominated when some
// other option scores at least as well on every dimension and strictly
// better on at least one. O(n^2) dominance check — fine for the option
// counts a comparison carries.
func ParetoFrontier(scores []OptionScore) []string {
	if len(scores) == 0 {
		return nil
	}
	var frontier []string
	for i := range scores {
		dominated := false
		for j := range scores {
			if i == j {
				continue
			}
			if dominates(scores[j], scores[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, scores[i].OptionName)
		}
	}
	return frontier
}

// dominates returns true if a dominates b: at least as good everywhere,
// strictly better somewhere. All six dimensions are "higher is better"
// after normalization.
func dominates(a, b OptionScore) bool {
	better := false
	for _, dim := range dimensionOrder {
		av, bv := dimensionScore(a, dim), dimensionScore(b, dim)
		if av < bv {
			return false
		}
		if av > bv {
			better = true
		}
	}
	return better
}
