package ventilation

import "github.com/offshorevent/ventcore/opening"

// ApplyOpeningStates implements spec.md §4.5's opening-state override: for
// each space whose retained path list passes through a closed opening,
// scale its ACH by 0.7 in a derived copy. The stored result's ACH map is
// left untouched.
func ApplyOpeningStates(result *Result, states map[string]opening.State) map[string]float64 {
	derived := make(map[string]float64, len(result.ACH))
	for id, ach := range result.ACH {
		derived[id] = ach
	}
	for id, paths := range result.Paths {
		if pathCrossesClosedOpening(paths, states) {
			derived[id] = derived[id] * 0.7
		}
	}
	return derived
}

func pathCrossesClosedOpening(paths []PathContribution, states map[string]opening.State) bool {
	for _, p := range paths {
		for _, oid := range p.Openings {
			if states[oid] == opening.Closed {
				return true
			}
		}
	}
	return false
}
