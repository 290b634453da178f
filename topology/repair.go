package topology

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventlog"
)

const repairOpeningID = "repair_opening"
const repairWeight = 2.0

// repair implements spec.md §4.4 step 4: any connected component not
// reachable from the exterior gets a synthetic edge from its
// largest-volume space to the exterior.
func (t *Graph) repair(volumeOf map[string]float64) error {
	components := topo.ConnectedComponents(t.g)

	exteriorGID, ok := t.idOf[space.ExteriorID]
	if !ok {
		return fmt.Errorf("exterior node missing")
	}

	var mainIdx = -1
	for i, comp := range components {
		for _, n := range comp {
			if n.ID() == exteriorGID {
				mainIdx = i
				break
			}
		}
		if mainIdx != -1 {
			break
		}
	}
	if mainIdx == -1 {
		return fmt.Errorf("exterior node not present in any component")
	}

	// Deterministic order: sort components by their smallest member ID.
	type comp struct {
		ids []string
	}
	var others []comp
	for i, c := range components {
		if i == mainIdx {
			continue
		}
		ids := make([]string, 0, len(c))
		for _, n := range c {
			ids = append(ids, t.nameOf[n.ID()])
		}
		sort.Strings(ids)
		others = append(others, comp{ids: ids})
	}
	sort.Slice(others, func(i, j int) bool {
		if len(others[i].ids) == 0 || len(others[j].ids) == 0 {
			return len(others[i].ids) > len(others[j].ids)
		}
		return others[i].ids[0] < others[j].ids[0]
	})

	for _, c := range others {
		largest := pickLargestVolume(c.ids, volumeOf)
		if largest == "" {
			continue
		}
		t.log.With(ventlog.F("component", c.ids), ventlog.F("repairSpace", largest)).Warnf("repairing disconnected component via %s -> %s", largest, space.ExteriorID)

		key := edgeKey(largest, space.ExteriorID)
		t.edges[key] = &Edge{
			A:        key[0],
			B:        key[1],
			Weight:   repairWeight,
			Openings: []string{repairOpeningID},
			Type:     EdgeRepair,
			IsRepair: true,
		}
		t.setWeightedEdge(largest, space.ExteriorID, repairWeight)
	}

	// Repair changes graph structure; centrality reflects the repaired
	// topology, matching the spec's "subsequent analyses must treat repair
	// edges identically to real edges."
	t.computeCentrality()
	return nil
}

func pickLargestVolume(ids []string, volumeOf map[string]float64) string {
	best := ""
	bestVol := -1.0
	for _, id := range ids {
		v, ok := volumeOf[id]
		if !ok {
			continue
		}
		if v > bestVol {
			bestVol = v
			best = id
		}
	}
	return best
}
