package topology

import (
	"gonum.org/v1/gonum/graph/network"
)

// computeCentrality implements spec.md §4.4 step 3: betweenness, closeness,
// and degree, each normalized by its max over the graph, combined as
// 0.4*betweenness + 0.4*closeness + 0.2*degree.
func (t *Graph) computeCentrality() {
	betweenness := network.Betweenness(t.g)
	closeness := network.Closeness(t.g)
	degree := make(map[int64]float64, len(t.idOf))
	for _, gid := range t.idOf {
		degree[gid] = float64(t.g.From(gid).Len())
	}

	maxB := maxOf(betweenness)
	maxC := maxOf(closeness)
	maxD := maxOf(degree)

	t.centrality = make(map[string]float64, len(t.idOf))
	for id, gid := range t.idOf {
		nb := normalize(betweenness[gid], maxB)
		nc := normalize(closeness[gid], maxC)
		nd := normalize(degree[gid], maxD)
		t.centrality[id] = 0.4*nb + 0.4*nc + 0.2*nd
	}
}

func maxOf(m map[int64]float64) float64 {
	max := 0.0
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	return max
}

func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

// Centrality returns the combined centrality score for a node ID, or 0 if
// the node doesn't exist or centrality hasn't been computed yet.
func (t *Graph) Centrality(id string) float64 {
	return t.centrality[id]
}
