package topology

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/offshorevent/ventcore/space"
)

// PathResult is one weighted simple path between two graph nodes.
type PathResult struct {
	Nodes    []string
	Weight   float64
	Openings []string
}

// ShortestPathToExterior implements spec.md §4.4 step 5: up to k shortest
// weighted loopless paths from spaceID to the exterior sentinel, sorted
// ascending by summed edge weight.
func (t *Graph) ShortestPathToExterior(spaceID string, k int) []PathResult {
	s := t.nodeOf(spaceID)
	dst := t.nodeOf(space.ExteriorID)
	if s == nil || dst == nil || k <= 0 {
		return nil
	}
	raw := path.YenKShortestPaths(t.g, k, s, dst)
	out := make([]PathResult, 0, len(raw))
	for _, nodes := range raw {
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = t.nameOf[n.ID()]
		}
		out = append(out, PathResult{
			Nodes:    ids,
			Weight:   t.pathWeight(ids),
			Openings: t.pathOpenings(ids),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

func (t *Graph) pathWeight(ids []string) float64 {
	var w float64
	for i := 0; i+1 < len(ids); i++ {
		if e, ok := t.edges[edgeKey(ids[i], ids[i+1])]; ok {
			w += e.Weight
		}
	}
	return w
}

func (t *Graph) pathOpenings(ids []string) []string {
	var out []string
	for i := 0; i+1 < len(ids); i++ {
		if e, ok := t.edges[edgeKey(ids[i], ids[i+1])]; ok {
			out = append(out, e.Openings...)
		}
	}
	return out
}

// IsolatedSpaces returns any non-exterior node still unreachable from the
// exterior. Empty by construction once the repair pass has run (spec.md
// §4.4 step 5), retained as an explicit invariant check.
func (t *Graph) IsolatedSpaces() []string {
	exterior := t.nodeOf(space.ExteriorID)
	if exterior == nil {
		return t.Nodes()
	}
	reached := make(map[int64]bool)
	queue := []int64{exterior.ID()}
	reached[exterior.ID()] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		to := t.g.From(cur)
		for to.Next() {
			nid := to.Node().ID()
			if !reached[nid] {
				reached[nid] = true
				queue = append(queue, nid)
			}
		}
	}
	var isolated []string
	for id, gid := range t.idOf {
		if id == space.ExteriorID {
			continue
		}
		if !reached[gid] {
			isolated = append(isolated, id)
		}
	}
	sort.Strings(isolated)
	return isolated
}

// CriticalConnections implements spec.md §4.4 step 5: the top-10 edges by
// edge betweenness.
func (t *Graph) CriticalConnections() []*Edge {
	eb := network.EdgeBetweenness(t.g)
	type scored struct {
		key   [2]string
		score float64
	}
	var scores []scored
	for pair, s := range eb {
		a, aok := t.nameOf[pair[0]]
		b, bok := t.nameOf[pair[1]]
		if !aok || !bok {
			continue
		}
		scores = append(scores, scored{key: edgeKey(a, b), score: s})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].key[0]+scores[i].key[1] < scores[j].key[0]+scores[j].key[1]
	})

	n := 10
	if len(scores) < n {
		n = len(scores)
	}
	out := make([]*Edge, 0, n)
	for _, s := range scores[:n] {
		if e, ok := t.edges[s.key]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ResilienceScore implements spec.md §4.4 step 5: probes removal of the
// top three critical edges and reports 1/(1+delta), where delta is the
// resulting increase in connected-component count.
func (t *Graph) ResilienceScore() float64 {
	before := len(topo.ConnectedComponents(t.g))

	critical := t.CriticalConnections()
	n := 3
	if len(critical) < n {
		n = len(critical)
	}
	removed := critical[:n]

	for _, e := range removed {
		ua, ub := t.idOf[e.A], t.idOf[e.B]
		t.g.RemoveEdge(ua, ub)
	}
	after := len(topo.ConnectedComponents(t.g))
	for _, e := range removed {
		ua, ub := t.idOf[e.A], t.idOf[e.B]
		t.g.SetWeightedEdge(t.g.NewWeightedEdge(simple.Node(ua), simple.Node(ub), e.Weight))
	}

	delta := after - before
	if delta < 0 {
		delta = 0
	}
	return 1.0 / (1.0 + float64(delta))
}
