// Package topology implements C4, the topology builder: it lays the
// detected spaces and openings out as a weighted undirected graph, scores
// node centrality, repairs components the exterior cannot reach, and
// answers shortest-path and resilience queries over the result.
package topology

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventlog"
)

// EdgeType distinguishes a real opening edge from a synthetic repair edge
// (spec.md §9 tagged-variant design note).
type EdgeType int

const (
	EdgeOpening EdgeType = iota
	EdgeRepair
)

func (t EdgeType) String() string {
	if t == EdgeRepair {
		return "repair"
	}
	return "opening"
}

// Edge is the graph's view of a connection between two nodes: one or more
// openings collapsed onto their minimum-weight representative (spec.md
// §4.4 step 2), or a single synthetic repair edge.
type Edge struct {
	A, B     string
	Weight   float64
	Openings []string
	Type     EdgeType
	IsRepair bool
}

// Graph is the C4 topology graph plus the centrality scores computed over
// it. Node IDs are the space IDs and the exterior sentinel; gonum's
// int64-keyed graph.Node is an internal implementation detail kept out of
// the public surface.
type Graph struct {
	cfg ventconfig.Config
	log ventlog.Logger

	g      *simple.WeightedUndirectedGraph
	idOf   map[string]int64
	nameOf map[int64]string
	edges  map[[2]string]*Edge

	centrality map[string]float64
}

// NewGraph constructs an empty topology builder bound to cfg and logger.
func NewGraph(cfg ventconfig.Config, logger ventlog.Logger) *Graph {
	if logger == nil {
		logger = ventlog.NewNopLogger()
	}
	return &Graph{
		cfg:    cfg,
		log:    logger,
		g:      simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		idOf:   make(map[string]int64),
		nameOf: make(map[int64]string),
		edges:  make(map[[2]string]*Edge),
	}
}

func edgeKey(a, b string) [2]string {
	if a <= b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func (t *Graph) ensureNode(id string) int64 {
	if gid, ok := t.idOf[id]; ok {
		return gid
	}
	gid := int64(len(t.idOf))
	t.idOf[id] = gid
	t.nameOf[gid] = id
	t.g.AddNode(simple.Node(gid))
	return gid
}

// Build runs spec.md §4.4 steps 1-4: node creation, opening-edge
// collapsing, centrality scoring, and the repair pass. spaces and
// openings must already carry their deterministic IDs (C2/C3 output).
func (t *Graph) Build(spaces []*space.Space, openings []*opening.Opening) error {
	t.ensureNode(space.ExteriorID)

	sorted := make([]*space.Space, len(spaces))
	copy(sorted, spaces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	volumeOf := make(map[string]float64, len(sorted))
	for _, sp := range sorted {
		t.ensureNode(sp.ID)
		volumeOf[sp.ID] = sp.Volume
	}

	sortedOpenings := make([]*opening.Opening, len(openings))
	copy(sortedOpenings, openings)
	sort.Slice(sortedOpenings, func(i, j int) bool { return sortedOpenings[i].ID < sortedOpenings[j].ID })

	for _, op := range sortedOpenings {
		u, v := op.EndpointA, op.EndpointB
		t.ensureNode(u)
		t.ensureNode(v)
		if u == v {
			continue
		}
		w := 10.0
		if op.Area > 0 {
			w = 1.0 / op.Area
		}
		key := edgeKey(u, v)
		if e, ok := t.edges[key]; ok {
			e.Openings = append(e.Openings, op.ID)
			sort.Strings(e.Openings)
			if w < e.Weight {
				e.Weight = w
			}
			t.setWeightedEdge(u, v, e.Weight)
			continue
		}
		e := &Edge{A: key[0], B: key[1], Weight: w, Openings: []string{op.ID}, Type: EdgeOpening}
		t.edges[key] = e
		t.setWeightedEdge(u, v, w)
	}

	t.computeCentrality()
	if err := t.repair(volumeOf); err != nil {
		return fmt.Errorf("topology repair: %w", err)
	}
	return nil
}

func (t *Graph) setWeightedEdge(a, b string, weight float64) {
	ua, ub := t.idOf[a], t.idOf[b]
	t.g.SetWeightedEdge(t.g.NewWeightedEdge(simple.Node(ua), simple.Node(ub), weight))
}

// Nodes returns every node ID currently in the graph, sorted.
func (t *Graph) Nodes() []string {
	out := make([]string, 0, len(t.idOf))
	for id := range t.idOf {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge, sorted by (A, B).
func (t *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(t.edges))
	for _, e := range t.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// EdgeBetween returns the edge connecting a and b, if any.
func (t *Graph) EdgeBetween(a, b string) (*Edge, bool) {
	e, ok := t.edges[edgeKey(a, b)]
	return e, ok
}

func (t *Graph) nodeOf(id string) graph.Node {
	gid, ok := t.idOf[id]
	if !ok {
		return nil
	}
	return simple.Node(gid)
}
