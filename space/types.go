// Package space implements C2, the space detector: it identifies enclosed
// interior volumes in an occupancy field as labelled 3D components,
// merges near-adjacent fragments, and derives the space-adjacency graph.
package space

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/meshmodel"
)

// ExteriorID is the distinguished graph node label representing outdoor
// air (spec.md glossary: "exterior sentinel").
const ExteriorID = "space_exterior"

// Index3 is a voxel index triple.
type Index3 [3]int

// Less gives voxel indices a deterministic lexicographic order, used
// everywhere a space's voxel set must be iterated reproducibly.
func (a Index3) Less(b Index3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// Type tags a Space's classification (spec.md §9's tagged-variant design
// note, replacing a string-keyed dictionary).
type Type int

const (
	TypeUnknown Type = iota
	TypeMerged
	TypeCorridor
)

func (t Type) String() string {
	switch t {
	case TypeMerged:
		return "merged"
	case TypeCorridor:
		return "corridor"
	default:
		return "unknown"
	}
}

// Space is a labelled connected component of the occupancy field's
// complement (spec.md §3).
type Space struct {
	ID          string
	Voxels      map[Index3]struct{}
	Volume      float64
	Bounds      meshmodel.AABB
	Centroid    mgl32.Vec3
	Type        Type
	MergedFrom  []string
	Traversable bool
}

// SortedVoxels returns the space's voxel indices in deterministic
// lexicographic order.
func (s *Space) SortedVoxels() []Index3 {
	out := make([]Index3, 0, len(s.Voxels))
	for idx := range s.Voxels {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Dimensions returns the space's world-space AABB extents.
func (s *Space) Dimensions() mgl32.Vec3 {
	return s.Bounds.Dimensions()
}

// Adjacency is the undirected space-adjacency graph, keyed by space ID.
type Adjacency map[string]map[string]struct{}

// NewAdjacency returns an empty adjacency graph.
func NewAdjacency() Adjacency { return make(Adjacency) }

// AddEdge records an undirected adjacency between a and b (a != b).
func (adj Adjacency) AddEdge(a, b string) {
	if a == b {
		return
	}
	if adj[a] == nil {
		adj[a] = make(map[string]struct{})
	}
	if adj[b] == nil {
		adj[b] = make(map[string]struct{})
	}
	adj[a][b] = struct{}{}
	adj[b][a] = struct{}{}
}

// Neighbors returns id's adjacent space IDs in sorted order.
func (adj Adjacency) Neighbors(id string) []string {
	out := make([]string, 0, len(adj[id]))
	for n := range adj[id] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// HasEdge reports whether a and b are adjacent.
func (adj Adjacency) HasEdge(a, b string) bool {
	_, ok := adj[a][b]
	return ok
}
