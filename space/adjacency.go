package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/internal/spatial"
)

// buildAdjacency builds a KD-tree-equivalent spatial index over space
// centroids, queries each space's neighbourhood, and confirms adjacency
// by the minimum inter-voxel-index Euclidean distance (spec.md §4.2
// step 4).
func (d *Detector) buildAdjacency(spaces []*Space) Adjacency {
	adj := NewAdjacency()
	if len(spaces) == 0 {
		return adj
	}

	byID := make(map[string]*Space, len(spaces))
	var maxDim float32
	for _, sp := range spaces {
		byID[sp.ID] = sp
		dims := sp.Dimensions()
		for _, c := range []float32{dims.X(), dims.Y(), dims.Z()} {
			if c > maxDim {
				maxDim = c
			}
		}
	}
	cellSize := maxDim
	if cellSize <= 0 {
		cellSize = float32(d.cfg.Voxelization.BaseVoxelSize)
	}
	index := spatial.NewPointIndex(cellSize)
	for _, sp := range spaces {
		index.Insert(sp.ID, sp.Centroid)
	}

	s0 := float32(d.cfg.Voxelization.BaseVoxelSize)
	checked := make(map[[2]string]struct{})
	for _, a := range spaces {
		radius := maxOfDims(a.Dimensions()) + 2*s0
		candidates := index.QueryRadius(a.Centroid, radius)
		for _, bid := range candidates {
			if bid == a.ID {
				continue
			}
			key := pairKey(a.ID, bid)
			if _, done := checked[key]; done {
				continue
			}
			checked[key] = struct{}{}
			b := byID[bid]
			if minIndexDistance(a, b) <= 1.5 {
				adj.AddEdge(a.ID, b.ID)
			}
		}
	}
	return adj
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func maxOfDims(v mgl32.Vec3) float32 {
	m := v.X()
	if v.Y() > m {
		m = v.Y()
	}
	if v.Z() > m {
		m = v.Z()
	}
	return m
}

// minIndexDistance returns the minimum Euclidean distance, in voxel-index
// units, between any voxel of a and any voxel of b.
func minIndexDistance(a, b *Space) float64 {
	best := math.MaxFloat64
	av := a.SortedVoxels()
	bv := b.SortedVoxels()
	for _, va := range av {
		for _, vb := range bv {
			dx := float64(va[0] - vb[0])
			dy := float64(va[1] - vb[1])
			dz := float64(va[2] - vb[2])
			dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if dist < best {
				best = dist
			}
			if best <= 1.0 {
				return best
			}
		}
	}
	return best
}
