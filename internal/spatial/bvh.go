// Package spatial adapts the teacher's BVH-builder and spatial-hash-grid
// idioms (voxelrt/rt/bvh/builder.go, mod_spatialgrid.go in the teacher
// repo) into the two geometric indices this pipeline needs: a triangle BVH
// for point-in-mesh ray-parity queries (C1), and a hash-grid nearest
// neighbour index standing in for the spec's "KD-tree over space
// centroids" (C2 §4.2).
package spatial

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// triItem is one triangle's bounds, used only while building the tree.
type triItem struct {
	min, max mgl32.Vec3
	centroid mgl32.Vec3
	index    int
}

// bvhNode mirrors the teacher's BVHNode layout but keeps Go-native types
// instead of a GPU byte layout, since nothing here crosses to a shader.
type bvhNode struct {
	min, max        mgl32.Vec3
	left, right     int32
	leafFirst       int32
	leafCount       int32
}

// TriangleBVH accelerates ray/triangle intersection counting for
// point-in-mesh classification.
type TriangleBVH struct {
	nodes []bvhNode
	// order[i] gives the original triangle index stored at leaf slot i.
	order []int
	verts []mgl32.Vec3
	faces [][3]uint32
}

// BuildTriangleBVH constructs a BVH over the mesh's triangles.
func BuildTriangleBVH(verts []mgl32.Vec3, faces [][3]uint32) *TriangleBVH {
	items := make([]triItem, len(faces))
	for i, f := range faces {
		a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
		mn := mgl32.Vec3{minOf3(a.X(), b.X(), c.X()), minOf3(a.Y(), b.Y(), c.Y()), minOf3(a.Z(), b.Z(), c.Z())}
		mx := mgl32.Vec3{maxOf3(a.X(), b.X(), c.X()), maxOf3(a.Y(), b.Y(), c.Y()), maxOf3(a.Z(), b.Z(), c.Z())}
		items[i] = triItem{min: mn, max: mx, centroid: mn.Add(mx).Mul(0.5), index: i}
	}

	bvh := &TriangleBVH{verts: verts, faces: faces, order: make([]int, 0, len(faces))}
	if len(items) == 0 {
		return bvh
	}
	bvh.build(items)
	return bvh
}

func (b *TriangleBVH) build(items []triItem) int32 {
	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{left: -1, right: -1, leafFirst: -1, leafCount: 0})

	minB := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	maxB := mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, it := range items {
		minB = mgl32.Vec3{minOf2(minB.X(), it.min.X()), minOf2(minB.Y(), it.min.Y()), minOf2(minB.Z(), it.min.Z())}
		maxB = mgl32.Vec3{maxOf2(maxB.X(), it.max.X()), maxOf2(maxB.Y(), it.max.Y()), maxOf2(maxB.Z(), it.max.Z())}
	}
	b.nodes[idx].min = minB
	b.nodes[idx].max = maxB

	const leafThreshold = 4
	if len(items) <= leafThreshold {
		first := int32(len(b.order))
		for _, it := range items {
			b.order = append(b.order, it.index)
		}
		b.nodes[idx].leafFirst = first
		b.nodes[idx].leafCount = int32(len(items))
		return idx
	}

	extent := maxB.Sub(minB)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})
	mid := len(items) / 2
	left := b.build(items[:mid])
	right := b.build(items[mid:])
	b.nodes[idx].left = left
	b.nodes[idx].right = right
	return idx
}

func minOf2(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func maxOf2(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
func minOf3(a, b, c float32) float32 { return minOf2(minOf2(a, b), c) }
func maxOf3(a, b, c float32) float32 { return maxOf2(maxOf2(a, b), c) }

// rayAABB reports whether the ray hits the box, used to prune BVH traversal.
func rayAABB(origin, invDir, mn, mx mgl32.Vec3) bool {
	t1 := (mn.X() - origin.X()) * invDir.X()
	t2 := (mx.X() - origin.X()) * invDir.X()
	tmin := minOf2(t1, t2)
	tmax := maxOf2(t1, t2)

	t1 = (mn.Y() - origin.Y()) * invDir.Y()
	t2 = (mx.Y() - origin.Y()) * invDir.Y()
	tmin = maxOf2(tmin, minOf2(t1, t2))
	tmax = minOf2(tmax, maxOf2(t1, t2))

	t1 = (mn.Z() - origin.Z()) * invDir.Z()
	t2 = (mx.Z() - origin.Z()) * invDir.Z()
	tmin = maxOf2(tmin, minOf2(t1, t2))
	tmax = minOf2(tmax, maxOf2(t1, t2))

	return tmax >= maxOf2(tmin, 0)
}

// rayTriangle implements the Möller–Trumbore intersection test, returning
// the hit distance t and true on a hit with t > epsilon.
func rayTriangle(origin, dir, a, b, c mgl32.Vec3) (float32, bool) {
	const epsilon = 1e-7
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := dir.Cross(edge2)
	det := edge1.Dot(h)
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	invDet := 1.0 / det
	s := origin.Sub(a)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := invDet * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := invDet * edge2.Dot(q)
	if t <= epsilon {
		return 0, false
	}
	return t, true
}

// CountRayHits casts a ray from origin in direction dir and returns the
// number of distinct intersection points, used for ray-parity
// point-in-mesh classification (odd count => inside, for a closed manifold
// mesh). A crossing on an edge or vertex shared by several triangles is
// counted once. Deterministic for a fixed mesh and ray.
func (b *TriangleBVH) CountRayHits(origin, dir mgl32.Vec3) int {
	if len(b.nodes) == 0 {
		return 0
	}
	invDir := mgl32.Vec3{safeInv(dir.X()), safeInv(dir.Y()), safeInv(dir.Z())}
	var hits []float32
	var visit func(node int32)
	visit = func(node int32) {
		n := &b.nodes[node]
		if !rayAABB(origin, invDir, n.min, n.max) {
			return
		}
		if n.leafCount > 0 {
			for i := n.leafFirst; i < n.leafFirst+n.leafCount; i++ {
				triIdx := b.order[i]
				f := b.faces[triIdx]
				a, bb, c := b.verts[f[0]], b.verts[f[1]], b.verts[f[2]]
				if t, hit := rayTriangle(origin, dir, a, bb, c); hit {
					hits = append(hits, t)
				}
			}
			return
		}
		if n.left >= 0 {
			visit(n.left)
		}
		if n.right >= 0 {
			visit(n.right)
		}
	}
	visit(0)

	const sameHitEpsilon = 1e-4
	sort.Slice(hits, func(i, j int) bool { return hits[i] < hits[j] })
	count := 0
	for i, t := range hits {
		if i == 0 || t-hits[i-1] > sameHitEpsilon {
			count++
		}
	}
	return count
}

func safeInv(v float32) float32 {
	if v == 0 {
		return float32(math.Inf(1))
	}
	return 1.0 / v
}

// Inside classifies p as inside the mesh bounded by this BVH using
// ray-parity along the +X axis, with a hard cap on ray-test count (via the
// BVH's own pruning) so a degenerate/non-manifold mesh cannot cause an
// unbounded scan — the per-voxel test is always O(triangles near the ray).
func (b *TriangleBVH) Inside(p mgl32.Vec3) bool {
	hits := b.CountRayHits(p, mgl32.Vec3{1, 0, 0})
	return hits%2 == 1
}
