package voxel

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/internal/spatial"
)

const (
	maxOctreeDepth = 6
)

// octreeNode is a cube cell in the sparse occupancy representation emitted
// when the dense grid would exceed the memory budget (spec.md §4.1,
// "Octree strategy").
type octreeNode struct {
	center   mgl32.Vec3
	halfSize float32
	children [8]*octreeNode
	leaf     bool
	occupied bool
}

// OctreeField is the sparse Occupancy implementation. It still answers
// per-voxel-index queries (so C2/C3 can stay index-addressed) but never
// materializes an Nx*Ny*Nz array: At() descends the tree in O(depth).
type OctreeField struct {
	root     *octreeNode
	shape    [3]int
	origin   mgl32.Vec3
	baseSize float64
	minSize  float64
}

// BuildOctree recursively subdivides a cube enclosing [bmin, bmax] using
// the corner-classification rule from spec.md §4.1: a child is a leaf once
// its eight corners agree on inside/outside, or depth >= 6, or its edge
// <= minSize. shape/origin/baseSize are carried through only so index
// queries line up with what a dense grid would have produced for the same
// mesh and base voxel size.
func BuildOctree(bvh *spatial.TriangleBVH, bmin, bmax mgl32.Vec3, shape [3]int, baseSize, minSize float64) *OctreeField {
	dims := bmax.Sub(bmin)
	edge := maxOf3f(dims.X(), dims.Y(), dims.Z())
	center := bmin.Add(bmax).Mul(0.5)

	root := buildOctreeNode(bvh, center, edge/2, 0, float32(minSize))
	return &OctreeField{root: root, shape: shape, origin: bmin, baseSize: baseSize, minSize: minSize}
}

func buildOctreeNode(bvh *spatial.TriangleBVH, center mgl32.Vec3, halfSize float32, depth int, minSize float32) *octreeNode {
	node := &octreeNode{center: center, halfSize: halfSize}

	corners := cubeCorners(center, halfSize)
	allIn, allOut := true, true
	for _, c := range corners {
		if bvh.Inside(c) {
			allOut = false
		} else {
			allIn = false
		}
	}

	if allIn || allOut || depth >= maxOctreeDepth || 2*halfSize <= minSize {
		node.leaf = true
		node.occupied = allIn || (!allOut && classifyCenter(bvh, center))
		return node
	}

	childHalf := halfSize / 2
	for i := 0; i < 8; i++ {
		offset := mgl32.Vec3{
			signOf(i, 0) * halfSize,
			signOf(i, 1) * halfSize,
			signOf(i, 2) * halfSize,
		}
		node.children[i] = buildOctreeNode(bvh, center.Add(offset), childHalf, depth+1, minSize)
	}
	return node
}

func classifyCenter(bvh *spatial.TriangleBVH, center mgl32.Vec3) bool {
	return bvh.Inside(center)
}

func signOf(i, axis int) float32 {
	if (i>>axis)&1 == 0 {
		return -0.5
	}
	return 0.5
}

func cubeCorners(center mgl32.Vec3, halfSize float32) [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		out[i] = mgl32.Vec3{
			center.X() + signOf(i, 0)*2*halfSize,
			center.Y() + signOf(i, 1)*2*halfSize,
			center.Z() + signOf(i, 2)*2*halfSize,
		}
	}
	return out
}

func maxOf3f(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func (f *OctreeField) Shape() [3]int          { return f.shape }
func (f *OctreeField) Origin() mgl32.Vec3     { return f.origin }
func (f *OctreeField) BaseVoxelSize() float64 { return f.baseSize }
func (f *OctreeField) Strategy() string       { return "octree" }

func (f *OctreeField) At(i, j, k int) bool {
	if !InBounds(f.shape, i, j, k) {
		return false
	}
	p := WorldCenter(f, i, j, k)
	n := f.descend(p)
	if n == nil {
		return false
	}
	return n.occupied
}

func (f *OctreeField) RefinedSize(i, j, k int) float64 {
	if !InBounds(f.shape, i, j, k) {
		return f.baseSize
	}
	p := WorldCenter(f, i, j, k)
	n := f.descend(p)
	if n == nil {
		return f.baseSize
	}
	size := float64(2 * n.halfSize)
	if size < f.baseSize {
		return f.minSize
	}
	return f.baseSize
}

func (f *OctreeField) descend(p mgl32.Vec3) *octreeNode {
	node := f.root
	for node != nil && !node.leaf {
		idx := 0
		if p.X() >= node.center.X() {
			idx |= 1
		}
		if p.Y() >= node.center.Y() {
			idx |= 2
		}
		if p.Z() >= node.center.Z() {
			idx |= 4
		}
		node = node.children[idx]
	}
	return node
}

// EstimateDenseBytes estimates the memory a dense grid of shape would
// occupy: an occupancy bool array plus a parallel float64 refined-size
// array (spec.md §4.1 step 2: "Nx*Ny*Nz * c bytes").
func EstimateDenseBytes(shape [3]int) uint64 {
	n := uint64(shape[0]) * uint64(shape[1]) * uint64(shape[2])
	const bytesPerVoxel = 1 + 8 // bool + float64 refined size
	return n * bytesPerVoxel
}

// AvailablePhysicalMemory returns a best-effort estimate of free physical
// memory in bytes. The core has no OS-level memory introspection
// dependency in the teacher's stack, so this is a conservative constant.
// Config.Voxelization.MaxMemoryMB can only lower the resulting budget; no
// entry point accepts a caller-supplied available-memory figure.
func AvailablePhysicalMemory() uint64 {
	const assumedAvailableBytes = 4 * 1024 * 1024 * 1024 // 4 GiB
	return assumedAvailableBytes
}
