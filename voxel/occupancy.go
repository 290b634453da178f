// Package voxel implements C1, the adaptive voxelizer: it discretizes a
// closed triangle mesh into an axis-aligned occupancy field, choosing
// between a dense grid and a sparse octree based on a memory estimate, and
// marks adaptive refinement near high-curvature and narrow-passage
// regions.
package voxel

import "github.com/go-gl/mathgl/mgl32"

// Occupancy is the trait C2 and C3 consume instead of a concrete grid
// type, so the memory-sensitive dense/octree choice made once in C1 stays
// invisible downstream (SPEC_FULL.md §4, design note on memory-sensitive
// branching).
type Occupancy interface {
	// Shape returns the voxel-index extents (Nx, Ny, Nz).
	Shape() [3]int
	// Origin returns the world-space coordinate of voxel (0,0,0)'s corner.
	Origin() mgl32.Vec3
	// BaseVoxelSize returns s0, the uniform base voxel edge length.
	BaseVoxelSize() float64
	// At reports whether the voxel centre at (i,j,k) lies inside the mesh.
	// Out-of-range indices report false.
	At(i, j, k int) bool
	// RefinedSize returns the adaptive refined size at (i,j,k): BaseVoxelSize
	// unless local curvature/narrow-passage refinement marked it as
	// MinVoxelSize.
	RefinedSize(i, j, k int) float64
	// Strategy names which path produced this field, for diagnostics.
	Strategy() string
}

// WorldCenter returns the world-space centre of voxel (i,j,k).
func WorldCenter(o Occupancy, i, j, k int) mgl32.Vec3 {
	return CenterAt(o.Origin(), o.BaseVoxelSize(), i, j, k)
}

// CenterAt returns the world-space centre of voxel (i,j,k) given an
// explicit origin and base voxel size, for callers (e.g. space-fragment
// merging) that compute centres without holding a live Occupancy.
func CenterAt(origin mgl32.Vec3, baseSize float64, i, j, k int) mgl32.Vec3 {
	s := float32(baseSize)
	return mgl32.Vec3{
		origin.X() + (float32(i)+0.5)*s,
		origin.Y() + (float32(j)+0.5)*s,
		origin.Z() + (float32(k)+0.5)*s,
	}
}

// InBounds reports whether (i,j,k) is a valid index for shape.
func InBounds(shape [3]int, i, j, k int) bool {
	return i >= 0 && i < shape[0] && j >= 0 && j < shape[1] && k >= 0 && k < shape[2]
}
