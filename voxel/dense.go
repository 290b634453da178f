package voxel

import "github.com/go-gl/mathgl/mgl32"

// DenseGrid is the common case: a dense 3D boolean occupancy array plus a
// parallel array of per-voxel refined sizes (spec.md §3's "Occupancy
// Grid"). Committed only when the memory estimate fits the configured
// budget (see Voxelizer.Voxelize).
type DenseGrid struct {
	shape    [3]int
	origin   mgl32.Vec3
	baseSize float64
	occupied []bool    // row-major, index = i + j*Nx + k*Nx*Ny
	refined  []float64 // same layout; 0 means "not refined" (== base size)
}

// NewDenseGrid allocates an empty (all-unoccupied) grid of the given shape.
func NewDenseGrid(shape [3]int, origin mgl32.Vec3, baseSize float64) *DenseGrid {
	n := shape[0] * shape[1] * shape[2]
	return &DenseGrid{
		shape:    shape,
		origin:   origin,
		baseSize: baseSize,
		occupied: make([]bool, n),
		refined:  make([]float64, n),
	}
}

func (g *DenseGrid) index(i, j, k int) int {
	return i + j*g.shape[0] + k*g.shape[0]*g.shape[1]
}

func (g *DenseGrid) Shape() [3]int            { return g.shape }
func (g *DenseGrid) Origin() mgl32.Vec3       { return g.origin }
func (g *DenseGrid) BaseVoxelSize() float64   { return g.baseSize }
func (g *DenseGrid) Strategy() string         { return "dense" }

func (g *DenseGrid) At(i, j, k int) bool {
	if !InBounds(g.shape, i, j, k) {
		return false
	}
	return g.occupied[g.index(i, j, k)]
}

func (g *DenseGrid) Set(i, j, k int, occupied bool) {
	if !InBounds(g.shape, i, j, k) {
		return
	}
	g.occupied[g.index(i, j, k)] = occupied
}

func (g *DenseGrid) RefinedSize(i, j, k int) float64 {
	if !InBounds(g.shape, i, j, k) {
		return g.baseSize
	}
	if r := g.refined[g.index(i, j, k)]; r > 0 {
		return r
	}
	return g.baseSize
}

func (g *DenseGrid) MarkRefined(i, j, k int, size float64) {
	if !InBounds(g.shape, i, j, k) {
		return
	}
	g.refined[g.index(i, j, k)] = size
}
