package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/internal/spatial"
	"github.com/offshorevent/ventcore/internal/workerpool"
	"github.com/offshorevent/ventcore/meshmodel"
	"github.com/offshorevent/ventcore/venterr"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventlog"
)

var errInputInvalid = venterr.ErrInputInvalid

// Voxelizer implements C1: adaptive voxelization of a closed triangle
// mesh into an Occupancy field, switching to a sparse octree when a dense
// grid would exceed the configured memory budget.
type Voxelizer struct {
	cfg    ventconfig.Config
	log    ventlog.Logger
	memCap uint64 // bytes; overridable for tests
}

// NewVoxelizer constructs a Voxelizer bound to cfg and logger.
func NewVoxelizer(cfg ventconfig.Config, logger ventlog.Logger) *Voxelizer {
	if logger == nil {
		logger = ventlog.NewNopLogger()
	}
	return &Voxelizer{
		cfg:    cfg,
		log:    logger,
		memCap: uint64(cfg.Voxelization.MaxMemoryMB) * 1024 * 1024,
	}
}

// Result bundles the occupancy field with the bounds it was built over.
type Result struct {
	Field  Occupancy
	Bounds meshmodel.AABB
}

// Voxelize runs the full C1 algorithm (spec.md §4.1): AABB + grid-shape
// computation, memory-budget check with octree fallback, dense population
// via ray-parity point-in-mesh testing, and adaptive refinement near
// high-curvature / narrow-passage regions.
func (v *Voxelizer) Voxelize(mesh *meshmodel.Mesh) (Result, error) {
	if mesh == nil || len(mesh.Vertices) == 0 {
		return Result{}, fmt.Errorf("voxelize: %w: empty mesh", errInputInvalid)
	}
	if err := mesh.Validate(); err != nil {
		return Result{}, fmt.Errorf("voxelize: %w: %v", errInputInvalid, err)
	}

	bounds, err := mesh.Bounds()
	if err != nil {
		return Result{}, fmt.Errorf("voxelize: %w: %v", errInputInvalid, err)
	}

	s0 := v.cfg.Voxelization.BaseVoxelSize
	dims := bounds.Dimensions()
	shape := [3]int{
		ceilDiv(dims.X(), s0),
		ceilDiv(dims.Y(), s0),
		ceilDiv(dims.Z(), s0),
	}
	v.log.Infof("voxelizing: grid shape %v, bounds %v-%v", shape, bounds.Min, bounds.Max)

	bvh := spatial.BuildTriangleBVH(mesh.Vertices, mesh.Faces)

	estimate := EstimateDenseBytes(shape)
	budget := v.memCap
	if avail := uint64(float64(AvailablePhysicalMemory()) * 0.8); avail < budget {
		budget = avail
	}
	if estimate > budget {
		v.log.Warnf("dense grid estimate %d bytes exceeds budget %d bytes; falling back to octree", estimate, budget)
		field := BuildOctree(bvh, bounds.Min, bounds.Max, shape, s0, v.cfg.Voxelization.MinVoxelSize)
		return Result{Field: field, Bounds: bounds}, nil
	}

	grid := NewDenseGrid(shape, bounds.Min, s0)
	v.populateDense(grid, bvh)
	v.refineAdaptive(grid, mesh, bvh, bounds)
	return Result{Field: grid, Bounds: bounds}, nil
}

func ceilDiv(extent float32, voxel float64) int {
	n := int(math.Ceil(float64(extent) / voxel))
	if n < 1 {
		n = 1
	}
	return n
}

func (v *Voxelizer) populateDense(grid *DenseGrid, bvh *spatial.TriangleBVH) {
	shape := grid.Shape()
	workerpool.Run(shape[0], v.workerWidth(), func(i int) {
		for j := 0; j < shape[1]; j++ {
			for k := 0; k < shape[2]; k++ {
				p := WorldCenter(grid, i, j, k)
				if bvh.Inside(p) {
					grid.Set(i, j, k, true)
				}
			}
		}
	})
}

func (v *Voxelizer) workerWidth() int {
	if !v.cfg.Processing.EnableParallel {
		return 1
	}
	if v.cfg.Processing.NumWorkers <= 0 {
		return 1
	}
	return v.cfg.Processing.NumWorkers
}

// refineAdaptive marks boundary voxels containing a high-curvature or
// narrow-passage vertex with the minimum refined size when a uniform
// sub-sample of the voxel's interior disagrees on inside/outside
// (spec.md §4.1 step 4). The occupancy bit itself is never changed here.
func (v *Voxelizer) refineAdaptive(grid *DenseGrid, mesh *meshmodel.Mesh, bvh *spatial.TriangleBVH, bounds meshmodel.AABB) {
	if len(mesh.Vertices) == 0 {
		return
	}
	normals := vertexNormals(mesh)
	radius := 2 * meanEdgeLength(mesh)
	curvature := vertexCurvature(mesh, normals, radius)
	narrow := narrowPassageVertices(mesh, float32(v.cfg.Voxelization.WidthThreshold))

	s0 := v.cfg.Voxelization.BaseVoxelSize
	shape := grid.Shape()
	refinementVoxels := make(map[[3]int]struct{})
	for i, vtx := range mesh.Vertices {
		flagged := curvature[i] > float32(v.cfg.Voxelization.CurvatureThreshold) || narrow[i]
		if !flagged {
			continue
		}
		rel := vtx.Sub(bounds.Min)
		idx := [3]int{
			int(math.Floor(float64(rel.X() / float32(s0)))),
			int(math.Floor(float64(rel.Y() / float32(s0)))),
			int(math.Floor(float64(rel.Z() / float32(s0)))),
		}
		if InBounds(shape, idx[0], idx[1], idx[2]) {
			refinementVoxels[idx] = struct{}{}
		}
	}
	v.log.Infof("refinement candidate voxels: %d", len(refinementVoxels))

	sMin := v.cfg.Voxelization.MinVoxelSize
	samplesPerAxis := int(math.Ceil(s0 / sMin))
	if samplesPerAxis < 1 {
		samplesPerAxis = 1
	}
	origin := grid.Origin()
	for idx := range refinementVoxels {
		voxelMin := mgl32.Vec3{
			origin.X() + float32(idx[0])*float32(s0),
			origin.Y() + float32(idx[1])*float32(s0),
			origin.Z() + float32(idx[2])*float32(s0),
		}
		var insideCount, outsideCount int
		step := s0 / float64(samplesPerAxis)
		for a := 0; a < samplesPerAxis; a++ {
			for b := 0; b < samplesPerAxis; b++ {
				for c := 0; c < samplesPerAxis; c++ {
					p := mgl32.Vec3{
						voxelMin.X() + float32((float64(a)+0.5)*step),
						voxelMin.Y() + float32((float64(b)+0.5)*step),
						voxelMin.Z() + float32((float64(c)+0.5)*step),
					}
					if bvh.Inside(p) {
						insideCount++
					} else {
						outsideCount++
					}
					if insideCount > 0 && outsideCount > 0 {
						goto mixed
					}
				}
			}
		}
		continue
	mixed:
		grid.MarkRefined(idx[0], idx[1], idx[2], sMin)
	}
}
