package space

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/internal/workerpool"
	"github.com/offshorevent/ventcore/meshmodel"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventlog"
	"github.com/offshorevent/ventcore/voxel"
)

// Detector implements C2.
type Detector struct {
	cfg      ventconfig.Config
	log      ventlog.Logger
	origin   mgl32.Vec3
	baseSize float64
}

// NewDetector constructs a Detector bound to cfg and logger.
func NewDetector(cfg ventconfig.Config, logger ventlog.Logger) *Detector {
	if logger == nil {
		logger = ventlog.NewNopLogger()
	}
	return &Detector{cfg: cfg, log: logger}
}

// Result bundles the detected spaces with their adjacency graph and the
// exterior voxel set (needed by C3 to detect window openings, which are
// interfaces between a space and the exterior rather than between two
// spaces).
type Result struct {
	Spaces    []*Space
	Adjacency Adjacency
	Exterior  map[Index3]struct{}
	Origin    mgl32.Vec3
	BaseSize  float64
}

var neighborOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Detect runs the full C2 pipeline: exterior removal, connected-component
// labelling, per-space attributes, adjacency, and fragment merging
// (spec.md §4.2).
func (d *Detector) Detect(field voxel.Occupancy) (*Result, error) {
	shape := field.Shape()
	n := shape[0] * shape[1] * shape[2]
	if n == 0 {
		return nil, fmt.Errorf("space detect: empty occupancy field")
	}

	exterior := d.floodExterior(field)
	rawSpaces := d.labelComponents(field, exterior)

	s0 := field.BaseVoxelSize()
	origin := field.Origin()
	d.origin = origin
	d.baseSize = s0
	// Per-component attribute computation is independent across
	// components, so it fans out across workers; the volume filter and ID
	// assignment below stay serial to keep output order deterministic.
	built := make([]*Space, len(rawSpaces))
	workerpool.Run(len(rawSpaces), d.workerWidth(), func(i int) {
		built[i] = d.buildSpace(fmt.Sprintf("raw_%06d", i), rawSpaces[i], origin, s0)
	})
	kept := make([]*Space, 0, len(built))
	for _, sp := range built {
		if sp.Volume < d.cfg.SpaceDetection.MinSpaceVolume {
			continue
		}
		kept = append(kept, sp)
	}
	d.log.Infof("detected %d raw components, %d above min volume", len(rawSpaces), len(kept))

	// Sequential IDs assigned in discovery order, after the volume filter.
	for i, sp := range kept {
		sp.ID = fmt.Sprintf("space_%03d", i)
	}

	adj := d.buildAdjacency(kept)
	merged, mergedAdj := d.mergeFragments(kept, adj)
	d.reclassifyCorridors(merged, mergedAdj)

	return &Result{
		Spaces:    merged,
		Adjacency: mergedAdj,
		Exterior:  exterior,
		Origin:    origin,
		BaseSize:  s0,
	}, nil
}

// floodExterior seeds a 6-connected flood fill from empty voxels on the
// grid's six boundary faces, subsampled to at most MaxSeedPoints, and
// returns the set of voxels reached (the unbounded exterior region).
func (d *Detector) floodExterior(field voxel.Occupancy) map[Index3]struct{} {
	shape := field.Shape()
	empty := func(i, j, k int) bool { return !field.At(i, j, k) }

	var seeds []Index3
	collect := func(i, j, k int) {
		if empty(i, j, k) {
			seeds = append(seeds, Index3{i, j, k})
		}
	}
	for j := 0; j < shape[1]; j++ {
		for k := 0; k < shape[2]; k++ {
			collect(0, j, k)
			if shape[0] > 1 {
				collect(shape[0]-1, j, k)
			}
		}
	}
	for i := 0; i < shape[0]; i++ {
		for k := 0; k < shape[2]; k++ {
			collect(i, 0, k)
			if shape[1] > 1 {
				collect(i, shape[1]-1, k)
			}
		}
	}
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			collect(i, j, 0)
			if shape[2] > 1 {
				collect(i, j, shape[2]-1)
			}
		}
	}

	sort.Slice(seeds, func(a, b int) bool { return seeds[a].Less(seeds[b]) })
	maxSeeds := d.cfg.SpaceDetection.MaxSeedPoints
	if maxSeeds > 0 && len(seeds) > maxSeeds {
		step := float64(len(seeds)) / float64(maxSeeds)
		subsampled := make([]Index3, 0, maxSeeds)
		for i := 0; i < maxSeeds; i++ {
			subsampled = append(subsampled, seeds[int(float64(i)*step)])
		}
		seeds = subsampled
	}

	visited := make(map[Index3]struct{}, len(seeds)*4)
	queue := make([]Index3, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := visited[s]; ok {
			continue
		}
		visited[s] = struct{}{}
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, off := range neighborOffsets {
			nb := Index3{cur[0] + off[0], cur[1] + off[1], cur[2] + off[2]}
			if !voxel.InBounds(shape, nb[0], nb[1], nb[2]) {
				continue
			}
			if _, ok := visited[nb]; ok {
				continue
			}
			if !empty(nb[0], nb[1], nb[2]) {
				continue
			}
			visited[nb] = struct{}{}
			queue = append(queue, nb)
		}
	}
	return visited
}

// labelComponents performs 6-connected connected-component labelling over
// every interior empty voxel (i.e. empty and not reached by floodExterior),
// visiting voxels in increasing linear-index order so that component
// discovery order — and therefore ID assignment — is a deterministic
// function of the grid layout (spec.md §5).
func (d *Detector) labelComponents(field voxel.Occupancy, exterior map[Index3]struct{}) [][]Index3 {
	shape := field.Shape()
	interior := func(i, j, k int) bool {
		if field.At(i, j, k) {
			return false
		}
		if _, ok := exterior[Index3{i, j, k}]; ok {
			return false
		}
		return true
	}

	visited := make(map[Index3]struct{})
	var components [][]Index3

	for k := 0; k < shape[2]; k++ {
		for j := 0; j < shape[1]; j++ {
			for i := 0; i < shape[0]; i++ {
				start := Index3{i, j, k}
				if _, ok := visited[start]; ok {
					continue
				}
				if !interior(i, j, k) {
					continue
				}
				visited[start] = struct{}{}
				queue := []Index3{start}
				var comp []Index3
				for len(queue) > 0 {
					cur := queue[0]
					queue = queue[1:]
					comp = append(comp, cur)
					for _, off := range neighborOffsets {
						nb := Index3{cur[0] + off[0], cur[1] + off[1], cur[2] + off[2]}
						if !voxel.InBounds(shape, nb[0], nb[1], nb[2]) {
							continue
						}
						if _, ok := visited[nb]; ok {
							continue
						}
						if !interior(nb[0], nb[1], nb[2]) {
							continue
						}
						visited[nb] = struct{}{}
						queue = append(queue, nb)
					}
				}
				components = append(components, comp)
			}
		}
	}
	return components
}

// buildSpace computes a Space's attributes from its voxel set
// (spec.md §4.2 step 3).
func (d *Detector) buildSpace(id string, voxels []Index3, origin mgl32.Vec3, s0 float64) *Space {
	set := make(map[Index3]struct{}, len(voxels))
	for _, v := range voxels {
		set[v] = struct{}{}
	}
	volume := float64(len(voxels)) * s0 * s0 * s0

	var sum mgl32.Vec3
	bmin := voxel.CenterAt(origin, s0, voxels[0][0], voxels[0][1], voxels[0][2])
	bmax := bmin
	for _, v := range voxels {
		c := voxel.CenterAt(origin, s0, v[0], v[1], v[2])
		sum = sum.Add(c)
		bmin = mgl32.Vec3{minf(bmin.X(), c.X()), minf(bmin.Y(), c.Y()), minf(bmin.Z(), c.Z())}
		bmax = mgl32.Vec3{maxf(bmax.X(), c.X()), maxf(bmax.Y(), c.Y()), maxf(bmax.Z(), c.Z())}
	}
	half := float32(s0 / 2)
	bounds := meshmodel.AABB{
		Min: bmin.Sub(mgl32.Vec3{half, half, half}),
		Max: bmax.Add(mgl32.Vec3{half, half, half}),
	}
	centroid := sum.Mul(1.0 / float32(len(voxels)))

	sp := &Space{
		ID:       id,
		Voxels:   set,
		Volume:   volume,
		Bounds:   bounds,
		Centroid: centroid,
		Type:     TypeUnknown,
	}
	sp.Traversable = float64(bounds.Dimensions().Z()) >= d.cfg.SpaceDetection.MinPassageHeight
	return sp
}

// reclassifyCorridors tags spaces whose post-merge adjacency degree meets
// openings.connection_degree_threshold as TypeCorridor (SPEC_FULL.md §12):
// a space bordering at least this many distinct neighbours is eligible to
// be treated as a passage even when no single shared interface is wide
// enough to be classified a passage opening on its own. Purely
// informational; does not affect ACH. Adjacency degree is used as the C2
// proxy for "distinct openings" since C3 has not run yet.
func (d *Detector) reclassifyCorridors(spaces []*Space, adj Adjacency) {
	threshold := d.cfg.Openings.ConnectionDegreeThreshold
	if threshold <= 0 {
		return
	}
	for _, sp := range spaces {
		if sp.Type != TypeUnknown {
			continue
		}
		if len(adj.Neighbors(sp.ID)) >= threshold {
			sp.Type = TypeCorridor
			d.log.With(ventlog.F("space", sp.ID)).Debugf("reclassified as corridor: degree %d >= threshold %d", len(adj.Neighbors(sp.ID)), threshold)
		}
	}
}

func (d *Detector) workerWidth() int {
	if !d.cfg.Processing.EnableParallel || d.cfg.Processing.NumWorkers <= 0 {
		return 1
	}
	return d.cfg.Processing.NumWorkers
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
