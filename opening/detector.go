package opening

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/internal/workerpool"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventlog"
	"github.com/offshorevent/ventcore/voxel"
)

// Detector implements C3.
type Detector struct {
	cfg ventconfig.Config
	log ventlog.Logger
}

// NewDetector constructs a Detector bound to cfg and logger.
func NewDetector(cfg ventconfig.Config, logger ventlog.Logger) *Detector {
	if logger == nil {
		logger = ventlog.NewNopLogger()
	}
	return &Detector{cfg: cfg, log: logger}
}

var faceOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// pairTask is one candidate space-to-space or space-to-exterior interface
// to cluster; the expensive part (interfaceVoxels + DBSCAN) runs across
// tasks in parallel, while opening ID assignment stays serial and
// ordered so output is deterministic regardless of worker count.
type pairTask struct {
	aID, bID   string
	aVox, bVox map[space.Index3]struct{}
}

// Detect runs the full C3 pipeline over every adjacent space pair and
// every space's interface with the exterior (spec.md §4.3).
func (d *Detector) Detect(result *space.Result) ([]*Opening, error) {
	if result == nil {
		return nil, fmt.Errorf("opening detect: nil space result")
	}

	byID := make(map[string]*space.Space, len(result.Spaces))
	var ids []string
	for _, sp := range result.Spaces {
		byID[sp.ID] = sp
		ids = append(ids, sp.ID)
	}
	sort.Strings(ids)

	var tasks []pairTask
	// Space-to-space interfaces, one task per unordered adjacent pair.
	for _, aID := range ids {
		for _, bID := range result.Adjacency.Neighbors(aID) {
			if aID >= bID {
				continue
			}
			a, b := byID[aID], byID[bID]
			tasks = append(tasks, pairTask{aID: aID, bID: bID, aVox: a.Voxels, bVox: b.Voxels})
		}
	}
	// Space-to-exterior interfaces (windows).
	for _, aID := range ids {
		a := byID[aID]
		tasks = append(tasks, pairTask{aID: aID, bID: space.ExteriorID, aVox: a.Voxels, bVox: result.Exterior})
	}

	clustersByTask := make([][][]space.Index3, len(tasks))
	workerpool.Run(len(tasks), d.workerWidth(), func(i int) {
		clustersByTask[i] = d.clusterPair(tasks[i].aVox, tasks[i].bVox, result)
	})

	var openings []*Opening
	nextID := 0
	for i, t := range tasks {
		for _, c := range clustersByTask[i] {
			id := fmt.Sprintf("opening_%04d", nextID)
			nextID++
			op := d.buildOpening(id, t.aID, t.bID, c, result)
			if op != nil {
				openings = append(openings, op)
			}
		}
	}

	d.log.Infof("detected %d openings", len(openings))
	return openings, nil
}

func (d *Detector) workerWidth() int {
	if !d.cfg.Processing.EnableParallel || d.cfg.Processing.NumWorkers <= 0 {
		return 1
	}
	return d.cfg.Processing.NumWorkers
}

// clusterPair extracts interface voxels between two voxel sets and
// clusters them (spec.md §4.3 steps 1-2).
func (d *Detector) clusterPair(a, b map[space.Index3]struct{}, result *space.Result) [][]space.Index3 {
	voxels := interfaceVoxels(a, b)
	if len(voxels) == 0 {
		return nil
	}
	clusters := dbscan(voxels, 1.5, 2)
	var kept [][]space.Index3
	for _, c := range clusters {
		if len(c) >= 3 {
			kept = append(kept, c)
		}
	}
	return kept
}

// interfaceVoxels returns the union of voxels in a and b that are exactly
// face-adjacent (Manhattan distance 1) to some voxel in the other set —
// the spec's resolved reading of "nearest voxel in the other space is at
// distance exactly 1" (spec.md §9 open question).
func interfaceVoxels(a, b map[space.Index3]struct{}) []space.Index3 {
	seen := make(map[space.Index3]struct{})
	collect := func(src, dst map[space.Index3]struct{}) {
		for v := range src {
			for _, off := range faceOffsets {
				nb := space.Index3{v[0] + off[0], v[1] + off[1], v[2] + off[2]}
				if _, ok := dst[nb]; ok {
					seen[v] = struct{}{}
					break
				}
			}
		}
	}
	collect(a, b)
	collect(b, a)

	out := make([]space.Index3, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// buildOpening runs PCA on a cluster's world-space centres, classifies it,
// and applies the opening-height-range filter (SPEC_FULL.md §12). Returns
// nil (DegenerateInterface, silently omitted) if the cluster's vertical
// extent falls entirely outside the configured height range.
func (d *Detector) buildOpening(id, endpointA, endpointB string, cluster []space.Index3, result *space.Result) *Opening {
	points := make([]mgl32.Vec3, len(cluster))
	minZ, maxZ := float32(1e18), float32(-1e18)
	for i, v := range cluster {
		p := voxel.CenterAt(result.Origin, result.BaseSize, v[0], v[1], v[2])
		points[i] = p
		if p.Z() < minZ {
			minZ = p.Z()
		}
		if p.Z() > maxZ {
			maxZ = p.Z()
		}
	}
	log := d.log.With(ventlog.F("endpointA", endpointA), ventlog.F("endpointB", endpointB))
	lo, hi := float32(d.cfg.Openings.OpeningHeightRange[0]), float32(d.cfg.Openings.OpeningHeightRange[1])
	if maxZ < lo || minZ > hi {
		log.Debugf("opening candidate omitted: height extent [%v,%v] outside [%v,%v]", minZ, maxZ, lo, hi)
		return nil
	}

	feat := analyzePlanar(points)
	if feat.area <= 0 {
		return nil
	}

	op := &Opening{
		ID:          id,
		EndpointA:   endpointA,
		EndpointB:   endpointB,
		Normal:      feat.normal,
		Planarity:   feat.planarity,
		Width:       feat.width,
		Height:      feat.height,
		Area:        feat.area,
		Perimeter:   feat.perimeter,
		AspectRatio: feat.aspectRatio,
		Centroid:    feat.centroid,
		State:       Open,
		VoxelCount:  len(cluster),
	}
	op.Type = d.classify(feat)
	return op
}

// classify applies spec.md §4.3 step 4's decision order.
func (d *Detector) classify(f planarFeatures) Type {
	o := d.cfg.Openings
	switch {
	case f.area <= o.StandardDoorAreaLimit && f.aspectRatio >= 1.5:
		return StandardDoor
	case f.area <= o.WideDoorAreaLimit && f.width < 3.0:
		return WideDoor
	case f.area > o.WideDoorAreaLimit || f.aspectRatio >= o.PassageAspectRatio:
		return Passage
	default:
		return StandardDoor
	}
}
