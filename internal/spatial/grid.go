package spatial

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// PointIndex is a spatial hash grid over labelled points, standing in for
// the spec's "KD-tree over space centroids" (§4.2). A uniform grid is a
// better fit than a balanced tree here because space counts are small and
// the teacher's own SpatialHashGrid already solves exactly this broadphase
// problem (mod_spatialgrid.go).
type PointIndex struct {
	cellSize float32
	cells    map[[3]int64][]string
	points   map[string]mgl32.Vec3
}

// NewPointIndex builds an empty index with the given cell size. cellSize
// should be on the order of the expected query radius for good bucketing.
func NewPointIndex(cellSize float32) *PointIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &PointIndex{
		cellSize: cellSize,
		cells:    make(map[[3]int64][]string),
		points:   make(map[string]mgl32.Vec3),
	}
}

func (g *PointIndex) cellOf(p mgl32.Vec3) [3]int64 {
	return [3]int64{
		int64(math.Floor(float64(p.X() / g.cellSize))),
		int64(math.Floor(float64(p.Y() / g.cellSize))),
		int64(math.Floor(float64(p.Z() / g.cellSize))),
	}
}

// Insert adds a labelled point to the index.
func (g *PointIndex) Insert(id string, p mgl32.Vec3) {
	g.points[id] = p
	key := g.cellOf(p)
	g.cells[key] = append(g.cells[key], id)
}

// QueryRadius returns every inserted id whose point lies within radius of
// center, sorted for determinism. An id inserted at center itself is
// included; callers skip it where needed.
func (g *PointIndex) QueryRadius(center mgl32.Vec3, radius float32) []string {
	span := int64(math.Ceil(float64(radius / g.cellSize)))
	c := g.cellOf(center)
	seen := make(map[string]struct{})
	var out []string
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				key := [3]int64{c[0] + dx, c[1] + dy, c[2] + dz}
				for _, id := range g.cells[key] {
					if _, ok := seen[id]; ok {
						continue
					}
					p := g.points[id]
					if p.Sub(center).Len() <= radius {
						seen[id] = struct{}{}
						out = append(out, id)
					}
				}
			}
		}
	}
	sort.Strings(out)
	return out
}
