// Package ventilation implements C5, the ACH calculator: per-space air
// changes per hour from bounded path enumeration to the exterior, a
// smoothing pass between adjacent spaces, and a closed-opening override.
package ventilation

import (
	"math"
	"sort"

	"github.com/offshorevent/ventcore/internal/workerpool"
	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/topology"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventlog"
)

const (
	maxHops        = 6
	maxRetainPaths = 5
	yenCandidates  = 24
)

// PathContribution is one retained path from a space to the exterior,
// carrying its normalized relative weight (spec.md §4.5 path-contribution
// query).
type PathContribution struct {
	Nodes        []string
	Openings     []string
	Weight       float64
	Hops         int
	Contribution float64
}

// Result is the C5 output: per-space ACH and the retained path list
// backing the path-contribution query.
type Result struct {
	ACH   map[string]float64
	Paths map[string][]PathContribution
}

// Calculator implements C5.
type Calculator struct {
	cfg ventconfig.Config
	log ventlog.Logger
}

// NewCalculator constructs a Calculator bound to cfg and logger.
func NewCalculator(cfg ventconfig.Config, logger ventlog.Logger) *Calculator {
	if logger == nil {
		logger = ventlog.NewNopLogger()
	}
	return &Calculator{cfg: cfg, log: logger}
}

// Compute implements spec.md §4.5's per-space ACH and smoothing passes.
func (c *Calculator) Compute(g *topology.Graph, spaces []*space.Space, openings []*opening.Opening) *Result {
	areaOf := make(map[string]float64, len(openings))
	for _, op := range openings {
		areaOf[op.ID] = op.Area
	}

	sorted := make([]*space.Space, len(spaces))
	copy(sorted, spaces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	ach := make(map[string]float64, len(sorted))
	paths := make(map[string][]PathContribution, len(sorted))

	lowMin := c.cfg.Ventilation.LowACHRange[0]
	highMax := c.cfg.Ventilation.HighACHRate

	// Path enumeration and combination are independent per space, so they
	// fan out across workers; results land in index-aligned slices and
	// are merged into the maps serially below to keep iteration order
	// (and therefore the later smoothing pass) deterministic.
	achVals := make([]float64, len(sorted))
	pathVals := make([][]PathContribution, len(sorted))
	workerpool.Run(len(sorted), c.workerWidth(), func(i int) {
		sp := sorted[i]
		retained := c.retainedPaths(g, sp.ID)
		if len(retained) == 0 {
			achVals[i] = lowMin
			return
		}
		achVals[i] = c.combine(retained, areaOf)
		pathVals[i] = retained
	})
	for i, sp := range sorted {
		ach[sp.ID] = achVals[i]
		paths[sp.ID] = pathVals[i]
	}

	c.smooth(g, ach)

	for id, v := range ach {
		ach[id] = clamp(v, lowMin, highMax)
	}

	return &Result{ACH: ach, Paths: paths}
}

// retainedPaths implements spec.md §4.5 step 1: enumerate simple paths of
// length <=6 hops, keep at most 5 sorted ascending by summed weight.
func (c *Calculator) retainedPaths(g *topology.Graph, spaceID string) []PathContribution {
	candidates := g.ShortestPathToExterior(spaceID, yenCandidates)
	out := make([]PathContribution, 0, maxRetainPaths)
	for _, p := range candidates {
		hops := len(p.Nodes) - 1
		if hops < 1 || hops > maxHops {
			continue
		}
		out = append(out, PathContribution{
			Nodes:    p.Nodes,
			Openings: p.Openings,
			Weight:   p.Weight,
			Hops:     hops,
		})
		if len(out) == maxRetainPaths {
			break
		}
	}
	return out
}

// combine implements spec.md §4.5 steps 3-4: per-path base/area/decay
// contribution, combined by an inverse-weight-plus-0.1 weighted mean.
func (c *Calculator) combine(retained []PathContribution, areaOf map[string]float64) float64 {
	v := c.cfg.Ventilation
	weights := make([]float64, len(retained))
	var weightSum float64
	for i, p := range retained {
		weights[i] = 1.0 / (p.Weight + 0.1)
		weightSum += weights[i]
	}

	var result float64
	for i := range retained {
		p := &retained[i]
		base := mean(v.LowACHRange)
		switch p.Hops {
		case 1:
			base = v.HighACHRate
		case 2:
			base = mean(v.MediumACHRange)
		}
		var areaSum float64
		for _, oid := range p.Openings {
			areaSum += areaOf[oid]
		}
		areaFactor := math.Pow(areaSum, v.OpeningInfluence)
		decayFactor := math.Pow(v.PathDecayFactor, float64(p.Hops-1))
		contribution := base * areaFactor * decayFactor
		p.Contribution = weights[i] / weightSum
		result += p.Contribution * contribution
	}
	return result
}

// smooth implements spec.md §4.5's smoothing pass: for every adjacency
// {A,B} with both non-exterior and |ACH(A)-ACH(B)| > 5.0, pull each
// toward their mean by 0.3. Edges are visited in deterministic sorted
// order; each update uses the ACH values current at that point in the
// sweep, matching a single deterministic pass rather than simultaneous
// update (the spec does not distinguish the two for acyclic adjacency).
func (c *Calculator) smooth(g *topology.Graph, ach map[string]float64) {
	for _, e := range g.Edges() {
		if e.A == space.ExteriorID || e.B == space.ExteriorID {
			continue
		}
		a, aok := ach[e.A]
		b, bok := ach[e.B]
		if !aok || !bok {
			continue
		}
		if abs(a-b) <= 5.0 {
			continue
		}
		m := (a + b) / 2
		ach[e.A] = a + 0.3*(m-a)
		ach[e.B] = b + 0.3*(m-b)
	}
}

func (c *Calculator) workerWidth() int {
	if !c.cfg.Processing.EnableParallel || c.cfg.Processing.NumWorkers <= 0 {
		return 1
	}
	return c.cfg.Processing.NumWorkers
}

func mean(r [2]float64) float64 { return (r[0] + r[1]) / 2 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
