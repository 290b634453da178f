package ventcore

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventilation"
)

// Assembler implements C6: it integrates C2-C5 output into a single
// Record (spec.md §4.6).
type Assembler struct {
	cfg ventconfig.Config
}

// NewAssembler constructs an Assembler bound to cfg (its voxelization and
// ventilation sections are echoed into every record's metadata).
func NewAssembler(cfg ventconfig.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble builds the final Record from the pipeline's intermediate
// results. spaces/openings carry their deterministic IDs from C2/C3;
// ventResult carries per-space ACH and retained paths from C5.
func (a *Assembler) Assemble(spaces []*space.Space, openings []*opening.Opening, ventResult *ventilation.Result) *Record {
	connections := make(map[string][]string)
	for _, op := range sortedOpenings(openings) {
		connections[op.EndpointA] = append(connections[op.EndpointA], op.ID)
		connections[op.EndpointB] = append(connections[op.EndpointB], op.ID)
	}

	spaceRecords := make([]SpaceRecord, 0, len(spaces))
	for _, sp := range sortedSpaces(spaces) {
		rec := SpaceRecord{
			ID:     sp.ID,
			Type:   sp.Type.String(),
			Volume: sp.Volume,
			BoundingBox: BoundingBox{
				Min: [3]float32{sp.Bounds.Min.X(), sp.Bounds.Min.Y(), sp.Bounds.Min.Z()},
				Max: [3]float32{sp.Bounds.Max.X(), sp.Bounds.Max.Y(), sp.Bounds.Max.Z()},
			},
			ACH:         ventResult.ACH[sp.ID],
			Connections: connections[sp.ID],
			PathCount:   len(ventResult.Paths[sp.ID]),
		}
		if paths := ventResult.Paths[sp.ID]; len(paths) > 0 {
			primary := paths[0]
			rec.PrimaryPath = &PrimaryPath{
				Route:  primary.Nodes,
				Via:    primary.Openings,
				Length: primary.Hops,
			}
		}
		spaceRecords = append(spaceRecords, rec)
	}

	openingRecords := make([]OpeningRecord, 0, len(openings))
	for _, op := range sortedOpenings(openings) {
		openingRecords = append(openingRecords, OpeningRecord{
			ID:       op.ID,
			Type:     op.Type.String(),
			Connects: []string{op.EndpointA, op.EndpointB},
			Position: [3]float32{op.Centroid.X(), op.Centroid.Y(), op.Centroid.Z()},
			Area:     op.Area,
			State:    op.State.String(),
		})
	}

	var pathRecords []VentilationPathRecord
	for _, id := range sortedSpaceIDs(ventResult.Paths) {
		paths := ventResult.Paths[id]
		if len(paths) == 0 {
			continue
		}
		entries := make([]VentilationPathEntry, len(paths))
		for i, p := range paths {
			entries[i] = VentilationPathEntry{Route: p.Nodes, Via: p.Openings, Contribution: p.Contribution}
		}
		pathRecords = append(pathRecords, VentilationPathRecord{SpaceID: id, Paths: entries})
	}

	return &Record{
		Metadata:         a.metadata(),
		Spaces:           spaceRecords,
		Connections:      openingRecords,
		VentilationPaths: pathRecords,
	}
}

func (a *Assembler) metadata() Metadata {
	return Metadata{
		Version:     schemaVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		RunID:       uuid.NewString(),
		Parameters: MetaParameters{
			Voxelization: VoxelizationParams{
				BaseSize: a.cfg.Voxelization.BaseVoxelSize,
				MinSize:  a.cfg.Voxelization.MinVoxelSize,
			},
			Ventilation: VentilationParams{
				HighACH:        a.cfg.Ventilation.HighACHRate,
				MediumACHRange: a.cfg.Ventilation.MediumACHRange,
				LowACHRange:    a.cfg.Ventilation.LowACHRange,
			},
			Processing: ProcessingParams{
				NumThreads:     a.cfg.Processing.NumWorkers,
				EnableParallel: a.cfg.Processing.EnableParallel,
				ChunkSize:      a.cfg.Processing.ChunkSize,
			},
		},
	}
}

func sortedSpaces(spaces []*space.Space) []*space.Space {
	out := make([]*space.Space, len(spaces))
	copy(out, spaces)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedOpenings(openings []*opening.Opening) []*opening.Opening {
	out := make([]*opening.Opening, len(openings))
	copy(out, openings)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedSpaceIDs(m map[string][]ventilation.PathContribution) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
