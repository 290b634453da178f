package ventcore

import (
	"fmt"

	"github.com/offshorevent/ventcore/meshmodel"
	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/topology"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventilation"
	"github.com/offshorevent/ventcore/ventlog"
	"github.com/offshorevent/ventcore/voxel"
)

// Pipeline sequences C1 through C6 over a single mesh and configuration
// (spec.md §5: "single-threaded cooperative pipeline at the component
// boundary — each stage runs to completion before the next begins").
type Pipeline struct {
	cfg ventconfig.Config
	log ventlog.Logger
}

// NewPipeline constructs a Pipeline bound to cfg and logger. A nil logger
// falls back to a no-op logger.
func NewPipeline(cfg ventconfig.Config, logger ventlog.Logger) *Pipeline {
	if logger == nil {
		logger = ventlog.NewNopLogger()
	}
	return &Pipeline{cfg: cfg, log: logger}
}

// Run executes the full six-stage analysis over mesh and returns the
// assembled record plus its validation outcome. A non-nil error is only
// ever an InputError (stage failure) or a ValidationError (record
// produced but flagged) — the caller always receives a usable record
// alongside a ValidationError.
func (p *Pipeline) Run(mesh *meshmodel.Mesh) (*Record, error) {
	p.log.Infof("pipeline: starting voxelization")
	voxelizer := voxel.NewVoxelizer(p.cfg, p.log)
	voxResult, err := voxelizer.Voxelize(mesh)
	if err != nil {
		return nil, fmt.Errorf("pipeline: voxelization: %w", err)
	}

	p.log.Infof("pipeline: detecting spaces")
	spaceDetector := space.NewDetector(p.cfg, p.log)
	spaceResult, err := spaceDetector.Detect(voxResult.Field)
	if err != nil {
		return nil, fmt.Errorf("pipeline: space detection: %w", err)
	}

	p.log.Infof("pipeline: detecting openings")
	openingDetector := opening.NewDetector(p.cfg, p.log)
	openings, err := openingDetector.Detect(spaceResult)
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening detection: %w", err)
	}

	p.log.Infof("pipeline: building topology")
	graph := topology.NewGraph(p.cfg, p.log)
	if err := graph.Build(spaceResult.Spaces, openings); err != nil {
		return nil, fmt.Errorf("pipeline: topology build: %w", err)
	}

	p.log.Infof("pipeline: computing ventilation rates")
	calculator := ventilation.NewCalculator(p.cfg, p.log)
	ventResult := calculator.Compute(graph, spaceResult.Spaces, openings)

	p.log.Infof("pipeline: assembling record")
	assembler := NewAssembler(p.cfg)
	record := assembler.Assemble(spaceResult.Spaces, openings, ventResult)

	validation := Validate(record)
	if validation.HasErrors() {
		return record, fmt.Errorf("pipeline: %w", validation)
	}
	if len(validation.Warnings) > 0 {
		p.log.Warnf("pipeline: record produced %d validation warning(s)", len(validation.Warnings))
	}
	return record, nil
}
