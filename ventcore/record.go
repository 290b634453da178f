// Package ventcore implements C6, the space data assembler, and exposes
// Pipeline, the sequential orchestrator running C1 through C6 over a
// triangle mesh and configuration.
package ventcore

import "github.com/offshorevent/ventcore/space"

const schemaVersion = "1.0"

// Metadata echoes the run's identity and the key parameters that shaped
// it (spec.md §4.6).
type Metadata struct {
	Version     string         `json:"version"`
	GeneratedAt string         `json:"generatedAt"`
	RunID       string         `json:"runId"`
	Parameters  MetaParameters `json:"parameters"`
}

// MetaParameters is the subset of configuration worth echoing alongside
// every output record, for downstream reproducibility checks.
type MetaParameters struct {
	Voxelization VoxelizationParams `json:"voxelization"`
	Ventilation  VentilationParams  `json:"ventilation"`
	Processing   ProcessingParams   `json:"processing"`
}

type VoxelizationParams struct {
	BaseSize float64 `json:"baseSize"`
	MinSize  float64 `json:"minSize"`
}

// ProcessingParams echoes the run's worker-pool configuration (spec.md
// §5's internal parallelism, SPEC_FULL.md §12's run-metadata supplement).
type ProcessingParams struct {
	NumThreads     int  `json:"numThreads"`
	EnableParallel bool `json:"enableParallel"`
	ChunkSize      int  `json:"chunkSize"`
}

type VentilationParams struct {
	HighACH        float64    `json:"highAch"`
	MediumACHRange [2]float64 `json:"mediumAchRange"`
	LowACHRange    [2]float64 `json:"lowAchRange"`
}

// BoundingBox is an axis-aligned box in world coordinates.
type BoundingBox struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

// PrimaryPath is the lowest-weight ventilation path for a space.
type PrimaryPath struct {
	Route  []string `json:"route"`
	Via    []string `json:"via"`
	Length int      `json:"length"`
}

// SpaceRecord is one space's entry in the assembled output (spec.md
// §4.6).
type SpaceRecord struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Volume      float64      `json:"volume"`
	BoundingBox BoundingBox  `json:"boundingBox"`
	ACH         float64      `json:"ventilationRate"`
	Connections []string     `json:"connections"`
	PrimaryPath *PrimaryPath `json:"primaryPath,omitempty"`
	PathCount   int          `json:"pathCount"`
}

// OpeningRecord is one opening's entry in the assembled output.
type OpeningRecord struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Connects []string   `json:"connects"`
	Position [3]float32 `json:"position"`
	Area     float64    `json:"area"`
	State    string     `json:"state"`
}

// VentilationPathEntry is one retained path's normalized contribution.
type VentilationPathEntry struct {
	Route        []string `json:"route"`
	Via          []string `json:"via"`
	Contribution float64  `json:"contribution"`
}

// VentilationPathRecord is a space's full retained-path list.
type VentilationPathRecord struct {
	SpaceID string                 `json:"spaceId"`
	Paths   []VentilationPathEntry `json:"paths"`
}

// Record is the complete C6 output (spec.md §4.6 / §6).
type Record struct {
	Metadata         Metadata                `json:"metadata"`
	Spaces           []SpaceRecord           `json:"spaces"`
	Connections      []OpeningRecord         `json:"connections"`
	VentilationPaths []VentilationPathRecord `json:"ventilationPaths"`
}

// exteriorID is this package's local name for space.ExteriorID.
const exteriorID = space.ExteriorID
