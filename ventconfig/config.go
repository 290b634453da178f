// Package ventconfig holds the typed configuration threaded through every
// pipeline component constructor. There is no process-wide singleton: a
// Config value is built once (Default, or Load from YAML) and passed down
// explicitly, per the teacher's resource-as-value convention.
package ventconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/offshorevent/ventcore/venterr"
)

// Voxelization controls C1.
type Voxelization struct {
	BaseVoxelSize      float64 `yaml:"base_voxel_size"`
	MinVoxelSize       float64 `yaml:"min_voxel_size"`
	CurvatureThreshold float64 `yaml:"curvature_threshold"`
	WidthThreshold     float64 `yaml:"width_threshold"`
	MaxMemoryMB        int64   `yaml:"max_memory_mb"`
}

// SpaceDetection controls C2.
type SpaceDetection struct {
	MinSpaceVolume     float64 `yaml:"min_space_volume"`
	SpaceMergeDistance float64 `yaml:"space_merge_distance"`
	MaxSeedPoints      int     `yaml:"max_seed_points"`
	MinPassageHeight   float64 `yaml:"min_passage_height"`
}

// Openings controls C3.
type Openings struct {
	StandardDoorAreaLimit     float64    `yaml:"standard_door_area_limit"`
	WideDoorAreaLimit         float64    `yaml:"wide_door_area_limit"`
	PassageAspectRatio        float64    `yaml:"passage_aspect_ratio"`
	ConnectionDegreeThreshold int        `yaml:"connection_degree_threshold"`
	OpeningHeightRange        [2]float64 `yaml:"opening_height_range"`
}

// Ventilation controls C5.
type Ventilation struct {
	HighACHRate          float64    `yaml:"high_ach_rate"`
	MediumACHRange       [2]float64 `yaml:"medium_ach_range"`
	LowACHRange          [2]float64 `yaml:"low_ach_range"`
	OpeningInfluence     float64    `yaml:"opening_influence_factor"`
	PathDecayFactor      float64    `yaml:"path_decay_factor"`
}

// Processing controls internal worker-pool width; not part of spec.md's
// core contract but carried from the original source's config (§12 of
// SPEC_FULL.md).
type Processing struct {
	NumWorkers     int  `yaml:"num_workers"`
	EnableParallel bool `yaml:"enable_parallel"`
	ChunkSize      int  `yaml:"chunk_size"`
}

// Config is the full, validated configuration passed into every component
// constructor.
type Config struct {
	Voxelization   Voxelization   `yaml:"voxelization"`
	SpaceDetection SpaceDetection `yaml:"space_detection"`
	Openings       Openings       `yaml:"openings"`
	Ventilation    Ventilation    `yaml:"ventilation"`
	Processing     Processing     `yaml:"processing"`
}

// Default returns the configuration with spec.md §6's default values.
func Default() Config {
	return Config{
		Voxelization: Voxelization{
			BaseVoxelSize:      1.0,
			MinVoxelSize:       0.125,
			CurvatureThreshold: 0.5,
			WidthThreshold:     2.0,
			MaxMemoryMB:        8192,
		},
		SpaceDetection: SpaceDetection{
			MinSpaceVolume:     5.0,
			SpaceMergeDistance: 0.5,
			MaxSeedPoints:      5000,
			MinPassageHeight:   1.8,
		},
		Openings: Openings{
			StandardDoorAreaLimit:     2.0,
			WideDoorAreaLimit:         5.0,
			PassageAspectRatio:        3.0,
			ConnectionDegreeThreshold: 3,
			OpeningHeightRange:        [2]float64{0.0, 2.2},
		},
		Ventilation: Ventilation{
			HighACHRate:      10.0,
			MediumACHRange:   [2]float64{5.0, 8.0},
			LowACHRange:      [2]float64{1.0, 4.0},
			OpeningInfluence: 0.7,
			PathDecayFactor:  0.6,
		},
		Processing: Processing{
			NumWorkers:     8,
			EnableParallel: true,
			ChunkSize:      256,
		},
	}
}

// Load reads a YAML configuration file, starting from Default and
// overlaying only the keys present in the file. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every numeric parameter lies in a sane range. It
// does not check cross-field consistency beyond what spec.md requires.
func (c Config) Validate() error {
	switch {
	case c.Voxelization.BaseVoxelSize <= 0:
		return fmt.Errorf("%w: voxelization.base_voxel_size must be > 0", venterr.ErrInputInvalid)
	case c.Voxelization.MinVoxelSize <= 0 || c.Voxelization.MinVoxelSize > c.Voxelization.BaseVoxelSize:
		return fmt.Errorf("%w: voxelization.min_voxel_size must be in (0, base_voxel_size]", venterr.ErrInputInvalid)
	case c.SpaceDetection.MinSpaceVolume < 0:
		return fmt.Errorf("%w: space_detection.min_space_volume must be >= 0", venterr.ErrInputInvalid)
	case c.SpaceDetection.MaxSeedPoints <= 0:
		return fmt.Errorf("%w: space_detection.max_seed_points must be > 0", venterr.ErrInputInvalid)
	case c.Openings.StandardDoorAreaLimit <= 0 || c.Openings.WideDoorAreaLimit <= 0:
		return fmt.Errorf("%w: openings area limits must be > 0", venterr.ErrInputInvalid)
	case c.Openings.PassageAspectRatio <= 0:
		return fmt.Errorf("%w: openings.passage_aspect_ratio must be > 0", venterr.ErrInputInvalid)
	case c.Ventilation.HighACHRate <= 0:
		return fmt.Errorf("%w: ventilation.high_ach_rate must be > 0", venterr.ErrInputInvalid)
	case c.Ventilation.PathDecayFactor <= 0 || c.Ventilation.PathDecayFactor > 1:
		return fmt.Errorf("%w: ventilation.path_decay_factor must be in (0, 1]", venterr.ErrInputInvalid)
	}
	return nil
}
