// Command ventanalyze runs the full C1-C6 pipeline over a single mesh file
// and writes the assembled space-data record (spec.md §4.6) plus a
// companion visualization document to disk.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventcore"
	"github.com/offshorevent/ventcore/venterr"
	"github.com/offshorevent/ventcore/ventlog"
)

func main() {
	meshPath := flag.String("mesh", "", "path to the input mesh (.obj)")
	configPath := flag.String("config", "", "path to a YAML configuration file (defaults are used if empty)")
	outputPath := flag.String("output", "space_data.json", "path to write the assembled space data record")
	vizPath := flag.String("viz-output", "visualization.json", "path to write the companion visualization document")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	fmt.Println("ventanalyze: offshore-platform ventilation analysis")

	if *meshPath == "" {
		log := ventlog.NewDefaultLogger("ventanalyze", false)
		log.Errorf("-mesh is required")
		os.Exit(1)
	}

	logger := ventlog.NewDefaultLogger("ventanalyze", *verbose)

	cfg := ventconfig.Default()
	if *configPath != "" {
		loaded, err := ventconfig.Load(*configPath)
		if err != nil {
			logger.Errorf("load config: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	mesh, err := loadOBJ(*meshPath)
	if err != nil {
		logger.Errorf("load mesh: %v", err)
		os.Exit(1)
	}
	if err := mesh.Validate(); err != nil {
		logger.Errorf("invalid mesh: %v", err)
		os.Exit(1)
	}

	pipeline := ventcore.NewPipeline(cfg, logger)
	record, err := pipeline.Run(mesh)
	if record == nil {
		// Stage failure before a record could even be assembled.
		logger.Errorf("pipeline failed: %v", err)
		os.Exit(1)
	}

	if err := writeJSON(*outputPath, record); err != nil {
		logger.Errorf("write output: %v", err)
		os.Exit(1)
	}
	fmt.Printf("ventanalyze: wrote %s (%d spaces, %d connections)\n", *outputPath, len(record.Spaces), len(record.Connections))

	viz := buildVisualization(record)
	if err := writeJSON(*vizPath, viz); err != nil {
		logger.Errorf("write visualization: %v", err)
		os.Exit(1)
	}
	fmt.Printf("ventanalyze: wrote %s\n", *vizPath)

	if err != nil {
		var verr *venterr.ValidationError
		if errors.As(err, &verr) {
			logger.Warnf("record validation failed: %d error(s), %d warning(s)", len(verr.Errors), len(verr.Warnings))
			os.Exit(1)
		}
		logger.Errorf("pipeline failed: %v", err)
		os.Exit(1)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
