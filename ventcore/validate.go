package ventcore

import (
	"fmt"

	"github.com/offshorevent/ventcore/venterr"
)

// Validate implements spec.md §4.6's validation rules. Duplicate IDs and
// dangling opening endpoints are errors; out-of-range volumes and ACH
// values are warnings. The record is returned as-is regardless of
// outcome so the caller can still inspect it (spec.md §7).
func Validate(r *Record) *venterr.ValidationError {
	result := &venterr.ValidationError{}

	spaceIDs := make(map[string]bool, len(r.Spaces))
	for _, sp := range r.Spaces {
		if spaceIDs[sp.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate space ID: %s", sp.ID))
		}
		spaceIDs[sp.ID] = true

		if sp.Volume <= 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("space %s has non-positive volume: %v", sp.ID, sp.Volume))
		}
		if sp.ACH < 0 || sp.ACH > 20 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("space %s ACH out of [0,20]: %v", sp.ID, sp.ACH))
		}
	}

	openingIDs := make(map[string]bool, len(r.Connections))
	for _, op := range r.Connections {
		if openingIDs[op.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate opening ID: %s", op.ID))
		}
		openingIDs[op.ID] = true

		for _, endpoint := range op.Connects {
			if endpoint == exteriorID {
				continue
			}
			if !spaceIDs[endpoint] {
				result.Errors = append(result.Errors, fmt.Sprintf("opening %s references unknown space: %s", op.ID, endpoint))
			}
		}
	}

	return result
}
