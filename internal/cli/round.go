package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

// RoundFile is the YAML shape of a flowed round on disk
type RoundFile struct {
	Motion string        `yaml:"motion,omitempty"`
	Points []model.Point `yaml:"points"`
}

// loadRound reads a round file. An empty path yields an empty round.
func loadRound(path string) (*RoundFile, error) {
	if path == "" {
		return &RoundFile{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read round file: %w", err)
	}

	var round RoundFile
	if err := yaml.Unmarshal(raw, &round); err != nil {
		return nil, fmt.Errorf("parse round file: %w", err)
	}

	// Normalize legacy field shapes once, at the boundary
	for i := range round.Points {
		round.Points[i].Normalize()
	}

	return &round, nil
}

// saveRound writes a round file
func saveRound(path string, round *RoundFile) error {
	raw, err := yaml.Marshal(round)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write round file: %w", err)
	}
	return nil
}

// resolveSpeaker maps a speaker role to its BP round slot
func resolveSpeaker(role string) (model.Speaker, error) {
	for _, sp := range model.FullRoundSpeakers {
		if sp.Role == role {
			return sp, nil
		}
	}
	return model.Speaker{}, fmt.Errorf("unknown speaker role %q (expected one of PM, LO, DPM, DLO, MG, MO, GW, OW)", role)
}
