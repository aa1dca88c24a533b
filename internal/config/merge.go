package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput    = "output"
	keyLogging   = "logging"
	keyNutrition = "nutrition"
	keyReport    = "report"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the file is decoded over the target's current
// section, so fields the file omits keep their values. Unknown keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}
	return nil
}

func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		return node.Decode(&target.Output)
	case keyLogging:
		return node.Decode(&target.Logging)
	case keyNutrition:
		return node.Decode(&target.Nutrition)
	case keyReport:
		return node.Decode(&target.Report)
	default:
		return nil
	}
}
