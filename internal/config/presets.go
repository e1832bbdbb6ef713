package config

import (
	"maps"
	"slices"
)

// Presets are named design inputs. Skier and solver settings stay at their
// defaults.
var Presets = map[string]DesignConfig{
	"small": {
		SlopeAngle: -15, StartPos: 0, ApproachLen: 40, TakeoffAngle: 25, FallHeight: 0.5,
	},
	"medium": {
		SlopeAngle: -20, StartPos: 0, ApproachLen: 60, TakeoffAngle: 20, FallHeight: 0.75,
	},
	"large": {
		SlopeAngle: -20, StartPos: 10, ApproachLen: 80, TakeoffAngle: 25, FallHeight: 1.0,
	},
	"kicker": {
		SlopeAngle: -10, StartPos: 0, ApproachLen: 30, TakeoffAngle: 15, FallHeight: 0.5,
	},
}

func GetPreset(name string) *Config {
	design, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Design = design
	return cfg
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
