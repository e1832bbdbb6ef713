package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/jump"
	"github.com/san-kum/skijump/internal/physics"
)

const (
	DefaultSlopeAngle   = -15.0
	DefaultStartPos     = 0.0
	DefaultApproachLen  = 40.0
	DefaultTakeoffAngle = 25.0
	DefaultFallHeight   = 0.5
)

type Config struct {
	Design DesignConfig `yaml:"design" json:"design"`
	Skier  SkierConfig  `yaml:"skier" json:"skier"`
	Solver SolverConfig `yaml:"solver" json:"solver"`
}

// DesignConfig angles are in degrees.
type DesignConfig struct {
	SlopeAngle   float64 `yaml:"slope_angle" json:"slope_angle"`
	StartPos     float64 `yaml:"start_pos" json:"start_pos"`
	ApproachLen  float64 `yaml:"approach_len" json:"approach_len"`
	TakeoffAngle float64 `yaml:"takeoff_angle" json:"takeoff_angle"`
	FallHeight   float64 `yaml:"fall_height" json:"fall_height"`
}

type SkierConfig struct {
	Mass                float64 `yaml:"mass" json:"mass"`
	Area                float64 `yaml:"area" json:"area"`
	DragCoeff           float64 `yaml:"drag_coeff" json:"drag_coeff"`
	FrictionCoeff       float64 `yaml:"friction_coeff" json:"friction_coeff"`
	TolerableSlidingAcc float64 `yaml:"tolerable_sliding_acc" json:"tolerable_sliding_acc"`
	TolerableLandingAcc float64 `yaml:"tolerable_landing_acc" json:"tolerable_landing_acc"`
}

type SolverConfig struct {
	TimeOnRamp       float64 `yaml:"time_on_ramp" json:"time_on_ramp"`
	Gamma            float64 `yaml:"gamma" json:"gamma"`
	SampleRate       float64 `yaml:"sample_rate" json:"sample_rate"`
	MaxFlightTime    float64 `yaml:"max_flight_time" json:"max_flight_time"`
	EFHIncrement     float64 `yaml:"efh_increment" json:"efh_increment"`
	TakeoffPoints    int     `yaml:"takeoff_points" json:"takeoff_points"`
	TransitionPoints int     `yaml:"transition_points" json:"transition_points"`
}

func DefaultConfig() *Config {
	skier := physics.NewSkier()
	opts := jump.DefaultOptions()
	return &Config{
		Design: DesignConfig{
			SlopeAngle:   DefaultSlopeAngle,
			StartPos:     DefaultStartPos,
			ApproachLen:  DefaultApproachLen,
			TakeoffAngle: DefaultTakeoffAngle,
			FallHeight:   DefaultFallHeight,
		},
		Skier: SkierConfig{
			Mass:                skier.Mass,
			Area:                skier.Area,
			DragCoeff:           skier.DragCoeff,
			FrictionCoeff:       skier.FrictionCoeff,
			TolerableSlidingAcc: skier.TolerableSlidingAcc,
			TolerableLandingAcc: skier.TolerableLandingAcc,
		},
		Solver: SolverConfig{
			TimeOnRamp:       opts.TimeOnRamp,
			Gamma:            opts.Gamma,
			SampleRate:       opts.Flight.SampleRate,
			MaxFlightTime:    opts.Flight.MaxTime,
			EFHIncrement:     physics.DefaultEFHIncrement,
			TakeoffPoints:    opts.TakeoffPoints,
			TransitionPoints: opts.TransitionPoints,
		},
	}
}

// Load reads a YAML file, or an HJSON file when the extension is .hjson or
// .json. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hjson", ".json":
		if err := unmarshalHJSON(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func unmarshalHJSON(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that would otherwise be silently replaced by
// solver defaults. Design feasibility is left to the designer.
func (c *Config) Validate() error {
	if err := c.SkierModel().Validate(); err != nil {
		return err
	}
	switch {
	case c.Solver.TimeOnRamp <= 0:
		return fmt.Errorf("time on ramp must be positive, got %g", c.Solver.TimeOnRamp)
	case !(c.Solver.Gamma > 0 && c.Solver.Gamma < 1):
		return fmt.Errorf("gamma must be within (0, 1), got %g", c.Solver.Gamma)
	case c.Solver.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %g", c.Solver.SampleRate)
	case c.Solver.MaxFlightTime <= 0:
		return fmt.Errorf("max flight time must be positive, got %g", c.Solver.MaxFlightTime)
	case c.Solver.EFHIncrement <= 0:
		return fmt.Errorf("efh increment must be positive, got %g", c.Solver.EFHIncrement)
	}
	return nil
}

func (c *Config) Params() jump.Params {
	return jump.Params{
		SlopeAngle:   c.Design.SlopeAngle,
		StartPos:     c.Design.StartPos,
		ApproachLen:  c.Design.ApproachLen,
		TakeoffAngle: c.Design.TakeoffAngle,
		FallHeight:   c.Design.FallHeight,
	}
}

func (c *Config) SkierModel() *physics.Skier {
	return &physics.Skier{
		Mass:                c.Skier.Mass,
		Area:                c.Skier.Area,
		DragCoeff:           c.Skier.DragCoeff,
		FrictionCoeff:       c.Skier.FrictionCoeff,
		TolerableSlidingAcc: c.Skier.TolerableSlidingAcc,
		TolerableLandingAcc: c.Skier.TolerableLandingAcc,
	}
}

// SetSkierParam overrides one skier parameter by its archived name, such as
// "drag_coeff".
func (c *Config) SetSkierParam(name string, value float64) error {
	var s dynamo.Configurable = c.SkierModel()
	if err := s.SetParam(name, value); err != nil {
		return err
	}
	p := s.GetParams()
	c.Skier = SkierConfig{
		Mass:                p["mass"],
		Area:                p["area"],
		DragCoeff:           p["drag_coeff"],
		FrictionCoeff:       p["friction_coeff"],
		TolerableSlidingAcc: p["tolerable_sliding_acc"],
		TolerableLandingAcc: p["tolerable_landing_acc"],
	}
	return nil
}

func (c *Config) JumpOptions() jump.Options {
	opts := jump.DefaultOptions()
	opts.Skier = c.SkierModel()
	opts.TimeOnRamp = c.Solver.TimeOnRamp
	opts.Gamma = c.Solver.Gamma
	opts.TakeoffPoints = c.Solver.TakeoffPoints
	opts.TransitionPoints = c.Solver.TransitionPoints
	opts.Flight.SampleRate = c.Solver.SampleRate
	opts.Flight.MaxTime = c.Solver.MaxFlightTime
	return opts
}
