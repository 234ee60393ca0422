package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

//go:embed config.schema.json
var configSchema string

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight"`

	// Population
	NumBoids     int     `json:"numBoids" yaml:"numBoids"`
	Seed         uint64  `json:"seed" yaml:"seed"` // 0 = time based
	BoidRadius   float64 `json:"boidRadius" yaml:"boidRadius"`
	InitialSpeed float64 `json:"initialSpeed" yaml:"initialSpeed"`

	// Flocking
	MaxSpeed         float64 `json:"maxSpeed" yaml:"maxSpeed"`
	ViewRadius       float64 `json:"viewRadius" yaml:"viewRadius"`
	AlignWeight      float64 `json:"alignWeight" yaml:"alignWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" yaml:"cohesionWeight"`
	SeparationWeight float64 `json:"separationWeight" yaml:"separationWeight"`

	// Edges and pointer
	AvoidanceDistance float64 `json:"avoidanceDistance" yaml:"avoidanceDistance"`
	AvoidanceWeight   float64 `json:"avoidanceWeight" yaml:"avoidanceWeight"`
	AttractionWeight  float64 `json:"attractionWeight" yaml:"attractionWeight"`
	CaptureDistance   float64 `json:"captureDistance" yaml:"captureDistance"`
	BorderThickness   float64 `json:"borderThickness" yaml:"borderThickness"`

	// Loop
	TicksPerSecond int `json:"ticksPerSecond" yaml:"ticksPerSecond"`
	TelemetryEvery int `json:"telemetryEvery" yaml:"telemetryEvery"` // Ticks between telemetry rows, 0 = off
}

func DefaultConfig() *Config {
	s := flock.DefaultSettings()
	return &Config{
		WorldWidth:        800,
		WorldHeight:       600,
		NumBoids:          1000,
		BoidRadius:        s.BoidRadius,
		InitialSpeed:      s.InitialSpeed,
		MaxSpeed:          s.MaxSpeed,
		ViewRadius:        s.ViewRadius,
		AlignWeight:       s.AlignWeight,
		CohesionWeight:    s.CohesionWeight,
		SeparationWeight:  s.SeparationWeight,
		AvoidanceDistance: s.AvoidanceDistance,
		AvoidanceWeight:   s.AvoidanceWeight,
		AttractionWeight:  s.AttractionWeight,
		CaptureDistance:   s.CaptureDistance,
		BorderThickness:   s.BorderThickness,
		TicksPerSecond:    60,
		TelemetryEvery:    60,
	}
}

// Settings extracts the flock tunables.
func (c *Config) Settings() flock.Settings {
	return flock.Settings{
		MaxSpeed:          c.MaxSpeed,
		ViewRadius:        c.ViewRadius,
		AlignWeight:       c.AlignWeight,
		CohesionWeight:    c.CohesionWeight,
		SeparationWeight:  c.SeparationWeight,
		AvoidanceDistance: c.AvoidanceDistance,
		AvoidanceWeight:   c.AvoidanceWeight,
		AttractionWeight:  c.AttractionWeight,
		CaptureDistance:   c.CaptureDistance,
		BorderThickness:   c.BorderThickness,
		BoidRadius:        c.BoidRadius,
		InitialSpeed:      c.InitialSpeed,
	}
}

// ApplySettings copies flock tunables back into the config.
func (c *Config) ApplySettings(s flock.Settings) {
	c.MaxSpeed = s.MaxSpeed
	c.ViewRadius = s.ViewRadius
	c.AlignWeight = s.AlignWeight
	c.CohesionWeight = s.CohesionWeight
	c.SeparationWeight = s.SeparationWeight
	c.AvoidanceDistance = s.AvoidanceDistance
	c.AvoidanceWeight = s.AvoidanceWeight
	c.AttractionWeight = s.AttractionWeight
	c.CaptureDistance = s.CaptureDistance
	c.BorderThickness = s.BorderThickness
	c.BoidRadius = s.BoidRadius
	c.InitialSpeed = s.InitialSpeed
}

// LoadConfig loads configuration from a JSON or YAML file, validates it
// against the schema and applies it over DefaultConfig.
// Keys left out of the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 1. Normalize YAML to JSON so both formats share one schema
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, err
		}
	}

	return ParseConfig(raw)
}

// ParseConfig validates a JSON document and applies it over DefaultConfig.
func ParseConfig(doc []byte) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Validate, numbers kept as json.Number for exact integer checks
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 3. Unmarshal into Struct
	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 4. Cross-field rules the schema does not express
	if err := cfg.Settings().Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if tree == nil {
		tree = map[string]interface{}{}
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config yaml: %w", err)
	}
	return b, nil
}
