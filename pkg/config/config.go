// Package config loads engine settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// LogLevelEnv overrides Logging.Level when set
const LogLevelEnv = "LOG_LEVEL"

// Config is the top-level configuration file
type Config struct {
	Engine  Engine  `yaml:"engine"`
	Logging Logging `yaml:"logging"`
}

// Engine configures one analytics engine
type Engine struct {
	PageRank    PageRank    `yaml:"pagerank"`
	Betweenness Betweenness `yaml:"betweenness"`
	Community   Community   `yaml:"community"`
	Paths       Paths       `yaml:"paths"`
	Cycles      Cycles      `yaml:"cycles"`

	// TopN bounds each ranking in the graph summary
	TopN int `yaml:"top_n" validate:"min=1,max=1000"`

	// Workers bounds concurrently computed sections; 0 picks GOMAXPROCS
	Workers int `yaml:"workers" validate:"min=0,max=256"`
}

type PageRank struct {
	DampingFactor float64 `yaml:"damping_factor" validate:"gt=0,lt=1"`
	Iterations    int     `yaml:"iterations" validate:"min=1,max=1000"`
}

type Betweenness struct {
	SampleSize int `yaml:"sample_size" validate:"min=1"`

	// Seed fixes source sampling; 0 seeds from the clock
	Seed int64 `yaml:"seed"`
}

type Community struct {
	Iterations int `yaml:"iterations" validate:"min=1,max=1000"`
}

type Paths struct {
	MaxDepth int `yaml:"max_depth" validate:"min=1,max=32"`
	MaxPaths int `yaml:"max_paths" validate:"min=1,max=10000"`
}

type Cycles struct {
	MaxDepth  int `yaml:"max_depth" validate:"min=3,max=16"`
	MaxCycles int `yaml:"max_cycles" validate:"min=1"`
}

type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		Engine:  DefaultEngine(),
		Logging: Logging{Level: "info"},
	}
}

// DefaultEngine returns the stock engine settings
func DefaultEngine() Engine {
	return Engine{
		PageRank:    PageRank{DampingFactor: 0.85, Iterations: 20},
		Betweenness: Betweenness{SampleSize: 50, Seed: 1},
		Community:   Community{Iterations: 10},
		Paths:       Paths{MaxDepth: 5, MaxPaths: 10},
		Cycles:      Cycles{MaxDepth: 6, MaxCycles: 1000},
		TopN:        10,
		Workers:     0,
	}
}

// Load reads and validates a YAML file. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, applies the environment override
// and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
