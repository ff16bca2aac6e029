// Package config holds the settings shared by the solver and experiment tools.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	ParamBudget   = "b"
	ParamVehicles = "U"

	// TimestampFormat sorts well and keeps milliseconds and the zone.
	TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
)

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Engine     EngineConfig     `yaml:"engine"`
	Solve      SolveConfig      `yaml:"solve"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type EngineConfig struct {
	LogFile      string `yaml:"log_file"`
	LogToConsole bool   `yaml:"log_to_console"`
	Threads      int    `yaml:"threads"`
	// ModelFile is the solver's model.Write target. Sweeps keep only its
	// extension and write step_NNN<ext> into the output folder.
	ModelFile string `yaml:"model_file"`
}

type SolveConfig struct {
	MinimizeCost bool `yaml:"minimize_cost"`
	Verify       bool `yaml:"verify"`
	// DumpLP writes each program next to its instance file as <name>.lp.
	DumpLP bool `yaml:"dump_lp"`
}

type ExperimentConfig struct {
	Output    string  `yaml:"output"`
	Param     string  `yaml:"param"`
	Steps     int     `yaml:"steps"`
	Start     float64 `yaml:"start"`
	Increment float64 `yaml:"increment"`

	Clients  int     `yaml:"clients"`
	Vehicles int     `yaml:"vehicles"`
	Budget   float64 `yaml:"budget"`
	Seed     int64   `yaml:"seed"`

	Parallel    int    `yaml:"parallel"`
	MetricsFile string `yaml:"metrics_file"`
}

func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Engine: EngineConfig{LogFile: "maxcov-gurobi.log"},
		Solve:  SolveConfig{Verify: true},
		Experiment: ExperimentConfig{
			Output:    "out",
			Param:     ParamBudget,
			Steps:     5,
			Start:     1,
			Increment: 1,
			Clients:   10,
			Vehicles:  2,
			Budget:    1,
			Seed:      1,
			Parallel:  1,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Engine.Threads < 0 {
		return fmt.Errorf("engine.threads must not be negative, got %d", c.Engine.Threads)
	}
	return c.Experiment.Validate()
}

func (e ExperimentConfig) Validate() error {
	switch e.Param {
	case ParamBudget:
		if e.Start < 0 || e.Start+float64(e.Steps-1)*e.Increment < 0 {
			return fmt.Errorf("budgets must stay non-negative")
		}
		if e.Vehicles < 0 {
			return fmt.Errorf("experiment.vehicles must not be negative")
		}
	case ParamVehicles:
		if e.Start < 1 || e.Start != float64(int(e.Start)) || e.Increment != float64(int(e.Increment)) {
			return fmt.Errorf("vehicle counts need an integral start >= 1 and an integral increment")
		}
		if e.Start+float64(e.Steps-1)*e.Increment < 1 {
			return fmt.Errorf("vehicle count drops below 1")
		}
		if e.Budget < 0 {
			return fmt.Errorf("experiment.budget must not be negative")
		}
	default:
		return fmt.Errorf("unknown parameter %q, want %q or %q", e.Param, ParamBudget, ParamVehicles)
	}
	if e.Steps < 1 {
		return fmt.Errorf("experiment.steps must be at least 1")
	}
	if e.Clients < 0 {
		return fmt.Errorf("experiment.clients must not be negative")
	}
	if e.Parallel < 1 {
		return fmt.Errorf("experiment.parallel must be at least 1")
	}
	return nil
}

// NewLogger builds the logrus logger described by the log section.
func (l LogConfig) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetLevel(level)
	if strings.ToLower(l.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: TimestampFormat})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			TimestampFormat: TimestampFormat,
			FullTimestamp:   true,
		})
	}
	return log, nil
}
