package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	yml := `
log:
  level: debug
engine:
  threads: 4
solve:
  minimize_cost: true
experiment:
  param: U
  steps: 3
  start: 2
  increment: 1
  budget: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their default")
	assert.Equal(t, 4, cfg.Engine.Threads)
	assert.True(t, cfg.Solve.MinimizeCost)
	assert.True(t, cfg.Solve.Verify)
	assert.Equal(t, ParamVehicles, cfg.Experiment.Param)
	assert.Equal(t, 2.5, cfg.Experiment.Budget)
	assert.Equal(t, 10, cfg.Experiment.Clients)
	require.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestExperimentValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ExperimentConfig)
		ok     bool
	}{
		{"budget sweep", func(e *ExperimentConfig) {}, true},
		{"vehicle sweep", func(e *ExperimentConfig) { e.Param = ParamVehicles; e.Start = 1; e.Increment = 2 }, true},
		{"unknown param", func(e *ExperimentConfig) { e.Param = "n" }, false},
		{"no steps", func(e *ExperimentConfig) { e.Steps = 0 }, false},
		{"negative budget end", func(e *ExperimentConfig) { e.Start = 1; e.Increment = -1; e.Steps = 3 }, false},
		{"fractional vehicles", func(e *ExperimentConfig) { e.Param = ParamVehicles; e.Start = 1.5 }, false},
		{"vehicles drop to zero", func(e *ExperimentConfig) { e.Param = ParamVehicles; e.Start = 2; e.Increment = -1; e.Steps = 3 }, false},
		{"no workers", func(e *ExperimentConfig) { e.Parallel = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Default().Experiment
			tt.modify(&e)
			if tt.ok {
				assert.NoError(t, e.Validate())
			} else {
				assert.Error(t, e.Validate())
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := LogConfig{Level: "warn", Format: "json"}.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = LogConfig{Level: "loud"}.NewLogger()
	assert.Error(t, err)

	cfg := Default()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}
