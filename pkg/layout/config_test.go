package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-layout/pkg/layouterr"
)

func TestConfigPresets(t *testing.T) {
	def := DefaultConfig()
	require.NoError(t, def.Validate())
	assert.Equal(t, float32(0.5), def.RepulsionStrength)
	assert.Equal(t, float32(0.1), def.AttractionStrength)
	assert.Equal(t, float32(0.05), def.CenteringStrength)
	assert.Equal(t, float32(0.85), def.Damping)
	assert.Equal(t, float32(0.1), def.MinDistance)
	assert.Equal(t, 100, def.BarnesHutThreshold)
	assert.Equal(t, float32(0.5), def.Theta)
	assert.Zero(t, def.BoundsLimit)

	hp := HighPerformanceConfig()
	require.NoError(t, hp.Validate())
	assert.Equal(t, 50, hp.BarnesHutThreshold)
	assert.Equal(t, float32(0.7), hp.Theta)
	assert.Equal(t, def.Damping, hp.Damping)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"zero damping", func(c *Config) { c.Damping = 0 }, true},
		{"damping one", func(c *Config) { c.Damping = 1 }, false},
		{"negative damping", func(c *Config) { c.Damping = -0.1 }, false},
		{"negative repulsion", func(c *Config) { c.RepulsionStrength = -1 }, false},
		{"zero min distance", func(c *Config) { c.MinDistance = 0 }, false},
		{"zero theta", func(c *Config) { c.Theta = 0 }, false},
		{"negative threshold", func(c *Config) { c.BarnesHutThreshold = -1 }, false},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, false},
		{"bounds limit", func(c *Config) { c.BoundsLimit = 50 }, true},
		{"bounds below min distance", func(c *Config) { c.BoundsLimit = 0.05 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, layouterr.IsConfiguration(err), "got %v", err)
		})
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("damping: 0.9\ntheta: 0.8\nbounds_limit: 25\n"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Damping = 0.9
	want.Theta = 0.8
	want.BoundsLimit = 25
	assert.Equal(t, want, cfg)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "dampening: 0.9\n"},
		{"wrong type", "max_iterations: lots\n"},
		{"out of range", "damping: 1.5\n"},
		{"malformed", "damping: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.True(t, layouterr.IsConfiguration(err), "got %v", err)
		})
	}
}

func TestMarshalConfigRoundTrip(t *testing.T) {
	cfg := HighPerformanceConfig()
	cfg.BoundsLimit = 12

	data, err := MarshalConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "barnes_hut_threshold: 50")

	back, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repulsion_strength: 2\nmax_iterations: 40\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(2), cfg.RepulsionStrength)
	assert.Equal(t, 40, cfg.MaxIterations)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
