// Package layout runs the 3D force-directed simulation: repulsion between
// every pair of entities (exact or Barnes-Hut), spring attraction along
// edges and a pull toward the origin, integrated with damping each step.
package layout

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/layouterr"
	"github.com/dd0wney/cluso-layout/pkg/validation"
)

// Bounds is an axis-aligned box given by its center and extent
type Bounds struct {
	Center mgl32.Vec3 `json:"center"`
	Size   mgl32.Vec3 `json:"size"`
}

// Min returns the lowest corner
func (b Bounds) Min() mgl32.Vec3 {
	return b.Center.Sub(b.Size.Mul(0.5))
}

// Max returns the highest corner
func (b Bounds) Max() mgl32.Vec3 {
	return b.Center.Add(b.Size.Mul(0.5))
}

// Config holds the simulation constants.
type Config struct {
	RepulsionStrength  float32 `yaml:"repulsion_strength" validate:"gte=0"`
	AttractionStrength float32 `yaml:"attraction_strength" validate:"gte=0"`
	CenteringStrength  float32 `yaml:"centering_strength" validate:"gte=0"`
	Damping            float32 `yaml:"damping"`                      // fraction of velocity kept per step, in [0, 1)
	MinDistance        float32 `yaml:"min_distance" validate:"gt=0"` // floor for distances in force formulas

	// Entity counts above this use the octree; at or below it, exact
	// pairwise repulsion.
	BarnesHutThreshold int     `yaml:"barnes_hut_threshold" validate:"gte=0"`
	Theta              float32 `yaml:"theta" validate:"gt=0"`

	// BoundsLimit clamps positions to [-BoundsLimit, BoundsLimit] on every
	// axis after integration. 0 disables the clamp.
	BoundsLimit float32 `yaml:"bounds_limit" validate:"gte=0"`

	// Used by Run only
	MaxIterations      int     `yaml:"max_iterations" validate:"gte=1"`
	ConvergenceEpsilon float32 `yaml:"convergence_epsilon" validate:"gte=0"`
}

// DefaultConfig returns the standard simulation constants
func DefaultConfig() Config {
	return Config{
		RepulsionStrength:  0.5,
		AttractionStrength: 0.1,
		CenteringStrength:  0.05,
		Damping:            0.85,
		MinDistance:        0.1,
		BarnesHutThreshold: 100,
		Theta:              0.5,
		MaxIterations:      300,
		ConvergenceEpsilon: 1e-4,
	}
}

// HighPerformanceConfig switches to Barnes-Hut earlier and approximates
// more coarsely
func HighPerformanceConfig() Config {
	cfg := DefaultConfig()
	cfg.BarnesHutThreshold = 50
	cfg.Theta = 0.7
	return cfg
}

// Validate reports the first problem with c as a configuration error.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return layouterr.Configuration("Validate", err)
	}

	cv := validation.NewConfigValidator("Config").
		Finite("RepulsionStrength", float64(c.RepulsionStrength)).
		Finite("AttractionStrength", float64(c.AttractionStrength)).
		Finite("CenteringStrength", float64(c.CenteringStrength)).
		RangeFloatOpen("Damping", float64(c.Damping), 0, 1).
		Finite("MinDistance", float64(c.MinDistance)).
		Finite("Theta", float64(c.Theta)).
		Finite("BoundsLimit", float64(c.BoundsLimit)).
		Finite("ConvergenceEpsilon", float64(c.ConvergenceEpsilon)).
		When(c.BoundsLimit > 0, func(cv *validation.ConfigValidator) {
			cv.Custom("BoundsLimit", func() error {
				if c.BoundsLimit < c.MinDistance {
					return errBoundsBelowMinDistance
				}
				return nil
			})
		})
	if err := cv.Validate(); err != nil {
		return layouterr.Configuration("Validate", err)
	}
	return nil
}

// RunStats summarizes a Run
type RunStats struct {
	Iterations  int
	Converged   bool
	MaxVelocity float32
	Elapsed     time.Duration
}

func finiteVec(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
