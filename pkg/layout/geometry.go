package layout

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layouterr"
)

// CalculateBounds returns the axis-aligned box around positions. No
// positions give the zero Bounds; a single position gives a box of size
// zero centered on it.
func CalculateBounds(positions []mgl32.Vec3) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}

	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], p[a])
			hi[a] = max(hi[a], p[a])
		}
	}
	return Bounds{
		Center: lo.Add(hi).Mul(0.5),
		Size:   hi.Sub(lo),
	}
}

// GeneratePath returns steps points on an arc from one point to another.
// The straight line between them is raised along +Y by 4t(1-t)*arcHeight,
// so the peak sits at the midpoint. The first and last points equal from
// and to exactly.
func GeneratePath(from, to mgl32.Vec3, arcHeight float32, steps int) ([]mgl32.Vec3, error) {
	if steps < 2 {
		return nil, layouterr.InvalidArgument("layout", "GeneratePath", "steps", "must be at least 2, got %d", steps)
	}
	if !finiteVec(from) || !finiteVec(to) || !finite(arcHeight) {
		return nil, layouterr.InvalidArgument("layout", "GeneratePath", "from/to/arcHeight", "must be finite")
	}

	path := make([]mgl32.Vec3, steps)
	last := float32(steps - 1)
	for i := range path {
		t := float32(i) / last
		p := lerp(from, to, t)
		p[1] += 4 * t * (1 - t) * arcHeight
		path[i] = p
	}
	path[0] = from
	path[steps-1] = to
	return path, nil
}

// Interpolate blends two layouts. Ids present only in from keep their from
// position; ids present only in to are left out. t is not clamped, so
// values outside [0, 1] extrapolate.
func Interpolate(from, to map[entity.ID]mgl32.Vec3, t float32) map[entity.ID]mgl32.Vec3 {
	out := make(map[entity.ID]mgl32.Vec3, len(from))
	for id, a := range from {
		b, ok := to[id]
		if !ok {
			out[id] = a
			continue
		}
		out[id] = lerp(a, b, t)
	}
	return out
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// CalculateBounds is the package-level CalculateBounds
func (e *Engine) CalculateBounds(positions []mgl32.Vec3) Bounds {
	return CalculateBounds(positions)
}

// GeneratePath is the package-level GeneratePath
func (e *Engine) GeneratePath(from, to mgl32.Vec3, arcHeight float32, steps int) ([]mgl32.Vec3, error) {
	return GeneratePath(from, to, arcHeight, steps)
}
