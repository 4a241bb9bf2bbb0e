package octree

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/entity"
)

// ForceParams are the repulsion constants for one query.
type ForceParams struct {
	Strength    float32
	MinDistance float32
	Theta       float32
}

// Repulsion returns the force pushing target away from source:
// strength*massTarget*massSource/max(d, minDistance)² along the unit vector
// from source to target. Coincident points have no direction and get a zero
// force.
func Repulsion(target, source mgl32.Vec3, massTarget, massSource, strength, minDistance float32) mgl32.Vec3 {
	delta := target.Sub(source)
	d := delta.Len()
	if d == 0 {
		return mgl32.Vec3{}
	}
	r := max(d, minDistance)
	magnitude := strength * massTarget * massSource / (r * r)
	return delta.Mul(magnitude / d)
}

// ForceOn returns the approximate repulsion on an entity of the given mass at
// p from every entity below n except self.
//
// An internal node is treated as one pseudo-entity at its center of mass when
// its side length over the distance to that center is below Theta and p lies
// outside the cube. With Theta <= 0 the result is the exact pairwise sum.
func (n *Node) ForceOn(p mgl32.Vec3, mass float32, self entity.ID, params ForceParams) mgl32.Vec3 {
	var f mgl32.Vec3
	n.forceOn(p, mass, self, params, &f)
	return f
}

func (n *Node) forceOn(p mgl32.Vec3, mass float32, self entity.ID, params ForceParams, f *mgl32.Vec3) {
	if n.TotalMass == 0 {
		return
	}

	if n.IsLeaf() {
		if n.held && n.body.id != self {
			*f = f.Add(Repulsion(p, n.body.pos, mass, n.body.mass, params.Strength, params.MinDistance))
		}
		for _, b := range n.overflow {
			if b.id != self {
				*f = f.Add(Repulsion(p, b.pos, mass, b.mass, params.Strength, params.MinDistance))
			}
		}
		return
	}

	d := n.CenterOfMass.Sub(p).Len()
	if d > 0 && 2*n.HalfSize/d < params.Theta && !n.Contains(p) {
		*f = f.Add(Repulsion(p, n.CenterOfMass, mass, n.TotalMass, params.Strength, params.MinDistance))
		return
	}

	for _, c := range n.Children {
		if c != nil {
			c.forceOn(p, mass, self, params, f)
		}
	}
}
