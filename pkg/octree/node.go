// Package octree implements the Barnes-Hut octree used to approximate
// repulsion between many entities.
//
// A tree is rebuilt from scratch every simulation step: insert every entity
// once, query ForceOn once per entity, then discard it. Nodes aggregate the
// total mass and mass-weighted center of mass of everything below them, so a
// distant subtree can stand in for all of its entities at once.
package octree

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layouterr"
	"github.com/dd0wney/cluso-layout/pkg/pools"
)

// MaxDepth bounds subdivision. Entities that still share a cube at this
// depth are kept together in one leaf.
const MaxDepth = 24

type body struct {
	id   entity.ID
	pos  mgl32.Vec3
	mass float32
}

// Node is one cube of space, [Center-HalfSize, Center+HalfSize] on every axis.
type Node struct {
	Center       mgl32.Vec3
	HalfSize     float32
	TotalMass    float32    // sum of masses below this node, 0 when empty
	CenterOfMass mgl32.Vec3 // zero when TotalMass == 0
	Children     [8]*Node   // nil until the first entity lands in that octant

	held     bool
	body     body
	overflow []body // only on leaves at MaxDepth
	depth    int
	arena    *pools.Slab[Node]
}

// NewNode creates an empty leaf covering the given cube.
func NewNode(center mgl32.Vec3, halfSize float32) (*Node, error) {
	if err := checkCube("NewNode", center, halfSize); err != nil {
		return nil, err
	}
	return &Node{Center: center, HalfSize: halfSize}, nil
}

func checkCube(op string, center mgl32.Vec3, halfSize float32) error {
	if !(halfSize > 0) || isInf(halfSize) {
		return layouterr.InvalidArgument("octree", op, "halfSize", "must be positive and finite, got %v", halfSize)
	}
	if !finite(center) {
		return layouterr.InvalidArgument("octree", op, "center", "must be finite, got %v", center)
	}
	return nil
}

// IsLeaf reports whether the node has never been subdivided.
func (n *Node) IsLeaf() bool {
	for _, c := range n.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// Entity returns the id of the single entity held by this leaf.
func (n *Node) Entity() (entity.ID, bool) {
	if !n.held || len(n.overflow) > 0 {
		return entity.Nil, false
	}
	return n.body.id, true
}

// Len returns the number of entities inserted below this node.
func (n *Node) Len() int {
	if n.IsLeaf() {
		if !n.held {
			return 0
		}
		return 1 + len(n.overflow)
	}
	total := 0
	for _, c := range n.Children {
		if c != nil {
			total += c.Len()
		}
	}
	return total
}

// OctantIndex returns the child slot for p: bit 0 is set when p.x >= center.x,
// bit 1 for y and bit 2 for z.
func (n *Node) OctantIndex(p mgl32.Vec3) uint8 {
	var idx uint8
	if p[0] >= n.Center[0] {
		idx |= 1
	}
	if p[1] >= n.Center[1] {
		idx |= 2
	}
	if p[2] >= n.Center[2] {
		idx |= 4
	}
	return idx
}

// Contains reports whether p lies inside the node cube, boundary included.
func (n *Node) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < n.Center[i]-n.HalfSize || p[i] > n.Center[i]+n.HalfSize {
			return false
		}
	}
	return true
}

// Insert adds one entity below this node.
func (n *Node) Insert(position mgl32.Vec3, mass float32, id entity.ID) error {
	if !(mass > 0) || isInf(mass) {
		return layouterr.NewError("Insert").Component("octree").Entity(id).Field("mass").
			Cause(layouterr.ErrInvalidArgument).Context("must be positive and finite, got %v", mass).Err()
	}
	if !finite(position) {
		return layouterr.NewError("Insert").Component("octree").Entity(id).Field("position").
			Cause(layouterr.ErrInvalidArgument).Context("must be finite, got %v", position).Err()
	}
	n.insert(body{id: id, pos: position, mass: mass})
	return nil
}

func (n *Node) insert(b body) {
	if n.IsLeaf() {
		if !n.held {
			n.held = true
			n.body = b
			n.TotalMass = b.mass
			n.CenterOfMass = b.pos
			return
		}
		if n.depth >= MaxDepth {
			n.overflow = append(n.overflow, b)
			n.accumulate(b)
			return
		}

		// Subdivide. The aggregate already counts the held entity.
		held := n.body
		n.held = false
		n.body = body{}
		n.child(n.OctantIndex(held.pos)).insert(held)
	}

	n.accumulate(b)
	n.child(n.OctantIndex(b.pos)).insert(b)
}

// accumulate folds b into the running mass-weighted average.
func (n *Node) accumulate(b body) {
	total := n.TotalMass + b.mass
	n.CenterOfMass = n.CenterOfMass.Mul(n.TotalMass).Add(b.pos.Mul(b.mass)).Mul(1 / total)
	n.TotalMass = total
}

func (n *Node) child(idx uint8) *Node {
	if c := n.Children[idx]; c != nil {
		return c
	}

	q := n.HalfSize / 2
	offset := mgl32.Vec3{-q, -q, -q}
	if idx&1 != 0 {
		offset[0] = q
	}
	if idx&2 != 0 {
		offset[1] = q
	}
	if idx&4 != 0 {
		offset[2] = q
	}

	var c *Node
	if n.arena != nil {
		c = n.arena.Alloc()
	} else {
		c = &Node{}
	}
	c.Center = n.Center.Add(offset)
	c.HalfSize = q
	c.depth = n.depth + 1
	c.arena = n.arena
	n.Children[idx] = c
	return c
}

// Walk visits n and every node below it in depth-first order. Returning
// false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		if c != nil {
			c.Walk(fn)
		}
	}
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if c != c || isInf(c) {
			return false
		}
	}
	return true
}

func isInf(f float32) bool {
	return math.IsInf(float64(f), 0)
}
