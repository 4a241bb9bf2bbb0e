package octree

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/pools"
)

// Tree owns a root node and the slab its nodes are allocated from. Reset
// drops every node and reuses their memory, so a Tree kept across steps stops
// allocating once it has grown to the working size.
//
// A Tree is not safe for concurrent mutation. Concurrent ForceOn calls are
// fine once all inserts are done.
type Tree struct {
	slab *pools.Slab[Node]
	root *Node
}

// NewTree creates an empty tree. Call Reset before inserting.
func NewTree() *Tree {
	return &Tree{slab: pools.NewSlab[Node](pools.DefaultSlabChunk)}
}

// Reset discards all nodes and starts a new root covering the given cube.
func (t *Tree) Reset(center mgl32.Vec3, halfSize float32) error {
	if err := checkCube("Reset", center, halfSize); err != nil {
		return err
	}
	t.slab.Reset()
	root := t.slab.Alloc()
	root.Center = center
	root.HalfSize = halfSize
	root.arena = t.slab
	t.root = root
	return nil
}

// Root returns the current root, or nil before the first Reset.
func (t *Tree) Root() *Node {
	return t.root
}

// Insert adds one entity to the tree.
func (t *Tree) Insert(position mgl32.Vec3, mass float32, id entity.ID) error {
	if t.root == nil {
		if err := t.Reset(mgl32.Vec3{}, 1); err != nil {
			return err
		}
	}
	return t.root.Insert(position, mass, id)
}

// ForceOn returns the Barnes-Hut repulsion on the entity self at p.
func (t *Tree) ForceOn(p mgl32.Vec3, mass float32, self entity.ID, params ForceParams) mgl32.Vec3 {
	if t.root == nil {
		return mgl32.Vec3{}
	}
	return t.root.ForceOn(p, mass, self, params)
}

// NodeCount returns the number of nodes allocated since the last Reset.
func (t *Tree) NodeCount() int {
	return t.slab.Len()
}
