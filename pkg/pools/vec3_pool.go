package pools

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3Pool pools slices of mgl32.Vec3 used as per-step force buffers.
// Buffers for more than 1024 entities are allocated fresh each time.
type Vec3Pool struct {
	classes *classPool[mgl32.Vec3]
}

// NewVec3Pool creates a new Vec3 slice pool.
func NewVec3Pool() *Vec3Pool {
	return &Vec3Pool{classes: newClassPool[mgl32.Vec3](64, 256, 1024)}
}

// Get returns a zeroed Vec3 slice of exactly size elements.
func (p *Vec3Pool) Get(size int) []mgl32.Vec3 {
	s := p.classes.get(size)[:size]
	clear(s)
	return s
}

// Put returns a Vec3 slice to the pool.
func (p *Vec3Pool) Put(s []mgl32.Vec3) {
	p.classes.put(s)
}

var defaultVec3Pool = NewVec3Pool()

// GetVec3s returns a zeroed Vec3 slice from the default pool.
func GetVec3s(size int) []mgl32.Vec3 {
	return defaultVec3Pool.Get(size)
}

// PutVec3s returns a Vec3 slice to the default pool.
func PutVec3s(s []mgl32.Vec3) {
	defaultVec3Pool.Put(s)
}
