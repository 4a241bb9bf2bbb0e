// Package entity defines the values the layout core moves around: entity
// identities, positioned entities and the attraction edges between them.
package entity

import (
	"bytes"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ID identifies a positioned entity. It is a plain value: comparable,
// hashable and safe to copy.
type ID = uuid.UUID

// Nil is the zero ID. It never identifies a real entity.
var Nil ID

// NewID returns a new random ID
func NewID() ID {
	return uuid.New()
}

// Compare orders IDs by their byte representation
func Compare(a, b ID) int {
	return bytes.Compare(a[:], b[:])
}

// Positioned is one entity taking part in a layout session.
// Position and Velocity are mutated in place by every simulation step.
type Positioned struct {
	ID       ID
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Mass     float32 // must be > 0
}

// New creates a resting entity with a fresh ID
func New(position mgl32.Vec3, mass float32) Positioned {
	return Positioned{
		ID:       NewID(),
		Position: position,
		Mass:     mass,
	}
}

// Edge is an attraction relationship between two entities
type Edge struct {
	From     ID
	To       ID
	Strength float32
}

// Touches reports whether id is one of the edge endpoints
func (e Edge) Touches(id ID) bool {
	return e.From == id || e.To == id
}

// Other returns the endpoint opposite to id
func (e Edge) Other(id ID) ID {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Positions extracts the current positions of entities, in order
func Positions(entities []Positioned) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(entities))
	for i := range entities {
		out[i] = entities[i].Position
	}
	return out
}

// Index maps every entity ID to its index in entities
func Index(entities []Positioned) map[ID]int {
	idx := make(map[ID]int, len(entities))
	for i := range entities {
		idx[entities[i].ID] = i
	}
	return idx
}
