package layout

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/pools"
)

// ErrCorruptSnapshot is returned when compressed snapshot data cannot be
// decoded
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

const (
	snapshotMagic   = "CLSN"
	snapshotVersion = 1

	// [magic:4][version:1][entities:4][edges:4]
	snapshotHeaderSize = 13
	// [id:16][position:12][velocity:12][mass:4]
	snapshotEntitySize = 44
	// [from:16][to:16][strength:4]
	snapshotEdgeSize = 36
	snapshotCRCSize  = 4
)

// EntityState is the saved state of one entity
type EntityState struct {
	ID       entity.ID  `json:"id"`
	Position mgl32.Vec3 `json:"position"`
	Velocity mgl32.Vec3 `json:"velocity"`
	Mass     float32    `json:"mass"`
}

// EdgeState is a saved edge
type EdgeState struct {
	From     entity.ID `json:"from"`
	To       entity.ID `json:"to"`
	Strength float32   `json:"strength"`
}

// Snapshot is a copy of a layout at one point in time, for handing to a
// renderer or restoring a session later
type Snapshot struct {
	Entities []EntityState `json:"entities"`
	Edges    []EdgeState   `json:"edges"`
	Bounds   Bounds        `json:"bounds"`
}

// TakeSnapshot copies entities and edges
func TakeSnapshot(entities []entity.Positioned, edges []entity.Edge) Snapshot {
	s := Snapshot{
		Entities: make([]EntityState, 0, len(entities)),
		Edges:    make([]EdgeState, 0, len(edges)),
		Bounds:   CalculateBounds(entity.Positions(entities)),
	}
	for _, e := range entities {
		s.Entities = append(s.Entities, EntityState{
			ID:       e.ID,
			Position: e.Position,
			Velocity: e.Velocity,
			Mass:     e.Mass,
		})
	}
	for _, e := range edges {
		s.Edges = append(s.Edges, EdgeState{From: e.From, To: e.To, Strength: e.Strength})
	}
	return s
}

// Restore returns the saved entities and edges
func (s Snapshot) Restore() ([]entity.Positioned, []entity.Edge) {
	entities := make([]entity.Positioned, len(s.Entities))
	for i, e := range s.Entities {
		entities[i] = entity.Positioned{ID: e.ID, Position: e.Position, Velocity: e.Velocity, Mass: e.Mass}
	}
	edges := make([]entity.Edge, len(s.Edges))
	for i, e := range s.Edges {
		edges[i] = entity.Edge{From: e.From, To: e.To, Strength: e.Strength}
	}
	return entities, edges
}

// Positions maps every saved entity to its position
func (s Snapshot) Positions() map[entity.ID]mgl32.Vec3 {
	out := make(map[entity.ID]mgl32.Vec3, len(s.Entities))
	for _, e := range s.Entities {
		out[e.ID] = e.Position
	}
	return out
}

// ExportJSON exports the snapshot to JSON
func (s Snapshot) ExportJSON() ([]byte, error) {
	return json.Marshal(s)
}

// ExportCompressed encodes the snapshot in a fixed binary layout
// followed by a CRC32, then snappy-compresses the result.
func (s Snapshot) ExportCompressed() ([]byte, error) {
	if uint64(len(s.Entities)) > math.MaxUint32 || uint64(len(s.Edges)) > math.MaxUint32 {
		return nil, fmt.Errorf("snapshot too large: %d entities, %d edges", len(s.Entities), len(s.Edges))
	}
	size := snapshotHeaderSize +
		len(s.Entities)*snapshotEntitySize +
		len(s.Edges)*snapshotEdgeSize +
		snapshotCRCSize

	buf := pools.GetBytes(size)
	defer pools.PutBytes(buf)

	buf = append(buf, snapshotMagic...)
	buf = append(buf, snapshotVersion)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s.Entities)))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s.Edges)))

	for _, e := range s.Entities {
		buf = append(buf, e.ID[:]...)
		buf = appendVec3(buf, e.Position)
		buf = appendVec3(buf, e.Velocity)
		buf = appendFloat32(buf, e.Mass)
	}
	for _, e := range s.Edges {
		buf = append(buf, e.From[:]...)
		buf = append(buf, e.To[:]...)
		buf = appendFloat32(buf, e.Strength)
	}
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))

	return snappy.Encode(nil, buf), nil
}

// ImportCompressed decodes data written by ExportCompressed
func ImportCompressed(data []byte) (Snapshot, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if len(raw) < snapshotHeaderSize+snapshotCRCSize {
		return Snapshot{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptSnapshot, len(raw))
	}

	body := raw[:len(raw)-snapshotCRCSize]
	want := binary.BigEndian.Uint32(raw[len(raw)-snapshotCRCSize:])
	if got := crc32.ChecksumIEEE(body); got != want {
		return Snapshot{}, fmt.Errorf("%w: checksum mismatch (expected %d, got %d)", ErrCorruptSnapshot, want, got)
	}
	if string(body[:4]) != snapshotMagic {
		return Snapshot{}, fmt.Errorf("%w: bad magic %q", ErrCorruptSnapshot, body[:4])
	}
	if body[4] != snapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, body[4])
	}

	nEntities := int(binary.BigEndian.Uint32(body[5:9]))
	nEdges := int(binary.BigEndian.Uint32(body[9:13]))
	rest := body[snapshotHeaderSize:]
	if uint64(len(rest)) != uint64(nEntities)*snapshotEntitySize+uint64(nEdges)*snapshotEdgeSize {
		return Snapshot{}, fmt.Errorf("%w: %d body bytes for %d entities and %d edges",
			ErrCorruptSnapshot, len(rest), nEntities, nEdges)
	}

	s := Snapshot{
		Entities: make([]EntityState, nEntities),
		Edges:    make([]EdgeState, nEdges),
	}
	for i := range s.Entities {
		rec := rest[:snapshotEntitySize]
		e := &s.Entities[i]
		copy(e.ID[:], rec[0:16])
		e.Position = readVec3(rec[16:28])
		e.Velocity = readVec3(rec[28:40])
		e.Mass = readFloat32(rec[40:44])
		rest = rest[snapshotEntitySize:]
	}
	for i := range s.Edges {
		rec := rest[:snapshotEdgeSize]
		e := &s.Edges[i]
		copy(e.From[:], rec[0:16])
		copy(e.To[:], rec[16:32])
		e.Strength = readFloat32(rec[32:36])
		rest = rest[snapshotEdgeSize:]
	}

	positions := make([]mgl32.Vec3, nEntities)
	for i := range s.Entities {
		positions[i] = s.Entities[i].Position
	}
	s.Bounds = CalculateBounds(positions)
	return s, nil
}

func appendFloat32(b []byte, f float32) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(f))
}

func appendVec3(b []byte, v mgl32.Vec3) []byte {
	for _, c := range v {
		b = appendFloat32(b, c)
	}
	return b
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func readVec3(b []byte) mgl32.Vec3 {
	return mgl32.Vec3{readFloat32(b[0:4]), readFloat32(b[4:8]), readFloat32(b[8:12])}
}
