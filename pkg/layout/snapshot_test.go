package layout

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-layout/pkg/entity"
)

func TestTakeSnapshot(t *testing.T) {
	entities, edges := pair()
	entities[0].Velocity = mgl32.Vec3{0.5, 0, 0}

	s := TakeSnapshot(entities, edges)
	require.Len(t, s.Entities, 2)
	require.Len(t, s.Edges, 1)
	assert.Equal(t, entities[0].ID, s.Entities[0].ID)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, s.Entities[0].Velocity)
	assert.Equal(t, Bounds{Size: mgl32.Vec3{2, 0, 0}}, s.Bounds)

	// the snapshot is a copy
	entities[0].Position = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, s.Entities[0].Position)

	pos := s.Positions()
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, pos[entities[1].ID])

	restoredEntities, restoredEdges := s.Restore()
	assert.Equal(t, edges, restoredEdges)
	assert.Equal(t, entities[1], restoredEntities[1])
}

func TestSnapshotExportJSON(t *testing.T) {
	entities, edges := pair()
	s := TakeSnapshot(entities, edges)

	data, err := s.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), entities[0].ID.String())
	assert.Contains(t, string(data), `"position":[-1,0,0]`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestSnapshotCompressedRoundTrip(t *testing.T) {
	entities := scattered(t, 200, 10, 21)
	for i := range entities {
		entities[i].Velocity = mgl32.Vec3{float32(i), -1, 0.25}
		entities[i].Mass = 1 + float32(i%3)
	}
	s := TakeSnapshot(entities, chain(entities))

	data, err := s.ExportCompressed()
	require.NoError(t, err)

	back, err := ImportCompressed(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestSnapshotCompressedEmpty(t *testing.T) {
	s := TakeSnapshot(nil, nil)
	data, err := s.ExportCompressed()
	require.NoError(t, err)

	back, err := ImportCompressed(data)
	require.NoError(t, err)
	assert.Empty(t, back.Entities)
	assert.Empty(t, back.Edges)
	assert.Equal(t, Bounds{}, back.Bounds)
}

func TestImportCompressed_Corrupt(t *testing.T) {
	entities, edges := pair()
	data, err := TakeSnapshot(entities, edges).ExportCompressed()
	require.NoError(t, err)

	raw, err := snappy.Decode(nil, data)
	require.NoError(t, err)

	flipped := append([]byte(nil), raw...)
	flipped[20] ^= 0xff

	badMagic := append([]byte(nil), raw...)
	copy(badMagic, "XXXX")

	tests := []struct {
		name string
		data []byte
	}{
		{"not snappy", []byte{0xff, 0xff, 0xff, 0xff, 0xff}},
		{"too short", snappy.Encode(nil, []byte("CLSN"))},
		{"checksum", snappy.Encode(nil, flipped)},
		{"truncated", snappy.Encode(nil, raw[:len(raw)-10])},
		{"bad magic", snappy.Encode(nil, badMagic)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportCompressed(tt.data)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestSnapshotPositionsFeedInterpolate(t *testing.T) {
	entities, edges := pair()
	before := TakeSnapshot(entities, edges)

	e := newTestEngine(t)
	require.NoError(t, e.Step(entities, edges, DefaultConfig()))
	after := TakeSnapshot(entities, edges)

	frames := Interpolate(before.Positions(), after.Positions(), 0.5)
	id := entities[1].ID
	want := before.Positions()[id].Add(after.Positions()[id]).Mul(0.5)
	assert.True(t, frames[id].ApproxEqualThreshold(want, 1e-6))
	assert.Len(t, frames, len(entity.Positions(entities)))
}
