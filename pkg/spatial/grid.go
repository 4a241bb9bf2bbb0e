// Package spatial provides a uniform hash grid for radius queries over
// entity positions. It is independent of the octree used for forces.
package spatial

import (
	"math"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layouterr"
	"github.com/dd0wney/cluso-layout/pkg/metrics"
)

// Query kinds used as the grid metrics label
const (
	queryNeighbors = "neighbors"
	queryPoint     = "point"
)

// CellKey identifies one grid cell: floor(position/cellSize) per axis.
// Coordinates beyond the int32 range are clamped to it.
type CellKey struct {
	X, Y, Z int32
}

type entry struct {
	key CellKey
	pos mgl32.Vec3
}

// Grid buckets entity ids by cell. It stores ids and positions by value and
// never looks at entity data.
//
// Grid is safe for concurrent use: mutations take the write lock and
// queries the read lock.
type Grid struct {
	mu       sync.RWMutex
	cellSize float32
	cells    map[CellKey]map[entity.ID]struct{}
	entries  map[entity.ID]entry
	metrics  *metrics.Registry
}

// Option configures a Grid
type Option func(*Grid)

// WithMetrics records grid size and query counts in reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(g *Grid) {
		g.metrics = reg
	}
}

// NewGrid creates an empty grid. cellSize must be positive and finite.
func NewGrid(cellSize float32, opts ...Option) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(float64(cellSize), 0) {
		return nil, layouterr.InvalidArgument("grid", "NewGrid", "cellSize", "must be positive, got %v", cellSize)
	}
	g := &Grid{
		cellSize: cellSize,
		cells:    make(map[CellKey]map[entity.ID]struct{}),
		entries:  make(map[entity.ID]entry),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// CellSize returns the edge length of one cell
func (g *Grid) CellSize() float32 {
	return g.cellSize
}

// CellKey returns the cell containing p
func (g *Grid) CellKey(p mgl32.Vec3) CellKey {
	return CellKey{
		X: g.axisCell(p[0]),
		Y: g.axisCell(p[1]),
		Z: g.axisCell(p[2]),
	}
}

func (g *Grid) axisCell(v float32) int32 {
	f := math.Floor(float64(v) / float64(g.cellSize))
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// Len returns the number of tracked entities
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Position returns the last position stored for id
func (g *Grid) Position(id entity.ID) (mgl32.Vec3, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entries[id]
	return e.pos, ok
}

// Insert starts tracking id at p. Inserting an id that is already tracked
// moves it.
func (g *Grid) Insert(id entity.ID, p mgl32.Vec3) error {
	if err := checkPosition("Insert", id, p); err != nil {
		return err
	}

	g.mu.Lock()
	g.place(id, p)
	n := len(g.entries)
	g.mu.Unlock()

	g.metrics.SetGridEntities(n)
	return nil
}

// Update moves a tracked id to p. The bucket changes only when the cell
// does; the stored position is always refreshed.
func (g *Grid) Update(id entity.ID, p mgl32.Vec3) error {
	if err := checkPosition("Update", id, p); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.entries[id]; !ok {
		return layouterr.UnknownEntity("grid", "Update", id)
	}
	g.place(id, p)
	return nil
}

// place must be called with the write lock held
func (g *Grid) place(id entity.ID, p mgl32.Vec3) {
	key := g.CellKey(p)
	if old, ok := g.entries[id]; ok && old.key != key {
		g.unlink(id, old.key)
	}

	bucket, ok := g.cells[key]
	if !ok {
		bucket = make(map[entity.ID]struct{})
		g.cells[key] = bucket
	}
	bucket[id] = struct{}{}
	g.entries[id] = entry{key: key, pos: p}
}

func (g *Grid) unlink(id entity.ID, key CellKey) {
	bucket := g.cells[key]
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(g.cells, key)
	}
}

// Remove stops tracking id. It reports whether id was tracked.
func (g *Grid) Remove(id entity.ID) bool {
	g.mu.Lock()
	e, ok := g.entries[id]
	if ok {
		g.unlink(id, e.key)
		delete(g.entries, id)
	}
	n := len(g.entries)
	g.mu.Unlock()

	if ok {
		g.metrics.SetGridEntities(n)
	}
	return ok
}

// Clear drops every entity. The cell size is kept.
func (g *Grid) Clear() {
	g.mu.Lock()
	g.cells = make(map[CellKey]map[entity.ID]struct{})
	g.entries = make(map[entity.ID]entry)
	g.mu.Unlock()

	g.metrics.SetGridEntities(0)
}

// Neighbors returns the ids within radius of id's stored position, sorted by
// id. The result never contains id itself.
func (g *Grid) Neighbors(id entity.ID, radius float32) ([]entity.ID, error) {
	if err := checkRadius("Neighbors", radius); err != nil {
		return nil, err
	}

	g.mu.RLock()
	e, ok := g.entries[id]
	if !ok {
		g.mu.RUnlock()
		return nil, layouterr.UnknownEntity("grid", "Neighbors", id)
	}
	out, candidates := g.collect(e.pos, radius, id, true)
	g.mu.RUnlock()

	g.metrics.RecordGridQuery(queryNeighbors, candidates)
	return out, nil
}

// Query returns the ids within radius of p, sorted by id.
func (g *Grid) Query(p mgl32.Vec3, radius float32) ([]entity.ID, error) {
	if err := checkRadius("Query", radius); err != nil {
		return nil, err
	}
	if err := checkPosition("Query", entity.Nil, p); err != nil {
		return nil, err
	}

	g.mu.RLock()
	out, candidates := g.collect(p, radius, entity.Nil, false)
	g.mu.RUnlock()

	g.metrics.RecordGridQuery(queryPoint, candidates)
	return out, nil
}

// collect must be called with at least the read lock held. It returns the
// matches and how many ids were distance-checked.
func (g *Grid) collect(p mgl32.Vec3, radius float32, exclude entity.ID, hasExclude bool) ([]entity.ID, int) {
	center := g.CellKey(p)
	span := math.Ceil(float64(radius) / float64(g.cellSize))
	r2 := float64(radius) * float64(radius)

	var out []entity.ID
	candidates := 0
	scan := func(bucket map[entity.ID]struct{}) {
		for other := range bucket {
			if hasExclude && other == exclude {
				continue
			}
			candidates++
			d := g.entries[other].pos.Sub(p)
			if float64(d.Dot(d)) <= r2 {
				out = append(out, other)
			}
		}
	}

	// Walking the occupied cells is cheaper than walking a sparse cube
	side := 2*span + 1
	if side*side*side > float64(len(g.cells)) {
		for key, bucket := range g.cells {
			if within(key, center, span) {
				scan(bucket)
			}
		}
	} else {
		s := int64(span)
		for dx := -s; dx <= s; dx++ {
			for dy := -s; dy <= s; dy++ {
				for dz := -s; dz <= s; dz++ {
					key, ok := offset(center, dx, dy, dz)
					if !ok {
						continue
					}
					if bucket, ok := g.cells[key]; ok {
						scan(bucket)
					}
				}
			}
		}
	}

	slices.SortFunc(out, entity.Compare)
	return out, candidates
}

func within(key, center CellKey, span float64) bool {
	return math.Abs(float64(int64(key.X)-int64(center.X))) <= span &&
		math.Abs(float64(int64(key.Y)-int64(center.Y))) <= span &&
		math.Abs(float64(int64(key.Z)-int64(center.Z))) <= span
}

func offset(c CellKey, dx, dy, dz int64) (CellKey, bool) {
	x, y, z := int64(c.X)+dx, int64(c.Y)+dy, int64(c.Z)+dz
	if !fitsInt32(x) || !fitsInt32(y) || !fitsInt32(z) {
		return CellKey{}, false
	}
	return CellKey{X: int32(x), Y: int32(y), Z: int32(z)}, true
}

func fitsInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

func checkRadius(op string, radius float32) error {
	if !(radius >= 0) {
		return layouterr.InvalidArgument("grid", op, "radius", "must be non-negative, got %v", radius)
	}
	return nil
}

func checkPosition(op string, id entity.ID, p mgl32.Vec3) error {
	for _, c := range p {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return layouterr.NewError(op).Component("grid").Entity(id).Field("position").
				Cause(layouterr.ErrInvalidArgument).Context("must be finite, got %v", p).Err()
		}
	}
	return nil
}
