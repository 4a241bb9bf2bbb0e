package main

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layout"
)

const (
	entityGlyph = '●'
	edgeGlyph   = '·'
	edgeArc     = 0.15 // arc height as a fraction of edge length
)

// camera is an orthographic projection: top looks down -Y onto the XZ
// plane, front looks along -Z onto the XY plane
type camera struct {
	front bool
	zoom  float32
}

func (c camera) project(p mgl32.Vec3) (float32, float32) {
	if c.front {
		return p.X(), -p.Y()
	}
	return p.X(), p.Z()
}

// render draws entities and arced edges into a cols×rows character grid,
// fitted to the layout bounds
func render(entities []entity.Positioned, edges []entity.Edge, cam camera, cols, rows int) string {
	canvas := make([][]rune, rows)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", cols))
	}

	bounds := layout.CalculateBounds(entity.Positions(entities))
	span := max(bounds.Size.X(), bounds.Size.Y(), bounds.Size.Z(), 1)
	zoom := cam.zoom
	if zoom <= 0 {
		zoom = 1
	}
	cx, cy := cam.project(bounds.Center)

	scaleX := float32(cols-1) / span * zoom
	scaleY := float32(rows-1) / span * zoom
	toCell := func(p mgl32.Vec3) (int, int, bool) {
		x, y := cam.project(p)
		col := int((x-cx)*scaleX + float32(cols)/2)
		row := int((y-cy)*scaleY + float32(rows)/2)
		return col, row, col >= 0 && col < cols && row >= 0 && row < rows
	}

	index := entity.Index(entities)
	for _, e := range edges {
		i, okFrom := index[e.From]
		j, okTo := index[e.To]
		if !okFrom || !okTo {
			continue
		}
		from, to := entities[i].Position, entities[j].Position
		length := to.Sub(from).Len()
		steps := max(int(length*scaleX), 2)
		path, err := layout.GeneratePath(from, to, length*edgeArc, min(steps, 64))
		if err != nil {
			continue
		}
		for _, p := range path {
			if col, row, ok := toCell(p); ok {
				canvas[row][col] = edgeGlyph
			}
		}
	}

	for _, ent := range entities {
		if col, row, ok := toCell(ent.Position); ok {
			canvas[row][col] = entityGlyph
		}
	}

	lines := make([]string, rows)
	for i, line := range canvas {
		lines[i] = string(line)
	}
	return strings.Join(lines, "\n")
}

// randomGraph creates n unit-mass entities, each linked to degree random
// others
func randomGraph(n, degree int, seed uint64) ([]entity.Positioned, []entity.Edge) {
	rng := rand.New(rand.NewSource(seed))
	entities := make([]entity.Positioned, n)
	for i := range entities {
		entities[i] = entity.New(mgl32.Vec3{}, 1)
	}

	var edges []entity.Edge
	if n < 2 {
		return entities, edges
	}
	for i := range entities {
		for d := 0; d < degree; d++ {
			j := rng.Intn(n)
			if j != i {
				edges = append(edges, entity.Edge{From: entities[i].ID, To: entities[j].ID, Strength: 1})
			}
		}
	}
	return entities, edges
}
