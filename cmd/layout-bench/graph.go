package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layout"
)

// createTestGraph scatters n entities with random masses and links each to
// degree random others
func createTestGraph(n, degree int, seed uint64) ([]entity.Positioned, []entity.Edge, error) {
	rng := rand.New(rand.NewSource(seed))

	entities := make([]entity.Positioned, n)
	for i := range entities {
		entities[i] = entity.New(mgl32.Vec3{}, 0.5+rng.Float32())
	}
	extent := float32(math.Cbrt(float64(n))) * 2
	if err := layout.Scatter(entities, max(extent, 1), seed); err != nil {
		return nil, nil, err
	}

	edges := make([]entity.Edge, 0, n*degree)
	if n < 2 {
		return entities, edges, nil
	}
	for i := range entities {
		for d := 0; d < degree; d++ {
			j := rng.Intn(n)
			if j == i {
				continue
			}
			edges = append(edges, entity.Edge{
				From:     entities[i].ID,
				To:       entities[j].ID,
				Strength: 0.5 + rng.Float32()/2,
			})
		}
	}
	return entities, edges, nil
}

func clone(entities []entity.Positioned) []entity.Positioned {
	return append([]entity.Positioned(nil), entities...)
}
