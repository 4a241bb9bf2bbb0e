package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layouterr"
)

// spiral increments per entity index
const (
	spiralRadiusStep = 0.1
	spiralRise       = 0.05
)

// PlaceOnRing spreads entities evenly on a circle of the given radius in
// the XZ plane around center and puts them at rest.
func PlaceOnRing(entities []entity.Positioned, radius float32, center mgl32.Vec3) error {
	if err := checkPlacement("PlaceOnRing", radius, center); err != nil {
		return err
	}
	placeCircular(entities, radius, center, false)
	return nil
}

// PlaceOnSpiral is PlaceOnRing with the radius growing and the height
// rising a little for every entity, so later entities sit further out and
// higher up.
func PlaceOnSpiral(entities []entity.Positioned, radius float32, center mgl32.Vec3) error {
	if err := checkPlacement("PlaceOnSpiral", radius, center); err != nil {
		return err
	}
	placeCircular(entities, radius, center, true)
	return nil
}

func placeCircular(entities []entity.Positioned, radius float32, center mgl32.Vec3, spiral bool) {
	if len(entities) == 0 {
		return
	}

	angleStep := 2 * math.Pi / float64(len(entities))
	for i := range entities {
		angle := float64(i) * angleStep
		r := radius
		var y float32
		if spiral {
			r += float32(i) * spiralRadiusStep
			y = float32(i) * spiralRise
		}
		entities[i].Position = center.Add(mgl32.Vec3{
			r * float32(math.Cos(angle)),
			y,
			r * float32(math.Sin(angle)),
		})
		entities[i].Velocity = mgl32.Vec3{}
	}
}

// Scatter places entities uniformly at random in the cube
// [-extent, extent]^3 and puts them at rest. The same seed always gives
// the same placement.
func Scatter(entities []entity.Positioned, extent float32, seed uint64) error {
	if !(extent > 0) || !finite(extent) {
		return layouterr.InvalidArgument("layout", "Scatter", "extent", "must be positive and finite, got %v", extent)
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range entities {
		entities[i].Position = mgl32.Vec3{
			(rng.Float32()*2 - 1) * extent,
			(rng.Float32()*2 - 1) * extent,
			(rng.Float32()*2 - 1) * extent,
		}
		entities[i].Velocity = mgl32.Vec3{}
	}
	return nil
}

func checkPlacement(op string, radius float32, center mgl32.Vec3) error {
	if !(radius >= 0) || !finite(radius) {
		return layouterr.InvalidArgument("layout", op, "radius", "must be non-negative and finite, got %v", radius)
	}
	if !finiteVec(center) {
		return layouterr.InvalidArgument("layout", op, "center", "must be finite, got %v", center)
	}
	return nil
}
