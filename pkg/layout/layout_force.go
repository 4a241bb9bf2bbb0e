package layout

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layouterr"
	"github.com/dd0wney/cluso-layout/pkg/logging"
	"github.com/dd0wney/cluso-layout/pkg/metrics"
	"github.com/dd0wney/cluso-layout/pkg/octree"
)

type stepResult struct {
	mode        string
	maxVelocity float32
	nodes       int
}

// Step advances entities by one simulation step, updating Position and
// Velocity in place.
//
// Every force is computed from the positions at the start of the step
// before any entity moves. Edges whose endpoints are not in entities are
// skipped. On error nothing is modified.
func (e *Engine) Step(entities []entity.Positioned, edges []entity.Edge, cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		e.metrics.RecordError("step")
		return err
	}
	_, err := e.step(entities, edges, cfg)
	return err
}

// step must be called with e.mu held and cfg already validated
func (e *Engine) step(entities []entity.Positioned, edges []entity.Edge, cfg Config) (stepResult, error) {
	timer := logging.StartTimer(e.logger, "layout step")

	index, err := indexEntities(entities)
	if err != nil {
		e.metrics.RecordError("step")
		return stepResult{}, err
	}
	if err := checkEdges(edges); err != nil {
		e.metrics.RecordError("step")
		return stepResult{}, err
	}

	n := len(entities)
	res := stepResult{mode: metrics.ModeBruteForce}
	if n == 0 {
		return res, nil
	}

	forces := e.forces.Get(n)
	defer e.forces.Put(forces)

	params := octree.ForceParams{
		Strength:    cfg.RepulsionStrength,
		MinDistance: cfg.MinDistance,
		Theta:       cfg.Theta,
	}

	if n > cfg.BarnesHutThreshold {
		res.mode = metrics.ModeBarnesHut
		if err := e.buildTree(entities); err != nil {
			e.metrics.RecordError("step")
			return stepResult{}, err
		}
		res.nodes = e.tree.NodeCount()
	}

	err = e.forEach(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			self := &entities[i]
			var f mgl32.Vec3
			if res.mode == metrics.ModeBarnesHut {
				f = e.tree.ForceOn(self.Position, self.Mass, self.ID, params)
			} else {
				f = bruteForceRepulsion(entities, i, params)
			}
			forces[i] = f.Sub(self.Position.Mul(cfg.CenteringStrength))
		}
	})
	if err != nil {
		e.metrics.RecordError("step")
		return stepResult{}, layouterr.NewError("Step").Component("layout").Cause(err).Err()
	}

	skipped := applyAttraction(entities, edges, index, cfg.AttractionStrength, forces)
	if skipped > 0 && e.logger.Enabled(logging.DebugLevel) {
		e.logger.Debug("skipped edges with unknown endpoints", logging.Count(skipped))
	}

	res.maxVelocity = integrate(entities, forces, cfg)
	e.syncGrid(entities)

	elapsed := timer.EndWithLevel(logging.DebugLevel,
		logging.Mode(res.mode),
		logging.Count(n),
		logging.Int("edges", len(edges)),
		logging.Int("octree_nodes", res.nodes),
		logging.Float32("max_velocity", res.maxVelocity),
	)
	e.metrics.RecordStep(res.mode, elapsed, n, len(edges), res.nodes, float64(res.maxVelocity))
	return res, nil
}

// buildTree roots the octree at the bounds center with a padded half size
// and inserts every entity.
func (e *Engine) buildTree(entities []entity.Positioned) error {
	positions := entity.Positions(entities)
	bounds := CalculateBounds(positions)

	half := max(bounds.Size[0], bounds.Size[1], bounds.Size[2]) / 2
	half = max(half, 1) * 1.5

	if err := e.tree.Reset(bounds.Center, half); err != nil {
		return err
	}
	for i := range entities {
		if err := e.tree.Insert(entities[i].Position, entities[i].Mass, entities[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func bruteForceRepulsion(entities []entity.Positioned, i int, params octree.ForceParams) mgl32.Vec3 {
	self := &entities[i]
	var f mgl32.Vec3
	for j := range entities {
		if j == i {
			continue
		}
		other := &entities[j]
		f = f.Add(octree.Repulsion(self.Position, other.Position, self.Mass, other.Mass, params.Strength, params.MinDistance))
	}
	return f
}

// applyAttraction adds the edge springs to forces and returns how many
// edges were skipped.
func applyAttraction(entities []entity.Positioned, edges []entity.Edge, index map[entity.ID]int, strength float32, forces []mgl32.Vec3) int {
	skipped := 0
	for _, edge := range edges {
		i, okFrom := index[edge.From]
		j, okTo := index[edge.To]
		if !okFrom || !okTo {
			skipped++
			continue
		}
		if i == j {
			continue
		}
		pull := entities[j].Position.Sub(entities[i].Position).Mul(strength * edge.Strength)
		forces[i] = forces[i].Add(pull)
		forces[j] = forces[j].Sub(pull)
	}
	return skipped
}

// integrate applies v = (v+F)*damping, p += v and the optional clamp. It
// returns the largest resulting speed.
func integrate(entities []entity.Positioned, forces []mgl32.Vec3, cfg Config) float32 {
	var maxSpeed float32
	limit := cfg.BoundsLimit
	for i := range entities {
		ent := &entities[i]
		ent.Velocity = ent.Velocity.Add(forces[i]).Mul(cfg.Damping)
		ent.Position = ent.Position.Add(ent.Velocity)

		if limit > 0 {
			for a := 0; a < 3; a++ {
				switch {
				case ent.Position[a] > limit:
					ent.Position[a] = limit
					ent.Velocity[a] = 0
				case ent.Position[a] < -limit:
					ent.Position[a] = -limit
					ent.Velocity[a] = 0
				}
			}
		}
		maxSpeed = max(maxSpeed, ent.Velocity.Len())
	}
	return maxSpeed
}

func (e *Engine) syncGrid(entities []entity.Positioned) {
	if e.grid == nil {
		return
	}
	for i := range entities {
		if err := e.grid.Insert(entities[i].ID, entities[i].Position); err != nil {
			e.logger.Warn("grid update failed", logging.EntityID(entities[i].ID), logging.Error(err))
		}
	}
}

func indexEntities(entities []entity.Positioned) (map[entity.ID]int, error) {
	index := make(map[entity.ID]int, len(entities))
	for i := range entities {
		ent := &entities[i]
		switch {
		case !(ent.Mass > 0) || !finite(ent.Mass):
			return nil, invalidEntity(ent.ID, "mass", "must be positive and finite, got %v", ent.Mass)
		case !finiteVec(ent.Position):
			return nil, invalidEntity(ent.ID, "position", "must be finite, got %v", ent.Position)
		case !finiteVec(ent.Velocity):
			return nil, invalidEntity(ent.ID, "velocity", "must be finite, got %v", ent.Velocity)
		}
		if _, dup := index[ent.ID]; dup {
			return nil, invalidEntity(ent.ID, "id", "appears more than once")
		}
		index[ent.ID] = i
	}
	return index, nil
}

func checkEdges(edges []entity.Edge) error {
	for _, edge := range edges {
		if !finite(edge.Strength) {
			return layouterr.NewError("Step").Component("layout").Entity(edge.From).Field("edge.strength").
				Cause(layouterr.ErrInvalidArgument).Context("must be finite, got %v", edge.Strength).Err()
		}
	}
	return nil
}

func invalidEntity(id entity.ID, field, format string, args ...any) error {
	return layouterr.NewError("Step").Component("layout").Entity(id).Field(field).
		Cause(layouterr.ErrInvalidArgument).Context(format, args...).Err()
}
