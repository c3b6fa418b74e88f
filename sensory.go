package evosim

// InputLen is the fixed sensory vector length: 5 internal scalars plus 9
// directional samples of 4 features each (spec.md §4.4).
const InputLen = 5 + 9*4

// CategoryResolver resolves an occupant id to its Category for the
// sensory "same/different category" feature. The sensory encoder only
// sees the grid, not the population arena, so callers pass a resolver
// backed by the population they already own — the driver is the sole
// owner of world, population, and scheduler (spec.md §5), and nothing
// here reaches for package-level state to get one.
type CategoryResolver func(AnimalID) (Category, bool)

// Sense builds the fixed-length input vector for an animal from the
// current world snapshot. Grounded in the teacher's local-viewport
// sampling idea (viewport.go's zoom/center model) but specialized to the
// spec's fixed 9-direction, 4-feature-per-direction encoding instead of a
// free-form terminal viewport. resolve may be nil, in which case every
// occupant is treated as present but of unknown category.
func Sense(a *Animal, g *Grid, resolve CategoryResolver) []float64 {
	out := make([]float64, 0, InputLen)

	out = append(out,
		clampF(a.Health/a.MaxHealth(), 0, 1),
		clampF(a.Hunger/100, 0, 1),
		clampF(a.Thirst/100, 0, 1),
		clampF(a.Energy/a.MaxEnergy(), 0, 1),
		clampF(a.Instinct, 0, 1),
	)

	radius := a.Category.VisionRadius()
	for _, d := range AllDirections {
		tile := g.SampleAlongDirection(a.X, a.Y, d, radius)
		out = append(out, sampleFeatures(a, tile, resolve)...)
	}

	if len(out) < InputLen {
		for len(out) < InputLen {
			out = append(out, 0)
		}
	} else if len(out) > InputLen {
		out = out[:InputLen]
	}
	return out
}

func sampleFeatures(self *Animal, t *Tile, resolve CategoryResolver) []float64 {
	terrainFeature := float64(t.Terrain) / float64(numTerrains-1)

	resourceFeature := 0.0
	usesFeature := 0.0
	if t.Resource != nil {
		resourceFeature = float64(t.Resource.Kind) / float64(numResourceKinds-1)
		usesFeature = clampF(float64(t.Resource.UsesLeft)/10, 0, 1)
	}

	occupantFeature := 0.0
	if id, ok := t.OccupantIDOf(); ok && id != self.ID {
		occupantFeature = 1.0
		if resolve != nil {
			if cat, found := resolve(id); found && cat == self.Category {
				occupantFeature = 0.5
			}
		}
	}

	return []float64{terrainFeature, resourceFeature, usesFeature, occupantFeature}
}
