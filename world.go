package evosim

import "math/rand"

// World owns the grid for a generation's lifetime. The driver owns the
// World; engines borrow it for the duration of a phase (spec.md §5, §9).
type World struct {
	Grid *Grid
}

// NewWorld builds a world of the given dimensions with terrain generated
// per cfg, using rng for determinism. It places no resources; callers seed
// them with Grid.PlaceResources.
func NewWorld(cfg WorldConfig, rng *rand.Rand) *World {
	g := NewGrid(cfg.GridWidth, cfg.GridHeight)
	g.GenerateTerrain(cfg.TerrainDistribution, cfg.MountainBorder, rng)
	return &World{Grid: g}
}

// Reseed regenerates terrain and resources in place, used by the
// Evolution Engine between generations (spec.md §4.7).
func (w *World) Reseed(cfg WorldConfig, rng *rand.Rand) {
	w.Grid = NewGrid(cfg.GridWidth, cfg.GridHeight)
	w.Grid.GenerateTerrain(cfg.TerrainDistribution, cfg.MountainBorder, rng)
	w.Grid.PlaceResources(cfg.FoodDensity, cfg.WaterDensity, rng)
}

// syncOccupants places every living animal from pop onto its (X,Y) tile,
// clearing any stale occupancy first. Used once per generation/reseed so
// that grid occupancy and the population's reported positions agree
// (Testable Property 2).
func (w *World) syncOccupants(pop *Population) {
	for y := 0; y < w.Grid.Height; y++ {
		for x := 0; x < w.Grid.Width; x++ {
			w.Grid.mustTileAt(x, y).clearOccupant()
		}
	}
	for _, a := range pop.Living() {
		t := w.Grid.mustTileAt(a.X, a.Y)
		t.setOccupant(a.ID)
	}
}

// PlaceAnimal assigns a to a random unoccupied non-Mountain tile
// (preferring Plains), used when building a fresh generation's
// population (spec.md §4.7).
func (w *World) PlaceAnimal(a *Animal, rng *rand.Rand) bool {
	t, ok := w.Grid.RandomUnoccupiedTile(rng)
	if !ok {
		return false
	}
	a.X, a.Y = t.X, t.Y
	t.setOccupant(a.ID)
	return true
}
