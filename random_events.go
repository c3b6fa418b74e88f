package evosim

import (
	"math/rand"

	"github.com/google/uuid"
)

// randomNames lists the random-event catalog (spec.md §4.6).
var randomNames = []string{
	"resource_discovery", "healing_springs", "abundant_harvest",
	"migration", "weather_change", "pest_infestation", "territorial_dispute",
}

// runRandom samples each random event's own probability, honoring the
// class cap, cooldowns and max occurrences (spec.md §4.6).
func (e *EventEngine) runRandom(world *World, pop *Population, week int, rng *rand.Rand) []EventResult {
	var results []EventResult
	living := pop.Living()

	for _, name := range randomNames {
		if len(results) >= e.cfg.Random.Cap {
			break
		}
		if !e.eligible(ClassRandom, name, week) {
			continue
		}
		prob := e.cfg.Random.Probabilities[name]
		if rng.Float64() >= prob {
			continue
		}
		result := safeResult(ClassRandom, name, func() EventResult {
			return e.executeRandom(name, world, living, rng)
		})
		e.record(name, week)
		results = append(results, result)
	}
	return results
}

func (e *EventEngine) executeRandom(name string, world *World, living []*Animal, rng *rand.Rand) EventResult {
	result := EventResult{ID: uuid.New(), Kind: canonicalEventKind(name), Class: ClassRandom, Success: true}
	g := world.Grid

	switch name {
	case "resource_discovery":
		n := 2 + rng.Intn(4) // 2-5 tiles
		for i := 0; i < n; i++ {
			t, ok := g.RandomUnoccupiedTile(rng)
			if !ok || t.Resource != nil {
				continue
			}
			t.Resource = g.rollFoodResource(t.Terrain, rng)
			if t.Resource != nil {
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Kind: t.Resource.Kind, Before: 0, After: t.Resource.UsesLeft})
			}
		}
		result.EffectsApplied = append(result.EffectsApplied, "resource_discovery")

	case "healing_springs":
		fraction := 0.3 + rng.Float64()*0.4
		for _, a := range living {
			if rng.Float64() >= fraction {
				continue
			}
			a.Heal(15 + rng.Float64()*20)
			a.GainEnergy(10 + rng.Float64()*10)
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
		}
		result.EffectsApplied = append(result.EffectsApplied, "healing")

	case "abundant_harvest":
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				t := g.mustTileAt(x, y)
				if t.Resource == nil {
					continue
				}
				before := t.Resource.UsesLeft
				t.Resource.UsesLeft += 2 + rng.Intn(4)
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: x, Y: y, Kind: t.Resource.Kind, Before: before, After: t.Resource.UsesLeft})
			}
		}
		result.EffectsApplied = append(result.EffectsApplied, "abundant_harvest")

	case "migration":
		fraction := 0.2 + rng.Float64()*0.3
		for _, a := range living {
			if rng.Float64() >= fraction {
				continue
			}
			if t, ok := g.RandomUnoccupiedTile(rng); ok {
				source := g.mustTileAt(a.X, a.Y)
				source.clearOccupant()
				t.setOccupant(a.ID)
				a.X, a.Y = t.X, t.Y
				result.AffectedAgents = append(result.AffectedAgents, a.ID)
			}
		}
		result.EffectsApplied = append(result.EffectsApplied, "migration")

	case "weather_change":
		delta := 10 + rng.Float64()*15
		if rng.Float64() < 0.5 {
			delta = -delta
		}
		for _, a := range living {
			if delta >= 0 {
				a.GainEnergy(delta)
			} else {
				a.SpendEnergy(-delta)
			}
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
		}
		result.EffectsApplied = append(result.EffectsApplied, "weather_change")

	case "pest_infestation":
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				t := g.mustTileAt(x, y)
				if t.Resource == nil || t.Resource.Kind != Plant {
					continue
				}
				if rng.Float64() >= 0.6 {
					continue
				}
				before := t.Resource.UsesLeft
				t.Resource.UsesLeft -= 1 + rng.Intn(3)
				after := maxInt(t.Resource.UsesLeft, 0)
				removed := t.Resource.UsesLeft <= 0
				if removed {
					t.Resource = nil
				}
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: x, Y: y, Kind: Plant, Before: before, After: after, Removed: removed})
			}
		}
		result.EffectsApplied = append(result.EffectsApplied, "pest_infestation")

	case "territorial_dispute":
		fraction := 0.3 + rng.Float64()*0.3
		for _, a := range living {
			if rng.Float64() >= fraction {
				continue
			}
			a.TakeDamage(3 + rng.Float64()*5)
			a.SpendEnergy(5 + rng.Float64()*7)
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
		}
		result.EffectsApplied = append(result.EffectsApplied, "territorial_dispute")
	}

	return result
}
