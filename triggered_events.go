package evosim

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// triggeredNames lists the triggered-event catalog in the fixed order
// they are checked each week (spec.md §4.6).
var triggeredNames = []string{"overpopulation", "near_extinction", "resource_scarcity", "disease"}

const overpopulationDensityThreshold = 0.5
const resourceScarcityThreshold = 0.3
const diseaseUnhealthyFraction = 0.4

// runTriggered checks every triggered event's condition; when a
// condition holds, an independent probability check decides whether the
// event actually fires this week, honoring the class cap (spec.md §4.6).
func (e *EventEngine) runTriggered(world *World, pop *Population, week int, rng *rand.Rand) []EventResult {
	var results []EventResult
	living := pop.Living()

	for _, name := range triggeredNames {
		if len(results) >= e.cfg.Triggered.Cap {
			break
		}
		if !e.triggeredConditionHolds(name, world, living) {
			continue
		}
		if !e.eligible(ClassTriggered, name, week) {
			continue
		}
		prob := e.cfg.Triggered.Probabilities[name]
		if rng.Float64() >= prob {
			continue
		}
		result := safeResult(ClassTriggered, name, func() EventResult {
			return e.executeTriggered(name, world, pop, living, rng)
		})
		e.record(name, week)
		results = append(results, result)
	}
	return results
}

func (e *EventEngine) triggeredConditionHolds(name string, world *World, living []*Animal) bool {
	switch name {
	case "overpopulation":
		area := float64(world.Grid.Width * world.Grid.Height)
		return area > 0 && float64(len(living))/area >= overpopulationDensityThreshold
	case "near_extinction":
		return len(living) > 0 && len(living) <= 3
	case "resource_scarcity":
		return resourceScarcityRatio(world.Grid) < resourceScarcityThreshold
	case "disease":
		return unhealthyFraction(living) >= diseaseUnhealthyFraction
	default:
		return false
	}
}

func resourceScarcityRatio(g *Grid) float64 {
	total, withResource := 0, 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.mustTileAt(x, y)
			if t.Terrain == Mountains {
				continue
			}
			total++
			if t.Resource != nil {
				withResource++
			}
		}
	}
	if total == 0 {
		return 1
	}
	return float64(withResource) / float64(total)
}

func unhealthyFraction(living []*Animal) float64 {
	if len(living) == 0 {
		return 0
	}
	under50 := 0
	for _, a := range living {
		if a.Health < 50 {
			under50++
		}
	}
	return float64(under50) / float64(len(living))
}

// sampleAnimals draws n distinct animals from living without replacement,
// mirroring Python's random.sample used throughout the original triggered
// events (original_source/evosim-game/event_engine/triggered_events.py).
func sampleAnimals(living []*Animal, n int, rng *rand.Rand) []*Animal {
	if n >= len(living) {
		return append([]*Animal(nil), living...)
	}
	shuffled := append([]*Animal(nil), living...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}

func randRange(rng *rand.Rand, lo, hi int) float64 { return float64(lo + rng.Intn(hi-lo+1)) }

// executeTriggered applies a confirmed-firing triggered event's effect,
// grounded directly on original_source/evosim-game/event_engine/triggered_events.py's
// four event classes (OverpopulationEvent, ExtinctionThreatEvent,
// ResourceScarcityEvent, DiseaseOutbreakEvent) rather than invented from
// spec text alone: overpopulation taxes up to 1/3 of the population
// (capped at 5) with Health -[5,15] (floor 10) and Energy -[10,20]
// (floor 5); near-extinction boosts every survivor's Health +[10,25] and
// Energy +[15,30]; resource scarcity reduces every remaining resource's
// uses_left by [1,3]; disease infects a random 30-60% of the population
// with Health -[15,35] and Energy -[20,40], killing any animal whose
// Health reaches zero.
func (e *EventEngine) executeTriggered(name string, world *World, pop *Population, living []*Animal, rng *rand.Rand) EventResult {
	result := EventResult{ID: uuid.New(), Kind: canonicalEventKind(name), Class: ClassTriggered, Success: true}

	switch name {
	case "overpopulation":
		affectedCount := len(living) / 3
		if affectedCount > 5 {
			affectedCount = 5
		}
		for _, a := range sampleAnimals(living, affectedCount, rng) {
			a.Health = math.Max(10, a.Health-randRange(rng, 5, 15))
			a.Energy = math.Max(5, a.Energy-randRange(rng, 10, 20))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
		}
		result.EffectsApplied = append(result.EffectsApplied, "overpopulation_stress")

	case "near_extinction":
		for _, a := range living {
			a.Heal(randRange(rng, 10, 25))
			a.GainEnergy(randRange(rng, 15, 30))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
		}
		result.EffectsApplied = append(result.EffectsApplied, "extinction_relief")

	case "resource_scarcity":
		g := world.Grid
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				t := g.mustTileAt(x, y)
				if t.Resource == nil || t.Resource.UsesLeft <= 0 {
					continue
				}
				before := t.Resource.UsesLeft
				t.Resource.UsesLeft = maxInt(t.Resource.UsesLeft-(1+rng.Intn(3)), 0)
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: x, Y: y, Kind: t.Resource.Kind, Before: before, After: t.Resource.UsesLeft})
			}
		}
		result.EffectsApplied = append(result.EffectsApplied, "resource_scarcity")

	case "disease":
		infectionRate := uniform(rng, 0.3, 0.6)
		affectedCount := int(float64(len(living)) * infectionRate)
		if affectedCount < 1 {
			affectedCount = 1
		}
		if affectedCount > len(living) {
			affectedCount = len(living)
		}
		for _, a := range sampleAnimals(living, affectedCount, rng) {
			a.TakeDamage(randRange(rng, 15, 35))
			a.SpendEnergy(randRange(rng, 20, 40))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				a.Alive = false
				if t, err := world.Grid.TileAt(a.X, a.Y); err == nil {
					t.clearOccupant()
				}
				result.Casualties = append(result.Casualties, Casualty{AgentID: a.ID, Causes: []DeathCause{CauseHealth}})
			}
		}
		result.EffectsApplied = append(result.EffectsApplied, "disease_outbreak")
	}

	return result
}
