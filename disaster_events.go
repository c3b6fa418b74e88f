package evosim

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// disasterNames lists the disaster catalog (spec.md §4.6).
var disasterNames = []string{
	"earthquake", "wildfire", "flood", "drought", "toxic_spill", "plague", "predator_invasion",
}

const defaultDisasterRadius = 3

var severityLevels = []Severity{SeverityMinor, SeverityModerate, SeverityMajor, SeverityCatastrophic}

// runDisaster applies spec.md §4.6's week-based disaster gating (forbidden
// in week 1; at most one in weeks <= 3), the population/week probability
// modifier, and the class cap, then executes at most one matching
// disaster per eligible name.
func (e *EventEngine) runDisaster(world *World, pop *Population, week int, rng *rand.Rand) []EventResult {
	if week == 1 {
		return nil
	}
	living := pop.Living()
	cap := e.cfg.Disaster.Cap
	if week <= 3 && cap > 1 {
		cap = 1
	}

	var results []EventResult
	mod := disasterProbabilityModifier(len(living), week)

	for _, name := range disasterNames {
		if len(results) >= cap {
			break
		}
		if !e.eligible(ClassDisaster, name, week) {
			continue
		}
		prob := e.cfg.Disaster.Probabilities[name] * mod
		if rng.Float64() >= prob {
			continue
		}
		severity := severityLevels[rng.Intn(len(severityLevels))]
		epicenter, ok := world.Grid.RandomUnoccupiedTile(rng)
		ex, ey := world.Grid.Width/2, world.Grid.Height/2
		if ok {
			ex, ey = epicenter.X, epicenter.Y
		}
		result := safeResult(ClassDisaster, name, func() EventResult {
			return e.executeDisaster(name, world, pop, living, severity, ex, ey, defaultDisasterRadius, rng)
		})
		e.record(name, week)
		results = append(results, result)
	}
	return results
}

// tilesInAoE returns every in-bounds tile within Euclidean distance r of
// (cx,cy) (spec.md §4.6). Earthquake's falloff factor is computed
// separately by distFactor.
func tilesInAoE(g *Grid, cx, cy, r int) []*Tile {
	var out []*Tile
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !g.InBounds(x, y) {
				continue
			}
			dx, dy := float64(x-cx), float64(y-cy)
			if math.Sqrt(dx*dx+dy*dy) <= float64(r) {
				out = append(out, g.mustTileAt(x, y))
			}
		}
	}
	return out
}

func distFactor(cx, cy, x, y, r int) float64 {
	dx, dy := float64(x-cx), float64(y-cy)
	d := math.Sqrt(dx*dx + dy*dy)
	return math.Max(0.3, 1-d/float64(r))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

func (e *EventEngine) executeDisaster(name string, world *World, pop *Population, living []*Animal, sev Severity, cx, cy, r int, rng *rand.Rand) EventResult {
	result := EventResult{ID: uuid.New(), Kind: canonicalEventKind(name), Class: ClassDisaster, Success: true}
	g := world.Grid
	s := float64(sev)

	animalsInAoE := func() []*Animal {
		var out []*Animal
		for _, a := range living {
			dx, dy := float64(a.X-cx), float64(a.Y-cy)
			if math.Sqrt(dx*dx+dy*dy) <= float64(r) {
				out = append(out, a)
			}
		}
		return out
	}

	killAndRecord := func(a *Animal, t *Tile) {
		a.Alive = false
		t.clearOccupant()
		result.Casualties = append(result.Casualties, Casualty{AgentID: a.ID, Causes: []DeathCause{CauseHealth}})
	}

	switch name {
	case "earthquake":
		for _, a := range animalsInAoE() {
			df := distFactor(cx, cy, a.X, a.Y, r)
			a.TakeDamage(uniform(rng, 20, 40) * s * df)
			a.SpendEnergy(uniform(rng, 15, 25))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				if t, err := g.TileAt(a.X, a.Y); err == nil {
					killAndRecord(a, t)
				}
			}
		}
		for _, t := range tilesInAoE(g, cx, cy, r) {
			if t.Resource == nil || rng.Float64() >= 0.7 {
				continue
			}
			before := t.Resource.UsesLeft
			if rng.Float64() < 0.5 {
				t.Resource = nil
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Before: before, Removed: true})
			} else {
				t.Resource.UsesLeft = maxInt(t.Resource.UsesLeft-(2+rng.Intn(4)), 0)
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Before: before, After: t.Resource.UsesLeft})
			}
		}

	case "wildfire":
		for _, a := range animalsInAoE() {
			a.TakeDamage(uniform(rng, 25, 45) * s)
			a.SpendEnergy(uniform(rng, 20, 35))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				if t, err := g.TileAt(a.X, a.Y); err == nil {
					killAndRecord(a, t)
				}
			}
		}
		for _, t := range tilesInAoE(g, cx, cy, r) {
			if t.Resource == nil {
				continue
			}
			if t.Resource.Kind == Plant {
				before := t.Resource.UsesLeft
				t.Resource = nil
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Kind: Plant, Before: before, Removed: true})
			} else if rng.Float64() < 0.4 {
				before := t.Resource.UsesLeft
				t.Resource.UsesLeft = maxInt(t.Resource.UsesLeft-(3+rng.Intn(4)), 0)
				result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Kind: t.Resource.Kind, Before: before, After: t.Resource.UsesLeft})
			}
		}

	case "flood":
		for _, a := range animalsInAoE() {
			a.TakeDamage(uniform(rng, 15, 30) * s)
			a.SpendEnergy(uniform(rng, 25, 40))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				if t, err := g.TileAt(a.X, a.Y); err == nil {
					killAndRecord(a, t)
				}
			}
		}
		for _, t := range tilesInAoE(g, cx, cy, r) {
			if t.Resource == nil || rng.Float64() >= 0.6 {
				continue
			}
			before := t.Resource.UsesLeft
			t.Resource.UsesLeft = maxInt(t.Resource.UsesLeft-(2+rng.Intn(3)), 0)
			result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Kind: t.Resource.Kind, Before: before, After: t.Resource.UsesLeft})
		}

	case "drought":
		for _, a := range animalsInAoE() {
			a.Thirst = clampF(a.Thirst-uniform(rng, 10, 20)*s, 0, 100)
			if a.Thirst < 30 {
				a.TakeDamage(uniform(rng, 5, 15))
			}
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
		}
		floor := int(math.Ceil(0.15 * float64(g.Width*g.Height)))
		applyDroughtFloor(g, WaterSource, 0.70*s, floor, rng)
		applyDroughtFloor(g, Plant, 0.50*s, floor, rng)

	case "toxic_spill":
		for _, a := range animalsInAoE() {
			a.TakeDamage(uniform(rng, 30, 50) * s)
			a.SpendEnergy(uniform(rng, 35, 50))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				if t, err := g.TileAt(a.X, a.Y); err == nil {
					killAndRecord(a, t)
				}
			}
		}
		for _, t := range tilesInAoE(g, cx, cy, r) {
			if t.Resource == nil {
				continue
			}
			before := t.Resource.UsesLeft
			t.Resource = nil
			result.ResourcesChanged = append(result.ResourcesChanged, ResourceDelta{X: t.X, Y: t.Y, Before: before, Removed: true})
		}

	case "plague":
		fraction := uniform(rng, 0.5, 0.8) * s
		for _, a := range living {
			if rng.Float64() >= fraction {
				continue
			}
			a.TakeDamage(uniform(rng, 40, 70) * s)
			a.SpendEnergy(uniform(rng, 30, 50))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				if t, err := g.TileAt(a.X, a.Y); err == nil {
					killAndRecord(a, t)
				}
			}
		}

	case "predator_invasion":
		for _, a := range living {
			chance := 0.4 * s
			switch {
			case a.Traits[TraitSTR] > 70:
				chance *= 0.6
			case a.Traits[TraitSTR] < 40:
				chance *= 1.4
			}
			if rng.Float64() >= chance {
				continue
			}
			a.TakeDamage(uniform(rng, 20, 40) * s)
			a.SpendEnergy(uniform(rng, 15, 30))
			result.AffectedAgents = append(result.AffectedAgents, a.ID)
			if a.Health <= 0 {
				if t, err := g.TileAt(a.X, a.Y); err == nil {
					killAndRecord(a, t)
				}
			}
		}
	}

	return result
}

// applyDroughtFloor reduces the surviving count of resources of kind
// toward count*(1-multiplier), never letting it drop below floor — the
// minimum-floor rule spec.md §9's Open Questions freezes for drought's
// two inconsistent reference caps, confirmed against
// original_source/evosim-simple/src/environment.py's
// update_event_effects, whose drought/famine handling computes
// `target = max(min_floor, int(current_count * multiplier))` with
// `min_floor = max(1, int(total_cells * 0.15))` and removes a random
// sample of the excess rather than a fixed subset.
func applyDroughtFloor(g *Grid, kind ResourceKind, multiplier float64, floor int, rng *rand.Rand) {
	var matches []*Tile
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.mustTileAt(x, y)
			if t.Resource != nil && t.Resource.Kind == kind {
				matches = append(matches, t)
			}
		}
	}
	targetSurvivors := maxInt(floor, int(math.Floor(float64(len(matches))*(1-multiplier))))
	if targetSurvivors >= len(matches) {
		return
	}
	toRemove := len(matches) - targetSurvivors
	rng.Shuffle(len(matches), func(i, j int) { matches[i], matches[j] = matches[j], matches[i] })
	for i := 0; i < toRemove; i++ {
		matches[i].Resource = nil
	}
}
