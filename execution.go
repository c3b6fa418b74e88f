package evosim

import (
	"math/rand"
	"sort"
)

// executionOutcome aggregates everything the Action Execution Phase
// observes for a WeekReport: per-action results, movement/resource
// conflicts, resource deltas, and any casualties produced by Attack.
type executionOutcome struct {
	results           []ActionResult
	movementConflicts []MovementConflict
	resourceConflicts []ResourceConflict
	resourceDeltas    []ResourceDelta
	casualties        []Casualty
}

// runExecutionPhase partitions planned actions into the P1 stationary
// class (Rest, Eat, Drink, Attack) and P2 movement class, executes P1
// first in ascending-agent-id order (ties on a shared target tile
// resolve first-wins by that same order), then resolves P2 movement
// conflicts by AGI desc / STR desc / id asc (spec.md §4.3.3).
//
// Grounded in the teacher's combined interaction/movement pass
// (handleInteractions / updateEntitiesSequential, world.go), split here
// into the spec's explicit two-priority-class ordering instead of a
// single interleaved loop.
func runExecutionPhase(pop *Population, g *Grid, planned []PlannedAction, rng *rand.Rand) executionOutcome {
	var out executionOutcome

	var p1, p2 []PlannedAction
	for _, pa := range planned {
		switch pa.Kind {
		case ActionMoveN, ActionMoveE, ActionMoveS, ActionMoveW:
			p2 = append(p2, pa)
		default:
			p1 = append(p1, pa)
		}
	}

	eatTileWinner := map[[2]int]AnimalID{}
	drinkTileWinner := map[[2]int]AnimalID{}
	eatTileContenders := map[[2]int][]AnimalID{}
	drinkTileContenders := map[[2]int][]AnimalID{}

	for _, pa := range p1 {
		animal, ok := pop.Get(pa.AgentID)
		if !ok || !animal.Alive {
			continue
		}
		var res ActionResult
		var delta *ResourceDelta
		var casualty *Casualty
		switch pa.Kind {
		case ActionRest:
			res = execRest(animal)
		case ActionEat:
			key := [2]int{pa.TargetX, pa.TargetY}
			eatTileContenders[key] = append(eatTileContenders[key], animal.ID)
			res, delta = execEat(animal, g, pa)
			if res.Success {
				if _, claimed := eatTileWinner[key]; !claimed {
					eatTileWinner[key] = animal.ID
				}
			}
		case ActionDrink:
			key := [2]int{pa.TargetX, pa.TargetY}
			drinkTileContenders[key] = append(drinkTileContenders[key], animal.ID)
			res, delta = execDrink(animal, g, pa, rng)
			if res.Success {
				if _, claimed := drinkTileWinner[key]; !claimed {
					drinkTileWinner[key] = animal.ID
				}
			}
		case ActionAttack:
			res, casualty = execAttack(animal, pop, g, pa, rng)
		}
		out.results = append(out.results, res)
		if delta != nil {
			out.resourceDeltas = append(out.resourceDeltas, *delta)
		}
		if casualty != nil {
			out.casualties = append(out.casualties, *casualty)
		}
	}

	for key, contenders := range eatTileContenders {
		if len(contenders) > 1 {
			out.resourceConflicts = append(out.resourceConflicts, ResourceConflict{TargetX: key[0], TargetY: key[1], Contenders: contenders, Winner: eatTileWinner[key]})
		}
	}
	for key, contenders := range drinkTileContenders {
		if len(contenders) > 1 {
			out.resourceConflicts = append(out.resourceConflicts, ResourceConflict{TargetX: key[0], TargetY: key[1], Contenders: contenders, Winner: drinkTileWinner[key]})
		}
	}

	moveResults, moveConflicts := runMovementPhase(pop, g, p2)
	out.results = append(out.results, moveResults...)
	out.movementConflicts = moveConflicts
	return out
}

func execRest(a *Animal) ActionResult {
	a.GainEnergy(20)
	a.Heal(5)
	return ActionResult{AgentID: a.ID, Kind: ActionRest, Success: true}
}

const (
	plantGainSelf  = 30.0
	plantGainOther = 15.0
	meatGainSelf   = 40.0
	meatGainOther  = 20.0
)

func execEat(a *Animal, g *Grid, pa PlannedAction) (ActionResult, *ResourceDelta) {
	if a.Energy < 2 {
		return ActionResult{AgentID: a.ID, Kind: ActionEat, Reason: ReasonInsufficientEnergy}, nil
	}
	t, err := g.TileAt(pa.TargetX, pa.TargetY)
	if err != nil || t.Resource == nil || !isEdible(a.Category, t.Resource.Kind) {
		return ActionResult{AgentID: a.ID, Kind: ActionEat, Reason: ReasonNoTarget}, nil
	}

	gain := gainFor(a.Category, t.Resource.Kind)
	a.SpendEnergy(2)
	a.Hunger = clampF(a.Hunger+gain, 0, 100)
	a.ResourceUnitsConsumed += gain

	before := t.Resource.UsesLeft
	exhausted := t.Resource.spent()
	kind := t.Resource.Kind
	if exhausted {
		t.Resource = nil
	}
	return ActionResult{AgentID: a.ID, Kind: ActionEat, Success: true},
		&ResourceDelta{X: t.X, Y: t.Y, Kind: kind, Before: before, After: maxInt(before-1, 0), Removed: exhausted}
}

func gainFor(c Category, kind ResourceKind) float64 {
	switch kind {
	case Plant:
		if c == Herbivore {
			return plantGainSelf
		}
		return plantGainOther
	case Prey, Carcass:
		if c == Carnivore {
			return meatGainSelf
		}
		return meatGainOther
	default:
		return 0
	}
}

func execDrink(a *Animal, g *Grid, pa PlannedAction, rng *rand.Rand) (ActionResult, *ResourceDelta) {
	if a.Energy < 2 {
		return ActionResult{AgentID: a.ID, Kind: ActionDrink, Reason: ReasonInsufficientEnergy}, nil
	}
	t, err := g.TileAt(pa.TargetX, pa.TargetY)
	if err != nil {
		return ActionResult{AgentID: a.ID, Kind: ActionDrink, Reason: ReasonNoTarget}, nil
	}
	hasResource := t.Resource != nil && t.Resource.Kind == WaterSource
	hasAdjacentTerrain := false
	if !hasResource {
		for _, n := range g.Adjacent(pa.TargetX, pa.TargetY, true) {
			if n.Terrain == Water {
				hasAdjacentTerrain = true
				break
			}
		}
		if t.Terrain == Water {
			hasAdjacentTerrain = true
		}
	}
	if !hasResource && !hasAdjacentTerrain {
		return ActionResult{AgentID: a.ID, Kind: ActionDrink, Reason: ReasonNoTarget}, nil
	}

	a.SpendEnergy(2)
	a.Thirst = clampF(a.Thirst+50, 0, 100)
	a.ResourceUnitsConsumed += 50

	var delta *ResourceDelta
	if hasResource && rng.Float64() < 0.1 {
		before := t.Resource.UsesLeft
		exhausted := t.Resource.spent()
		if exhausted {
			t.Resource = nil
		}
		delta = &ResourceDelta{X: t.X, Y: t.Y, Kind: WaterSource, Before: before, After: maxInt(before-1, 0), Removed: exhausted}
	}
	return ActionResult{AgentID: a.ID, Kind: ActionDrink, Success: true}, delta
}

func execAttack(a *Animal, pop *Population, g *Grid, pa PlannedAction, rng *rand.Rand) (ActionResult, *Casualty) {
	if a.Energy < 10 {
		return ActionResult{AgentID: a.ID, Kind: ActionAttack, Reason: ReasonInsufficientEnergy}, nil
	}
	t, err := g.TileAt(a.X, a.Y)
	if err != nil {
		return ActionResult{AgentID: a.ID, Kind: ActionAttack, Reason: ReasonNoTarget}, nil
	}
	defenderID, ok := t.OccupantIDOf()
	if !ok || defenderID == a.ID {
		return ActionResult{AgentID: a.ID, Kind: ActionAttack, Reason: ReasonNoTarget}, nil
	}
	defender, ok := pop.Get(defenderID)
	if !ok || !defender.Alive {
		return ActionResult{AgentID: a.ID, Kind: ActionAttack, Reason: ReasonNoTarget}, nil
	}

	a.SpendEnergy(10)

	hitChance := clampF(0.6+float64(a.Traits[TraitSTR]-defender.Traits[TraitAGI])/200, 0.1, 0.9)
	if rng.Float64() >= hitChance {
		return ActionResult{AgentID: a.ID, Kind: ActionAttack, Success: true}, nil
	}

	damage := 15 + rng.Float64()*10 + float64(a.Traits[TraitSTR]-50)/10
	defender.TakeDamage(damage)

	var casualty *Casualty
	if defender.Health <= 0 {
		defender.Alive = false
		t.clearOccupant()
		t.setOccupant(a.ID)
		a.X, a.Y = t.X, t.Y
		a.Kills++
		casualty = &Casualty{AgentID: defender.ID, Causes: []DeathCause{CauseKilled}}
	}
	return ActionResult{AgentID: a.ID, Kind: ActionAttack, Success: true}, casualty
}

// runMovementPhase executes the P2 movement class. Preconditions
// (energy, bounds, terrain) are checked first and failures recorded
// immediately; an off-grid target fails with the Mountain reason. Surviving candidates are grouped by target tile. A move
// into a tile that (per the pre-P2 snapshot) already carries an occupant
// is always blocked ("Encounter") for every mover targeting it — no
// STR-based displacement, matching the spec's frozen simplified rule
// (spec.md §4.3.3, §9 Open Questions). For every remaining (unoccupied)
// target, ties are resolved by AGI desc, STR desc, id asc (Testable
// Property 3); the winner moves and pays the energy cost, losers fail
// with ConflictLost at no energy cost.
func runMovementPhase(pop *Population, g *Grid, planned []PlannedAction) ([]ActionResult, []MovementConflict) {
	var results []ActionResult

	type candidate struct {
		animal *Animal
		pa     PlannedAction
	}
	groups := map[[2]int][]candidate{}

	for _, pa := range planned {
		animal, ok := pop.Get(pa.AgentID)
		if !ok || !animal.Alive {
			continue
		}
		if animal.Energy < 5 {
			results = append(results, ActionResult{AgentID: animal.ID, Kind: pa.Kind, Reason: ReasonInsufficientEnergy})
			continue
		}
		if !g.InBounds(pa.TargetX, pa.TargetY) {
			// Off the grid is as impassable as Mountains and reports the same reason.
			results = append(results, ActionResult{AgentID: animal.ID, Kind: pa.Kind, Reason: ReasonMountain})
			continue
		}
		target, _ := g.TileAt(pa.TargetX, pa.TargetY)
		if target.Terrain == Mountains {
			results = append(results, ActionResult{AgentID: animal.ID, Kind: pa.Kind, Reason: ReasonMountain})
			continue
		}
		key := [2]int{pa.TargetX, pa.TargetY}
		groups[key] = append(groups[key], candidate{animal: animal, pa: pa})
	}

	occupiedBefore := make(map[[2]int]bool, len(groups))
	for key := range groups {
		occupiedBefore[key] = g.mustTileAt(key[0], key[1]).HasOccupant()
	}

	var conflicts []MovementConflict
	for key, cands := range groups {
		target, _ := g.TileAt(key[0], key[1])
		if occupiedBefore[key] {
			for _, c := range cands {
				results = append(results, ActionResult{AgentID: c.animal.ID, Kind: c.pa.Kind, Reason: ReasonEncounter})
			}
			continue
		}

		sort.Slice(cands, func(i, j int) bool {
			ai, aj := cands[i].animal, cands[j].animal
			if ai.Traits[TraitAGI] != aj.Traits[TraitAGI] {
				return ai.Traits[TraitAGI] > aj.Traits[TraitAGI]
			}
			if ai.Traits[TraitSTR] != aj.Traits[TraitSTR] {
				return ai.Traits[TraitSTR] > aj.Traits[TraitSTR]
			}
			return ai.ID < aj.ID
		})

		winner := cands[0]
		execMoveSuccess(winner.animal, g, target)
		results = append(results, ActionResult{AgentID: winner.animal.ID, Kind: winner.pa.Kind, Success: true})

		if len(cands) > 1 {
			ids := make([]AnimalID, len(cands))
			for i, c := range cands {
				ids[i] = c.animal.ID
			}
			for _, c := range cands[1:] {
				results = append(results, ActionResult{AgentID: c.animal.ID, Kind: c.pa.Kind, Reason: ReasonConflictLost})
			}
			conflicts = append(conflicts, MovementConflict{TargetX: key[0], TargetY: key[1], Contenders: ids, Winner: winner.animal.ID})
		}
	}
	return results, conflicts
}

func execMoveSuccess(a *Animal, g *Grid, target *Tile) {
	source, err := g.TileAt(a.X, a.Y)
	if err == nil {
		source.clearOccupant()
	}
	target.setOccupant(a.ID)
	a.X, a.Y = target.X, target.Y
	a.SpendEnergy(5)
	a.DistanceTraveled++
	a.MovementCount++
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
