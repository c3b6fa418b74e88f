package evosim

import "math/rand"

// ruleBasedDecide implements the fixed fallback policy used when an
// animal carries no DecisionNetwork (spec.md §4.3.1):
//
//  1. Health <= 20 -> Rest
//  2. Hunger <= 30 and adjacent food (by category) -> Eat that tile
//  3. Thirst <= 30 and adjacent water -> Drink
//  4. Energy <= 40 -> Rest
//  5. otherwise Move in a uniformly random cardinal direction
func ruleBasedDecide(a *Animal, g *Grid, rng *rand.Rand) PlannedAction {
	if a.Health <= 20 {
		return restAction(a)
	}
	if a.Hunger <= 30 {
		if tx, ty, ok := adjacentEdibleFood(a, g); ok {
			return PlannedAction{AgentID: a.ID, Kind: ActionEat, HasTarget: true, TargetX: tx, TargetY: ty, EnergyCost: ActionEat.EnergyCost()}
		}
	}
	if a.Thirst <= 30 {
		if tx, ty, ok := adjacentWater(a, g); ok {
			return PlannedAction{AgentID: a.ID, Kind: ActionDrink, HasTarget: true, TargetX: tx, TargetY: ty, EnergyCost: ActionDrink.EnergyCost()}
		}
	}
	if a.Energy <= 40 {
		return restAction(a)
	}
	dir := CardinalDirections[rng.Intn(len(CardinalDirections))]
	return moveAction(a, dir)
}

func restAction(a *Animal) PlannedAction {
	return PlannedAction{AgentID: a.ID, Kind: ActionRest, EnergyCost: ActionRest.EnergyCost()}
}

func moveAction(a *Animal, dir Direction) PlannedAction {
	kind := ActionMoveN
	switch dir {
	case DirE:
		kind = ActionMoveE
	case DirS:
		kind = ActionMoveS
	case DirW:
		kind = ActionMoveW
	}
	dx, dy := dir.delta()
	return PlannedAction{AgentID: a.ID, Kind: kind, HasTarget: true, TargetX: a.X + dx, TargetY: a.Y + dy, EnergyCost: kind.EnergyCost()}
}

// isEdible reports whether an animal's category may eat the given
// resource kind (spec.md §4.3.2 "Notes" on Eat edibility).
func isEdible(c Category, kind ResourceKind) bool {
	switch c {
	case Herbivore:
		return kind == Plant
	case Carnivore:
		return kind == Prey || kind == Carcass
	case Omnivore:
		return kind == Plant || kind == Prey || kind == Carcass
	default:
		return false
	}
}

func adjacentEdibleFood(a *Animal, g *Grid) (int, int, bool) {
	for _, t := range g.Adjacent(a.X, a.Y, true) {
		if t.Resource != nil && isEdible(a.Category, t.Resource.Kind) {
			return t.X, t.Y, true
		}
	}
	return 0, 0, false
}

func adjacentWater(a *Animal, g *Grid) (int, int, bool) {
	for _, t := range g.Adjacent(a.X, a.Y, true) {
		if t.Resource != nil && t.Resource.Kind == WaterSource {
			return t.X, t.Y, true
		}
		if t.Terrain == Water {
			return t.X, t.Y, true
		}
	}
	return 0, 0, false
}

// decidePolicy maps a DecisionNetwork's argmax output to a PlannedAction,
// filling in a sensible default target for actions that need one: Eat and
// Drink target the agent's own tile if it hosts an edible/water resource
// else the first adjacent candidate; Attack targets the current tile's
// occupant; movement targets the adjacent tile in that direction.
func decidePolicy(a *Animal, g *Grid, input []float64) PlannedAction {
	kind := a.Policy.Decide(input)
	switch kind {
	case ActionMoveN, ActionMoveE, ActionMoveS, ActionMoveW:
		dir, _ := kind.Direction()
		return moveAction(a, dir)
	case ActionEat:
		if tx, ty, ok := edibleTarget(a, g); ok {
			return PlannedAction{AgentID: a.ID, Kind: ActionEat, HasTarget: true, TargetX: tx, TargetY: ty, EnergyCost: kind.EnergyCost()}
		}
		return restAction(a)
	case ActionDrink:
		if tx, ty, ok := waterTarget(a, g); ok {
			return PlannedAction{AgentID: a.ID, Kind: ActionDrink, HasTarget: true, TargetX: tx, TargetY: ty, EnergyCost: kind.EnergyCost()}
		}
		return restAction(a)
	case ActionAttack:
		if t, err := g.TileAt(a.X, a.Y); err == nil {
			if id, ok := t.OccupantIDOf(); ok && id != a.ID {
				return PlannedAction{AgentID: a.ID, Kind: ActionAttack, HasTarget: true, TargetX: a.X, TargetY: a.Y, EnergyCost: kind.EnergyCost()}
			}
		}
		return restAction(a)
	default:
		return restAction(a)
	}
}

func edibleTarget(a *Animal, g *Grid) (int, int, bool) {
	if t, err := g.TileAt(a.X, a.Y); err == nil && t.Resource != nil && isEdible(a.Category, t.Resource.Kind) {
		return a.X, a.Y, true
	}
	return adjacentEdibleFood(a, g)
}

func waterTarget(a *Animal, g *Grid) (int, int, bool) {
	if t, err := g.TileAt(a.X, a.Y); err == nil && t.Resource != nil && t.Resource.Kind == WaterSource {
		return a.X, a.Y, true
	}
	return adjacentWater(a, g)
}
