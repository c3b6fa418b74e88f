package evosim

import (
	"math/rand"
	"testing"
)

func newTestPopulationOn(g *Grid, animals ...*Animal) *Population {
	pop := NewPopulation()
	for _, a := range animals {
		pop.Add(a)
		g.mustTileAt(a.X, a.Y).setOccupant(a.ID)
	}
	return pop
}

// TestMovementConflictFairness exercises Testable Property 3 and scenario
// S1: two agents target the same tile; the higher-AGI agent wins, the
// loser fails with ConflictLost and spends no energy.
func TestMovementConflictFairness(t *testing.T) {
	g := NewGrid(5, 5)
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 90, 50, 50, 50}, 1, 1)
	b := NewAnimal(2, Herbivore, [numTraits]int{90, 60, 50, 50, 50}, 3, 1)
	pop := newTestPopulationOn(g, a, b)

	planned := []PlannedAction{
		{AgentID: a.ID, Kind: ActionMoveE, HasTarget: true, TargetX: 2, TargetY: 1},
		{AgentID: b.ID, Kind: ActionMoveW, HasTarget: true, TargetX: 2, TargetY: 1},
	}
	energyBefore := b.Energy
	results, conflicts := runMovementPhase(pop, g, planned)

	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one movement conflict, got %d", len(conflicts))
	}
	if conflicts[0].Winner != a.ID {
		t.Fatalf("expected agent with higher AGI (id=%d) to win, winner was %d", a.ID, conflicts[0].Winner)
	}
	if a.X != 2 || a.Y != 1 {
		t.Fatalf("expected winner to have moved to (2,1), got (%d,%d)", a.X, a.Y)
	}
	if b.X != 3 || b.Y != 1 {
		t.Fatalf("expected loser to stay put, got (%d,%d)", b.X, b.Y)
	}
	if b.Energy != energyBefore {
		t.Fatalf("expected loser to spend zero energy, had %f now %f", energyBefore, b.Energy)
	}

	var winResult, loseResult *ActionResult
	for i := range results {
		switch results[i].AgentID {
		case a.ID:
			winResult = &results[i]
		case b.ID:
			loseResult = &results[i]
		}
	}
	if winResult == nil || !winResult.Success {
		t.Fatalf("expected winner's result to be a success")
	}
	if loseResult == nil || loseResult.Reason != ReasonConflictLost {
		t.Fatalf("expected loser's result reason to be ConflictLost, got %+v", loseResult)
	}
}

// TestMovementIntoOccupiedTileIsEncounter covers the frozen Open Question
// resolution: a move into an already-occupied tile is always blocked, with
// no AGI/STR-based displacement.
func TestMovementIntoOccupiedTileIsEncounter(t *testing.T) {
	g := NewGrid(5, 5)
	mover := NewAnimal(1, Herbivore, [numTraits]int{50, 99, 99, 50, 50}, 1, 1)
	occupant := NewAnimal(2, Herbivore, [numTraits]int{50, 1, 1, 50, 50}, 2, 1)
	pop := newTestPopulationOn(g, mover, occupant)

	planned := []PlannedAction{
		{AgentID: mover.ID, Kind: ActionMoveE, HasTarget: true, TargetX: 2, TargetY: 1},
	}
	results, conflicts := runMovementPhase(pop, g, planned)
	if len(conflicts) != 0 {
		t.Fatalf("expected no recorded conflict for a single mover blocked by Encounter")
	}
	if len(results) != 1 || results[0].Reason != ReasonEncounter {
		t.Fatalf("expected Encounter failure, got %+v", results)
	}
	if mover.X != 1 || mover.Y != 1 {
		t.Fatalf("expected mover to stay put on Encounter")
	}
}

// TestMountainBlocksMovement covers scenario S6.
func TestMountainBlocksMovement(t *testing.T) {
	g := NewGrid(3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.mustTileAt(x, y).Terrain = Mountains
		}
	}
	g.mustTileAt(0, 0).Terrain = Plains
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 0, 0)
	pop := newTestPopulationOn(g, a)

	planned := []PlannedAction{
		{AgentID: a.ID, Kind: ActionMoveE, HasTarget: true, TargetX: 1, TargetY: 0},
	}
	energyBefore := a.Energy
	results, _ := runMovementPhase(pop, g, planned)
	if len(results) != 1 || results[0].Reason != ReasonMountain {
		t.Fatalf("expected Mountain failure reason, got %+v", results)
	}
	if a.X != 0 || a.Y != 0 {
		t.Fatalf("expected agent to remain at (0,0)")
	}
	if a.Energy != energyBefore {
		t.Fatalf("expected no energy spent on a blocked move")
	}
}

// TestEatConsumesExactlyOneUseAndRemovesOnExhaustion covers Testable
// Property 4 and scenario S2.
func TestEatConsumesExactlyOneUseAndRemovesOnExhaustion(t *testing.T) {
	g := NewGrid(3, 3)
	g.mustTileAt(1, 0).Resource = &Resource{Kind: Plant, Quantity: plantUnits, UsesLeft: 1}
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 1, 1)
	a.Hunger = 50

	pa := PlannedAction{AgentID: a.ID, Kind: ActionEat, TargetX: 1, TargetY: 0}
	res, delta := execEat(a, g, pa)
	if !res.Success {
		t.Fatalf("expected eat to succeed")
	}
	if a.Hunger != 80 {
		t.Fatalf("expected hunger to rise by 30 to 80, got %f", a.Hunger)
	}
	if a.ResourceUnitsConsumed != 30 {
		t.Fatalf("expected resource_units_consumed = 30, got %f", a.ResourceUnitsConsumed)
	}
	if delta == nil || !delta.Removed {
		t.Fatalf("expected resource removed once exhausted")
	}
	if g.mustTileAt(1, 0).Resource != nil {
		t.Fatalf("expected tile's resource cleared after exhaustion")
	}
}

func TestCategoryEdibilityRules(t *testing.T) {
	if isEdible(Herbivore, Prey) || isEdible(Herbivore, Carcass) {
		t.Fatalf("herbivores must never eat prey or carcass")
	}
	if isEdible(Carnivore, Plant) {
		t.Fatalf("carnivores must never eat plants")
	}
	if !isEdible(Omnivore, Plant) || !isEdible(Omnivore, Prey) {
		t.Fatalf("omnivores must eat both plant and prey")
	}
}

func TestGainForNeverCreditsWrongCategory(t *testing.T) {
	if gainFor(Herbivore, Prey) == meatGainSelf {
		t.Fatalf("herbivore must not get full meat gain")
	}
	if gainFor(Carnivore, Plant) == plantGainSelf {
		t.Fatalf("carnivore must not get full plant gain")
	}
}

func TestAttackCanKillAndRecordsKill(t *testing.T) {
	g := NewGrid(3, 3)
	attacker := NewAnimal(1, Carnivore, [numTraits]int{90, 50, 50, 50, 50}, 1, 1)
	attacker.Energy = 100
	defender := NewAnimal(2, Herbivore, [numTraits]int{10, 10, 10, 10, 10}, 1, 1)
	defender.Health = 1
	pop := newTestPopulationOn(g, defender)
	pop.Add(attacker)
	g.mustTileAt(1, 1).setOccupant(defender.ID)

	pa := PlannedAction{AgentID: attacker.ID, Kind: ActionAttack, TargetX: 1, TargetY: 1}
	rng := rand.New(rand.NewSource(1))
	var casualty *Casualty
	var res ActionResult
	for i := 0; i < 50 && casualty == nil; i++ {
		res, casualty = execAttack(attacker, pop, g, pa, rng)
		if !defender.Alive {
			break
		}
	}
	if !res.Success {
		t.Fatalf("expected attack action itself to report success")
	}
	if defender.Alive {
		t.Fatalf("expected low-health defender to die within 50 attack rolls")
	}
	if attacker.Kills == 0 {
		t.Fatalf("expected attacker's kill count incremented")
	}
	if casualty == nil || casualty.Causes[0] != CauseKilled {
		t.Fatalf("expected a CauseKilled casualty recorded")
	}
}
