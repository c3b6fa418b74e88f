package evosim

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// TestScenarioS1MovementConflict exercises scenario S1 end to end through
// the Action Execution Phase: two agents target the same tile; the
// higher-AGI agent wins and pays the movement energy cost, the loser
// fails with ConflictLost at no energy cost.
func TestScenarioS1MovementConflict(t *testing.T) {
	Convey("Given two agents planning to move onto the same tile", t, func() {
		g := NewGrid(5, 5)
		a := NewAnimal(1, Herbivore, [numTraits]int{50, 90, 50, 50, 50}, 1, 1)
		b := NewAnimal(2, Herbivore, [numTraits]int{90, 60, 50, 50, 50}, 3, 1)
		pop := newTestPopulationOn(g, a, b)
		aEnergyBefore, bEnergyBefore := a.Energy, b.Energy

		planned := []PlannedAction{
			{AgentID: a.ID, Kind: ActionMoveE, HasTarget: true, TargetX: 2, TargetY: 1},
			{AgentID: b.ID, Kind: ActionMoveW, HasTarget: true, TargetX: 2, TargetY: 1},
		}

		Convey("When the movement phase resolves the conflict", func() {
			runMovementPhase(pop, g, planned)

			Convey("A moves to (2,1) and spends movement energy", func() {
				So(a.X, ShouldEqual, 2)
				So(a.Y, ShouldEqual, 1)
				So(a.Energy, ShouldEqual, aEnergyBefore-5)
			})
			Convey("B fails and keeps its energy unchanged", func() {
				So(b.X, ShouldEqual, 3)
				So(b.Energy, ShouldEqual, bEnergyBefore)
			})
		})
	})
}

// TestScenarioS2EatGrantsNutritionAndRemovesResource exercises scenario
// S2: a Herbivore eats an adjacent single-use Plant resource.
func TestScenarioS2EatGrantsNutritionAndRemovesResource(t *testing.T) {
	Convey("Given a Herbivore adjacent to a single-use Plant resource", t, func() {
		g := NewGrid(3, 3)
		g.mustTileAt(1, 0).Resource = &Resource{Kind: Plant, Quantity: plantUnits, UsesLeft: 1}
		a := NewAnimal(0, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 1, 1)
		a.Hunger = 50

		Convey("When it eats the resource", func() {
			pa := PlannedAction{AgentID: a.ID, Kind: ActionEat, TargetX: 1, TargetY: 0}
			res, delta := execEat(a, g, pa)

			Convey("Hunger rises by 30 and resource_units_consumed = 30", func() {
				So(res.Success, ShouldBeTrue)
				So(a.Hunger, ShouldEqual, 80)
				So(a.ResourceUnitsConsumed, ShouldEqual, 30)
			})
			Convey("The resource is removed from its tile", func() {
				So(delta.Removed, ShouldBeTrue)
				So(g.mustTileAt(1, 0).Resource, ShouldBeNil)
			})
		})
	})
}

// TestScenarioS6AllMountainsBlocksEveryMove exercises scenario S6: an
// agent surrounded by Mountains can never move.
func TestScenarioS6AllMountainsBlocksEveryMove(t *testing.T) {
	Convey("Given a grid of all Mountains except the agent's own tile", t, func() {
		g := NewGrid(3, 3)
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				g.mustTileAt(x, y).Terrain = Mountains
			}
		}
		g.mustTileAt(0, 0).Terrain = Plains
		a := NewAnimal(0, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 0, 0)
		pop := newTestPopulationOn(g, a)
		energyBefore := a.Energy

		Convey("When it plans any movement action", func() {
			for _, kind := range []ActionKind{ActionMoveN, ActionMoveE, ActionMoveS, ActionMoveW} {
				dir, _ := kind.Direction()
				dx, dy := dir.delta()
				planned := []PlannedAction{{AgentID: a.ID, Kind: kind, HasTarget: true, TargetX: a.X + dx, TargetY: a.Y + dy}}
				results, _ := runMovementPhase(pop, g, planned)

				Convey("The move fails with reason Mountain and the agent does not move", func() {
					So(len(results), ShouldEqual, 1)
					So(results[0].Reason, ShouldEqual, ReasonMountain)
					So(a.X, ShouldEqual, 0)
					So(a.Y, ShouldEqual, 0)
				})
			}
		})
		So(a.Energy, ShouldEqual, energyBefore)
	})
}

// TestScenarioS4EarthquakeAffectsOnlyTilesWithinRadius exercises scenario
// S4's shape: an Earthquake with radius 1 at a known epicenter only
// damages agents within that radius.
func TestScenarioS4EarthquakeAffectsOnlyTilesWithinRadius(t *testing.T) {
	Convey("Given a 10x10 grid and agents at varying distance from an epicenter", t, func() {
		g := NewGrid(10, 10)
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				g.mustTileAt(x, y).Terrain = Plains
			}
		}
		near := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 5, 6)
		far := NewAnimal(2, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 9, 9)
		pop := newTestPopulationOn(g, near, far)
		world := &World{Grid: g}

		nearHealthBefore, farHealthBefore := near.Health, far.Health

		Convey("When an Earthquake of severity minor strikes at (5,5) with radius 1", func() {
			e := NewEventEngine(EventsConfig{})
			result := e.executeDisaster("earthquake", world, pop, pop.Living(), SeverityMinor, 5, 5, 1, rand.New(rand.NewSource(42)))

			Convey("The near agent is affected and the far agent is not", func() {
				So(result.Kind, ShouldEqual, "Earthquake")
				So(near.Health, ShouldBeLessThan, nearHealthBefore)
				So(far.Health, ShouldEqual, farHealthBefore)
			})
		})
	})
}
