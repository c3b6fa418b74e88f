package evosim

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Casualty records one animal's death during a week, with its cause(s)
// (spec.md §4.3.2, §6).
type Casualty struct {
	AgentID AnimalID
	Causes  []DeathCause
}

// MovementConflict records a contested destination tile and its outcome,
// for the observation surface spec.md §6 asks for.
type MovementConflict struct {
	TargetX, TargetY int
	Contenders       []AnimalID
	Winner           AnimalID
}

// ResourceConflict records two or more animals targeting the same
// stationary resource tile in the same week (Eat/Drink ties, spec.md
// §4.3.3: "first-wins within P1").
type ResourceConflict struct {
	TargetX, TargetY int
	Contenders       []AnimalID
	Winner           AnimalID
}

// ResourceDelta records a resource's uses_left change at a tile during a
// week, for WeekReport's resource-delta observation.
type ResourceDelta struct {
	X, Y     int
	Kind     ResourceKind
	Before   int
	After    int
	Removed  bool
}

// WeekReport is the driver's per-week observation (spec.md §6).
type WeekReport struct {
	Week             int
	ActionsPlanned   int
	ActionsExecuted  int
	ActionsFailed    int
	MovementConflicts []MovementConflict
	ResourceConflicts []ResourceConflict
	Casualties       []Casualty
	Events           []EventResult
	ResourceDeltas   []ResourceDelta
	ActionResults    []ActionResult
}

// String renders an operator-facing one-line summary, mirroring the
// teacher's World.String (world.go) and GetStats-style reporting, using
// humanize.Comma for the large counters the way tobyjaguar-mini-world
// formats its own report totals.
func (r WeekReport) String() string {
	return fmt.Sprintf("week %d: planned=%s executed=%s failed=%s casualties=%d events=%d",
		r.Week,
		humanize.Comma(int64(r.ActionsPlanned)),
		humanize.Comma(int64(r.ActionsExecuted)),
		humanize.Comma(int64(r.ActionsFailed)),
		len(r.Casualties),
		len(r.Events),
	)
}

// FitnessStats summarizes a generation's fitness distribution.
type FitnessStats struct {
	Avg, Best, Worst, StdDev float64
}

// SelectionStats summarizes how parents were chosen for a generation's
// offspring (spec.md §6).
type SelectionStats struct {
	Method         string
	ParentsChosen  int
	EliteCount     int
	CrossoverCount int
	MutationCount  int
}

// GenerationReport is the driver's per-generation observation (spec.md §6).
type GenerationReport struct {
	Generation    int
	AliveCount    int
	DeadCount     int
	SurvivalRate  float64
	Fitness       FitnessStats
	Selection     SelectionStats
	OffspringBuilt int
}

func (r GenerationReport) String() string {
	return fmt.Sprintf("generation %d: alive=%s dead=%s survival=%.1f%% fitness(avg=%.2f best=%.2f worst=%.2f std=%.2f)",
		r.Generation,
		humanize.Comma(int64(r.AliveCount)),
		humanize.Comma(int64(r.DeadCount)),
		r.SurvivalRate*100,
		r.Fitness.Avg, r.Fitness.Best, r.Fitness.Worst, r.Fitness.StdDev,
	)
}
