package evosim

// ActionResolver runs the 4-phase action resolution cycle for one week
// (spec.md §4.3): Decision, Status & Environmental, Action Execution,
// Cleanup. It owns no state of its own beyond the shared World/Population
// it is handed for the duration of the call — the driver owns those
// (spec.md §5).
//
// Grounded in the teacher's World.Update (world.go), which likewise
// drives a fixed per-tick sequence (decide -> physics -> interactions ->
// cleanup); reworked here into the spec's strict four ordered phases with
// an explicit snapshot-then-commit discipline instead of the teacher's
// single mutate-in-place pass.
type ActionResolver struct {
	world   *World
	pop     *Population
	streams *StreamSet
	killWeight float64
}

// NewActionResolver builds a resolver bound to world and pop, drawing
// randomness from streams. The evolution fitness kill weight K
// (spec.md §4.7) is stored on the resolver; RunWeek does not read it.
func NewActionResolver(world *World, pop *Population, streams *StreamSet, killWeight float64) *ActionResolver {
	world.syncOccupants(pop)
	return &ActionResolver{world: world, pop: pop, streams: streams, killWeight: killWeight}
}

// RunWeek executes one full week and returns its WeekReport.
func (r *ActionResolver) RunWeek(generation, week int) WeekReport {
	living := r.pop.Living()
	var resolve CategoryResolver = r.pop.CategoryLookup()

	decisionRng := r.streams.WeekStream(generation, week, PhaseDecision)
	planned := make([]PlannedAction, 0, len(living))
	for _, a := range living {
		input := Sense(a, r.world.Grid, resolve)
		var pa PlannedAction
		if a.Policy != nil {
			pa = decidePolicy(a, r.world.Grid, input)
		} else {
			pa = ruleBasedDecide(a, r.world.Grid, decisionRng)
		}
		planned = append(planned, pa)
	}

	statusCasualties := runStatusPhase(living)

	executionRng := r.streams.WeekStream(generation, week, PhaseExecution)
	// Dead animals from the status phase never execute or occupy a tile.
	for _, c := range statusCasualties {
		if a, ok := r.pop.Get(c.AgentID); ok {
			if t, err := r.world.Grid.TileAt(a.X, a.Y); err == nil {
				t.clearOccupant()
			}
		}
	}
	stillLiving := filterLiving(living)
	outcome := runExecutionPhase(r.pop, r.world.Grid, filterPlannedFor(planned, stillLiving), executionRng)

	postExecLiving := filterLiving(stillLiving)
	runCleanupPhase(postExecLiving)

	report := WeekReport{
		Week:              week,
		ActionsPlanned:    len(planned),
		Casualties:        append(statusCasualties, outcome.casualties...),
		MovementConflicts: outcome.movementConflicts,
		ResourceConflicts: outcome.resourceConflicts,
		ResourceDeltas:    outcome.resourceDeltas,
		ActionResults:     outcome.results,
	}
	for _, res := range outcome.results {
		if res.Success {
			report.ActionsExecuted++
		} else {
			report.ActionsFailed++
		}
	}
	return report
}

func filterLiving(animals []*Animal) []*Animal {
	out := make([]*Animal, 0, len(animals))
	for _, a := range animals {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}

func filterPlannedFor(planned []PlannedAction, living []*Animal) []PlannedAction {
	aliveSet := make(map[AnimalID]bool, len(living))
	for _, a := range living {
		aliveSet[a.ID] = true
	}
	out := make([]PlannedAction, 0, len(planned))
	for _, pa := range planned {
		if aliveSet[pa.AgentID] {
			out = append(out, pa)
		}
	}
	return out
}
