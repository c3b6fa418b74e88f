package evosim

// runStatusPhase applies passive depletion, effect damage, and passive
// energy regeneration to every living animal simultaneously: every
// write below is computed from each animal's own pre-phase values, so
// iteration order across animals never matters (spec.md §4.3.2). It
// returns the casualties produced by this phase's death-condition check.
//
// Grounded in the teacher's per-tick decay application
// (updateSingleEntity / applyTimeEffects, world.go) generalized from
// continuous biome-driven drain to the spec's fixed hunger/thirst/effect
// rates.
func runStatusPhase(living []*Animal) []Casualty {
	var casualties []Casualty
	for _, a := range living {
		a.Hunger = clampF(a.Hunger-3, 0, 100)
		a.Thirst = clampF(a.Thirst-2, 0, 100)

		for _, e := range a.Effects {
			switch e.Kind {
			case Poisoned:
				a.TakeDamage(5)
			case Injured:
				a.TakeDamage(3)
			}
		}

		if a.Energy < a.MaxEnergy() {
			regen := 1.0
			if a.Health > 50 {
				regen = 2.0
			}
			a.GainEnergy(regen)
		}

		a.TimeAlive++
		a.updateSustainedCounters()

		if causes := a.deathCauses(); len(causes) > 0 {
			a.Alive = false
			casualties = append(casualties, Casualty{AgentID: a.ID, Causes: causes})
		}
	}
	return casualties
}
