package evosim

// runCleanupPhase decrements every active effect's remaining duration,
// drops expired ones, and conditionally adds new effects (spec.md
// §4.3.4). Only living animals are processed; Testable Property 7
// requires every effect be decremented exactly once per week.
func runCleanupPhase(living []*Animal) {
	for _, a := range living {
		kept := a.Effects[:0]
		for _, e := range a.Effects {
			e.RemainingDuration--
			if e.RemainingDuration > 0 {
				kept = append(kept, e)
			}
		}
		a.Effects = kept

		if a.Hunger >= 90 && !a.HasEffect(WellFed) {
			a.AddEffect(WellFed, 3)
		}
		if a.Energy <= 20 && !a.HasEffect(Exhausted) {
			a.AddEffect(Exhausted, 2)
		}
	}
}
