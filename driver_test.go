package evosim

import "testing"

func smallTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.World.GridWidth, cfg.World.GridHeight = 8, 8
	cfg.Population.PopulationSize = 6
	cfg.Simulation.MaxGenerations = 2
	cfg.Simulation.StepsPerGeneration = 3
	cfg.Seed = 42
	return cfg
}

func TestDriverIllegalTransitions(t *testing.T) {
	d := NewSimulationDriver(smallTestConfig(), NopSink{})
	if err := d.Pause(); err == nil {
		t.Fatalf("expected Pause from Stopped to fail")
	}
	if err := d.Start(); err == nil {
		t.Fatalf("expected Start from Stopped to fail")
	}
	if _, err := d.StepWeek(); err == nil {
		t.Fatalf("expected StepWeek from Stopped to fail")
	}
}

func TestDriverLifecycle(t *testing.T) {
	d := NewSimulationDriver(smallTestConfig(), NopSink{})
	if err := d.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if d.State() != StateRunning {
		t.Fatalf("expected Running after Initialize, got %s", d.State())
	}
	if err := d.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := d.StepWeek(); err == nil {
		t.Fatalf("expected StepWeek to fail while paused")
	}
	if err := d.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := d.StepWeek(); err != nil {
		t.Fatalf("step_week: %v", err)
	}
}

func TestDriverReachesFinished(t *testing.T) {
	d := NewSimulationDriver(smallTestConfig(), NopSink{})
	if err := d.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if d.State() != StateFinished {
		t.Fatalf("expected Finished after exhausting max_generations, got %s", d.State())
	}
}

// TestDriverDeterminism covers Testable Property 1: two runs with the
// same seed and configuration produce identical WeekReport sequences.
func TestDriverDeterminism(t *testing.T) {
	collect := func() []WeekReport {
		var reports []WeekReport
		sink := NewFuncSink(func(r WeekReport) { reports = append(reports, r) }, nil, nil)
		d := NewSimulationDriver(smallTestConfig(), sink)
		if err := d.Initialize(); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := d.Run(); err != nil {
			t.Fatalf("run: %v", err)
		}
		return reports
	}

	a := collect()
	b := collect()
	if len(a) != len(b) {
		t.Fatalf("expected identical report counts, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ActionsPlanned != b[i].ActionsPlanned ||
			a[i].ActionsExecuted != b[i].ActionsExecuted ||
			a[i].ActionsFailed != b[i].ActionsFailed ||
			len(a[i].Casualties) != len(b[i].Casualties) {
			t.Fatalf("week %d diverged between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
