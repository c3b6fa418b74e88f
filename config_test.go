package evosim

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsBadTerrainDistribution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.World.TerrainDistribution[Plains] = 10
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for terrain distribution not summing to 1")
	}
}

func TestValidateRejectsUnknownSelectionMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Evolution.SelectionMethod = "lottery"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for unknown selection method")
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	data, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	restored, err := ConfigFromYAML(data)
	if err != nil {
		t.Fatalf("ConfigFromYAML: %v", err)
	}
	if restored.World.GridWidth != cfg.World.GridWidth {
		t.Fatalf("expected grid width round trip, got %d", restored.World.GridWidth)
	}
	if restored.World.TerrainDistribution[Forest] != cfg.World.TerrainDistribution[Forest] {
		t.Fatalf("expected terrain distribution round trip for Forest")
	}
	if restored.Evolution.SelectionMethod != cfg.Evolution.SelectionMethod {
		t.Fatalf("expected selection method round trip")
	}
	if restored.Seed != cfg.Seed {
		t.Fatalf("expected seed round trip")
	}
}

func TestConfigFromYAMLRejectsUnknownTerrain(t *testing.T) {
	bad := []byte("world:\n  grid_width: 5\n  grid_height: 5\n  terrain_distribution:\n    lava: 1.0\n")
	if _, err := ConfigFromYAML(bad); err == nil {
		t.Fatalf("expected unknown terrain name to be rejected")
	}
}
