package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults failed to parse: %v", err)
	}
	def := DefaultConfig()

	if cfg.Server.HTTPAddr != def.Server.HTTPAddr {
		t.Errorf("http_addr: expected %q, got %q", def.Server.HTTPAddr, cfg.Server.HTTPAddr)
	}
	if cfg.Rooms.TTL != def.Rooms.TTL {
		t.Errorf("rooms.ttl: expected %v, got %v", def.Rooms.TTL, cfg.Rooms.TTL)
	}
	if cfg.Catalogue.Count != def.Catalogue.Count {
		t.Errorf("catalogue.count: expected %d, got %d", def.Catalogue.Count, cfg.Catalogue.Count)
	}
	if len(cfg.Curve.Bands) != len(def.Curve.Bands) {
		t.Fatalf("expected %d bands, got %d", len(def.Curve.Bands), len(cfg.Curve.Bands))
	}
	for i := range def.Curve.Bands {
		if cfg.Curve.Bands[i] != def.Curve.Bands[i] {
			t.Errorf("band %d: expected %+v, got %+v", i, def.Curve.Bands[i], cfg.Curve.Bands[i])
		}
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("server:\n  http_addr: \":9090\"\nrooms:\n  ttl: 5m\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Rooms.TTL != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %v", cfg.Rooms.TTL)
	}
	// Untouched sections keep defaults
	if cfg.Generator.SolverBudget != 200 {
		t.Errorf("expected default solver budget, got %d", cfg.Generator.SolverBudget)
	}
	if len(cfg.Curve.Bands) == 0 {
		t.Error("expected default curve bands")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("curve:\n  bands: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty curve")
	}
}

func TestGenParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalogue.Seed = 77
	cfg.Generator.RequireVerified = true
	cfg.Generator.SolverBudget = 50

	p := cfg.GenParams()
	if p.Seed != 77 || !p.RequireVerified || p.Solver.Budget != 50 || p.Capacity != 4 || !p.Verify {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestBandedCurveDefaultTiers(t *testing.T) {
	curve, err := NewBandedCurve(DefaultConfig().Curve)
	if err != nil {
		t.Fatalf("NewBandedCurve failed: %v", err)
	}

	tests := []struct {
		level  int
		colors int
		empty  int
		band   string
	}{
		{1, 3, 4, "easy"},
		{8, 3, 4, "easy"},
		{9, 4, 4, "easy"},
		{15, 4, 4, "easy"},
		{16, 4, 4, "medium"},
		{24, 5, 4, "medium"},
		{31, 5, 3, "medium-hard"},
		{41, 6, 3, "medium-hard"},
		{71, 7, 2, "very-hard"},
		{110, 9, 2, "expert"},
		{120, 9, 2, "master"},
		{500, 9, 2, "master"},
	}

	for _, tt := range tests {
		tier, err := curve.Tier(tt.level)
		if err != nil {
			t.Fatalf("Tier(%d) failed: %v", tt.level, err)
		}
		if tier.NumColors != tt.colors || tier.NumEmpty != tt.empty || tier.NumBottles != tt.colors+tt.empty {
			t.Errorf("level %d: expected %d colors %d empty, got %+v", tt.level, tt.colors, tt.empty, tier)
		}
		if name := curve.BandName(tt.level); name != tt.band {
			t.Errorf("level %d: expected band %s, got %s", tt.level, tt.band, name)
		}
	}

	if _, err := curve.Tier(0); err == nil {
		t.Error("expected error for level 0")
	}
}

func TestBandedCurveValidation(t *testing.T) {
	tests := map[string]CurveConfig{
		"no bands":         {},
		"open band first":  {Bands: []Band{{UpTo: 0, Colors: 2}, {UpTo: 10, Colors: 3}}},
		"descending bands": {Bands: []Band{{UpTo: 10, Colors: 2}, {UpTo: 5, Colors: 3}}},
		"zero colors":      {Bands: []Band{{UpTo: 10, Colors: 0}}},
	}

	for name, cfg := range tests {
		if _, err := NewBandedCurve(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestBandedCurveClosedLastBand(t *testing.T) {
	curve, err := NewBandedCurve(CurveConfig{MaxColors: 4, Bands: []Band{{UpTo: 10, Colors: 2, ColorStep: 2, Empty: 1}}})
	if err != nil {
		t.Fatalf("NewBandedCurve failed: %v", err)
	}

	tier, err := curve.Tier(30)
	if err != nil {
		t.Fatalf("Tier failed: %v", err)
	}
	// 2 + 29/2 = 16, capped at 4
	if tier.NumColors != 4 || tier.NumBottles != 5 {
		t.Errorf("unexpected tier %+v", tier)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	ApplyPreset(&cfg, DifficultyEasy)
	if cfg.Curve.Bands[0].Empty != 5 {
		t.Errorf("easy: expected 5 empty, got %d", cfg.Curve.Bands[0].Empty)
	}

	cfg = DefaultConfig()
	ApplyPreset(&cfg, DifficultyHard)
	last := cfg.Curve.Bands[len(cfg.Curve.Bands)-1]
	if last.Empty != 1 {
		t.Errorf("hard: expected 1 empty, got %d", last.Empty)
	}

	cfg = DefaultConfig()
	ApplyPreset(&cfg, DifficultyNormal)
	if cfg.Curve.Bands[0].Empty != 4 {
		t.Errorf("normal: expected 4 empty, got %d", cfg.Curve.Bands[0].Empty)
	}
}
