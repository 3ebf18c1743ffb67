package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/watersort.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration.
// The curve follows the 120-level catalogue of the mobile game.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			HTTPAddr:    ":8080",
			SSHAddr:     "",
			HostKeyPath: "~/.watersort/ssh_host_key",
			IdleTimeout: 30 * time.Minute,
			RateLimit: RateLimitConfig{
				RPS:   20,
				Burst: 40,
			},
		},
		Storage: StorageConfig{DBPath: "~/.watersort/watersort.db"},
		Catalogue: CatalogueConfig{
			Path:  "",
			Count: 120,
			Seed:  0,
		},
		Generator: GeneratorConfig{
			Capacity:        4,
			Verify:          true,
			RequireVerified: false,
			MaxAttempts:     50,
			SolverBudget:    200,
			Workers:         4,
		},
		Rooms: RoomsConfig{
			TTL:           30 * time.Minute,
			CleanupPeriod: time.Minute,
		},
		Curve: CurveConfig{
			MaxColors: 9,
			Bands: []Band{
				{Name: "easy", UpTo: 15, Colors: 3, ColorStep: 8, Empty: 4},
				{Name: "medium", UpTo: 30, Colors: 4, ColorStep: 8, Empty: 4},
				{Name: "medium-hard", UpTo: 50, Colors: 5, ColorStep: 10, Empty: 3},
				{Name: "hard", UpTo: 70, Colors: 6, ColorStep: 10, Empty: 3},
				{Name: "very-hard", UpTo: 90, Colors: 7, ColorStep: 10, Empty: 2},
				{Name: "expert", UpTo: 110, Colors: 8, ColorStep: 10, Empty: 2},
				{Name: "master", UpTo: 0, Colors: 9, ColorStep: 0, Empty: 2},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
