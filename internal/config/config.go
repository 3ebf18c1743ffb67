// Package config provides YAML-based configuration loading and the level
// difficulty curve for the water sort service.
package config

import (
	"time"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// Config contains all service configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalogue CatalogueConfig `yaml:"catalogue"`
	Generator GeneratorConfig `yaml:"generator"`
	Rooms     RoomsConfig     `yaml:"rooms"`
	Curve     CurveConfig     `yaml:"curve"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ServerConfig defines network listeners.
type ServerConfig struct {
	HTTPAddr    string          `yaml:"http_addr"`
	SSHAddr     string          `yaml:"ssh_addr"` // Empty disables the SSH server
	HostKeyPath string          `yaml:"host_key_path"`
	IdleTimeout time.Duration   `yaml:"idle_timeout"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig bounds HTTP requests per client IP.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"` // 0 disables limiting
	Burst int     `yaml:"burst"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// CatalogueConfig describes the level catalogue.
type CatalogueConfig struct {
	Path  string `yaml:"path"` // Empty generates levels on demand
	Count int    `yaml:"count"`
	Seed  uint64 `yaml:"seed"`
}

// GeneratorConfig mirrors core.GenParams.
type GeneratorConfig struct {
	Capacity        int  `yaml:"capacity"`
	Verify          bool `yaml:"verify"`
	RequireVerified bool `yaml:"require_verified"`
	MaxAttempts     int  `yaml:"max_attempts"`
	SolverBudget    int  `yaml:"solver_budget"`
	Workers         int  `yaml:"workers"` // Parallelism for batch generation
}

// RoomsConfig controls multiplayer room expiry.
type RoomsConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

// CurveConfig defines the banded difficulty curve.
type CurveConfig struct {
	MaxColors int    `yaml:"max_colors"`
	Bands     []Band `yaml:"bands"`
}

// Band covers a contiguous range of level ids ending at UpTo.
// The first band starts at level 1; each later band starts after the previous
// band's UpTo.
type Band struct {
	Name      string `yaml:"name"`
	UpTo      int    `yaml:"up_to"`      // Last level id in the band; 0 means open ended
	Colors    int    `yaml:"colors"`     // Colors at the first level of the band
	ColorStep int    `yaml:"color_step"` // Levels per extra color; 0 keeps Colors fixed
	Empty     int    `yaml:"empty"`      // Empty bottles
}

// GenParams converts the generator section into core parameters.
func (c Config) GenParams() core.GenParams {
	p := core.DefaultGenParams()
	if c.Generator.Capacity > 0 {
		p.Capacity = c.Generator.Capacity
	}
	if c.Generator.MaxAttempts > 0 {
		p.MaxAttempts = c.Generator.MaxAttempts
	}
	if c.Generator.SolverBudget > 0 {
		p.Solver.Budget = c.Generator.SolverBudget
	}
	p.Verify = c.Generator.Verify
	p.RequireVerified = c.Generator.RequireVerified
	p.Seed = c.Catalogue.Seed
	return p
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ApplyPreset adjusts the spare bottles of every band.
// Easy adds one empty bottle, hard removes one but never goes below one.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	for i := range cfg.Curve.Bands {
		b := &cfg.Curve.Bands[i]
		switch preset {
		case DifficultyEasy:
			b.Empty++
		case DifficultyHard:
			if b.Empty > 1 {
				b.Empty--
			}
		}
	}
}
