package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/watersort/internal/config"
	"github.com/vovakirdan/watersort/internal/games/watersort/levels"
	"github.com/vovakirdan/watersort/internal/storage"
)

// app bundles the loaded configuration with the objects every command
// builds from it.
type app struct {
	cfg    config.Config
	curve  *config.BandedCurve
	logger *log.Logger
}

// loadApp loads configuration, applies the global flags and builds the
// logger and difficulty curve.
func loadApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	switch preset := config.DifficultyPreset(strings.ToLower(flagDifficulty)); preset {
	case "", config.DifficultyNormal:
	case config.DifficultyEasy, config.DifficultyHard:
		config.ApplyPreset(&cfg, preset)
	default:
		return nil, fmt.Errorf("unknown difficulty %q (use easy, normal or hard)", flagDifficulty)
	}

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	curve, err := config.NewBandedCurve(cfg.Curve)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, curve: curve, logger: logger}, nil
}

func newLogger(level string) (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "watersort",
	})
	if level == "" {
		return logger, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// openStore opens the database, logging instead of failing when it is
// unavailable. The returned store may be nil.
func (a *app) openStore() *storage.Store {
	store, err := storage.Open(a.cfg.Storage.DBPath)
	if err != nil {
		a.logger.Warn("could not open database, continuing without persistence", "path", a.cfg.Storage.DBPath, "err", err)
		return nil
	}
	return store
}

// provider selects the level catalogue: the configured file, then a level
// snapshot stored in the database, then on-demand generation along the curve.
func (a *app) provider(store *storage.Store) (levels.Provider, error) {
	if path := a.cfg.Catalogue.Path; path != "" {
		cat, err := levels.LoadFile(config.ExpandHome(path))
		if err != nil {
			return nil, err
		}
		a.logger.Info("loaded level catalogue", "path", path, "levels", cat.Len())
		return cat, nil
	}

	if store != nil {
		if n, err := store.LevelCount(); err == nil && n > 0 {
			stored, err := store.LoadLevels()
			if err != nil {
				return nil, err
			}
			a.logger.Info("loaded level catalogue from database", "levels", len(stored))
			return levels.NewCatalogue(stored), nil
		}
	}

	a.logger.Debug("generating levels on demand", "count", a.cfg.Catalogue.Count, "seed", a.cfg.Catalogue.Seed)
	return levels.NewGenerated(a.cfg.Catalogue.Count, a.curve, a.cfg.GenParams()), nil
}
