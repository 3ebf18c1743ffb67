package config

import (
	"fmt"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// BandedCurve maps level ids to generator tiers through difficulty bands.
// It implements core.TierPolicy.
type BandedCurve struct {
	maxColors int
	bands     []Band
	starts    []int
}

// NewBandedCurve validates the curve configuration.
func NewBandedCurve(cfg CurveConfig) (*BandedCurve, error) {
	if len(cfg.Bands) == 0 {
		return nil, fmt.Errorf("curve: no bands configured")
	}

	maxColors := cfg.MaxColors
	if maxColors <= 0 || maxColors > core.PaletteSize {
		maxColors = core.PaletteSize
	}

	c := &BandedCurve{maxColors: maxColors, bands: cfg.Bands, starts: make([]int, len(cfg.Bands))}
	start := 1
	for i, b := range cfg.Bands {
		last := i == len(cfg.Bands)-1
		if b.UpTo == 0 && !last {
			return nil, fmt.Errorf("curve: band %d (%s) is open ended but not last", i, b.Name)
		}
		if b.UpTo != 0 && b.UpTo < start {
			return nil, fmt.Errorf("curve: band %d (%s) ends at %d before it starts at %d", i, b.Name, b.UpTo, start)
		}
		if b.Colors < 1 || b.Empty < 0 || b.ColorStep < 0 {
			return nil, fmt.Errorf("curve: band %d (%s) has invalid parameters", i, b.Name)
		}
		c.starts[i] = start
		start = b.UpTo + 1
	}
	return c, nil
}

// Tier returns the generator tier for a level id.
// Ids past a closed final band reuse that band.
func (c *BandedCurve) Tier(levelID int) (core.Tier, error) {
	if levelID < 1 {
		return core.Tier{}, fmt.Errorf("curve: level id %d must be positive", levelID)
	}

	idx := len(c.bands) - 1
	for i, b := range c.bands {
		if b.UpTo == 0 || levelID <= b.UpTo {
			idx = i
			break
		}
	}
	b := c.bands[idx]

	colors := b.Colors
	if b.ColorStep > 0 {
		colors += (levelID - c.starts[idx]) / b.ColorStep
	}
	colors = min(colors, c.maxColors)

	return core.Tier{
		NumColors:  colors,
		NumBottles: colors + b.Empty,
		NumEmpty:   b.Empty,
	}, nil
}

// BandName returns the name of the band a level falls in.
func (c *BandedCurve) BandName(levelID int) string {
	for _, b := range c.bands {
		if b.UpTo == 0 || levelID <= b.UpTo {
			return b.Name
		}
	}
	return c.bands[len(c.bands)-1].Name
}
