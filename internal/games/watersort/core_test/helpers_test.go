package core_test

import (
	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

const (
	R = core.ColorRed
	B = core.ColorBlue
	G = core.ColorGreen
	Y = core.ColorYellow
)

func level(capacity int, bottles ...core.Bottle) core.Level {
	return core.NewLevel(1, capacity, bottles)
}

func equalBottle(a, b core.Bottle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
