package core

// Tier holds the generation parameters for one level.
type Tier struct {
	NumColors  int `json:"num_colors" yaml:"num_colors"`
	NumBottles int `json:"num_bottles" yaml:"num_bottles"`
	NumEmpty   int `json:"num_empty" yaml:"num_empty"`
}

// TierPolicy maps a level id to its generation parameters.
// Implementations are supplied by the caller so the difficulty curve can be
// swapped without touching the generator.
type TierPolicy interface {
	Tier(levelID int) (Tier, error)
}

// TierFunc adapts a plain function to TierPolicy.
type TierFunc func(levelID int) (Tier, error)

// Tier calls f.
func (f TierFunc) Tier(levelID int) (Tier, error) {
	return f(levelID)
}

// FixedTier returns a policy that yields t for every level.
func FixedTier(t Tier) TierPolicy {
	return TierFunc(func(int) (Tier, error) { return t, nil })
}

// GenParams configures the level generator.
type GenParams struct {
	Capacity        int    // Units per bottle
	Seed            uint64 // Base RNG seed; combined with the level id
	Verify          bool   // Run the solver and prefer levels it can finish
	RequireVerified bool   // Fail with ErrUnverified instead of returning an unverified level
	MaxAttempts     int    // Candidates tried while looking for a verified level
	Solver          SolverParams
}

// DefaultGenParams returns sensible defaults for level generation.
func DefaultGenParams() GenParams {
	return GenParams{
		Capacity:        DefaultCapacity,
		Seed:            0,
		Verify:          true,
		RequireVerified: false,
		MaxAttempts:     50,
		Solver:          DefaultSolverParams(),
	}
}

// SimpleRNG is a deterministic pseudo-random number generator (xorshift64).
type SimpleRNG struct {
	state uint64
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) *SimpleRNG {
	if seed == 0 {
		seed = 88172645463325252 // Default seed
	}
	return &SimpleRNG{state: seed}
}

// Next returns the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// levelSeed mixes the base seed with the level id so every level gets its own
// stream regardless of generation order.
func levelSeed(base uint64, levelID int) uint64 {
	return base ^ (uint64(levelID) * 0x9E3779B97F4A7C15)
}

// ValidateTier checks that a tier can produce a well-formed level.
func ValidateTier(levelID int, t Tier) error {
	switch {
	case t.NumColors < 1:
		return &InvalidTierError{LevelID: levelID, Tier: t, Reason: "at least one color is required"}
	case t.NumColors > PaletteSize:
		return &InvalidTierError{LevelID: levelID, Tier: t, Reason: "more colors than the palette holds"}
	case t.NumEmpty < 0:
		return &InvalidTierError{LevelID: levelID, Tier: t, Reason: "negative empty bottle count"}
	case t.NumBottles < t.NumColors+t.NumEmpty:
		return &InvalidTierError{LevelID: levelID, Tier: t, Reason: "not enough bottles for colors plus empties"}
	}
	return nil
}

// Generate builds the level for levelID using the tier chosen by policy.
//
// The colour multiset always holds exactly Capacity units of each colour, so
// every generated level can in principle reach a terminal state. When
// p.Verify is set the greedy solver is run on each candidate and the first one
// it solves is returned with Verified set.
func Generate(levelID int, policy TierPolicy, p GenParams) (Level, error) {
	tier, err := policy.Tier(levelID)
	if err != nil {
		return Level{}, err
	}
	if err := ValidateTier(levelID, tier); err != nil {
		return Level{}, err
	}

	capacity := p.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	attempts := p.MaxAttempts
	if attempts < 1 || !p.Verify {
		attempts = 1
	}

	rng := NewRNG(levelSeed(p.Seed, levelID))
	var candidate Level
	for range attempts {
		candidate = buildLevel(levelID, capacity, tier, rng)
		if err := ValidateLevel(candidate); err != nil {
			return Level{}, err
		}
		if !p.Verify {
			return candidate, nil
		}
		if Solve(candidate, p.Solver).Solved {
			candidate.Verified = true
			return candidate, nil
		}
	}

	if p.RequireVerified {
		return Level{}, ErrUnverified
	}
	return candidate, nil
}

// buildLevel shuffles a complete colour multiset into filled bottles, appends
// the empty ones and shuffles bottle order.
func buildLevel(levelID, capacity int, t Tier, rng *SimpleRNG) Level {
	units := make([]Color, 0, t.NumColors*capacity)
	for c := range t.NumColors {
		for range capacity {
			units = append(units, Color(c))
		}
	}
	shuffle(rng, len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })

	bottles := make([]Bottle, 0, t.NumBottles)
	for i := 0; i < len(units); i += capacity {
		bottles = append(bottles, Bottle(units[i:i+capacity]).Clone())
	}
	for len(bottles) < t.NumBottles {
		bottles = append(bottles, Bottle{})
	}
	shuffle(rng, len(bottles), func(i, j int) { bottles[i], bottles[j] = bottles[j], bottles[i] })

	return Level{ID: levelID, Capacity: capacity, Bottles: bottles}
}

// shuffle is a Fisher-Yates shuffle driven by rng.
func shuffle(rng *SimpleRNG, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, rng.Intn(i+1))
	}
}
