package levels

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/watersort/internal/games/watersort/core"
)

// Generated is a catalogue of ids 1..count whose levels are generated on
// first request and cached.
type Generated struct {
	count  int
	policy core.TierPolicy
	params core.GenParams

	mu    sync.Mutex
	cache map[int]core.Level
}

// NewGenerated creates an on-demand catalogue.
func NewGenerated(count int, policy core.TierPolicy, params core.GenParams) *Generated {
	return &Generated{
		count:  count,
		policy: policy,
		params: params,
		cache:  make(map[int]core.Level),
	}
}

// Level returns the level with the given id, generating it if needed.
func (g *Generated) Level(id int) (core.Level, error) {
	if id < 1 || id > g.count {
		return core.Level{}, fmt.Errorf("level %d: %w", id, ErrNotFound)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok := g.cache[id]; ok {
		return l.Clone(), nil
	}
	l, err := core.Generate(id, g.policy, g.params)
	if err != nil {
		return core.Level{}, fmt.Errorf("levels: generating level %d: %w", id, err)
	}
	g.cache[id] = l
	return l.Clone(), nil
}

// IDs returns 1..count.
func (g *Generated) IDs() []int {
	ids := make([]int, g.count)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

// BatchOptions configures GenerateBatch.
type BatchOptions struct {
	Count   int
	Workers int
	Policy  core.TierPolicy
	Params  core.GenParams
	Logger  *log.Logger
}

// GenerateBatch generates levels 1..Count concurrently.
// Each level is seeded from (seed, id) so the result does not depend on
// scheduling. The first failure cancels the batch.
func GenerateBatch(ctx context.Context, opts BatchOptions) ([]core.Level, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("levels: negative count %d", opts.Count)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	out := make([]core.Level, opts.Count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range out {
		id := i + 1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, err := core.Generate(id, opts.Policy, opts.Params)
			if err != nil {
				return fmt.Errorf("levels: generating level %d: %w", id, err)
			}
			if opts.Params.Verify && !l.Verified && opts.Logger != nil {
				opts.Logger.Warn("level not verified by solver", "level", id)
			}
			out[i] = l
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
