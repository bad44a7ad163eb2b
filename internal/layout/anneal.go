package layout

import (
	"context"
	"math/rand"

	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/grid"
)

// Anneal samples several blocker layouts and keeps the best scoring one.
// All trials draw from the same rng, so each carves a different zone.
// The sample size scales with the retry budget.
func Anneal(ctx context.Context, cfg grid.Config, rng *rand.Rand, retryLimit int) (*grid.Grid, error) {
	best, err := grid.New(ctx, cfg, rng)
	if err != nil {
		return nil, err
	}
	bestScore := ScoreLayout(best)

	attempts := maxOf(3, minOf(8, retryLimit*2))
	for i := 0; i < attempts; i++ {
		trial, err := grid.New(ctx, cfg, rng)
		if err != nil {
			return nil, err
		}
		if score := ScoreLayout(trial); score > bestScore {
			best, bestScore = trial, score
		}
	}
	ctxlog.FromContext(ctx).Debug("Annealed the blocker layout.", "attempts", attempts, "score", bestScore)
	return best, nil
}

// ScoreLayout rates a board: playable area counts for it, orphaned or
// clustered clue boxes and lopsided blocker zones against it.
func ScoreLayout(g *grid.Grid) float64 {
	playable := 0
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if g.CellAt(r, c).IsPlayable() {
				playable++
			}
		}
	}
	if playable == 0 {
		return 0
	}

	cluePenalty := 0
	for _, pos := range g.ClueBoxes() {
		if g.LicenseCount(pos) == 0 {
			cluePenalty++
		}
		for _, n := range g.Neighbors(pos.Row, pos.Col) {
			if g.CellAt(n.Row, n.Col).Kind == grid.ClueBox {
				cluePenalty += 2
			}
		}
	}

	blockerPenalty := 0
	if rect, ok := g.BlockerZone(); ok {
		blockerPenalty = rect.Height - rect.Width
		if blockerPenalty < 0 {
			blockerPenalty = -blockerPenalty
		}
	}
	return float64(playable - 3*cluePenalty - blockerPenalty)
}
