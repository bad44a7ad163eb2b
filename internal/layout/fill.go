package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/fill"
	"github.com/vk/crossgridgo/internal/grid"
)

// Fill assigns dictionary words to every remaining open run and commits
// them to the grid. Runs that cannot be licensed by a clue box are
// dropped from the model instead of failing the attempt. The solver is
// capped at thirty seconds regardless of the configured timeout.
func (e *Engine) Fill(ctx context.Context, g *grid.Grid) error {
	log := ctxlog.FromContext(ctx)

	var open []grid.SlotSignature
	for _, sig := range e.enumerateOpenSlots(g) {
		if !isFull(g.Pattern(sig)) {
			open = append(open, sig)
		}
	}
	if len(open) == 0 {
		log.Info("No open runs to fill.")
		return nil
	}

	boxes := make(map[string]grid.Coord, len(open))
	licensable := open[:0:0]
	for _, sig := range open {
		box, err := g.EnsureClueBox(sig.Start, sig.Dir)
		if err != nil {
			log.Debug("Skipping an unlicensable run.", "start", sig.Start, "dir", sig.Dir, "length", sig.Length)
			continue
		}
		boxes[sig.Key()] = box
		licensable = append(licensable, sig)
	}
	if len(licensable) == 0 {
		log.Info("No licensable open runs to fill.")
		return nil
	}
	log.Info("Filling open runs.", "count", len(licensable), "skipped", len(open)-len(licensable))

	var preferred map[string]bool
	if e.cfg.PreferThemeCandidates {
		preferred = e.remainingTheme
	}
	model, err := fill.BuildModel(ctx, g, licensable, e.dict, e.usedWords, fill.BuildOptions{
		MaxCandidates:    e.cfg.MaxCandidates,
		FallbackFraction: e.cfg.FallbackFraction,
		Preferred:        preferred,
	})
	if err != nil {
		return fmt.Errorf("building fill model: %w", err)
	}

	timeout := e.cfg.FillTimeout
	if timeout > 30*time.Second {
		timeout = 30 * time.Second
	}
	solveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	assignment, err := e.solver.Solve(solveCtx, model)
	if err != nil {
		return fmt.Errorf("fill solver: %w", err)
	}

	for _, sig := range licensable {
		word, ok := assignment[sig.Key()]
		if !ok {
			return fmt.Errorf("run %s missing from the fill assignment", sig.Key())
		}
		slot := grid.NewWordSlot(e.nextSlotID(sig.Dir), sig.Start, sig.Dir, sig.Length, boxes[sig.Key()])
		if err := g.PlaceWord(slot, word); err != nil {
			return fmt.Errorf("placing %q at %s: %w", word, sig.Start, err)
		}
		e.registerSlot(slot)
		e.usedWords[word] = true
	}
	return nil
}
