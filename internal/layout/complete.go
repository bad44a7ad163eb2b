package layout

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/grid"
)

// CompleteLayout turns the themed grid into a fully fillable structure:
// isolated cells are healed, over-long runs are cut down with clue
// boxes, every run start gets a licensing box, orphaned boxes adopt a
// slot, and every remaining run is checked for fill candidates.
func (e *Engine) CompleteLayout(ctx context.Context, g *grid.Grid) error {
	if err := e.healIsolatedCells(ctx, g); err != nil {
		return err
	}

	// Two partition passes, coarse then fine. Runs of four to eight
	// cells have the best dictionary coverage.
	for _, maxLen := range []int{10, 8} {
		for i := 0; i < 30; i++ {
			if !e.partitionLongRuns(ctx, g, maxLen) {
				break
			}
			if err := e.healIsolatedCells(ctx, g); err != nil {
				return err
			}
		}
	}

	if err := e.ensureAllLicensed(ctx, g); err != nil {
		return err
	}
	e.repairOrphanClues(ctx, g)
	return e.verifyFeasibility(ctx, g)
}

// partitionLongRuns cuts every unfilled run longer than maxLen by
// converting one of its empty cells into a clue box.
func (e *Engine) partitionLongRuns(ctx context.Context, g *grid.Grid, maxLen int) bool {
	log := ctxlog.FromContext(ctx)
	changed := false
	for _, dir := range grid.Directions() {
		for r := 0; r < g.Height(); r++ {
			for c := 0; c < g.Width(); c++ {
				if !g.CellAt(r, c).IsPlayable() || !g.IsBoundary(r, c, dir) {
					continue
				}
				sig, ok := g.Signature(r, c, dir)
				if !ok || sig.Length <= maxLen {
					continue
				}
				if isFull(g.Pattern(sig)) {
					continue
				}
				for _, off := range partitionOffsets(sig.Length) {
					pos := sig.Cells[off]
					cell := g.CellAt(pos.Row, pos.Col)
					if cell.Kind != grid.Empty || len(cell.SlotIDs) > 0 {
						continue
					}
					if err := g.AddClueBox(pos.Row, pos.Col); err != nil {
						continue
					}
					log.Debug("Partitioned a long run with a clue box.",
						"start", sig.Start, "dir", dir, "length", sig.Length, "box", pos)
					changed = true
					break
				}
			}
		}
	}
	return changed
}

// partitionOffsets orders a run's interior cut points: closest to the
// middle first, penalizing cuts that leave a three-cell fragment on
// either side.
func partitionOffsets(length int) []int {
	mid := length / 2
	score := func(x int) int {
		s := x - mid
		if s < 0 {
			s = -s
		}
		if x == 3 {
			s += 10
		}
		if length-x-1 == 3 {
			s += 10
		}
		return s
	}
	offsets := make([]int, 0, length-3)
	for x := 2; x < length-1; x++ {
		offsets = append(offsets, x)
	}
	sort.SliceStable(offsets, func(i, j int) bool { return score(offsets[i]) < score(offsets[j]) })
	return offsets
}

// ensureAllLicensed sweeps until every run start is licensed by a clue
// box. A start that cannot be licensed is itself converted into a box,
// removing the run. Sweeps repeat because each conversion reshapes the
// runs around it.
func (e *Engine) ensureAllLicensed(ctx context.Context, g *grid.Grid) error {
	log := ctxlog.FromContext(ctx)
	for changed := true; changed; {
		changed = false
		for _, dir := range grid.Directions() {
			for r := 0; r < g.Height(); r++ {
				for c := 0; c < g.Width(); c++ {
					cell := g.CellAt(r, c)
					if !cell.IsPlayable() || !g.IsBoundary(r, c, dir) {
						continue
					}
					if _, ok := g.Signature(r, c, dir); !ok {
						continue
					}
					start := grid.Coord{Row: r, Col: c}
					if _, err := g.FindClueBoxForStart(start, dir); err == nil {
						continue
					}
					if _, err := g.EnsureClueBox(start, dir); err == nil {
						changed = true
						continue
					}
					if cell.Kind != grid.Empty || len(cell.SlotIDs) > 0 {
						continue
					}
					if err := g.AddClueBox(r, c); err != nil {
						log.Debug("Cannot resolve an unlicensable run start.", "start", start, "dir", dir)
						continue
					}
					log.Debug("Converted an unlicensable run start into a clue box.", "start", start, "dir", dir)
					changed = true
				}
			}
		}
		if changed {
			if err := e.healIsolatedCells(ctx, g); err != nil {
				return err
			}
		}
	}
	return nil
}

// healIsolatedCells converts empty cells with no playable neighbor into
// clue boxes. Such cells can never join a word.
func (e *Engine) healIsolatedCells(ctx context.Context, g *grid.Grid) error {
	log := ctxlog.FromContext(ctx)
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if g.CellAt(r, c).Kind != grid.Empty {
				continue
			}
			isolated := true
			for _, n := range g.Neighbors(r, c) {
				if g.CellAt(n.Row, n.Col).IsPlayable() {
					isolated = false
					break
				}
			}
			if !isolated {
				continue
			}
			if err := g.AddClueBox(r, c); err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r, c, ErrIsolatedCell)
			}
			log.Debug("Healed an isolated cell into a clue box.", "row", r, "col", c)
		}
	}
	return nil
}

// repairOrphanClues finds clue boxes licensing nothing and moves a
// neighboring slot's license onto them, provided the slot's current box
// keeps at least one license.
func (e *Engine) repairOrphanClues(ctx context.Context, g *grid.Grid) bool {
	repaired := false
	for _, pos := range g.ClueBoxes() {
		if g.LicenseCount(pos) > 0 {
			continue
		}
		if e.adoptSlotForClue(ctx, g, pos) {
			repaired = true
		}
	}
	return repaired
}

// adoptSlotForClue walks placed slots in placement order and moves the
// first adoptable one onto the orphan box.
func (e *Engine) adoptSlotForClue(ctx context.Context, g *grid.Grid, cluePos grid.Coord) bool {
	for _, id := range e.history {
		slot, ok := g.Slot(id)
		if !ok {
			continue
		}
		if !clueCanLicenseSlot(cluePos, slot) {
			continue
		}
		if slot.ClueBox == cluePos {
			return true
		}
		if g.LicenseCount(slot.ClueBox) <= 1 {
			continue
		}
		if err := g.ReassignSlotClueBox(slot.ID, cluePos); err != nil {
			continue
		}
		ctxlog.FromContext(ctx).Debug("Reassigned a slot to an orphan clue box.", "slot", slot.ID, "box", cluePos)
		return true
	}
	return false
}

func clueCanLicenseSlot(cluePos grid.Coord, slot *grid.WordSlot) bool {
	for _, off := range slot.Dir.ClueOffsets() {
		if slot.Start.Row+off.Row == cluePos.Row && slot.Start.Col+off.Col == cluePos.Col {
			return true
		}
	}
	return false
}

// verifyFeasibility checks every open run of three or more cells. A
// fully filled run must spell a theme surface or a dictionary word; a
// partial run must keep at least one candidate. Short infeasible runs
// get one rescue attempt by partitioning before the layout is rejected.
func (e *Engine) verifyFeasibility(ctx context.Context, g *grid.Grid) error {
	for _, sig := range e.enumerateOpenSlots(g) {
		if sig.Length < 3 {
			continue
		}
		pattern := dictionary.Pattern(g.Pattern(sig))
		if isFull(pattern) {
			surface := string(pattern)
			if e.themeSurfaces[surface] || e.dict.Contains(surface) {
				continue
			}
			return fmt.Errorf("run %q at %s: %w", surface, sig.Start, ErrPrefilledWord)
		}
		if e.dict.HasCandidates(sig.Length, pattern, e.usedWords) {
			continue
		}
		if sig.Length <= 4 && e.partitionInfeasible(ctx, g, sig) {
			continue
		}
		return fmt.Errorf("run at %s length %d: %w", sig.Start, sig.Length, ErrInfeasibleSlot)
	}
	return nil
}

// partitionInfeasible breaks a candidate-less run by planting a clue box
// on any of its empty unowned cells.
func (e *Engine) partitionInfeasible(ctx context.Context, g *grid.Grid, sig grid.SlotSignature) bool {
	for off := 1; off < sig.Length; off++ {
		pos := sig.Cells[off]
		cell := g.CellAt(pos.Row, pos.Col)
		if cell.Kind != grid.Empty || len(cell.SlotIDs) > 0 {
			continue
		}
		if err := g.AddClueBox(pos.Row, pos.Col); err != nil {
			continue
		}
		ctxlog.FromContext(ctx).Info("Partitioned an infeasible run with a clue box.",
			"start", sig.Start, "length", sig.Length, "box", pos)
		return true
	}
	return false
}
