// Package validate runs deterministic rule checks over a finished grid:
// clue-box licensing and adjacency, the reserved corner, isolated cells,
// duplicate and unknown words. Checks run in a fixed order and the first
// violation decides the result.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/grid"
)

var (
	// ErrOrphanClueBox means a clue box licenses no word.
	ErrOrphanClueBox = errors.New("clue box licenses no word")

	// ErrAdjacentClueBoxes means two clue boxes touch orthogonally.
	ErrAdjacentClueBoxes = errors.New("clue boxes are orthogonally adjacent")

	// ErrCornerClueBox means a clue box sits in the bottom-right corner
	// reserved for the puzzle imprint.
	ErrCornerClueBox = errors.New("clue box in the reserved corner")

	// ErrIsolatedCell means an empty cell has no playable neighbor.
	ErrIsolatedCell = errors.New("cell is isolated from the playable area")

	// ErrDuplicateWord means the same surface appears in two runs.
	ErrDuplicateWord = errors.New("word appears twice")

	// ErrInvalidLetter means a letter cell holds something outside A-Z.
	ErrInvalidLetter = errors.New("cell holds an invalid letter")

	// ErrUnknownWord means a filled run is neither a theme surface nor a
	// dictionary word.
	ErrUnknownWord = errors.New("word is not in the dictionary")

	// ErrUnlicensedSlot means no clue box sits at any licensing offset
	// of a filled run.
	ErrUnlicensedSlot = errors.New("slot has no licensing clue box")
)

// Result is the outcome of a validation pass.
type Result struct {
	OK       bool
	Messages []string
}

// Validator checks grids against the construction rules.
type Validator struct {
	dict *dictionary.Index
}

// New builds a validator over the dictionary used for fill.
func New(dict *dictionary.Index) *Validator {
	return &Validator{dict: dict}
}

// Validate runs every check and reports the first violation, if any.
// themeSurfaces lists normalized words that are legal despite not being
// in the dictionary.
func (v *Validator) Validate(ctx context.Context, g *grid.Grid, themeSurfaces map[string]bool) Result {
	if err := v.check(g, themeSurfaces); err != nil {
		ctxlog.FromContext(ctx).Error("Grid validation failed.", "error", err)
		return Result{OK: false, Messages: []string{err.Error()}}
	}
	return Result{OK: true}
}

func (v *Validator) check(g *grid.Grid, themeSurfaces map[string]bool) error {
	if err := checkClueBoxes(g); err != nil {
		return err
	}
	if err := checkCorner(g); err != nil {
		return err
	}
	if err := checkIsolatedCells(g); err != nil {
		return err
	}
	runs := letterRuns(g)
	if err := checkDuplicates(runs); err != nil {
		return err
	}
	if err := checkLetters(g); err != nil {
		return err
	}
	return v.checkWords(g, runs, themeSurfaces)
}

func checkClueBoxes(g *grid.Grid) error {
	for _, pos := range g.ClueBoxes() {
		if g.LicenseCount(pos) == 0 {
			return fmt.Errorf("clue box at %s: %w", pos, ErrOrphanClueBox)
		}
		for _, n := range g.Neighbors(pos.Row, pos.Col) {
			if g.CellAt(n.Row, n.Col).Kind == grid.ClueBox {
				return fmt.Errorf("boxes at %s and %s: %w", pos, n, ErrAdjacentClueBoxes)
			}
		}
	}
	return nil
}

func checkCorner(g *grid.Grid) error {
	for r := g.Height() - 2; r < g.Height(); r++ {
		for c := g.Width() - 2; c < g.Width(); c++ {
			if g.CellAt(r, c).Kind == grid.ClueBox {
				return fmt.Errorf("clue box at (%d,%d): %w", r, c, ErrCornerClueBox)
			}
		}
	}
	return nil
}

func checkIsolatedCells(g *grid.Grid) error {
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
			if isolated {
				return fmt.Errorf("cell (%d,%d): %w", r, c, ErrIsolatedCell)
			}
		}
	}
	return nil
}

func checkDuplicates(runs []filledRun) error {
	seen := make(map[string]bool, len(runs))
	for _, run := range runs {
		text := strings.ToUpper(run.Text)
		if seen[text] {
			return fmt.Errorf("%q at %s: %w", text, run.Start, ErrDuplicateWord)
		}
		seen[text] = true
	}
	return nil
}

func checkLetters(g *grid.Grid) error {
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			cell := g.CellAt(r, c)
			if cell.Kind != grid.Letter {
				continue
			}
			if cell.Letter < 'A' || cell.Letter > 'Z' {
				return fmt.Errorf("%q at (%d,%d): %w", string(cell.Letter), r, c, ErrInvalidLetter)
			}
		}
	}
	return nil
}

func (v *Validator) checkWords(g *grid.Grid, runs []filledRun, themeSurfaces map[string]bool) error {
	for _, run := range runs {
		if run.Length >= 3 {
			text := strings.ToUpper(run.Text)
			if !themeSurfaces[text] && !v.dict.Contains(text) {
				return fmt.Errorf("%q at %s: %w", run.Text, run.Start, ErrUnknownWord)
			}
		}
		if _, err := g.FindClueBoxForStart(run.Start, run.Dir); err != nil {
			return fmt.Errorf("run at %s %s: %w", run.Start, run.Dir, ErrUnlicensedSlot)
		}
	}
	return nil
}

// filledRun is a maximal run of committed letters starting at a run
// boundary.
type filledRun struct {
	Start  grid.Coord
	Dir    grid.Direction
	Length int
	Text   string
}

// letterRuns derives the filled runs from cell states alone. A run
// counts only when its letters start right at the boundary; letters
// preceded by an empty cell belong to a run that has not formed yet.
func letterRuns(g *grid.Grid) []filledRun {
	var runs []filledRun
	for _, sig := range g.AllSignatures() {
		pattern := g.Pattern(sig)
		n := 0
		for n < len(pattern) && pattern[n] != 0 {
			n++
		}
		if n < 2 {
			continue
		}
		runs = append(runs, filledRun{
			Start:  sig.Start,
			Dir:    sig.Dir,
			Length: n,
			Text:   string(pattern[:n]),
		})
	}
	return runs
}
