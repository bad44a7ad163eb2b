package layout

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/grid"
	"github.com/vk/crossgridgo/internal/theme"
)

// SeedThemeWords requests theme words from the providers and plants as
// many as the letter budget allows, each licensed by a clue box and
// carrying its theme clue. The request size scales with the coverage
// floor so large grids ask for more words. Words that survive
// sanitization but never reach the grid are remembered and later
// preferred by the fill model.
func (e *Engine) SeedThemeWords(ctx context.Context, g *grid.Grid, primary theme.Provider, fallbacks []theme.Provider) ([]theme.Word, error) {
	log := ctxlog.FromContext(ctx)
	log.Info("Preparing theme words.", "theme", e.cfg.Theme)

	playable := g.PlayableCount()
	minLetters := maxOf(1, int(float64(playable)*e.cfg.MinThemeCoverage))
	budget := maxOf(minLetters, int(float64(playable)*e.cfg.MaxThemeRatio))
	estimated := (minLetters / 5) + 2
	target := maxOf(e.cfg.ThemeRequestSize, estimated*3)

	words := theme.Merge(ctx, primary, fallbacks, theme.Request{
		Theme:       e.cfg.Theme,
		Description: e.cfg.ThemeDescription,
		Difficulty:  e.cfg.Difficulty,
		Language:    e.cfg.Language,
	}, target)
	if len(words) == 0 {
		return nil, ErrNoThemeWords
	}

	lettersUsed := 0
	var placed []theme.Word
	placedAt := make(map[int]bool)
	for i, entry := range words {
		cleaned := e.dict.Normalize(entry.Word)
		if len(cleaned) < 2 {
			continue
		}
		if e.usedWords[cleaned] {
			continue
		}
		if lettersUsed >= budget {
			log.Info("Reached theme letter budget.", "letters", lettersUsed, "playable", playable)
			break
		}
		if !e.placeThemeWord(ctx, g, cleaned, entry) {
			continue
		}
		placed = append(placed, entry)
		placedAt[i] = true
		lettersUsed += len(cleaned)
	}

	if lettersUsed < minLetters {
		return nil, fmt.Errorf("placed %d of %d required theme letters: %w", lettersUsed, minLetters, ErrThemeCoverage)
	}

	for i, entry := range words {
		if !placedAt[i] {
			e.remainingTheme[e.dict.Normalize(entry.Word)] = true
		}
	}
	log.Info("Placed theme words.", "count", len(placed), "letters", lettersUsed, "playable", playable)
	return placed, nil
}

// placeThemeWord tries pending follow-on starts first, then a bounded
// number of random starts.
func (e *Engine) placeThemeWord(ctx context.Context, g *grid.Grid, word string, entry theme.Word) bool {
	if e.placeAtPendingStart(ctx, g, word, entry) {
		return true
	}
	for i := 0; i < e.cfg.ThemePlacementAttempts; i++ {
		dir := grid.Across
		if e.rng.Intn(2) == 1 {
			dir = grid.Down
		}
		starts := e.candidateStarts(g, len(word), dir)
		if len(starts) == 0 {
			continue
		}
		start := starts[e.rng.Intn(len(starts))]
		if e.placeWordAt(ctx, g, word, &entry, dir, start) {
			return true
		}
	}
	return false
}

// placeAtPendingStart drains the queue until a placement sticks. Starts
// that reject the word are discarded, not requeued.
func (e *Engine) placeAtPendingStart(ctx context.Context, g *grid.Grid, word string, entry theme.Word) bool {
	for e.pending.Len() > 0 {
		item := heap.Pop(&e.pending).(pendingStart)
		if e.placeWordAt(ctx, g, word, &entry, item.start.Dir, item.start.Pos) {
			return true
		}
	}
	return false
}

// placeWordAt runs the full placement protocol at one start: letter
// compatibility, clue licensing, the word itself, crossing viability and
// the terminal boundary. A failure after the word went down is unwound,
// though a clue box minted along the way stays on the grid.
func (e *Engine) placeWordAt(ctx context.Context, g *grid.Grid, word string, entry *theme.Word, dir grid.Direction, start grid.Coord) bool {
	log := ctxlog.FromContext(ctx)
	if !e.canPlaceWord(g, start, dir, word) {
		return false
	}
	box, err := g.EnsureClueBox(start, dir)
	if err != nil {
		log.Debug("Unable to license start via clue box.", "start", start, "error", err)
		return false
	}

	slot := grid.NewWordSlot(e.nextSlotID(dir), start, dir, len(word), box)
	slot.Theme = entry != nil

	undo, err := g.PlaceWordUndo(slot, word)
	if err != nil {
		log.Debug("Slot rejected during placement.", "slot", slot.ID, "error", err)
		return false
	}
	if err := e.validateCrossings(g, slot); err != nil {
		undo()
		log.Debug("Slot rejected during placement.", "slot", slot.ID, "error", err)
		return false
	}
	extension, err := g.EnsureTerminalBoundary(slot)
	if err != nil {
		undo()
		log.Debug("Slot rejected during placement.", "slot", slot.ID, "error", err)
		return false
	}

	e.registerSlot(slot)
	e.usedWords[word] = true
	if extension != nil {
		e.queueStart(g, *extension)
	}
	if entry != nil {
		e.attachThemeClue(ctx, g, slot, *entry)
		e.themeSurfaces[e.dict.Normalize(entry.Word)] = true
	}
	return true
}

// attachThemeClue hosts the provider's clue on the slot's clue box.
func (e *Engine) attachThemeClue(ctx context.Context, g *grid.Grid, slot *grid.WordSlot, entry theme.Word) {
	err := g.AttachClue(slot.ClueBox, grid.Clue{
		ID:          slot.ID + "-theme",
		SlotID:      slot.ID,
		Text:        entry.Clue,
		Length:      slot.Length,
		Dir:         slot.Dir,
		StartOffset: slot.ArrowOffset(),
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not attach theme clue.", "slot", slot.ID, "error", err)
	}
}

// canPlaceWord checks bounds, blocking cells and letter conflicts along
// the run, without touching the grid.
func (e *Engine) canPlaceWord(g *grid.Grid, start grid.Coord, dir grid.Direction, word string) bool {
	dr, dc := dir.Delta()
	for i := 0; i < len(word); i++ {
		r, c := start.Row+i*dr, start.Col+i*dc
		if !g.InBounds(r, c) {
			return false
		}
		cell := g.CellAt(r, c)
		if !cell.IsPlayable() {
			return false
		}
		if cell.Letter != 0 && cell.Letter != word[i] {
			return false
		}
	}
	return true
}

// candidateStarts lists every boundary cell from which a run of the
// given length fits without hitting a clue box or blocker.
func (e *Engine) candidateStarts(g *grid.Grid, length int, dir grid.Direction) []grid.Coord {
	var starts []grid.Coord
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if !g.IsBoundary(r, c, dir) {
				continue
			}
			if e.runBlocked(g, grid.Coord{Row: r, Col: c}, dir, length) {
				continue
			}
			starts = append(starts, grid.Coord{Row: r, Col: c})
		}
	}
	return starts
}

func (e *Engine) runBlocked(g *grid.Grid, start grid.Coord, dir grid.Direction, length int) bool {
	dr, dc := dir.Delta()
	for i := 0; i < length; i++ {
		r, c := start.Row+i*dr, start.Col+i*dc
		if !g.InBounds(r, c) {
			return true
		}
		if !g.CellAt(r, c).IsPlayable() {
			return true
		}
	}
	return false
}

// validateCrossings checks every run the slot touches, in both
// directions. Each crossing must be licensable and, once long enough to
// need dictionary fill, must keep viable candidates. A fully filled
// crossing passes when it spells a theme surface or a dictionary word;
// anything else falls through to the candidate checks. Three-letter
// crossings demand a margin of three candidates because they constrain
// two neighbors at once.
func (e *Engine) validateCrossings(g *grid.Grid, slot *grid.WordSlot) error {
	for _, dir := range grid.Directions() {
		for _, pos := range slot.Cells() {
			sig, ok := g.Signature(pos.Row, pos.Col, dir)
			if !ok {
				continue
			}
			if e.occupied[sig.Key()] {
				continue
			}
			if !g.StartHasClueCapacity(sig.Start, dir) {
				return fmt.Errorf("crossing start %s %s: %w", sig.Start, dir, grid.ErrNoLicense)
			}
			if sig.Length < 3 {
				continue
			}
			pattern := dictionary.Pattern(g.Pattern(sig))
			if isFull(pattern) {
				surface := string(pattern)
				if e.themeSurfaces[e.dict.Normalize(surface)] || e.dict.Contains(surface) {
					continue
				}
			}
			if sig.Length == 3 {
				if n := e.dict.CountCandidates(sig.Length, pattern, e.usedWords); n < 3 {
					return fmt.Errorf("crossing at %s holds only %d candidates: %w", sig.Start, n, ErrInfeasibleSlot)
				}
			} else if !e.dict.HasCandidates(sig.Length, pattern, e.usedWords) {
				return fmt.Errorf("crossing at %s: %w", sig.Start, ErrInfeasibleSlot)
			}
		}
	}
	return nil
}
