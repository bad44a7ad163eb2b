package layout

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/fill"
	"github.com/vk/crossgridgo/internal/grid"
)

// Config tunes theme seeding and filling.
type Config struct {
	// Theme names the topic words are requested for.
	Theme string
	// ThemeDescription is optional free-form context for LLM providers.
	ThemeDescription string
	// Difficulty is EASY, MEDIUM or HARD. Empty means MEDIUM.
	Difficulty string
	// Language of clues and theme words. Empty means Romanian.
	Language string

	// MinThemeCoverage is the minimum fraction of playable cells that
	// must hold theme letters. Zero means 0.10.
	MinThemeCoverage float64
	// MaxThemeRatio caps the fraction of playable cells theme letters
	// may claim. Zero means 0.40.
	MaxThemeRatio float64
	// ThemeRequestSize floors the number of words requested from the
	// providers. Zero means 80.
	ThemeRequestSize int
	// ThemePlacementAttempts bounds the random placement tries per
	// theme word. Zero means 30.
	ThemePlacementAttempts int
	// PreferThemeCandidates boosts unplaced theme words in fill pools.
	PreferThemeCandidates bool

	// MaxCandidates caps each slot's fill pool. Zero means the model
	// builder default.
	MaxCandidates int
	// FallbackFraction reserves a share of each pool for off-tier
	// backup candidates.
	FallbackFraction float64
	// FillTimeout bounds one solver run. Zero means 180 seconds; the
	// solver itself is never given more than 30.
	FillTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinThemeCoverage == 0 {
		c.MinThemeCoverage = 0.10
	}
	if c.MaxThemeRatio == 0 {
		c.MaxThemeRatio = 0.40
	}
	if c.ThemeRequestSize == 0 {
		c.ThemeRequestSize = 80
	}
	if c.ThemePlacementAttempts == 0 {
		c.ThemePlacementAttempts = 30
	}
	if c.FillTimeout == 0 {
		c.FillTimeout = 180 * time.Second
	}
	return c
}

// Engine owns the mutable state of one generation attempt: slot identity,
// placed words, theme bookkeeping and the queue of follow-on starts.
type Engine struct {
	cfg    Config
	dict   *dictionary.Index
	rng    *rand.Rand
	solver fill.Solver

	slotCounter    int
	occupied       map[string]bool
	slotKeys       map[string]string
	history        []string
	pending        pendingQueue
	pendingCounter int

	usedWords      map[string]bool
	themeSurfaces  map[string]bool
	remainingTheme map[string]bool
}

// NewEngine builds an engine over the dictionary. rng drives theme word
// placement and must not be shared with concurrent engines.
func NewEngine(cfg Config, dict *dictionary.Index, rng *rand.Rand) *Engine {
	return &Engine{
		cfg:            cfg.withDefaults(),
		dict:           dict,
		rng:            rng,
		solver:         &fill.Backtracker{},
		occupied:       make(map[string]bool),
		slotKeys:       make(map[string]string),
		usedWords:      make(map[string]bool),
		themeSurfaces:  make(map[string]bool),
		remainingTheme: make(map[string]bool),
	}
}

// SetSolver replaces the default backtracking fill solver.
func (e *Engine) SetSolver(s fill.Solver) {
	e.solver = s
}

// ThemeSurfaces returns a copy of the normalized theme word surfaces
// placed so far.
func (e *Engine) ThemeSurfaces() map[string]bool {
	out := make(map[string]bool, len(e.themeSurfaces))
	for k := range e.themeSurfaces {
		out[k] = true
	}
	return out
}

// UsedWords returns a copy of the surfaces committed to the grid.
func (e *Engine) UsedWords() map[string]bool {
	out := make(map[string]bool, len(e.usedWords))
	for k := range e.usedWords {
		out[k] = true
	}
	return out
}

// PlacedSlots returns the slots registered on g in placement order.
// Slots whose registration was later undone are skipped.
func (e *Engine) PlacedSlots(g *grid.Grid) []*grid.WordSlot {
	out := make([]*grid.WordSlot, 0, len(e.history))
	for _, id := range e.history {
		if slot, ok := g.Slot(id); ok {
			out = append(out, slot)
		}
	}
	return out
}

func (e *Engine) nextSlotID(dir grid.Direction) string {
	e.slotCounter++
	prefix := "A"
	if dir == grid.Down {
		prefix = "D"
	}
	return fmt.Sprintf("%s%04d", prefix, e.slotCounter)
}

func (e *Engine) registerSlot(slot *grid.WordSlot) {
	key := signatureKey(slot.Start, slot.Dir, slot.Length)
	e.occupied[key] = true
	e.slotKeys[slot.ID] = key
	e.history = append(e.history, slot.ID)
}

// signatureKey matches grid.SlotSignature.Key so registered slots and
// recomputed signatures share one identity space.
func signatureKey(start grid.Coord, dir grid.Direction, length int) string {
	return fmt.Sprintf("%d:%d:%s:%d", start.Row, start.Col, dir, length)
}

// enumerateOpenSlots scans for maximal runs that are not registered to a
// placed word, deduplicating runs seen from several of their cells.
func (e *Engine) enumerateOpenSlots(g *grid.Grid) []grid.SlotSignature {
	seen := make(map[string]bool)
	var sigs []grid.SlotSignature
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if !g.CellAt(r, c).IsPlayable() {
				continue
			}
			for _, dir := range grid.Directions() {
				if !g.IsBoundary(r, c, dir) {
					continue
				}
				sig, ok := g.Signature(r, c, dir)
				if !ok {
					continue
				}
				key := sig.Key()
				if seen[key] || e.occupied[key] {
					continue
				}
				seen[key] = true
				sigs = append(sigs, sig)
			}
		}
	}
	return sigs
}

func isFull(pattern []byte) bool {
	for _, b := range pattern {
		if b == 0 {
			return false
		}
	}
	return len(pattern) > 0
}

func minOf(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
