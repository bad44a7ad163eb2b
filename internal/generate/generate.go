// Package generate orchestrates full crossword runs: it draws a layout,
// seeds theme words, completes and fills the grid, validates the result
// and attaches clue text, retrying with fresh seeds when an attempt
// fails in a recoverable way.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vk/crossgridgo/internal/clue"
	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/fill"
	"github.com/vk/crossgridgo/internal/grid"
	"github.com/vk/crossgridgo/internal/layout"
	"github.com/vk/crossgridgo/internal/puzzle"
	"github.com/vk/crossgridgo/internal/theme"
	"github.com/vk/crossgridgo/internal/validate"
)

var (
	// ErrRetryable tags attempt failures that a fresh seed may fix.
	ErrRetryable = errors.New("attempt failed for this seed")

	// ErrFatal tags failures retrying cannot fix, such as a canceled
	// context or a broken clue backend.
	ErrFatal = errors.New("generation failed")

	// ErrExhausted means every attempt within the retry limit failed.
	ErrExhausted = errors.New("unable to generate crossword after retries")
)

// attemptSeedSpan bounds the derived seeds handed to individual
// attempts and racers.
const attemptSeedSpan = 1_000_001

// Config describes one generation run.
type Config struct {
	Height int
	Width  int

	// Seed drives every random choice of the run. Zero draws one from
	// the clock.
	Seed int64

	// RetryLimit caps full attempts before giving up. Zero means 3.
	RetryLimit int

	// CompletionTarget is the minimum fill ratio a grid must reach to
	// count as done. Zero means 0.85.
	CompletionTarget float64

	// PlaceBlocker reserves a rectangular blocker zone for artwork.
	PlaceBlocker bool
	// BlockerRow and friends pin the zone instead of drawing it from
	// the attempt seed. Nil leaves the choice to the grid.
	BlockerRow    *int
	BlockerCol    *int
	BlockerHeight *int
	BlockerWidth  *int
	// MinBlockerSize and MaxBlockerSize bound a drawn zone. Zero keeps
	// the grid defaults.
	MinBlockerSize int
	MaxBlockerSize int

	// Layout tunes theme seeding and filling for each attempt.
	Layout layout.Config
}

func (c Config) withDefaults() Config {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.RetryLimit == 0 {
		c.RetryLimit = 3
	}
	if c.CompletionTarget <= 0 {
		c.CompletionTarget = 0.85
	}
	if c.Layout.Difficulty == "" {
		c.Layout.Difficulty = "MEDIUM"
	}
	if c.Layout.Language == "" {
		c.Layout.Language = "Romanian"
	}
	if c.Layout.MinThemeCoverage == 0 {
		c.Layout.MinThemeCoverage = 0.10
	}
	if c.Layout.FillTimeout == 0 {
		c.Layout.FillTimeout = 180 * time.Second
	}
	return c
}

// RunStats summarizes a finished run.
type RunStats struct {
	// Attempts is how many full attempts ran, counting the winner.
	Attempts int
	// Elapsed is the wall-clock time of the whole run.
	Elapsed time.Duration
	// Words is the number of placed word slots.
	Words int
	// ThemeWords is how many of them came from the theme providers.
	ThemeWords int
	// FillRatio is the share of playable cells holding letters.
	FillRatio float64
}

// Result is one successfully generated crossword.
type Result struct {
	Grid       *grid.Grid
	Slots      []*grid.WordSlot
	ThemeWords []theme.Word
	Validation []string
	Document   *puzzle.Document
	Stats      RunStats
}

// Generator runs generation attempts over a fixed dictionary and
// provider stack.
type Generator struct {
	cfg       Config
	dict      *dictionary.Index
	themes    theme.Provider
	fallbacks []theme.Provider
	clues     clue.Generator
	validator *validate.Validator
	rng       *rand.Rand
	solver    fill.Solver
}

// New builds a generator. A nil clue generator falls back to the
// deterministic template writer.
func New(cfg Config, dict *dictionary.Index, primary theme.Provider, fallbacks []theme.Provider, clues clue.Generator) *Generator {
	cfg = cfg.withDefaults()
	if clues == nil {
		clues = clue.TemplateGenerator{}
	}
	return &Generator{
		cfg:       cfg,
		dict:      dict,
		themes:    primary,
		fallbacks: fallbacks,
		clues:     clues,
		validator: validate.New(dict),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
}

// SetSolver replaces the fill solver used by every attempt.
func (gen *Generator) SetSolver(s fill.Solver) {
	gen.solver = s
}

// Profile reports the effective run configuration, for embedding in
// result documents.
func (gen *Generator) Profile() puzzle.Profile {
	return puzzle.Profile{
		Height:           gen.cfg.Height,
		Width:            gen.cfg.Width,
		Theme:            gen.cfg.Layout.Theme,
		ThemeDescription: gen.cfg.Layout.ThemeDescription,
		Difficulty:       gen.cfg.Layout.Difficulty,
		Language:         gen.cfg.Layout.Language,
		Seed:             gen.cfg.Seed,
		CompletionTarget: gen.cfg.CompletionTarget,
		MinThemeCoverage: gen.cfg.Layout.MinThemeCoverage,
		PlaceBlocker:     gen.cfg.PlaceBlocker,
	}
}

// Generate runs attempts until one produces a valid crossword or the
// retry limit is spent. Every attempt draws its own seed from the
// generator's stream, so runs with the same top-level seed replay the
// same sequence.
func (gen *Generator) Generate(ctx context.Context) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= gen.cfg.RetryLimit; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fatal(err)
		}
		seed := int64(gen.rng.Intn(attemptSeedSpan))
		res, err := gen.runAttempt(ctx, seed)
		if err == nil {
			res.Stats.Attempts = attempt
			res.Stats.Elapsed = time.Since(start)
			log.Info("Crossword generated.",
				"attempts", attempt,
				"seed", seed,
				"words", res.Stats.Words,
				"themeWords", res.Stats.ThemeWords,
				"fillRatio", res.Stats.FillRatio,
				"elapsed", res.Stats.Elapsed)
			return res, nil
		}
		if ctx.Err() != nil || !errors.Is(err, ErrRetryable) {
			return nil, fatal(err)
		}
		lastErr = err
		log.Warn("Attempt failed, retrying with a fresh seed.",
			"attempt", attempt, "seed", seed, "error", err)
	}
	return nil, fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

// runAttempt executes the full pipeline once. Errors a fresh seed may
// fix carry ErrRetryable; everything else aborts the run.
func (gen *Generator) runAttempt(ctx context.Context, seed int64) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	rng := rand.New(rand.NewSource(seed))

	g, err := layout.Anneal(ctx, gen.gridConfig(), rng, gen.cfg.RetryLimit)
	if err != nil {
		return nil, fmt.Errorf("drawing the layout: %w", err)
	}

	engine := layout.NewEngine(gen.cfg.Layout, gen.dict, rng)
	if gen.solver != nil {
		engine.SetSolver(gen.solver)
	}

	themeWords, err := engine.SeedThemeWords(ctx, g, gen.themes, gen.fallbacks)
	if err != nil {
		return nil, fmt.Errorf("%w: seeding theme words: %w", ErrRetryable, err)
	}
	if err := engine.CompleteLayout(ctx, g); err != nil {
		return nil, fmt.Errorf("%w: completing the layout: %w", ErrRetryable, err)
	}
	if err := engine.Fill(ctx, g); err != nil {
		return nil, fmt.Errorf("%w: filling the grid: %w", ErrRetryable, err)
	}

	ratio := g.FillRatio()
	if ratio < gen.cfg.CompletionTarget {
		return nil, fmt.Errorf("%w: fill ratio %.2f below target %.2f",
			ErrRetryable, ratio, gen.cfg.CompletionTarget)
	}

	verdict := gen.validator.Validate(ctx, g, engine.ThemeSurfaces())
	if !verdict.OK {
		return nil, fmt.Errorf("%w: grid validation failed: %s",
			ErrRetryable, strings.Join(verdict.Messages, "; "))
	}

	slots := engine.PlacedSlots(g)
	reqs := make([]clue.Request, 0, len(slots))
	for _, slot := range slots {
		reqs = append(reqs, clue.Request{
			SlotID:  slot.ID,
			Word:    slot.Text,
			Dir:     slot.Dir,
			ClueBox: slot.ClueBox,
		})
	}
	texts, err := gen.clues.Generate(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("generating clues: %w", err)
	}
	if err := clue.Attach(g, slots, texts); err != nil {
		return nil, fmt.Errorf("%w: attaching clues: %w", ErrRetryable, err)
	}

	log.Debug("Attempt produced a valid grid.",
		"seed", seed, "words", len(slots), "themeWords", len(themeWords), "fillRatio", ratio)

	return &Result{
		Grid:       g,
		Slots:      slots,
		ThemeWords: themeWords,
		Validation: []string{},
		Document:   gen.buildDocument(g, slots, themeWords),
		Stats: RunStats{
			Words:      len(slots),
			ThemeWords: len(themeWords),
			FillRatio:  ratio,
		},
	}, nil
}

func (gen *Generator) gridConfig() grid.Config {
	return grid.Config{
		Height:         gen.cfg.Height,
		Width:          gen.cfg.Width,
		MinBlockerSize: gen.cfg.MinBlockerSize,
		MaxBlockerSize: gen.cfg.MaxBlockerSize,
		PlaceBlocker:   gen.cfg.PlaceBlocker,
		BlockerRow:     gen.cfg.BlockerRow,
		BlockerCol:     gen.cfg.BlockerCol,
		BlockerHeight:  gen.cfg.BlockerHeight,
		BlockerWidth:   gen.cfg.BlockerWidth,
	}
}

func (gen *Generator) buildDocument(g *grid.Grid, slots []*grid.WordSlot, themeWords []theme.Word) *puzzle.Document {
	return &puzzle.Document{
		Status:     puzzle.StatusSuccess,
		Config:     gen.Profile(),
		ThemeWords: puzzle.ThemeWordRecords(themeWords),
		Slots:      puzzle.SlotRecords(slots),
		Clues:      puzzle.CollectClues(g),
		Validation: []string{},
		Grid:       puzzle.SnapshotCells(g),
		Stats:      puzzle.ComputeStats(g, slots, gen.dict),
	}
}

// fatal wraps err with ErrFatal unless it already carries it.
func fatal(err error) error {
	if errors.Is(err, ErrFatal) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFatal, err)
}
