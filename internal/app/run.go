package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/vk/crossgridgo/internal/clue"
	"github.com/vk/crossgridgo/internal/config"
	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/generate"
	"github.com/vk/crossgridgo/internal/layout"
	"github.com/vk/crossgridgo/internal/puzzle"
	"github.com/vk/crossgridgo/internal/theme"
)

// geminiKeyEnv gates LLM-backed clue generation: with the key present
// clues come from Gemini, otherwise from the deterministic templates.
const geminiKeyEnv = "GOOGLE_API_KEY"

// Run executes one full generation run based on the resolved
// configuration: load the dictionary, generate the crossword, persist
// the outcome document and print the rendered result.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	log := a.logger
	log.Debug("App run started.")

	model, err := a.resolveModel(ctx)
	if err != nil {
		return err
	}
	log.Info("Configuration resolved.",
		"grid", fmt.Sprintf("%dx%d", model.Grid.Height, model.Grid.Width),
		"theme", model.Theme.Title,
		"difficulty", model.Theme.Difficulty,
		"parallelism", model.Parallelism,
	)

	dict, err := dictionary.Load(ctx, dictionaryConfig(model))
	if err != nil {
		return fmt.Errorf("loading the dictionary: %w", err)
	}
	log.Info("Dictionary ready.", "words", dict.WordCount())

	store, err := puzzle.NewStore(model.OutputDir)
	if err != nil {
		return fmt.Errorf("opening the puzzle store: %w", err)
	}
	cache, err := theme.NewCache(model.Theme.CacheDir)
	if err != nil {
		return fmt.Errorf("opening the theme cache: %w", err)
	}

	primary, fallbacks := themeProviders(model, cache)
	gen := generate.New(generateConfig(model), dict, primary, fallbacks, a.clueGenerator(model))

	res, err := gen.RaceAttempts(ctx, model.Parallelism)
	if err != nil {
		a.saveFailure(ctx, store, gen.Profile(), err)
		return err
	}

	doc := res.Document
	a.decorate(ctx, doc, cache, themeRequest(model))

	id, err := store.Save(ctx, doc)
	if err != nil {
		return fmt.Errorf("saving the puzzle document: %w", err)
	}
	log.Info("Puzzle document saved.", "id", id)

	if a.cfg.OutputPath != "" {
		data, err := doc.Encode()
		if err != nil {
			return fmt.Errorf("encoding the puzzle document: %w", err)
		}
		if err := os.WriteFile(a.cfg.OutputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing the puzzle copy: %w", err)
		}
		log.Info("Puzzle copy written.", "path", a.cfg.OutputPath)
	}

	fmt.Fprintln(a.outW, puzzle.RenderGrid(res.Grid))
	fmt.Fprintln(a.outW, puzzle.RenderStats(doc))
	log.Info("Run finished.",
		"attempts", res.Stats.Attempts,
		"elapsed", res.Stats.Elapsed.Round(time.Millisecond),
		"words", res.Stats.Words,
		"theme_words", res.Stats.ThemeWords,
	)
	return nil
}

// resolveModel loads the profile when one was given, overlays the flag
// overrides and validates the result. Profile-less runs start from the
// defaults, so the grid flags must carry the whole configuration.
func (a *App) resolveModel(ctx context.Context) (*config.Model, error) {
	model := config.Default()
	if a.cfg.ProfilePath != "" {
		loaded, err := a.loader.Load(ctx, a.cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		model = loaded
	}
	a.applyOverrides(model)
	model.Theme.Difficulty = strings.ToUpper(model.Theme.Difficulty)
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return model, nil
}

func (a *App) applyOverrides(model *config.Model) {
	cfg := a.cfg
	if cfg.Height > 0 {
		model.Grid.Height = cfg.Height
	}
	if cfg.Width > 0 {
		model.Grid.Width = cfg.Width
	}
	if cfg.Theme != "" {
		model.Theme.Title = cfg.Theme
	}
	if cfg.DictionaryPath != "" {
		model.Dictionary.Path = cfg.DictionaryPath
	}
	if cfg.Seed != 0 {
		model.Seed = cfg.Seed
	}
	if cfg.Difficulty != "" {
		model.Theme.Difficulty = cfg.Difficulty
	}
	if cfg.Language != "" {
		model.Theme.Language = cfg.Language
	}
	if cfg.CompletionTarget > 0 {
		model.Grid.CompletionTarget = cfg.CompletionTarget
	}
	if cfg.MinThemeCoverage >= 0 {
		model.Theme.MinCoverage = cfg.MinThemeCoverage
	}
	if cfg.Parallelism > 0 {
		model.Parallelism = cfg.Parallelism
	}
	if cfg.NoBlocker {
		model.Blocker.Enabled = false
	}
	if cfg.BlockerRow >= 0 {
		model.Blocker.Row = intp(cfg.BlockerRow)
	}
	if cfg.BlockerCol >= 0 {
		model.Blocker.Col = intp(cfg.BlockerCol)
	}
	if cfg.BlockerHeight >= 0 {
		model.Blocker.Height = intp(cfg.BlockerHeight)
	}
	if cfg.BlockerWidth >= 0 {
		model.Blocker.Width = intp(cfg.BlockerWidth)
	}
}

func intp(v int) *int { return &v }

func dictionaryConfig(model *config.Model) dictionary.Config {
	cfg := dictionary.DefaultConfig()
	cfg.Path = model.Dictionary.Path
	if model.Dictionary.MinLength > 0 {
		cfg.MinLength = model.Dictionary.MinLength
	}
	if model.Dictionary.MaxLength > 0 {
		cfg.MaxLength = model.Dictionary.MaxLength
	}
	cfg.MinFrequency = model.Dictionary.MinFrequency
	cfg.MaxEntriesPerLength = model.Dictionary.MaxEntriesPerLength
	cfg.UseCache = model.Dictionary.UseCache
	if d, err := dictionary.ParseDifficulty(model.Theme.Difficulty); err == nil {
		cfg.Difficulty = d
	}
	return cfg
}

// themeProviders assembles the provider chain. Custom words become the
// primary source with the LLM and bucket providers as padding;
// otherwise the cached LLM provider leads and the buckets back it up.
func themeProviders(model *config.Model, cache *theme.Cache) (theme.Provider, []theme.Provider) {
	var rng *rand.Rand
	if model.Seed != 0 {
		rng = rand.New(rand.NewSource(model.Seed))
	}
	bucket := theme.NewBucketProvider(bucketsFromWordLists(model.Words), rng)
	cached := &theme.CachedProvider{
		Inner: &theme.GeminiProvider{Model: model.Theme.Model},
		Cache: cache,
	}
	if len(model.Theme.CustomWords) > 0 {
		return theme.NewUserListProvider(model.Theme.CustomWords), []theme.Provider{cached, bucket}
	}
	return cached, []theme.Provider{bucket}
}

// bucketsFromWordLists turns profile word lists into provider buckets.
// No lists selects the built-in topics.
func bucketsFromWordLists(lists []config.WordList) map[string]map[string][]string {
	if len(lists) == 0 {
		return nil
	}
	buckets := make(map[string]map[string][]string, len(lists))
	for _, list := range lists {
		buckets[strings.ToLower(list.Name)] = list.Tiers
	}
	return buckets
}

func (a *App) clueGenerator(model *config.Model) clue.Generator {
	if os.Getenv(geminiKeyEnv) != "" {
		return &clue.GeminiGenerator{Model: model.Theme.Model, Language: model.Theme.Language}
	}
	return clue.TemplateGenerator{}
}

func generateConfig(model *config.Model) generate.Config {
	return generate.Config{
		Height:           model.Grid.Height,
		Width:            model.Grid.Width,
		Seed:             model.Seed,
		RetryLimit:       model.RetryLimit,
		CompletionTarget: model.Grid.CompletionTarget,
		PlaceBlocker:     model.Blocker.Enabled,
		BlockerRow:       model.Blocker.Row,
		BlockerCol:       model.Blocker.Col,
		BlockerHeight:    model.Blocker.Height,
		BlockerWidth:     model.Blocker.Width,
		MinBlockerSize:   model.Blocker.MinSize,
		MaxBlockerSize:   model.Blocker.MaxSize,
		Layout: layout.Config{
			Theme:                 model.Theme.Title,
			ThemeDescription:      model.Theme.Description,
			Difficulty:            model.Theme.Difficulty,
			Language:              model.Theme.Language,
			MinThemeCoverage:      model.Theme.MinCoverage,
			MaxThemeRatio:         model.Theme.MaxRatio,
			ThemeRequestSize:      model.Theme.RequestSize,
			PreferThemeCandidates: model.Fill.PreferTheme,
			MaxCandidates:         model.Fill.MaxCandidates,
			FallbackFraction:      model.Fill.FallbackFraction,
			FillTimeout:           time.Duration(model.Fill.TimeoutSeconds) * time.Second,
		},
	}
}

func themeRequest(model *config.Model) theme.Request {
	return theme.Request{
		Theme:       model.Theme.Title,
		Description: model.Theme.Description,
		Difficulty:  model.Theme.Difficulty,
		Language:    model.Theme.Language,
	}
}

// decorate adds the theme cache reference and any cached crossword
// title and content to the finished document.
func (a *App) decorate(ctx context.Context, doc *puzzle.Document, cache *theme.Cache, req theme.Request) {
	doc.ThemeCacheRef = cache.CacheID(req)
	if out, ok := cache.Lookup(ctx, req, 1); ok {
		doc.Title = out.Title
		doc.ThemeContent = out.Content
	}
}

// saveFailure records a failed run in the store so unsuccessful
// profiles stay inspectable next to the successes.
func (a *App) saveFailure(ctx context.Context, store *puzzle.Store, profile puzzle.Profile, runErr error) {
	doc := &puzzle.Document{
		Status:     puzzle.StatusFailed,
		Error:      runErr.Error(),
		Config:     profile,
		ThemeWords: []puzzle.ThemeWord{},
		Slots:      []puzzle.Slot{},
		Clues:      []puzzle.ClueRecord{},
		Validation: []string{},
		Grid:       [][]puzzle.Cell{},
		Stats: puzzle.Stats{
			Words: puzzle.WordStats{LengthDistribution: map[string]int{}},
		},
	}
	if _, err := store.Save(ctx, doc); err != nil {
		a.logger.Warn("Failed run document could not be saved.", "error", err)
		return
	}
	a.logger.Info("Failed run recorded.", "error", runErr.Error())
}
