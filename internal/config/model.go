package config

import (
	"errors"
	"fmt"
	"strings"
)

// Model is the complete configuration of one generation run.
type Model struct {
	// Seed drives every random choice. Zero draws one from the clock.
	Seed int64
	// RetryLimit caps full generation attempts.
	RetryLimit int
	// Parallelism races this many attempts concurrently.
	Parallelism int
	// OutputDir is where result documents land. Empty selects the
	// puzzle store default.
	OutputDir string

	Grid       Grid
	Blocker    Blocker
	Dictionary Dictionary
	Theme      Theme
	Fill       Fill
	// Words are custom theme buckets. When any are present they
	// replace the built-in topics.
	Words []WordList
}

// Grid sizes the puzzle.
type Grid struct {
	Height int
	Width  int
	// CompletionTarget is the minimum fill ratio a grid must reach.
	CompletionTarget float64
}

// Blocker configures the rectangular artwork zone.
type Blocker struct {
	Enabled bool
	// Row and friends pin the zone instead of drawing it from the seed.
	Row    *int
	Col    *int
	Height *int
	Width  *int
	// MinSize and MaxSize bound a drawn zone.
	MinSize int
	MaxSize int
}

// Dictionary locates and filters the word source.
type Dictionary struct {
	Path                string
	MinLength           int
	MaxLength           int
	MinFrequency        float64
	MaxEntriesPerLength int
	UseCache            bool
}

// Theme describes the puzzle topic and the provider tuning.
type Theme struct {
	Title       string
	Description string
	Difficulty  string
	Language    string
	// MinCoverage is the minimum fraction of playable cells holding
	// theme letters; MaxRatio caps it.
	MinCoverage float64
	MaxRatio    float64
	// RequestSize floors how many words are requested from providers.
	RequestSize int
	// CacheDir holds cached LLM theme responses. Empty selects the
	// theme cache default.
	CacheDir string
	// Model overrides the Gemini model name.
	Model string
	// CustomWords seed the run before any provider is consulted.
	CustomWords []string
}

// Fill tunes the constraint solver.
type Fill struct {
	TimeoutSeconds   int
	MaxCandidates    int
	FallbackFraction float64
	// PreferTheme boosts unplaced theme words in fill pools.
	PreferTheme bool
}

// WordList is one custom theme bucket: a topic name plus words grouped
// by difficulty tier.
type WordList struct {
	Name  string
	Tiers map[string][]string
}

// Default returns a model with every default materialized. Loaders
// overlay parsed values on top of it.
func Default() *Model {
	return &Model{
		RetryLimit:  3,
		Parallelism: 1,
		Grid: Grid{
			CompletionTarget: 0.85,
		},
		Blocker: Blocker{
			Enabled: true,
		},
		Dictionary: Dictionary{
			Path:      "local_db/dex_words.tsv",
			MinLength: 2,
			MaxLength: 24,
			UseCache:  true,
		},
		Theme: Theme{
			Difficulty:  "MEDIUM",
			Language:    "Romanian",
			MinCoverage: 0.10,
			MaxRatio:    0.40,
			RequestSize: 80,
		},
		Fill: Fill{
			TimeoutSeconds: 180,
			PreferTheme:    true,
		},
	}
}

var validDifficulties = map[string]bool{"EASY": true, "MEDIUM": true, "HARD": true}

// Validate reports the first problem that would make the model unusable.
func (m *Model) Validate() error {
	if m.Grid.Height == 0 || m.Grid.Width == 0 {
		return errors.New("grid height and width are required")
	}
	if m.Grid.Height < 4 || m.Grid.Width < 4 {
		return fmt.Errorf("grid %dx%d is too small: the minimum is 4x4", m.Grid.Height, m.Grid.Width)
	}
	if m.Grid.CompletionTarget <= 0 || m.Grid.CompletionTarget > 1 {
		return fmt.Errorf("completion target %.2f must be in (0, 1]", m.Grid.CompletionTarget)
	}
	if strings.TrimSpace(m.Theme.Title) == "" {
		return errors.New("a theme title is required")
	}
	if !validDifficulties[strings.ToUpper(m.Theme.Difficulty)] {
		return fmt.Errorf("unknown difficulty %q: must be EASY, MEDIUM or HARD", m.Theme.Difficulty)
	}
	if m.Theme.MinCoverage < 0 || m.Theme.MinCoverage >= 1 {
		return fmt.Errorf("theme coverage %.2f must be in [0, 1)", m.Theme.MinCoverage)
	}
	if m.RetryLimit < 1 {
		return fmt.Errorf("retry limit %d must be at least 1", m.RetryLimit)
	}
	if m.Parallelism < 1 {
		return fmt.Errorf("parallelism %d must be at least 1", m.Parallelism)
	}
	if !m.Blocker.Enabled && m.blockerPinned() {
		return errors.New("blocker zone overrides cannot be combined with a disabled blocker zone")
	}
	seen := make(map[string]bool, len(m.Words))
	for _, list := range m.Words {
		if strings.TrimSpace(list.Name) == "" {
			return errors.New("custom word lists need a name")
		}
		key := strings.ToLower(list.Name)
		if seen[key] {
			return fmt.Errorf("duplicate word list %q", list.Name)
		}
		seen[key] = true
	}
	return nil
}

func (m *Model) blockerPinned() bool {
	return m.Blocker.Row != nil || m.Blocker.Col != nil ||
		m.Blocker.Height != nil || m.Blocker.Width != nil
}
