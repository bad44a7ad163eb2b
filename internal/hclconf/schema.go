package hclconf

import (
	"github.com/hashicorp/hcl/v2"
)

// profileFile is the top-level shape of a profile. Unknown attributes
// and blocks are decoding errors, so typos surface at load time.
type profileFile struct {
	Seed        int64  `hcl:"seed,optional"`
	RetryLimit  int    `hcl:"retry_limit,optional"`
	Parallelism int    `hcl:"parallelism,optional"`
	OutputDir   string `hcl:"output_dir,optional"`

	Grid       *gridBlock       `hcl:"grid,block"`
	Blocker    *blockerBlock    `hcl:"blocker,block"`
	Dictionary *dictionaryBlock `hcl:"dictionary,block"`
	Theme      *themeBlock      `hcl:"theme,block"`
	Fill       *fillBlock       `hcl:"fill,block"`
	Words      []*wordsBlock    `hcl:"words,block"`
}

type gridBlock struct {
	Height           int     `hcl:"height"`
	Width            int     `hcl:"width"`
	CompletionTarget float64 `hcl:"completion_target,optional"`
}

type blockerBlock struct {
	Enabled *bool `hcl:"enabled,optional"`
	Row     *int  `hcl:"row,optional"`
	Col     *int  `hcl:"col,optional"`
	Height  *int  `hcl:"height,optional"`
	Width   *int  `hcl:"width,optional"`
	MinSize int   `hcl:"min_size,optional"`
	MaxSize int   `hcl:"max_size,optional"`
}

type dictionaryBlock struct {
	Path                string  `hcl:"path,optional"`
	MinLength           int     `hcl:"min_length,optional"`
	MaxLength           int     `hcl:"max_length,optional"`
	MinFrequency        float64 `hcl:"min_frequency,optional"`
	MaxEntriesPerLength int     `hcl:"max_entries_per_length,optional"`
	UseCache            *bool   `hcl:"use_cache,optional"`
}

type themeBlock struct {
	Title       string   `hcl:"title"`
	Description string   `hcl:"description,optional"`
	Difficulty  string   `hcl:"difficulty,optional"`
	Language    string   `hcl:"language,optional"`
	MinCoverage float64  `hcl:"min_coverage,optional"`
	MaxRatio    float64  `hcl:"max_ratio,optional"`
	RequestSize int      `hcl:"request_size,optional"`
	CacheDir    string   `hcl:"cache_dir,optional"`
	Model       string   `hcl:"model,optional"`
	CustomWords []string `hcl:"custom_words,optional"`
}

type fillBlock struct {
	TimeoutSeconds   int     `hcl:"timeout_seconds,optional"`
	MaxCandidates    int     `hcl:"max_candidates,optional"`
	FallbackFraction float64 `hcl:"fallback_fraction,optional"`
	PreferTheme      *bool   `hcl:"prefer_theme,optional"`
}

// wordsBlock keeps its body raw: the attributes are difficulty tiers,
// decoded by hand so their names can be validated.
type wordsBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}
