package hclconf

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/crossgridgo/internal/config"
	"github.com/vk/crossgridgo/internal/testutil"
)

func intp(v int) *int { return &v }

const minimalProfile = `
grid {
  height = 8
  width  = 8
}

theme {
  title = "natura"
}
`

func TestLoad(t *testing.T) {
	t.Run("applies every profile value", func(t *testing.T) {
		path := testutil.WriteProfile(t, t.TempDir(), `
seed        = 42
retry_limit = 5
parallelism = 2
output_dir  = "out/puzzles"

grid {
  height            = 10
  width             = 12
  completion_target = 0.9
}

blocker {
  enabled  = true
  row      = 2
  col      = 3
  height   = 4
  width    = 5
  min_size = 3
  max_size = 6
}

dictionary {
  path                   = "words.tsv"
  min_length             = 3
  max_length             = 12
  min_frequency          = 0.2
  max_entries_per_length = 500
  use_cache              = false
}

theme {
  title        = "mitologie"
  description  = "Zei si legende"
  difficulty   = "hard"
  language     = "Romanian"
  min_coverage = 0.15
  max_ratio    = 0.35
  request_size = 60
  cache_dir    = "cache/themes"
  model        = "gemini-2.5-flash"
  custom_words = ["ZEUS", "HERA"]
}

fill {
  timeout_seconds   = 120
  max_candidates    = 4000
  fallback_fraction = 0.25
  prefer_theme      = false
}

words "fauna" {
  easy   = ["LUP", "ARC"]
  medium = ["CERBUL"]
  hard   = ["RINOCER"]
}
`)
		model, err := NewLoader().Load(context.Background(), path)
		require.NoError(t, err)

		expected := config.Default()
		expected.Seed = 42
		expected.RetryLimit = 5
		expected.Parallelism = 2
		expected.OutputDir = "out/puzzles"
		expected.Grid = config.Grid{Height: 10, Width: 12, CompletionTarget: 0.9}
		expected.Blocker = config.Blocker{
			Enabled: true,
			Row:     intp(2),
			Col:     intp(3),
			Height:  intp(4),
			Width:   intp(5),
			MinSize: 3,
			MaxSize: 6,
		}
		expected.Dictionary = config.Dictionary{
			Path:                "words.tsv",
			MinLength:           3,
			MaxLength:           12,
			MinFrequency:        0.2,
			MaxEntriesPerLength: 500,
			UseCache:            false,
		}
		expected.Theme = config.Theme{
			Title:       "mitologie",
			Description: "Zei si legende",
			Difficulty:  "hard",
			Language:    "Romanian",
			MinCoverage: 0.15,
			MaxRatio:    0.35,
			RequestSize: 60,
			CacheDir:    "cache/themes",
			Model:       "gemini-2.5-flash",
			CustomWords: []string{"ZEUS", "HERA"},
		}
		expected.Fill = config.Fill{
			TimeoutSeconds:   120,
			MaxCandidates:    4000,
			FallbackFraction: 0.25,
			PreferTheme:      false,
		}
		expected.Words = []config.WordList{{
			Name: "fauna",
			Tiers: map[string][]string{
				"EASY":   {"LUP", "ARC"},
				"MEDIUM": {"CERBUL"},
				"HARD":   {"RINOCER"},
			},
		}}
		assert.Equal(t, expected, model)
	})

	t.Run("preserves defaults for omitted values", func(t *testing.T) {
		model, err := NewLoader().Load(context.Background(), testutil.WriteProfile(t, t.TempDir(), minimalProfile))
		require.NoError(t, err)

		expected := config.Default()
		expected.Grid.Height = 8
		expected.Grid.Width = 8
		expected.Theme.Title = "natura"
		assert.Equal(t, expected, model)
	})

	t.Run("normalizes word list tiers", func(t *testing.T) {
		path := testutil.WriteProfile(t, t.TempDir(), minimalProfile+`
words "fauna" {
  easy   = ["LUP"]
  Medium = ["CERBUL"]
}

words "flora" {
  HARD = ["ORHIDEE"]
}
`)
		model, err := NewLoader().Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, []config.WordList{
			{Name: "fauna", Tiers: map[string][]string{
				"EASY":   {"LUP"},
				"MEDIUM": {"CERBUL"},
			}},
			{Name: "flora", Tiers: map[string][]string{
				"HARD": {"ORHIDEE"},
			}},
		}, model.Words)
	})
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed syntax",
			body: "grid {",
			want: "parsing profile",
		},
		{
			name: "unknown attribute",
			body: minimalProfile + "\nbogus = 1\n",
			want: "decoding profile",
		},
		{
			name: "unknown word list tier",
			body: minimalProfile + `
words "fauna" {
  impossible = ["LUP"]
}
`,
			want: `unknown tier "impossible"`,
		},
		{
			name: "tier holding a bare string",
			body: minimalProfile + `
words "fauna" {
  easy = "LUP"
}
`,
			want: "expected a list of strings",
		},
		{
			name: "tier holding numbers",
			body: minimalProfile + `
words "fauna" {
  easy = [1, 2]
}
`,
			want: "expected a list of strings",
		},
		{
			name: "pinned but disabled blocker",
			body: minimalProfile + `
blocker {
  enabled = false
  row     = 2
}
`,
			want: "cannot be combined with a disabled blocker zone",
		},
		{
			name: "grid below the minimum",
			body: `
grid {
  height = 3
  width  = 8
}

theme {
  title = "natura"
}
`,
			want: "invalid profile",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model, err := NewLoader().Load(context.Background(), testutil.WriteProfile(t, t.TempDir(), tc.body))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
			assert.Nil(t, model)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		model, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "parsing profile")
		assert.Nil(t, model)
	})
}
