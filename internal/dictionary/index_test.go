package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T, cfg Config, words ...Entry) *Index {
	t.Helper()
	idx := FromEntries(cfg, words)
	require.NotNil(t, idx)
	return idx
}

func surfaces(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Surface)
	}
	return out
}

func TestNormalizeRomanian(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"șarpe", "SARPE"},
		{"Mămăligă", "MAMALIGA"},
		{"în- țară!", "INTARA"},
		{"CERB", "CERB"},
		{"café", "CAF"},
		{"123", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeRomanian(tc.in), "input %q", tc.in)
	}
}

func TestEntryScore(t *testing.T) {
	easyWord := Entry{Surface: "CASA", Frequency: 0.9, DifficultyScore: 0.1}
	hardWord := Entry{Surface: "XENON", Frequency: 0.2, DifficultyScore: 0.85}

	t.Run("easy tier prefers easy words", func(t *testing.T) {
		assert.Greater(t, easyWord.Score(DifficultyEasy), hardWord.Score(DifficultyEasy))
	})

	t.Run("hard tier prefers hard words", func(t *testing.T) {
		assert.Greater(t, hardWord.Score(DifficultyHard), easyWord.Score(DifficultyHard))
	})

	t.Run("penalties lower the score", func(t *testing.T) {
		plain := Entry{Surface: "LUP", Frequency: 0.5, DifficultyScore: 0.45}
		compound := plain
		compound.Compound = true
		stop := plain
		stop.Stopword = true

		assert.Greater(t, plain.Score(DifficultyMedium), compound.Score(DifficultyMedium))
		assert.Greater(t, compound.Score(DifficultyMedium), stop.Score(DifficultyMedium))
	})

	t.Run("never negative", func(t *testing.T) {
		junk := Entry{Surface: "SI", Frequency: 0.0, DifficultyScore: 0.0, Stopword: true}
		assert.GreaterOrEqual(t, junk.Score(DifficultyHard), 0.0)
	})
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("Easy")
	require.NoError(t, err)
	assert.Equal(t, DifficultyEasy, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, d)

	_, err = ParseDifficulty("brutal")
	assert.ErrorContains(t, err, "unknown difficulty")
}

func TestFindCandidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludeStopwords = false
	idx := testIndex(t, cfg,
		Entry{Surface: "CERB", Frequency: 0.8, DifficultyScore: 0.4},
		Entry{Surface: "CORB", Frequency: 0.6, DifficultyScore: 0.4},
		Entry{Surface: "CARP", Frequency: 0.4, DifficultyScore: 0.4},
		Entry{Surface: "LUP", Frequency: 0.9, DifficultyScore: 0.3},
	)

	t.Run("unconstrained returns the whole length bucket", func(t *testing.T) {
		got := idx.FindCandidates(Query{Length: 4})
		assert.ElementsMatch(t, []string{"CERB", "CORB", "CARP"}, surfaces(got))
	})

	t.Run("pattern intersection", func(t *testing.T) {
		pattern := Pattern{'C', 0, 'R', 0}
		got := idx.FindCandidates(Query{Length: 4, Pattern: pattern})
		assert.ElementsMatch(t, []string{"CERB", "CORB"}, surfaces(got))

		for _, e := range got {
			assert.True(t, pattern.Matches(e.Surface))
		}
	})

	t.Run("result is a subset of the unconstrained query", func(t *testing.T) {
		all := surfaces(idx.FindCandidates(Query{Length: 4}))
		constrained := surfaces(idx.FindCandidates(Query{Length: 4, Pattern: ParsePattern("C?R?")}))
		assert.Subset(t, all, constrained)
	})

	t.Run("no match on impossible pattern", func(t *testing.T) {
		got := idx.FindCandidates(Query{Length: 4, Pattern: Pattern{'Z', 0, 0, 0}})
		assert.Empty(t, got)
	})

	t.Run("unknown length", func(t *testing.T) {
		assert.Empty(t, idx.FindCandidates(Query{Length: 9}))
	})

	t.Run("banned words are excluded", func(t *testing.T) {
		got := idx.FindCandidates(Query{Length: 4, Banned: map[string]bool{"CERB": true}})
		assert.ElementsMatch(t, []string{"CORB", "CARP"}, surfaces(got))
	})

	t.Run("ranking is frequency ordered at equal difficulty", func(t *testing.T) {
		got := idx.FindCandidates(Query{Length: 4})
		assert.Equal(t, []string{"CERB", "CORB", "CARP"}, surfaces(got))
	})

	t.Run("preferred boost reorders", func(t *testing.T) {
		got := idx.FindCandidates(Query{Length: 4, Preferred: map[string]bool{"CARP": true}})
		assert.Equal(t, "CARP", got[0].Surface)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		got := idx.FindCandidates(Query{Length: 4, Limit: 2})
		assert.Len(t, got, 2)
	})
}

func TestFindCandidatesTwoLetterPattern(t *testing.T) {
	cfg := DefaultConfig()
	idx := testIndex(t, cfg,
		Entry{Surface: "AB", Frequency: 0.5},
		Entry{Surface: "BA", Frequency: 0.5},
	)

	got := idx.FindCandidates(Query{Length: 2, Pattern: Pattern{'A', 0}})
	assert.Equal(t, []string{"AB"}, surfaces(got))
}

func TestFindCandidatesFallbackFraction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Difficulty = DifficultyHard
	idx := testIndex(t, cfg,
		Entry{Surface: "AAAA", Frequency: 0.5, DifficultyScore: 0.85},
		Entry{Surface: "BBBB", Frequency: 0.5, DifficultyScore: 0.82},
		Entry{Surface: "CCCC", Frequency: 0.5, DifficultyScore: 0.80},
		Entry{Surface: "DDDD", Frequency: 0.5, DifficultyScore: 0.45},
		Entry{Surface: "EEEE", Frequency: 0.5, DifficultyScore: 0.44},
	)

	got := idx.FindCandidates(Query{Length: 4, Limit: 4, FallbackFraction: 0.25})
	require.Len(t, got, 4)

	// Three hard-tier picks, then one medium-tier backup.
	assert.Equal(t, []string{"CCCC", "BBBB", "AAAA"}, surfaces(got[:3]))
	assert.Equal(t, "DDDD", got[3].Surface)
}

func TestHasAndCountCandidates(t *testing.T) {
	idx := testIndex(t, DefaultConfig(),
		Entry{Surface: "CERB", Frequency: 0.8},
		Entry{Surface: "CORB", Frequency: 0.6},
	)

	assert.True(t, idx.HasCandidates(4, nil, nil))
	assert.False(t, idx.HasCandidates(5, nil, nil))
	assert.Equal(t, 2, idx.CountCandidates(4, nil, nil))
	assert.Equal(t, 1, idx.CountCandidates(4, ParsePattern("CE??"), nil))
	assert.Equal(t, 0, idx.CountCandidates(4, ParsePattern("ZZ??"), nil))

	banned := map[string]bool{"CERB": true, "CORB": true}
	assert.False(t, idx.HasCandidates(4, nil, banned))
	assert.Equal(t, 0, idx.CountCandidates(4, nil, banned))
}

func TestContainsAndGet(t *testing.T) {
	idx := testIndex(t, DefaultConfig(),
		Entry{Surface: "șarpe", Frequency: 0.7, Definition: "reptilă"},
	)

	assert.True(t, idx.Contains("SARPE"))
	assert.True(t, idx.Contains("șarpe"), "lookup normalizes input")
	assert.False(t, idx.Contains("CERB"))

	e, ok := idx.Get("Sarpe")
	require.True(t, ok)
	assert.Equal(t, "SARPE", e.Surface)
	assert.Equal(t, 5, e.Length)
	assert.Equal(t, "reptilă", e.Definition)
}

func TestPattern(t *testing.T) {
	p := ParsePattern("C??B")
	assert.Equal(t, Pattern{'C', 0, 0, 'B'}, p)
	assert.Equal(t, 2, p.FixedCount())
	assert.True(t, p.Matches("CERB"))
	assert.True(t, p.Matches("CORB"))
	assert.False(t, p.Matches("CERC"))
	assert.False(t, p.Matches("CE"))
	assert.True(t, Pattern(nil).Matches("ANYTHING"))
}
