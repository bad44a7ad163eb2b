package theme

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	words []Word
	err   error
	calls int
}

func (s *stubProvider) Words(ctx context.Context, req Request) ([]Word, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.words, nil
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestBucketProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("returns requested limit", func(t *testing.T) {
		buckets := map[string]map[string][]string{
			"natura": {"EASY": {"lup", "brad", "munte"}},
		}
		p := NewBucketProvider(buckets, testRNG())
		words, err := p.Words(ctx, Request{Theme: "natura", Limit: 2, Difficulty: "EASY"})
		require.NoError(t, err)
		require.Len(t, words, 2)
		for _, w := range words {
			assert.Contains(t, []string{"LUP", "BRAD", "MUNTE"}, w.Word)
			assert.Equal(t, "bucket", w.Source)
		}
	})

	t.Run("off tier words back up a thin tier", func(t *testing.T) {
		buckets := map[string]map[string][]string{
			"natura": {"EASY": {"LUP", "BRAD"}},
		}
		p := NewBucketProvider(buckets, testRNG())
		words, err := p.Words(ctx, Request{Theme: "natura", Limit: 2, Difficulty: "HARD"})
		require.NoError(t, err)
		require.Len(t, words, 2)
	})

	t.Run("unknown topic uses the fallback bucket", func(t *testing.T) {
		p := NewBucketProvider(nil, testRNG())
		words, err := p.Words(ctx, Request{Theme: "astronautica", Limit: 5, Difficulty: "EASY"})
		require.NoError(t, err)
		require.Len(t, words, 5)
	})

	t.Run("empty custom bucket flattens the fallback", func(t *testing.T) {
		buckets := map[string]map[string][]string{
			"gol": {"EASY": {}},
		}
		p := NewBucketProvider(buckets, testRNG())
		words, err := p.Words(ctx, Request{Theme: "gol", Difficulty: "EASY"})
		require.NoError(t, err)
		assert.NotEmpty(t, words)
	})

	t.Run("clue names the topic and the word", func(t *testing.T) {
		buckets := map[string]map[string][]string{
			"natura": {"EASY": {"LUP"}},
		}
		p := NewBucketProvider(buckets, testRNG())
		words, err := p.Words(ctx, Request{Theme: "natura", Limit: 1, Difficulty: "EASY"})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "Rezerva natura: lup", words[0].Clue)
	})

	t.Run("blank topic falls back to a generic clue label", func(t *testing.T) {
		p := NewBucketProvider(nil, testRNG())
		words, err := p.Words(ctx, Request{Theme: "", Limit: 1, Difficulty: "EASY"})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Contains(t, words[0].Clue, "Rezerva tema:")
	})

	t.Run("words are uppercased", func(t *testing.T) {
		buckets := map[string]map[string][]string{
			"natura": {"EASY": {"lup"}},
		}
		p := NewBucketProvider(buckets, testRNG())
		words, err := p.Words(ctx, Request{Theme: "natura", Limit: 1, Difficulty: "EASY"})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "LUP", words[0].Word)
	})

	t.Run("same seed same order", func(t *testing.T) {
		req := Request{Theme: "mitologie", Limit: 10, Difficulty: "MEDIUM"}
		first, err := NewBucketProvider(nil, rand.New(rand.NewSource(7))).Words(ctx, req)
		require.NoError(t, err)
		second, err := NewBucketProvider(nil, rand.New(rand.NewSource(7))).Words(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestUserListProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("plain words are uppercased", func(t *testing.T) {
		p := NewUserListProvider([]string{"zeus", "ares"})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		require.Len(t, words, 2)
		assert.Equal(t, "ZEUS", words[0].Word)
		assert.Equal(t, "ARES", words[1].Word)
	})

	t.Run("colon splits word and clue", func(t *testing.T) {
		p := NewUserListProvider([]string{"APOLON:Zeul soarelui"})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "APOLON", words[0].Word)
		assert.Equal(t, "Zeul soarelui", words[0].Clue)
	})

	t.Run("plain word has empty clue", func(t *testing.T) {
		p := NewUserListProvider([]string{"ARES"})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Empty(t, words[0].Clue)
	})

	t.Run("source is always user", func(t *testing.T) {
		p := NewUserListProvider([]string{"ZEUS", "ARES:Zeul razboiului"})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		for _, w := range words {
			assert.Equal(t, "user", w.Source)
		}
	})

	t.Run("blank entries are skipped", func(t *testing.T) {
		p := NewUserListProvider([]string{"ZEUS", "", "   ", "ARES"})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		assert.Len(t, words, 2)
	})

	t.Run("limit is ignored", func(t *testing.T) {
		p := NewUserListProvider([]string{"ZEUS", "ARES", "ATHENA"})
		words, err := p.Words(ctx, Request{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, words, 3)
	})

	t.Run("mixed plain and clue entries", func(t *testing.T) {
		p := NewUserListProvider([]string{"ZEUS:Rege", "ARES", "ATHENA:Intelepciune"})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		require.Len(t, words, 3)
		assert.Equal(t, "Rege", words[0].Clue)
		assert.Empty(t, words[1].Clue)
		assert.Equal(t, "Intelepciune", words[2].Clue)
	})

	t.Run("whitespace trimmed around word and clue", func(t *testing.T) {
		p := NewUserListProvider([]string{" APOLON : Zeul soarelui "})
		words, err := p.Words(ctx, Request{})
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "APOLON", words[0].Word)
		assert.Equal(t, "Zeul soarelui", words[0].Clue)
	})
}

func TestMerge(t *testing.T) {
	ctx := context.Background()
	mythBuckets := map[string]map[string][]string{
		"mitologie": {"EASY": {"HERMES", "HERA", "DIANA", "POSEIDON", "APOLLO"}},
	}
	req := Request{Theme: "mitologie", Difficulty: "EASY"}

	t.Run("user words alone stop at the list", func(t *testing.T) {
		primary := NewUserListProvider([]string{"ZEUS", "ARES"})
		result := Merge(ctx, primary, nil, req, 10)
		require.Len(t, result, 2)
		for _, w := range result {
			assert.Equal(t, "user", w.Source)
		}
	})

	t.Run("user words come first in a hybrid run", func(t *testing.T) {
		primary := NewUserListProvider([]string{"ZEUS", "ARES"})
		fallback := NewBucketProvider(mythBuckets, testRNG())
		result := Merge(ctx, primary, []Provider{fallback}, req, 10)
		require.GreaterOrEqual(t, len(result), 2)
		assert.Equal(t, "user", result[0].Source)
		assert.Equal(t, "user", result[1].Source)
	})

	t.Run("fallback tops up a short user list", func(t *testing.T) {
		primary := NewUserListProvider([]string{"ZEUS"})
		fallback := NewBucketProvider(mythBuckets, testRNG())
		result := Merge(ctx, primary, []Provider{fallback}, req, 4)
		require.Len(t, result, 4)
		var user, bucket int
		for _, w := range result {
			switch w.Source {
			case "user":
				user++
			case "bucket":
				bucket++
			}
		}
		assert.Equal(t, 1, user)
		assert.Equal(t, 3, bucket)
	})

	t.Run("duplicates across sources keep the first provider's entry", func(t *testing.T) {
		primary := NewUserListProvider([]string{"HERMES"})
		fallback := NewBucketProvider(mythBuckets, testRNG())
		result := Merge(ctx, primary, []Provider{fallback}, req, 10)
		seen := make(map[string]int)
		for _, w := range result {
			seen[w.Word]++
		}
		assert.Equal(t, 1, seen["HERMES"])
		for _, w := range result {
			if w.Word == "HERMES" {
				assert.Equal(t, "user", w.Source)
			}
		}
	})

	t.Run("failing primary falls through to the fallback", func(t *testing.T) {
		primary := &stubProvider{err: errors.New("api unavailable")}
		fallback := NewBucketProvider(mythBuckets, testRNG())
		result := Merge(ctx, primary, []Provider{fallback}, req, 3)
		require.Len(t, result, 3)
		for _, w := range result {
			assert.Equal(t, "bucket", w.Source)
		}
	})

	t.Run("nil primary is allowed", func(t *testing.T) {
		fallback := NewBucketProvider(mythBuckets, testRNG())
		result := Merge(ctx, nil, []Provider{fallback}, req, 2)
		assert.Len(t, result, 2)
	})

	t.Run("target caps the merged list", func(t *testing.T) {
		primary := &stubProvider{words: []Word{
			{Word: "UNU", Source: "user"},
			{Word: "DOI", Source: "user"},
			{Word: "TREI", Source: "user"},
		}}
		result := Merge(ctx, primary, nil, req, 2)
		assert.Len(t, result, 2)
	})
}

func TestRenderThemePrompt(t *testing.T) {
	t.Run("base prompt mentions language theme and limit", func(t *testing.T) {
		prompt := renderThemePrompt(Request{Theme: "mitologie", Limit: 40, Language: "Romanian"})
		assert.Contains(t, prompt, "Romanian cryptic crossword")
		assert.Contains(t, prompt, "Theme: 'mitologie'")
		assert.Contains(t, prompt, "no more than 40 entries")
	})

	t.Run("difficulty addendum is appended", func(t *testing.T) {
		prompt := renderThemePrompt(Request{Theme: "istorie", Difficulty: "HARD"})
		assert.Contains(t, prompt, "Target audience: experts")
	})

	t.Run("unknown difficulty falls back to medium", func(t *testing.T) {
		prompt := renderThemePrompt(Request{Theme: "istorie", Difficulty: "EXTREME"})
		assert.Contains(t, prompt, "Target audience: regular solvers")
	})

	t.Run("zero limit defaults to 80", func(t *testing.T) {
		prompt := renderThemePrompt(Request{Theme: "istorie"})
		assert.Contains(t, prompt, "no more than 80 entries")
	})

	t.Run("description extends the prompt", func(t *testing.T) {
		prompt := renderThemePrompt(Request{Theme: "flori", Description: "culori de petale"})
		assert.Contains(t, prompt, "Theme description: 'culori de petale'")
	})
}

func TestParseThemeLines(t *testing.T) {
	t.Run("reads one object per line", func(t *testing.T) {
		text := "{\"word\": \"ZEUS\", \"clue\": \"Rege al zeilor\"}\n" +
			"{\"word\": \"ARES\", \"clue\": \"Zeul razboiului\"},\n"
		words := parseThemeLines(text)
		require.Len(t, words, 2)
		assert.Equal(t, "ZEUS", words[0].Word)
		assert.Equal(t, "Rege al zeilor", words[0].Clue)
		assert.Equal(t, "gemini", words[0].Source)
		assert.Equal(t, "ARES", words[1].Word)
	})

	t.Run("skips garbage and fence lines", func(t *testing.T) {
		text := "```json\n{\"word\": \"ZEUS\", \"clue\": \"Rege\"}\nnot json\n```\n"
		words := parseThemeLines(text)
		require.Len(t, words, 1)
		assert.Equal(t, "ZEUS", words[0].Word)
	})

	t.Run("skips entries missing either field", func(t *testing.T) {
		text := "{\"word\": \"ZEUS\"}\n" +
			"{\"clue\": \"Rege\"}\n" +
			"{\"word\": null, \"clue\": \"Rege\"}\n" +
			"{\"word\": 5, \"clue\": \"Rege\"}\n"
		assert.Empty(t, parseThemeLines(text))
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, parseThemeLines(""))
	})
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	req := Request{Theme: "Flori De Camp", Description: "culori de petale", Difficulty: "EASY", Language: "Romanian"}

	t.Run("save then lookup roundtrip", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		out := Output{
			Words: []Word{
				{Word: "MAC", Clue: "Floare rosie", Source: "gemini"},
				{Word: "GHIOCEL", Clue: "Vestitor de primavara", Source: "gemini"},
			},
			Title:   "Gradina in culori",
			Content: "despre flori",
		}
		require.NoError(t, cache.Save(ctx, req, out))

		got, ok := cache.Lookup(ctx, req, 1)
		require.True(t, ok)
		assert.Equal(t, out.Words, got.Words)
		assert.Equal(t, "Gradina in culori", got.Title)
		assert.Equal(t, "despre flori", got.Content)
	})

	t.Run("different description is a different document", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, cache.Save(ctx, req, Output{Words: []Word{{Word: "MAC"}}}))

		other := req
		other.Description = "alt brief"
		_, ok := cache.Lookup(ctx, other, 1)
		assert.False(t, ok)
		assert.NotEqual(t, cache.CacheID(req), cache.CacheID(other))
	})

	t.Run("too few cached words count as a miss", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, cache.Save(ctx, req, Output{Words: []Word{{Word: "MAC"}, {Word: "NALBA"}}}))

		_, ok := cache.Lookup(ctx, req, 3)
		assert.False(t, ok)
		got, ok := cache.Lookup(ctx, req, 2)
		require.True(t, ok)
		assert.Len(t, got.Words, 2)
	})

	t.Run("save merges and fresh clues win", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, cache.Save(ctx, req, Output{Words: []Word{
			{Word: "MAC", Clue: "vechi", Source: "gemini"},
		}}))
		require.NoError(t, cache.Save(ctx, req, Output{Words: []Word{
			{Word: "MAC", Clue: "proaspat", Source: "gemini"},
			{Word: "NALBA", Clue: "noua", Source: "gemini"},
		}}))

		got, ok := cache.Lookup(ctx, req, 1)
		require.True(t, ok)
		require.Len(t, got.Words, 2)
		assert.Equal(t, "MAC", got.Words[0].Word)
		assert.Equal(t, "proaspat", got.Words[0].Clue)
		assert.Equal(t, "NALBA", got.Words[1].Word)
	})

	t.Run("cache id is a stable slug", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		id := cache.CacheID(req)
		assert.Regexp(t, regexp.MustCompile(`^domain_specific_words_romanian_easy_flori_de_camp_[0-9a-f]{8}$`), id)

		shouty := req
		shouty.Theme = "FLORI   de cÂmp"
		assert.Equal(t, id, cache.CacheID(shouty))
	})

	t.Run("normalization folds diacritics", func(t *testing.T) {
		assert.Equal(t, "stiinta si tehnica", normalizeText("Știința  și tehnică"))
	})
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	req := Request{Theme: "mitologie", Difficulty: "EASY", Language: "Romanian"}

	t.Run("second call is served from the cache", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		inner := &stubProvider{words: []Word{{Word: "ZEUS", Clue: "Rege", Source: "gemini"}}}
		p := &CachedProvider{Inner: inner, Cache: cache}

		first, err := p.Words(ctx, req)
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, 1, inner.calls)

		second, err := p.Words(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("inner errors propagate on a cold cache", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		inner := &stubProvider{err: errors.New("quota exhausted")}
		p := &CachedProvider{Inner: inner, Cache: cache}

		_, err = p.Words(ctx, req)
		assert.ErrorContains(t, err, "quota exhausted")
	})

	t.Run("empty results are not cached", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		inner := &stubProvider{}
		p := &CachedProvider{Inner: inner, Cache: cache}

		words, err := p.Words(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, words)

		_, err = p.Words(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, inner.calls)
	})
}
