package theme

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

// DefaultCacheDir is where theme documents land unless overridden.
const DefaultCacheDir = "local_db/collections/llm_theme_cache"

const cacheKind = "domain_specific_words"

// Cache persists LLM theme outputs as JSON documents so the same request is
// never sent to the model twice.
//
// The document name is derived from the request: kind, language, difficulty,
// a slug of the theme title and an 8-character hash of the description, so
// two briefs for the same title land in separate documents. Lookup is a
// single read of the expected filename.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed. An empty dir selects
// DefaultCacheDir.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		dir = DefaultCacheDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create theme cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

type cachedWord struct {
	Word   string `json:"word"`
	Clue   string `json:"clue"`
	Source string `json:"source"`
}

type cachedDocument struct {
	ThemeTitle string       `json:"theme_title"`
	ThemeType  string       `json:"theme_type"`
	Difficulty string       `json:"difficulty"`
	Language   string       `json:"language"`
	CreatedAt  string       `json:"created_at"`
	UpdatedAt  string       `json:"updated_at"`
	Words      []cachedWord `json:"words"`
	Title      string       `json:"crossword_title,omitempty"`
	Content    string       `json:"content,omitempty"`
}

// Lookup returns the cached output for the request, or ok=false on a miss.
// Documents holding fewer than minWords entries count as misses so a thin
// earlier run does not starve a larger grid.
func (c *Cache) Lookup(ctx context.Context, req Request, minWords int) (*Output, bool) {
	log := ctxlog.FromContext(ctx)
	path := c.path(req)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("Theme cache miss.", "file", filepath.Base(path))
		return nil, false
	}
	var doc cachedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn("Theme cache read error.", "file", filepath.Base(path), "error", err)
		return nil, false
	}
	words := make([]Word, 0, len(doc.Words))
	for _, w := range doc.Words {
		source := w.Source
		if source == "" {
			source = "gemini"
		}
		words = append(words, Word{Word: w.Word, Clue: w.Clue, Source: source})
	}
	if len(words) < minWords {
		log.Debug("Theme cache hit but too few words.",
			"file", filepath.Base(path),
			"have", len(words),
			"want", minWords,
		)
		return nil, false
	}
	log.Info("Theme cache hit.", "file", filepath.Base(path), "words", len(words))
	return &Output{Words: words, Title: doc.Title, Content: doc.Content}, true
}

// Save persists the output under the request's document. An existing
// document is merged word by word with the fresh clue text winning, so
// repeated runs accumulate vocabulary instead of clobbering it.
func (c *Cache) Save(ctx context.Context, req Request, out Output) error {
	log := ctxlog.FromContext(ctx)
	path := c.path(req)
	now := time.Now().UTC().Format(time.RFC3339)

	if data, err := os.ReadFile(path); err == nil {
		var doc cachedDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Warn("Theme cache update failed, recreating.",
				"file", filepath.Base(path),
				"error", err,
			)
		} else {
			fresh := make(map[string]Word, len(out.Words))
			for _, w := range out.Words {
				fresh[strings.ToUpper(w.Word)] = w
			}
			merged := make([]cachedWord, 0, len(doc.Words)+len(out.Words))
			for _, existing := range doc.Words {
				key := strings.ToUpper(existing.Word)
				if w, ok := fresh[key]; ok {
					merged = append(merged, cachedWord{Word: w.Word, Clue: w.Clue, Source: w.Source})
					delete(fresh, key)
					continue
				}
				merged = append(merged, existing)
			}
			for _, w := range out.Words {
				key := strings.ToUpper(w.Word)
				if fw, pending := fresh[key]; pending {
					merged = append(merged, cachedWord{Word: fw.Word, Clue: fw.Clue, Source: fw.Source})
					delete(fresh, key)
				}
			}
			doc.Words = merged
			doc.UpdatedAt = now
			if out.Title != "" {
				doc.Title = out.Title
			}
			if out.Content != "" {
				doc.Content = out.Content
			}
			if err := c.write(path, doc); err != nil {
				return err
			}
			log.Info("Theme cache updated.", "file", filepath.Base(path), "words", len(doc.Words))
			return nil
		}
	}

	doc := cachedDocument{
		ThemeTitle: req.Theme,
		ThemeType:  cacheKind,
		Difficulty: req.Difficulty,
		Language:   req.Language,
		CreatedAt:  now,
		UpdatedAt:  now,
		Title:      out.Title,
		Content:    out.Content,
	}
	for _, w := range out.Words {
		doc.Words = append(doc.Words, cachedWord{Word: w.Word, Clue: w.Clue, Source: w.Source})
	}
	if err := c.write(path, doc); err != nil {
		return err
	}
	log.Info("Theme cache created.", "file", filepath.Base(path))
	return nil
}

// CacheID returns the document ID (the filename stem) for the request, used
// as a stable reference by puzzle stores.
func (c *Cache) CacheID(req Request) string {
	name := filepath.Base(c.path(req))
	return strings.TrimSuffix(name, ".json")
}

func (c *Cache) write(path string, doc cachedDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode theme cache document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write theme cache document: %w", err)
	}
	return nil
}

func (c *Cache) path(req Request) string {
	slug := slugify(normalizeText(req.Theme))
	sum := md5.Sum([]byte(normalizeText(req.Description)))
	hash := hex.EncodeToString(sum[:])[:8]
	name := fmt.Sprintf("%s_%s_%s_%s_%s.json",
		cacheKind,
		strings.ToLower(req.Language),
		strings.ToLower(req.Difficulty),
		slug,
		hash,
	)
	return filepath.Join(c.dir, name)
}

var (
	nonAlnumRun   = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)

	cacheDiacritics = strings.NewReplacer(
		"ă", "a", "â", "a", "î", "i",
		"ș", "s", "ş", "s", "ț", "t", "ţ", "t",
	)
)

func slugify(s string) string {
	return strings.Trim(nonAlnumRun.ReplaceAllString(s, "_"), "_")
}

// normalizeText lowercases, folds Romanian diacritics and collapses
// whitespace so cosmetic differences between briefs share a document.
func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = cacheDiacritics.Replace(s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// CachedProvider serves cached words when present and delegates to the
// wrapped provider on a miss, persisting fresh results for the next run.
type CachedProvider struct {
	Inner Provider
	Cache *Cache
}

// Words consults the cache before the wrapped provider. Save failures are
// logged rather than returned; the words are already in hand.
func (p *CachedProvider) Words(ctx context.Context, req Request) ([]Word, error) {
	if out, ok := p.Cache.Lookup(ctx, req, 1); ok {
		return out.Words, nil
	}
	words, err := p.Inner.Words(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(words) > 0 {
		if err := p.Cache.Save(ctx, req, Output{Words: words}); err != nil {
			ctxlog.FromContext(ctx).Warn("Theme cache save failed.", "error", err)
		}
	}
	return words, nil
}
