package dictionary

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

// record is the aggregated representation of one cleaned surface before it
// becomes an Entry. Raw inflected forms are kept only for the cache file.
type record struct {
	surface         string
	lemma           string
	definition      string
	frequency       float64
	difficultyScore float64
	compound        bool
	stopword        bool
	rawForms        map[string]bool
}

// processedHeader is the column layout of the processed cache TSV.
var processedHeader = []string{
	"surface", "length", "lemma", "definition",
	"frequency", "difficulty_score", "is_compound", "is_stopword", "raw_forms",
}

// Load builds an Index from the configured TSV source. When the processed
// cache exists it is read instead of the raw export; otherwise the raw rows
// are aggregated and the cache is written for the next run.
func Load(ctx context.Context, cfg Config) (*Index, error) {
	logger := ctxlog.FromContext(ctx)
	cfg = cfg.withDefaults()

	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("missing dictionary TSV %s: %w", cfg.Path, err)
	}

	var (
		records []*record
		err     error
	)
	cachePath := cfg.resolveCachePath()
	if cachePath != "" {
		if _, statErr := os.Stat(cachePath); statErr == nil {
			logger.Debug("Loading processed dictionary cache.", "path", cachePath)
			records, err = loadProcessedTSV(cachePath)
			if err != nil {
				return nil, fmt.Errorf("loading processed dictionary: %w", err)
			}
		}
	}
	if records == nil {
		logger.Debug("Preprocessing raw dictionary.", "path", cfg.Path)
		records, err = preprocessTSV(cfg.Path, cfg.normalize())
		if err != nil {
			return nil, fmt.Errorf("preprocessing dictionary: %w", err)
		}
		if cachePath != "" {
			if err := writeProcessedTSV(records, cachePath); err != nil {
				return nil, fmt.Errorf("writing processed dictionary cache: %w", err)
			}
			logger.Debug("Wrote processed dictionary cache.", "path", cachePath, "records", len(records))
		}
	}

	index := hydrate(cfg, records)
	logger.Info("Dictionary loaded.", "words", index.WordCount(), "difficulty", cfg.Difficulty.String())
	return index, nil
}

// FromEntries builds an in-memory Index, normalizing surfaces and applying
// the same filters as Load. Intended for tests and embedded word lists.
func FromEntries(cfg Config, entries []Entry) *Index {
	cfg = cfg.withDefaults()
	normalize := cfg.normalize()

	records := make([]*record, 0, len(entries))
	for _, e := range entries {
		surface := normalize(e.Surface)
		if surface == "" {
			continue
		}
		records = append(records, &record{
			surface:         surface,
			lemma:           e.Lemma,
			definition:      e.Definition,
			frequency:       e.Frequency,
			difficultyScore: e.DifficultyScore,
			compound:        e.Compound,
			stopword:        e.Stopword,
		})
	}
	return hydrate(cfg, records)
}

// hydrate filters records, applies the per-length cap, and builds the index.
func hydrate(cfg Config, records []*record) *Index {
	kept := make(map[int][]*Entry)
	for _, r := range records {
		length := len(r.surface)
		if length < cfg.MinLength || length > cfg.MaxLength {
			continue
		}
		if r.frequency < cfg.MinFrequency {
			continue
		}
		if cfg.ExcludeStopwords && r.stopword {
			continue
		}
		if r.compound && !cfg.AllowCompounds {
			continue
		}
		kept[length] = append(kept[length], &Entry{
			Surface:         r.surface,
			Length:          length,
			Lemma:           r.lemma,
			Definition:      r.definition,
			Frequency:       r.frequency,
			DifficultyScore: r.difficultyScore,
			Compound:        r.compound,
			Stopword:        r.stopword,
		})
	}

	index := newIndex(cfg)
	lengths := make([]int, 0, len(kept))
	for length := range kept {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)

	for _, length := range lengths {
		entries := kept[length]
		if cfg.MaxEntriesPerLength > 0 && len(entries) > cfg.MaxEntriesPerLength {
			sortByScore(entries, cfg.Difficulty, nil)
			entries = entries[:cfg.MaxEntriesPerLength]
		}
		for _, e := range entries {
			index.add(e)
		}
	}
	return index
}

// resolveCachePath returns the processed cache location, or "" when caching
// is disabled.
func (c Config) resolveCachePath() string {
	if !c.UseCache {
		return ""
	}
	if c.CachePath != "" {
		return c.CachePath
	}
	ext := filepath.Ext(c.Path)
	stem := strings.TrimSuffix(c.Path, ext)
	return stem + "_processed" + ext
}

// preprocessTSV reads the raw export and collapses all inflected forms into
// one record per cleaned surface, keeping the metadata of the
// highest-frequency form and OR-ing the flags.
func preprocessTSV(path string, normalize NormalizeFunc) ([]*record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, header, err := readTSV(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	aggregated := make(map[string]*record)
	for _, row := range rows {
		rawEntry := strings.TrimSpace(header.field(row, "entry_word"))
		surface := normalize(rawEntry)
		if surface == "" {
			continue
		}

		lemma := strings.TrimSpace(header.field(row, "lemma"))
		definition := strings.TrimSpace(header.field(row, "definition"))
		frequency := parseFloat(header.field(row, "lexeme_frequency"))
		difficultyScore := parseFloat(header.field(row, "difficulty_score"))
		compound := parseBool(header.field(row, "is_compound"))
		stopword := parseBool(header.field(row, "is_stopword"))

		r := aggregated[surface]
		if r == nil {
			r = &record{
				surface:         surface,
				lemma:           lemma,
				definition:      definition,
				frequency:       frequency,
				difficultyScore: difficultyScore,
				compound:        compound,
				stopword:        stopword,
				rawForms:        make(map[string]bool),
			}
			aggregated[surface] = r
		}
		if rawEntry != "" {
			r.rawForms[rawEntry] = true
		}
		r.compound = r.compound || compound
		r.stopword = r.stopword || stopword
		if frequency > r.frequency {
			r.frequency = frequency
			r.lemma = lemma
			r.definition = definition
			r.difficultyScore = difficultyScore
		}
	}

	records := make([]*record, 0, len(aggregated))
	for _, r := range aggregated {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].surface < records[j].surface
	})
	return records, nil
}

// loadProcessedTSV reads records back from the processed cache.
func loadProcessedTSV(path string) ([]*record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, header, err := readTSV(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records := make([]*record, 0, len(rows))
	for _, row := range rows {
		surface := strings.ToUpper(strings.TrimSpace(header.field(row, "surface")))
		if surface == "" {
			continue
		}
		rawForms := make(map[string]bool)
		for _, form := range strings.Split(header.field(row, "raw_forms"), "|") {
			if form != "" {
				rawForms[form] = true
			}
		}
		records = append(records, &record{
			surface:         surface,
			lemma:           strings.TrimSpace(header.field(row, "lemma")),
			definition:      strings.TrimSpace(header.field(row, "definition")),
			frequency:       parseFloat(header.field(row, "frequency")),
			difficultyScore: parseFloat(header.field(row, "difficulty_score")),
			compound:        parseBool(header.field(row, "is_compound")),
			stopword:        parseBool(header.field(row, "is_stopword")),
			rawForms:        rawForms,
		})
	}
	return records, nil
}

// writeProcessedTSV persists aggregated records for fast reloads.
func writeProcessedTSV(records []*record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = '\t'
	if err := w.Write(processedHeader); err != nil {
		return err
	}
	for _, r := range records {
		forms := make([]string, 0, len(r.rawForms))
		for form := range r.rawForms {
			forms = append(forms, form)
		}
		sort.Strings(forms)
		row := []string{
			r.surface,
			strconv.Itoa(len(r.surface)),
			r.lemma,
			r.definition,
			strconv.FormatFloat(r.frequency, 'f', 6, 64),
			strconv.FormatFloat(r.difficultyScore, 'f', 6, 64),
			boolField(r.compound),
			boolField(r.stopword),
			strings.Join(forms, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// tsvHeader maps column names to their index in each row.
type tsvHeader map[string]int

func (h tsvHeader) field(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readTSV(r io.Reader) ([][]string, tsvHeader, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty TSV input")
	}
	header := make(tsvHeader, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	return rows[1:], header, nil
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
