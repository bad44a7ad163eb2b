// Package dictionary loads normalized word records and answers
// pattern-constrained candidate queries for the layout engine and the fill
// model builder. A per-length positional index makes lookups proportional to
// the most selective constraint instead of the dictionary size.
package dictionary

import (
	"sort"
)

// Pattern describes the known letters of a slot, one byte per cell.
// A zero byte marks an open position.
type Pattern []byte

// ParsePattern builds a Pattern from a string where '?' marks open positions.
func ParsePattern(s string) Pattern {
	p := make(Pattern, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '?' {
			p[i] = s[i]
		}
	}
	return p
}

// Matches reports whether surface satisfies every fixed position of p.
func (p Pattern) Matches(surface string) bool {
	if len(p) > 0 && len(p) != len(surface) {
		return false
	}
	for i, letter := range p {
		if letter != 0 && surface[i] != letter {
			return false
		}
	}
	return true
}

// FixedCount returns the number of constrained positions.
func (p Pattern) FixedCount() int {
	n := 0
	for _, letter := range p {
		if letter != 0 {
			n++
		}
	}
	return n
}

// Query bundles the constraints of a candidate lookup.
type Query struct {
	Length  int
	Pattern Pattern
	// Banned surfaces are excluded from the result.
	Banned map[string]bool
	// Preferred surfaces get a ranking boost.
	Preferred map[string]bool
	// Limit caps the result size. Zero means the default of 50.
	Limit int
	// FallbackFraction reserves that share of Limit for entries ranked by
	// the medium tier, guaranteeing off-tier backup candidates. Ignored
	// when the index difficulty is already medium.
	FallbackFraction float64
}

const defaultQueryLimit = 50

type posLetter struct {
	pos    int
	letter byte
}

// Index answers candidate queries against the loaded dictionary.
// It is immutable after construction and safe for concurrent readers.
type Index struct {
	cfg Config

	bySurface map[string]*Entry
	byLength  map[int][]*Entry
	// positions maps length -> (position, letter) -> surface set.
	positions        map[int]map[posLetter]map[string]bool
	surfacesByLength map[int]map[string]bool
}

func newIndex(cfg Config) *Index {
	return &Index{
		cfg:              cfg,
		bySurface:        make(map[string]*Entry),
		byLength:         make(map[int][]*Entry),
		positions:        make(map[int]map[posLetter]map[string]bool),
		surfacesByLength: make(map[int]map[string]bool),
	}
}

// add indexes one entry. Callers are responsible for filtering first.
func (x *Index) add(e *Entry) {
	if _, dup := x.bySurface[e.Surface]; dup {
		return
	}
	x.bySurface[e.Surface] = e
	x.byLength[e.Length] = append(x.byLength[e.Length], e)

	lengthIdx := x.positions[e.Length]
	if lengthIdx == nil {
		lengthIdx = make(map[posLetter]map[string]bool)
		x.positions[e.Length] = lengthIdx
	}
	for pos := 0; pos < len(e.Surface); pos++ {
		key := posLetter{pos: pos, letter: e.Surface[pos]}
		set := lengthIdx[key]
		if set == nil {
			set = make(map[string]bool)
			lengthIdx[key] = set
		}
		set[e.Surface] = true
	}

	surfaces := x.surfacesByLength[e.Length]
	if surfaces == nil {
		surfaces = make(map[string]bool)
		x.surfacesByLength[e.Length] = surfaces
	}
	surfaces[e.Surface] = true
}

// Normalize applies the configured normalization to a raw word.
func (x *Index) Normalize(word string) string {
	return x.cfg.normalize()(word)
}

// Difficulty returns the tier the index ranks candidates for.
func (x *Index) Difficulty() Difficulty {
	return x.cfg.Difficulty
}

// Contains reports whether the normalized form of word is a known surface.
func (x *Index) Contains(word string) bool {
	_, ok := x.bySurface[x.Normalize(word)]
	return ok
}

// Get returns the entry for the normalized form of word.
func (x *Index) Get(word string) (*Entry, bool) {
	e, ok := x.bySurface[x.Normalize(word)]
	return e, ok
}

// WordCount returns the number of indexed surfaces.
func (x *Index) WordCount() int {
	return len(x.bySurface)
}

// FindCandidates returns the entries satisfying the query, best ranked first.
// Results are deduplicated by surface and never exceed the query limit.
func (x *Index) FindCandidates(q Query) []*Entry {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	matching := x.lookup(q.Length, q.Pattern)
	if len(matching) == 0 {
		return nil
	}

	entries := make([]*Entry, 0, len(matching))
	for surface := range matching {
		if q.Banned[surface] {
			continue
		}
		if e, ok := x.bySurface[surface]; ok {
			entries = append(entries, e)
		}
	}

	difficulty := x.cfg.Difficulty
	sortByScore(entries, difficulty, q.Preferred)

	if q.FallbackFraction <= 0 || difficulty == DifficultyMedium {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries
	}

	// Split the limit between the primary tier and a medium-tier reserve so
	// the solver always has backup candidates when the primary pool is thin.
	fallbackN := int(float64(limit)*q.FallbackFraction + 0.5)
	if fallbackN < 1 {
		fallbackN = 1
	}
	primaryN := limit - fallbackN
	if primaryN < 0 {
		primaryN = 0
	}
	if primaryN >= len(entries) {
		return entries
	}

	primary := entries[:primaryN]
	secondary := make([]*Entry, len(entries)-primaryN)
	copy(secondary, entries[primaryN:])
	sortByScore(secondary, DifficultyMedium, q.Preferred)
	if len(secondary) > fallbackN {
		secondary = secondary[:fallbackN]
	}

	return append(append(make([]*Entry, 0, len(primary)+len(secondary)), primary...), secondary...)
}

// HasCandidates reports whether at least one non-banned surface matches.
func (x *Index) HasCandidates(length int, pattern Pattern, banned map[string]bool) bool {
	return x.CountCandidates(length, pattern, banned) > 0
}

// CountCandidates returns the number of matching surfaces without
// materializing entries.
func (x *Index) CountCandidates(length int, pattern Pattern, banned map[string]bool) int {
	matching := x.lookup(length, pattern)
	if len(matching) == 0 {
		return 0
	}
	count := 0
	for surface := range matching {
		if !banned[surface] {
			count++
		}
	}
	return count
}

// lookup intersects the positional sets for every fixed pattern position,
// smallest set first, short-circuiting to nil on any empty intersection.
func (x *Index) lookup(length int, pattern Pattern) map[string]bool {
	lengthIdx := x.positions[length]
	if lengthIdx == nil {
		return nil
	}

	var constraints []map[string]bool
	for pos, letter := range pattern {
		if letter == 0 {
			continue
		}
		set := lengthIdx[posLetter{pos: pos, letter: letter}]
		if len(set) == 0 {
			return nil
		}
		constraints = append(constraints, set)
	}

	if len(constraints) == 0 {
		return x.surfacesByLength[length]
	}

	sort.Slice(constraints, func(i, j int) bool {
		return len(constraints[i]) < len(constraints[j])
	})

	result := make(map[string]bool, len(constraints[0]))
	for surface := range constraints[0] {
		result[surface] = true
	}
	for _, set := range constraints[1:] {
		for surface := range result {
			if !set[surface] {
				delete(result, surface)
			}
		}
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

// sortByScore orders entries by descending score with an additional 1.4x
// boost for preferred surfaces. Ties break on the surface itself so results
// are stable across runs.
func sortByScore(entries []*Entry, d Difficulty, preferred map[string]bool) {
	score := func(e *Entry) float64 {
		s := e.Score(d)
		if preferred[e.Surface] {
			s *= 1.4
		}
		return s
	}
	sort.Slice(entries, func(i, j int) bool {
		si, sj := score(entries[i]), score(entries[j])
		if si != sj {
			return si > sj
		}
		return entries[i].Surface < entries[j].Surface
	})
}
