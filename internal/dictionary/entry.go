package dictionary

import (
	"fmt"
	"math"
	"strings"
)

// Difficulty selects which band of the continuous difficulty score the
// generator should favor when ranking candidates.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// ParseDifficulty converts a configuration string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "", "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyMedium, fmt.Errorf("unknown difficulty %q: must be 'easy', 'medium', or 'hard'", s)
}

// String implements fmt.Stringer.
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "medium"
	}
}

// tierCenter is the point on the [0,1] difficulty-score axis a tier is
// anchored to when computing affinity.
func (d Difficulty) tierCenter() float64 {
	switch d {
	case DifficultyEasy:
		return 0.15
	case DifficultyHard:
		return 0.80
	default:
		return 0.45
	}
}

// Entry is one sanitized dictionary word. Immutable after load.
type Entry struct {
	// Surface is the normalized uppercase ASCII form.
	Surface string
	// Length is len(Surface), cached for index grouping.
	Length int
	// Lemma and Definition come from the highest-frequency raw form.
	Lemma      string
	Definition string
	// Frequency is the corpus frequency in [0,1].
	Frequency float64
	// DifficultyScore is the precomputed difficulty attribute in [0,1].
	DifficultyScore float64
	Compound        bool
	Stopword        bool
}

// Score ranks the entry for the given difficulty tier. Compound words and
// stopwords are penalized; affinity rewards entries near the tier center.
// The direction term keeps off-tier words ordered the right way: easy
// prefers low difficulty scores, hard prefers high ones.
func (e *Entry) Score(d Difficulty) float64 {
	base := e.Frequency
	if e.Compound {
		base -= 0.15
	}
	if e.Stopword {
		base -= 0.3
	}

	distance := math.Abs(e.DifficultyScore - d.tierCenter())
	affinity := math.Max(0, 1.0-distance*3.5)

	var direction float64
	switch d {
	case DifficultyEasy:
		direction = 1.0 - e.DifficultyScore
	case DifficultyHard:
		direction = e.DifficultyScore
	default:
		direction = 0.5
	}

	return math.Max(0, base*0.15+affinity*0.55+direction*0.30)
}
