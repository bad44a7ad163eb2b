package fill

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/crossgridgo/internal/ctxlog"
	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/grid"
)

var (
	// ErrNoCandidates means a slot has no surface that fits its pattern.
	ErrNoCandidates = errors.New("slot has no fill candidates")

	// ErrMediumSlotBudget means more slots than allowed had to fall back
	// past the difficulty ceiling.
	ErrMediumSlotBudget = errors.New("too many slots need off-tier candidates")

	// ErrNoSolution means the model admits no consistent assignment.
	ErrNoSolution = errors.New("no assignment satisfies the constraints")
)

// BuildOptions tunes candidate selection during model construction.
type BuildOptions struct {
	// MaxCandidates caps the pool per slot. Zero means 8000.
	MaxCandidates int

	// FallbackFraction is passed through to the dictionary query to
	// reserve part of each pool for off-tier backups.
	FallbackFraction float64

	// Preferred surfaces get a ranking boost in every slot's pool.
	Preferred map[string]bool

	// MaxDifficultyScore, when set, drops candidates at or above the
	// ceiling as long as a slot keeps at least one easier option.
	MaxDifficultyScore *float64

	// MediumSlotLimit bounds how many slots may keep their unfiltered
	// pool after the ceiling left them empty. Nil forbids any.
	MediumSlotLimit *int
}

const defaultMaxCandidates = 8000

// Slot is one variable of the model: an unfilled run and the surfaces it
// may take, ranked best first.
type Slot struct {
	Sig        grid.SlotSignature
	Key        string
	Candidates []string
}

// Model is the solver input: slot variables plus the shared state they
// are constrained by.
type Model struct {
	Slots []*Slot

	// fixed holds letters already committed on the board.
	fixed map[grid.Coord]byte

	// banned holds surfaces that are already placed and must not be
	// assigned again.
	banned map[string]bool
}

// FixedLetter returns the pre-committed letter at the position, if any.
func (m *Model) FixedLetter(pos grid.Coord) (byte, bool) {
	b, ok := m.fixed[pos]
	return b, ok
}

// Banned reports whether the surface is excluded from every slot.
func (m *Model) Banned(surface string) bool {
	return m.banned[surface]
}

// BuildModel assembles the constraint model for the given unfilled runs.
// Slots of length three and up draw ranked candidates from the index;
// two letter slots enumerate every letter pair matching their pattern.
// A slot with an empty pool makes the whole layout unfillable.
func BuildModel(ctx context.Context, g *grid.Grid, sigs []grid.SlotSignature, dict *dictionary.Index, used map[string]bool, opts BuildOptions) (*Model, error) {
	log := ctxlog.FromContext(ctx)
	if opts.MaxCandidates == 0 {
		opts.MaxCandidates = defaultMaxCandidates
	}

	m := &Model{
		fixed:  make(map[grid.Coord]byte),
		banned: make(map[string]bool, len(used)),
	}
	for w := range used {
		m.banned[w] = true
	}

	mediumSlots := 0
	for _, sig := range sigs {
		pattern := g.Pattern(sig)
		for i, pos := range sig.Cells {
			if pattern[i] != 0 {
				m.fixed[pos] = pattern[i]
			}
		}

		var surfaces []string
		if sig.Length >= 3 {
			entries := dict.FindCandidates(dictionary.Query{
				Length:           sig.Length,
				Pattern:          dictionary.Pattern(pattern),
				Banned:           used,
				Preferred:        opts.Preferred,
				Limit:            opts.MaxCandidates,
				FallbackFraction: opts.FallbackFraction,
			})
			if opts.MaxDifficultyScore != nil {
				easy := entries[:0:0]
				for _, e := range entries {
					if e.DifficultyScore < *opts.MaxDifficultyScore {
						easy = append(easy, e)
					}
				}
				if len(easy) > 0 {
					entries = easy
				} else {
					mediumSlots++
					if opts.MediumSlotLimit == nil || mediumSlots > *opts.MediumSlotLimit {
						return nil, fmt.Errorf("slot %s: %w", sig.Key(), ErrMediumSlotBudget)
					}
					log.Debug("Slot keeps its unfiltered pool past the difficulty ceiling.",
						"slot", sig.Key(), "mediumSlots", mediumSlots)
				}
			}
			surfaces = make([]string, len(entries))
			for i, e := range entries {
				surfaces[i] = e.Surface
			}
		} else {
			surfaces = twoLetterCandidates(pattern)
		}

		if len(surfaces) == 0 {
			log.Debug("No candidates for slot.", "slot", sig.Key())
			return nil, fmt.Errorf("slot %s: %w", sig.Key(), ErrNoCandidates)
		}
		m.Slots = append(m.Slots, &Slot{Sig: sig, Key: sig.Key(), Candidates: surfaces})
	}
	return m, nil
}

// twoLetterCandidates expands a length-two pattern into every matching
// uppercase pair.
func twoLetterCandidates(pattern []byte) []string {
	if len(pattern) != 2 {
		return nil
	}
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	first := letters
	if pattern[0] != 0 {
		first = string(pattern[0])
	}
	second := letters
	if pattern[1] != 0 {
		second = string(pattern[1])
	}
	out := make([]string, 0, len(first)*len(second))
	for _, a := range []byte(first) {
		for _, b := range []byte(second) {
			out = append(out, string([]byte{a, b}))
		}
	}
	return out
}
