package fill

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/crossgridgo/internal/grid"
)

// Assignment maps a slot signature key to the surface chosen for it.
type Assignment map[string]string

// Solver produces a consistent assignment for a model, or an error when
// none exists within the context deadline.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Assignment, error)
}

// Backtracker is the built-in solver: depth-first search over slots in
// most-constrained-first order, propagating crossing letters and
// rejecting duplicate surfaces. Candidate order is preserved, so the
// search is deterministic for a given model.
type Backtracker struct {
	// CheckEvery is the number of search nodes between context checks.
	// Zero means 256.
	CheckEvery int
}

func (b *Backtracker) Solve(ctx context.Context, m *Model) (Assignment, error) {
	checkEvery := b.CheckEvery
	if checkEvery == 0 {
		checkEvery = 256
	}

	order := make([]*Slot, len(m.Slots))
	copy(order, m.Slots)
	sort.SliceStable(order, func(i, j int) bool {
		if len(order[i].Candidates) != len(order[j].Candidates) {
			return len(order[i].Candidates) < len(order[j].Candidates)
		}
		return order[i].Key < order[j].Key
	})

	s := &search{
		model:      m,
		order:      order,
		letters:    make(map[grid.Coord]byte, len(m.fixed)),
		chosen:     make(map[string]bool),
		assignment: make(Assignment, len(order)),
		checkEvery: checkEvery,
	}
	for pos, l := range m.fixed {
		s.letters[pos] = l
	}

	ok, err := s.fill(ctx, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSolution
	}
	return s.assignment, nil
}

type search struct {
	model      *Model
	order      []*Slot
	letters    map[grid.Coord]byte
	chosen     map[string]bool
	assignment Assignment
	nodes      int
	checkEvery int
}

func (s *search) fill(ctx context.Context, depth int) (bool, error) {
	if depth == len(s.order) {
		return true, nil
	}
	slot := s.order[depth]

	for _, word := range slot.Candidates {
		s.nodes++
		if s.nodes%s.checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return false, fmt.Errorf("fill search aborted: %w", err)
			}
		}
		if s.chosen[word] || s.model.banned[word] {
			continue
		}
		touched, ok := s.tryWord(slot, word)
		if !ok {
			continue
		}
		s.chosen[word] = true
		s.assignment[slot.Key] = word

		solved, err := s.fill(ctx, depth+1)
		if err != nil {
			return false, err
		}
		if solved {
			return true, nil
		}

		delete(s.assignment, slot.Key)
		delete(s.chosen, word)
		for _, pos := range touched {
			delete(s.letters, pos)
		}
	}
	return false, nil
}

// tryWord writes the word into the shared letter state if it fits,
// returning the cells it newly fixed.
func (s *search) tryWord(slot *Slot, word string) ([]grid.Coord, bool) {
	for i, pos := range slot.Sig.Cells {
		if l, ok := s.letters[pos]; ok && l != word[i] {
			return nil, false
		}
	}
	var touched []grid.Coord
	for i, pos := range slot.Sig.Cells {
		if _, ok := s.letters[pos]; !ok {
			s.letters[pos] = word[i]
			touched = append(touched, pos)
		}
	}
	return touched, true
}
