package grid

import "fmt"

// WordSlot is a registered word placement: a run of cells owned by one
// word, tied to the clue box that licenses it.
type WordSlot struct {
	ID      string
	Start   Coord
	Dir     Direction
	Length  int
	ClueBox Coord
	Text    string
	Theme   bool

	cells []Coord
}

// NewWordSlot builds a slot record. The cell list is derived on demand.
func NewWordSlot(id string, start Coord, dir Direction, length int, clueBox Coord) *WordSlot {
	return &WordSlot{ID: id, Start: start, Dir: dir, Length: length, ClueBox: clueBox}
}

// Cells returns the coordinates covered by the slot, start first. The
// slice is cached after the first call and must not be mutated.
func (s *WordSlot) Cells() []Coord {
	if s.cells == nil {
		dr, dc := s.Dir.Delta()
		s.cells = make([]Coord, s.Length)
		for i := range s.cells {
			s.cells[i] = Coord{Row: s.Start.Row + i*dr, Col: s.Start.Col + i*dc}
		}
	}
	return s.cells
}

// End returns the last cell of the slot.
func (s *WordSlot) End() Coord {
	dr, dc := s.Dir.Delta()
	return Coord{Row: s.Start.Row + (s.Length-1)*dr, Col: s.Start.Col + (s.Length-1)*dc}
}

// ArrowOffset returns the clue box position relative to the slot start,
// used when rendering the clue arrow.
func (s *WordSlot) ArrowOffset() Coord {
	return Coord{Row: s.Start.Row - s.ClueBox.Row, Col: s.Start.Col - s.ClueBox.Col}
}

// SlotSignature describes a maximal playable run: where it starts, which
// way it reads, and which cells it spans. Signatures are recomputed from
// cell states, never stored, so they are always current.
type SlotSignature struct {
	Start  Coord
	Dir    Direction
	Length int
	Cells  []Coord
}

// Key is the canonical identity of the run, stable across recomputation.
func (s SlotSignature) Key() string {
	return fmt.Sprintf("%d:%d:%s:%d", s.Start.Row, s.Start.Col, s.Dir, s.Length)
}

// Start marks a position where a follow-on word may begin, typically the
// cell just after a freshly planted terminal clue box.
type Start struct {
	Pos Coord
	Dir Direction
}
