package grid

import "fmt"

// Coord addresses a single cell by row and column.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Direction is the reading direction of a word slot.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Delta returns the per-cell step for the direction.
func (d Direction) Delta() (dr, dc int) {
	if d == Across {
		return 0, 1
	}
	return 1, 0
}

// ClueOffsets lists the cell offsets, relative to a slot's first letter,
// that may host the slot's clue box. Order matters: earlier offsets are
// preferred when a new box has to be created.
func (d Direction) ClueOffsets() []Coord {
	if d == Across {
		return []Coord{{0, -1}, {-1, 0}, {1, 0}}
	}
	return []Coord{{-1, 0}, {0, -1}, {0, 1}}
}

// Directions lists both reading directions in canonical order.
func Directions() []Direction {
	return []Direction{Across, Down}
}

// CellKind is the state of a cell in the grid state machine.
type CellKind uint8

const (
	// Empty is a playable cell with no letter yet.
	Empty CellKind = iota
	// Letter is a playable cell carrying a committed letter.
	Letter
	// ClueBox is a non-playable cell hosting clue text for adjacent slots.
	ClueBox
	// Blocker is a non-playable cell inside the decorative blocker zone.
	Blocker
)

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Letter:
		return "letter"
	case ClueBox:
		return "clue_box"
	case Blocker:
		return "blocker"
	default:
		return fmt.Sprintf("cell_kind(%d)", uint8(k))
	}
}

// Playable reports whether the kind can ever carry a letter.
func (k CellKind) Playable() bool {
	return k == Empty || k == Letter
}

// Clue is one clue hosted by a clue-box cell. StartOffset points from the
// box to the first letter of the clued slot, for rendering the arrow.
type Clue struct {
	ID          string
	SlotID      string
	Text        string
	Length      int
	Dir         Direction
	StartOffset Coord
}

// Cell is a single grid square. Kind and the remaining fields are kept
// consistent by the Grid methods: Letter cells carry a non-zero Letter
// byte and at least one owning slot ID, every other kind carries neither.
type Cell struct {
	Kind    CellKind
	Letter  byte
	SlotIDs []string
	Clues   []Clue
}

// IsEmpty reports whether the cell is playable and unfilled.
func (c *Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// IsPlayable reports whether the cell is part of the playable area.
func (c *Cell) IsPlayable() bool {
	return c.Kind.Playable()
}

func (c *Cell) hasSlot(id string) bool {
	for _, s := range c.SlotIDs {
		if s == id {
			return true
		}
	}
	return false
}

func (c *Cell) addSlot(id string) {
	if !c.hasSlot(id) {
		c.SlotIDs = append(c.SlotIDs, id)
	}
}

func (c *Cell) removeSlot(id string) {
	for i, s := range c.SlotIDs {
		if s == id {
			c.SlotIDs = append(c.SlotIDs[:i], c.SlotIDs[i+1:]...)
			return
		}
	}
}
