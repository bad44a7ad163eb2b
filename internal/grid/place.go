package grid

import (
	"fmt"
	"strings"
)

// PlaceWord commits a word into the slot's cells and registers the slot.
// The placement is all or nothing: every cell is checked before any cell
// changes, so a failed call leaves the grid untouched.
func (g *Grid) PlaceWord(slot *WordSlot, text string) error {
	text = strings.ToUpper(text)
	if err := g.checkPlacement(slot, text); err != nil {
		return err
	}
	g.commitWord(slot, text)
	return nil
}

// PlaceWordUndo places a word like PlaceWord and returns a closure that
// reverses the placement. Cells shared with other slots keep their
// letters; cells owned only by this word revert to their prior state.
func (g *Grid) PlaceWordUndo(slot *WordSlot, text string) (func(), error) {
	text = strings.ToUpper(text)
	if err := g.checkPlacement(slot, text); err != nil {
		return nil, err
	}

	type cellState struct {
		kind   CellKind
		letter byte
	}
	cells := slot.Cells()
	prior := make([]cellState, len(cells))
	for i, pos := range cells {
		cell := &g.cells[pos.Row][pos.Col]
		prior[i] = cellState{kind: cell.Kind, letter: cell.Letter}
	}
	priorText := slot.Text

	g.commitWord(slot, text)

	undo := func() {
		for i, pos := range cells {
			cell := &g.cells[pos.Row][pos.Col]
			cell.removeSlot(slot.ID)
			if len(cell.SlotIDs) > 0 {
				continue
			}
			if cell.Kind == Letter && prior[i].kind == Empty {
				g.filled--
			}
			cell.Kind = prior[i].kind
			cell.Letter = prior[i].letter
		}
		if set := g.licenses[slot.ClueBox]; set != nil {
			delete(set, slot.ID)
		}
		delete(g.slots, slot.ID)
		slot.Text = priorText
	}
	return undo, nil
}

func (g *Grid) checkPlacement(slot *WordSlot, text string) error {
	if len(text) != slot.Length {
		return fmt.Errorf("word %q in slot %s of length %d: %w", text, slot.ID, slot.Length, ErrLengthMismatch)
	}
	for i, pos := range slot.Cells() {
		if !g.InBounds(pos.Row, pos.Col) {
			return fmt.Errorf("slot %s cell %s: %w", slot.ID, pos, ErrOutOfBounds)
		}
		cell := &g.cells[pos.Row][pos.Col]
		if cell.Kind == ClueBox || cell.Kind == Blocker {
			return fmt.Errorf("slot %s cell %s: %w", slot.ID, pos, ErrBlockedCell)
		}
		if cell.Letter != 0 && cell.Letter != text[i] {
			return fmt.Errorf("slot %s cell %s holds %q, want %q: %w",
				slot.ID, pos, string(cell.Letter), string(text[i]), ErrLetterConflict)
		}
	}
	return nil
}

func (g *Grid) commitWord(slot *WordSlot, text string) {
	for i, pos := range slot.Cells() {
		cell := &g.cells[pos.Row][pos.Col]
		if cell.Kind == Empty {
			g.filled++
		}
		cell.Kind = Letter
		cell.Letter = text[i]
		cell.addSlot(slot.ID)
	}
	slot.Text = text
	g.slots[slot.ID] = slot
	if g.licenses[slot.ClueBox] == nil {
		g.licenses[slot.ClueBox] = make(map[string]bool)
	}
	g.licenses[slot.ClueBox][slot.ID] = true
}

// EnsureTerminalBoundary seals the cell just past the slot's last letter.
// Edges and blocker cells already terminate the run. An empty cell is
// converted into a clue box, but only when the cells beyond it can still
// host a word; otherwise the placement is rejected rather than stranding
// a dead stub. When the cell after the new box is empty it is returned as
// a suggested start for a follow-on word.
func (g *Grid) EnsureTerminalBoundary(slot *WordSlot) (*Start, error) {
	dr, dc := slot.Dir.Delta()
	end := slot.End()
	next := Coord{Row: end.Row + dr, Col: end.Col + dc}
	if !g.InBounds(next.Row, next.Col) {
		return nil, nil
	}
	nextCell := &g.cells[next.Row][next.Col]
	if nextCell.Kind == Blocker {
		return nil, nil
	}
	if nextCell.Kind == Letter {
		return nil, fmt.Errorf("slot %s terminal cell %s already carries a letter: %w", slot.ID, next, ErrLetterConflict)
	}

	followOn := Coord{Row: next.Row + dr, Col: next.Col + dc}
	if !g.HasCapacityForStart(followOn, slot.Dir) {
		if nextCell.Kind != ClueBox {
			return nil, fmt.Errorf("slot %s at %s: %w", slot.ID, next, ErrStrandedCells)
		}
		return nil, nil
	}

	if nextCell.Kind != ClueBox {
		if err := g.AddClueBox(next.Row, next.Col); err != nil {
			return nil, err
		}
	}
	if g.InBounds(followOn.Row, followOn.Col) && g.cells[followOn.Row][followOn.Col].Kind == Empty {
		return &Start{Pos: followOn, Dir: slot.Dir}, nil
	}
	return nil, nil
}
