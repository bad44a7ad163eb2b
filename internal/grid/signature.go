package grid

import "fmt"

// IsBoundary reports whether a run starts at the position: the preceding
// cell in the direction is off the board, a clue box, or a blocker.
func (g *Grid) IsBoundary(row, col int, dir Direction) bool {
	dr, dc := dir.Delta()
	pr, pc := row-dr, col-dc
	if !g.InBounds(pr, pc) {
		return true
	}
	kind := g.cells[pr][pc].Kind
	return kind == ClueBox || kind == Blocker
}

// Signature builds the maximal playable run through the given cell in
// the given direction. Runs shorter than two cells report ok false.
func (g *Grid) Signature(row, col int, dir Direction) (SlotSignature, bool) {
	if !g.InBounds(row, col) || !g.cells[row][col].Kind.Playable() {
		return SlotSignature{}, false
	}
	dr, dc := dir.Delta()

	r, c := row, col
	for {
		pr, pc := r-dr, c-dc
		if !g.InBounds(pr, pc) || !g.cells[pr][pc].Kind.Playable() {
			break
		}
		r, c = pr, pc
	}

	var cells []Coord
	rr, cc := r, c
	for g.InBounds(rr, cc) && g.cells[rr][cc].Kind.Playable() {
		cells = append(cells, Coord{Row: rr, Col: cc})
		rr += dr
		cc += dc
	}
	if len(cells) < 2 {
		return SlotSignature{}, false
	}
	return SlotSignature{Start: Coord{Row: r, Col: c}, Dir: dir, Length: len(cells), Cells: cells}, true
}

// Pattern returns the letters along the run, with zero bytes for cells
// that are still empty.
func (g *Grid) Pattern(sig SlotSignature) []byte {
	out := make([]byte, len(sig.Cells))
	for i, pos := range sig.Cells {
		out[i] = g.cells[pos.Row][pos.Col].Letter
	}
	return out
}

// AllSignatures enumerates every maximal run of length two or more, in
// row-major order with across before down at each start cell.
func (g *Grid) AllSignatures() []SlotSignature {
	var out []SlotSignature
	for r := 0; r < g.cfg.Height; r++ {
		for c := 0; c < g.cfg.Width; c++ {
			if !g.cells[r][c].Kind.Playable() {
				continue
			}
			for _, dir := range Directions() {
				if !g.IsBoundary(r, c, dir) {
					continue
				}
				if sig, ok := g.Signature(r, c, dir); ok {
					out = append(out, sig)
				}
			}
		}
	}
	return out
}

// FindClueBoxForStart returns the first licensing offset that holds a
// clue box for a slot starting at the cell.
func (g *Grid) FindClueBoxForStart(start Coord, dir Direction) (Coord, error) {
	for _, off := range dir.ClueOffsets() {
		nr, nc := start.Row+off.Row, start.Col+off.Col
		if g.InBounds(nr, nc) && g.cells[nr][nc].Kind == ClueBox {
			return Coord{Row: nr, Col: nc}, nil
		}
	}
	return Coord{}, fmt.Errorf("slot at %s %s has no licensing clue box: %w", start, dir, ErrNoLicense)
}

