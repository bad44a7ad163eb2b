package grid

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

// Config drives the grid geometry and the decorative blocker zone.
type Config struct {
	// Height and Width are the grid dimensions in cells.
	Height int
	Width  int

	// MinBlockerSize and MaxBlockerSize bound the blocker rectangle edge
	// lengths. Zero values fall back to 3 and 6.
	MinBlockerSize int
	MaxBlockerSize int

	// PlaceBlocker controls whether New carves a blocker zone.
	PlaceBlocker bool

	// BlockerRow, BlockerCol, BlockerHeight and BlockerWidth pin single
	// blocker fields instead of sampling them. The rng sequence is
	// consumed either way, so pinning one field never shifts the others.
	BlockerRow    *int
	BlockerCol    *int
	BlockerHeight *int
	BlockerWidth  *int
}

func (c Config) withDefaults() Config {
	if c.MinBlockerSize == 0 {
		c.MinBlockerSize = 3
	}
	if c.MaxBlockerSize == 0 {
		c.MaxBlockerSize = 6
	}
	return c
}

// Rect is the area covered by the blocker zone.
type Rect struct {
	Top    int
	Left   int
	Height int
	Width  int
}

// Grid is the mutable crossword board. All structural changes go through
// its methods so cell states, slot registrations and clue-box licenses
// stay consistent.
type Grid struct {
	cfg      Config
	cells    [][]Cell
	slots    map[string]*WordSlot
	licenses map[Coord]map[string]bool
	blocker  *Rect
	playable int
	filled   int
}

// New builds an empty grid, plants the fixed clue box in the top-left
// corner, and, when configured, carves a blocker zone using rng. rng may
// be nil if no blocker zone is requested.
func New(ctx context.Context, cfg Config, rng *rand.Rand) (*Grid, error) {
	cfg = cfg.withDefaults()
	if cfg.Height < 4 || cfg.Width < 4 {
		return nil, fmt.Errorf("grid %dx%d is too small", cfg.Height, cfg.Width)
	}
	if cfg.MinBlockerSize > cfg.MaxBlockerSize {
		return nil, fmt.Errorf("blocker size range %d..%d is invalid", cfg.MinBlockerSize, cfg.MaxBlockerSize)
	}

	g := &Grid{
		cfg:      cfg,
		cells:    make([][]Cell, cfg.Height),
		slots:    make(map[string]*WordSlot),
		licenses: make(map[Coord]map[string]bool),
		playable: cfg.Height * cfg.Width,
	}
	for r := range g.cells {
		g.cells[r] = make([]Cell, cfg.Width)
	}

	if err := g.AddClueBox(0, 0); err != nil {
		return nil, fmt.Errorf("placing initial clue box: %w", err)
	}
	if cfg.PlaceBlocker {
		g.placeBlockerZone(ctx, rng)
	}
	return g, nil
}

// Height returns the number of rows.
func (g *Grid) Height() int { return g.cfg.Height }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.cfg.Width }

// InBounds reports whether the position lies on the board.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.cfg.Height && c >= 0 && c < g.cfg.Width
}

// CellAt returns the live cell at the position. Callers must not mutate
// it; all changes go through Grid methods.
func (g *Grid) CellAt(r, c int) *Cell {
	return &g.cells[r][c]
}

// CellsCopy returns a deep copy of the cell matrix.
func (g *Grid) CellsCopy() [][]Cell {
	out := make([][]Cell, len(g.cells))
	for r, row := range g.cells {
		out[r] = make([]Cell, len(row))
		for c, cell := range row {
			cp := cell
			cp.SlotIDs = append([]string(nil), cell.SlotIDs...)
			cp.Clues = append([]Clue(nil), cell.Clues...)
			out[r][c] = cp
		}
	}
	return out
}

// Neighbors returns the in-bounds orthogonal neighbors of the position.
func (g *Grid) Neighbors(r, c int) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range orthogonalSteps {
		nr, nc := r+d.Row, c+d.Col
		if g.InBounds(nr, nc) {
			out = append(out, Coord{Row: nr, Col: nc})
		}
	}
	return out
}

var orthogonalSteps = []Coord{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// PlayableCount returns the number of cells that can carry letters.
func (g *Grid) PlayableCount() int { return g.playable }

// FilledCount returns the number of cells currently carrying a letter.
func (g *Grid) FilledCount() int { return g.filled }

// FillRatio returns filled cells over playable cells.
func (g *Grid) FillRatio() float64 {
	if g.playable == 0 {
		return 0
	}
	return float64(g.filled) / float64(g.playable)
}

// BlockerZone returns the blocker rectangle if one was placed.
func (g *Grid) BlockerZone() (Rect, bool) {
	if g.blocker == nil {
		return Rect{}, false
	}
	return *g.blocker, true
}

// Slot returns the registered slot with the given ID.
func (g *Grid) Slot(id string) (*WordSlot, bool) {
	s, ok := g.slots[id]
	return s, ok
}

// Slots returns all registered slots ordered by ID.
func (g *Grid) Slots() []*WordSlot {
	out := make([]*WordSlot, 0, len(g.slots))
	for _, s := range g.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ClueBoxes returns the positions of all clue boxes in row-major order.
func (g *Grid) ClueBoxes() []Coord {
	out := make([]Coord, 0, len(g.licenses))
	for pos := range g.licenses {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Licenses returns the IDs of the slots licensed by the clue box, sorted.
func (g *Grid) Licenses(pos Coord) []string {
	set := g.licenses[pos]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LicenseCount returns how many slots the clue box licenses.
func (g *Grid) LicenseCount(pos Coord) int {
	return len(g.licenses[pos])
}

// CanPlaceClueBox reports whether the cell may become a clue box: it must
// stay clear of the bottom-right 2x2 corner, must not touch another clue
// box orthogonally, and must not cut any neighboring empty cell off from
// the playable area.
func (g *Grid) CanPlaceClueBox(row, col int) bool {
	if row >= g.cfg.Height-2 && col >= g.cfg.Width-2 {
		return false
	}
	for _, d := range orthogonalSteps {
		nr, nc := row+d.Row, col+d.Col
		if !g.InBounds(nr, nc) {
			continue
		}
		if g.cells[nr][nc].Kind == ClueBox {
			return false
		}
	}
	for _, d := range orthogonalSteps {
		nr, nc := row+d.Row, col+d.Col
		if !g.InBounds(nr, nc) {
			continue
		}
		if g.cells[nr][nc].Kind != Empty {
			continue
		}
		hasPlayable := false
		for _, d2 := range orthogonalSteps {
			ar, ac := nr+d2.Row, nc+d2.Col
			if ar == row && ac == col {
				continue
			}
			if !g.InBounds(ar, ac) {
				continue
			}
			if g.cells[ar][ac].Kind.Playable() {
				hasPlayable = true
				break
			}
		}
		if !hasPlayable {
			return false
		}
	}
	return true
}

// AddClueBox converts the cell into a clue box with an empty license set.
func (g *Grid) AddClueBox(row, col int) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("clue box at (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	cell := &g.cells[row][col]
	if cell.Kind == Blocker {
		return fmt.Errorf("clue box at (%d,%d) overlaps blocker zone: %w", row, col, ErrCluePlacement)
	}
	if !g.CanPlaceClueBox(row, col) {
		return fmt.Errorf("clue box at (%d,%d) violates adjacency rules: %w", row, col, ErrCluePlacement)
	}
	g.convertCell(row, col, ClueBox)
	g.licenses[Coord{Row: row, Col: col}] = make(map[string]bool)
	return nil
}

// convertCell rewrites the cell to a non-playable kind and keeps the
// counters in step.
func (g *Grid) convertCell(row, col int, kind CellKind) {
	cell := &g.cells[row][col]
	if cell.Kind.Playable() {
		g.playable--
	}
	if cell.Kind == Letter {
		g.filled--
	}
	cell.Kind = kind
	cell.Letter = 0
	cell.SlotIDs = nil
	cell.Clues = nil
	delete(g.licenses, Coord{Row: row, Col: col})
}

// EnsureClueBox finds or creates a clue box licensing a slot starting at
// the given cell. Existing boxes at the licensing offsets win, least
// loaded first; otherwise the first offset that can legally host a new
// box is converted. ErrNoLicense is returned when neither works.
func (g *Grid) EnsureClueBox(start Coord, dir Direction) (Coord, error) {
	offsets := dir.ClueOffsets()

	type candidate struct {
		licenses int
		pos      Coord
	}
	var existing []candidate
	for _, off := range offsets {
		nr, nc := start.Row+off.Row, start.Col+off.Col
		if !g.InBounds(nr, nc) {
			continue
		}
		if g.cells[nr][nc].Kind == ClueBox {
			pos := Coord{Row: nr, Col: nc}
			existing = append(existing, candidate{licenses: len(g.licenses[pos]), pos: pos})
		}
	}
	if len(existing) > 0 {
		sort.SliceStable(existing, func(i, j int) bool { return existing[i].licenses < existing[j].licenses })
		return existing[0].pos, nil
	}

	for _, off := range offsets {
		nr, nc := start.Row+off.Row, start.Col+off.Col
		if !g.InBounds(nr, nc) {
			continue
		}
		if kind := g.cells[nr][nc].Kind; kind == Letter || kind == Blocker {
			continue
		}
		if err := g.AddClueBox(nr, nc); err == nil {
			return Coord{Row: nr, Col: nc}, nil
		}
	}
	return Coord{}, fmt.Errorf("slot start %s %s: %w", start, dir, ErrNoLicense)
}

// StartHasClueCapacity reports whether a slot starting at the cell could
// be licensed, either by an existing box or by converting an empty cell
// at one of the licensing offsets.
func (g *Grid) StartHasClueCapacity(start Coord, dir Direction) bool {
	for _, off := range dir.ClueOffsets() {
		nr, nc := start.Row+off.Row, start.Col+off.Col
		if !g.InBounds(nr, nc) {
			continue
		}
		switch g.cells[nr][nc].Kind {
		case ClueBox:
			return true
		case Empty:
			if g.CanPlaceClueBox(nr, nc) {
				return true
			}
		}
	}
	return false
}

// HasCapacityForStart reports whether a run of at least two playable
// cells begins at the position in the given direction.
func (g *Grid) HasCapacityForStart(start Coord, dir Direction) bool {
	if !g.InBounds(start.Row, start.Col) {
		return false
	}
	if !g.cells[start.Row][start.Col].Kind.Playable() {
		return false
	}
	dr, dc := dir.Delta()
	length := 0
	r, c := start.Row, start.Col
	for g.InBounds(r, c) && g.cells[r][c].Kind.Playable() {
		length++
		if length >= 2 {
			return true
		}
		r += dr
		c += dc
	}
	return false
}

// ReassignSlotClueBox moves a slot's license to another clue box and
// carries any hosted clue records along, recomputing their arrows.
func (g *Grid) ReassignSlotClueBox(slotID string, to Coord) error {
	slot, ok := g.slots[slotID]
	if !ok {
		return fmt.Errorf("unknown slot %q", slotID)
	}
	if !g.InBounds(to.Row, to.Col) || g.cells[to.Row][to.Col].Kind != ClueBox {
		return fmt.Errorf("slot %q cannot move to %s: %w", slotID, to, ErrCluePlacement)
	}
	from := slot.ClueBox
	if set := g.licenses[from]; set != nil {
		delete(set, slotID)
	}
	if g.licenses[to] == nil {
		g.licenses[to] = make(map[string]bool)
	}
	g.licenses[to][slotID] = true
	slot.ClueBox = to

	fromCell := &g.cells[from.Row][from.Col]
	toCell := &g.cells[to.Row][to.Col]
	kept := fromCell.Clues[:0]
	for _, clue := range fromCell.Clues {
		if clue.SlotID != slotID {
			kept = append(kept, clue)
			continue
		}
		clue.StartOffset = Coord{Row: slot.Start.Row - to.Row, Col: slot.Start.Col - to.Col}
		toCell.Clues = append(toCell.Clues, clue)
	}
	fromCell.Clues = kept
	return nil
}

// AttachClue hosts a clue record on the clue box cell.
func (g *Grid) AttachClue(box Coord, clue Clue) error {
	if !g.InBounds(box.Row, box.Col) || g.cells[box.Row][box.Col].Kind != ClueBox {
		return fmt.Errorf("cell %s is not a clue box: %w", box, ErrCluePlacement)
	}
	g.cells[box.Row][box.Col].Clues = append(g.cells[box.Row][box.Col].Clues, clue)
	return nil
}

// ClearClues removes every hosted clue record, keeping boxes and licenses.
func (g *Grid) ClearClues() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].Clues = nil
		}
	}
}

// placeBlockerZone carves a random rectangle in a corner or near the
// center. When the zone is anchored at the origin it swallows the initial
// clue box, so replacement boxes are planted at the top-left of the
// remaining playable strips.
func (g *Grid) placeBlockerZone(ctx context.Context, rng *rand.Rand) {
	if g.blocker != nil || rng == nil {
		return
	}
	log := ctxlog.FromContext(ctx)

	maxH := minInt(g.cfg.MaxBlockerSize, maxInt(3, g.cfg.Height/2))
	maxW := minInt(g.cfg.MaxBlockerSize, maxInt(3, g.cfg.Width/2))
	height := randRange(rng, g.cfg.MinBlockerSize, maxH)
	width := randRange(rng, g.cfg.MinBlockerSize, maxW)
	if g.cfg.BlockerHeight != nil {
		height = *g.cfg.BlockerHeight
	}
	if g.cfg.BlockerWidth != nil {
		width = *g.cfg.BlockerWidth
	}

	anchors := []Coord{
		{0, 0},
		{0, g.cfg.Width - width},
		{g.cfg.Height - height, 0},
		{g.cfg.Height - height, g.cfg.Width - width},
		{(g.cfg.Height - height) / 2, (g.cfg.Width - width) / 2},
	}
	anchor := anchors[rng.Intn(len(anchors))]
	if g.cfg.BlockerRow != nil {
		anchor.Row = *g.cfg.BlockerRow
	}
	if g.cfg.BlockerCol != nil {
		anchor.Col = *g.cfg.BlockerCol
	}
	log.Debug("Placing blocker zone.", "row", anchor.Row, "col", anchor.Col, "height", height, "width", width)

	for r := anchor.Row; r < minInt(anchor.Row+height, g.cfg.Height); r++ {
		for c := anchor.Col; c < minInt(anchor.Col+width, g.cfg.Width); c++ {
			g.convertCell(r, c, Blocker)
		}
	}
	g.blocker = &Rect{Top: anchor.Row, Left: anchor.Col, Height: height, Width: width}

	if anchor.Row == 0 && anchor.Col == 0 {
		if width < g.cfg.Width {
			g.safeAddClueBox(ctx, 0, width)
		}
		if height < g.cfg.Height {
			g.safeAddClueBox(ctx, height, 0)
		}
	}
}

func (g *Grid) safeAddClueBox(ctx context.Context, row, col int) {
	if err := g.AddClueBox(row, col); err != nil {
		ctxlog.FromContext(ctx).Warn("Could not plant auto clue box.", "row", row, "col", col, "error", err)
	}
}

// randRange returns a uniform value in [lo, hi]. hi below lo collapses to lo.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
