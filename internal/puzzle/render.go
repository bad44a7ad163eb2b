package puzzle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/crossgridgo/internal/grid"
)

// RenderGrid draws the grid as aligned text with row and column indices.
// Clue boxes print as #, blocker cells as X, unfilled cells as dots.
func RenderGrid(g *grid.Grid) string {
	width := g.Width()
	header := make([]string, width)
	for c := 0; c < width; c++ {
		header[c] = fmt.Sprintf("%2d", c)
	}
	lines := []string{
		"    " + strings.Join(header, " "),
		"    " + strings.Repeat("-", 3*width-1),
	}
	for r := 0; r < g.Height(); r++ {
		symbols := make([]string, width)
		for c := 0; c < width; c++ {
			symbols[c] = fmt.Sprintf("%2s", cellSymbol(g.CellAt(r, c)))
		}
		lines = append(lines, fmt.Sprintf("%2d | %s", r, strings.Join(symbols, " ")))
	}
	return strings.Join(lines, "\n")
}

func cellSymbol(cell *grid.Cell) string {
	switch cell.Kind {
	case grid.Letter:
		if cell.Letter == 0 {
			return "?"
		}
		return string(cell.Letter)
	case grid.ClueBox:
		return "#"
	case grid.Blocker:
		return "X"
	default:
		return "."
	}
}

// RenderStats writes the document's stats sections as human-readable
// text for the CLI.
func RenderStats(doc *Document) string {
	var b strings.Builder

	gs := doc.Stats.Grid
	fmt.Fprintf(&b, "--- Grid ---\n")
	fmt.Fprintf(&b, "  Size:          %d x %d (%d cells)\n", gs.Rows, gs.Cols, gs.TotalCells)
	if gs.TotalCells > 0 {
		fmt.Fprintf(&b, "  Letters:       %d (%.0f%%)\n", gs.LetterCells, float64(gs.LetterCells)/float64(gs.TotalCells)*100)
	}
	fmt.Fprintf(&b, "  Clue boxes:    %d\n", gs.ClueBoxes)
	fmt.Fprintf(&b, "  Blocker zone:  %d\n", gs.BlockerCells)
	if gs.UnfilledCells > 0 {
		fmt.Fprintf(&b, "  Unfilled:      %d\n", gs.UnfilledCells)
	}

	ws := doc.Stats.Words
	fmt.Fprintf(&b, "\n--- Words ---\n")
	fmt.Fprintf(&b, "  Total slots:   %d (%d words >= 3 letters, %d short)\n",
		ws.TotalSlots, ws.Words3Plus, ws.TotalSlots-ws.Words3Plus)
	fmt.Fprintf(&b, "  Theme words:   %d\n", ws.ThemeWords)
	fmt.Fprintf(&b, "  Fill words:    %d\n", ws.FillWords)
	if ws.Words3Plus > 0 {
		fmt.Fprintf(&b, "  Length range:  %d-%d (avg %.1f)\n", ws.LengthMin, ws.LengthMax, ws.LengthAvg)
		fmt.Fprintf(&b, "  Distribution:  %s\n", formatDistribution(ws.LengthDistribution))
	}

	if ds := doc.Stats.Difficulty; ds != nil {
		fmt.Fprintf(&b, "\n--- Difficulty (fill words only) ---\n")
		fmt.Fprintf(&b, "  Avg difficulty score:  %.3f\n", ds.AvgScore)
		fmt.Fprintf(&b, "  Avg frequency:         %.3f\n", ds.AvgFrequency)
		fmt.Fprintf(&b, "  Easy  words (<0.3):    %3d (%5.1f%%)\n", ds.EasyCount, ds.EasyPct)
		fmt.Fprintf(&b, "  Medium words (0.3-0.6):%3d (%5.1f%%)\n", ds.MediumCount, ds.MediumPct)
		fmt.Fprintf(&b, "  Hard  words (>=0.6):   %3d (%5.1f%%)\n", ds.HardCount, ds.HardPct)
		fmt.Fprintf(&b, "  Dict coverage:         %s\n", ds.DictCoverage)
		if ds.ThemeAvgScore != nil {
			fmt.Fprintf(&b, "  Theme avg DS:          %.3f\n", *ds.ThemeAvgScore)
		}
	}

	if len(doc.Validation) > 0 {
		fmt.Fprintf(&b, "\n--- Validation ---\n")
		for _, msg := range doc.Validation {
			fmt.Fprintf(&b, "  %s\n", msg)
		}
	}

	fmt.Fprintf(&b, "\nSeed: %d\n", doc.Config.Seed)
	return b.String()
}

func formatDistribution(dist map[string]int) string {
	lengths := make([]int, 0, len(dist))
	for k := range dist {
		if n, err := strconv.Atoi(k); err == nil {
			lengths = append(lengths, n)
		}
	}
	sort.Ints(lengths)
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = fmt.Sprintf("%d:%d", l, dist[strconv.Itoa(l)])
	}
	return strings.Join(parts, " ")
}
