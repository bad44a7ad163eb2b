package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/crossgridgo/internal/dictionary"
	"github.com/vk/crossgridgo/internal/grid"
)

func testDict(t *testing.T, surfaces ...string) *dictionary.Index {
	t.Helper()
	entries := make([]dictionary.Entry, len(surfaces))
	for i, s := range surfaces {
		entries[i] = dictionary.Entry{Surface: s, Frequency: 0.8, DifficultyScore: 0.45}
	}
	return dictionary.FromEntries(dictionary.Config{}, entries)
}

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(context.Background(), grid.Config{Height: 6, Width: 6}, nil)
	require.NoError(t, err)
	return g
}

func place(t *testing.T, g *grid.Grid, id string, start grid.Coord, dir grid.Direction, word string, box grid.Coord) {
	t.Helper()
	slot := grid.NewWordSlot(id, start, dir, len(word), box)
	require.NoError(t, g.PlaceWord(slot, word))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a clean grid", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
		place(t, g, "D0001", grid.Coord{Row: 1, Col: 0}, grid.Down, "LUP", grid.Coord{Row: 0, Col: 0})

		res := New(testDict(t, "CERB", "LUP")).Validate(ctx, g, nil)

		assert.True(t, res.OK)
		assert.Empty(t, res.Messages)
	})

	t.Run("flags an orphan clue box", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
		place(t, g, "D0001", grid.Coord{Row: 1, Col: 0}, grid.Down, "LUP", grid.Coord{Row: 0, Col: 0})
		require.NoError(t, g.AddClueBox(3, 3))

		res := New(testDict(t, "CERB", "LUP")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "licenses no word")
		assert.Contains(t, res.Messages[0], "(3,3)")
	})

	t.Run("flags a clue box in the reserved corner", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 5, Col: 5})
		place(t, g, "D0001", grid.Coord{Row: 1, Col: 0}, grid.Down, "LUP", grid.Coord{Row: 0, Col: 0})
		g.CellAt(5, 5).Kind = grid.ClueBox

		res := New(testDict(t, "CERB", "LUP")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "reserved corner")
	})

	t.Run("flags an isolated cell", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 3, Col: 0}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
		place(t, g, "A0002", grid.Coord{Row: 4, Col: 0}, grid.Across, "LUPI", grid.Coord{Row: 0, Col: 2})
		place(t, g, "A0003", grid.Coord{Row: 5, Col: 0}, grid.Across, "ESTE", grid.Coord{Row: 1, Col: 1})
		// Wall (0,1) in behind clue boxes on its remaining sides.
		g.CellAt(0, 2).Kind = grid.ClueBox
		g.CellAt(1, 1).Kind = grid.ClueBox

		res := New(testDict(t, "CERB", "LUPI", "ESTE")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "isolated")
		assert.Contains(t, res.Messages[0], "(0,1)")
	})

	t.Run("flags a duplicate word", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
		place(t, g, "D0001", grid.Coord{Row: 1, Col: 0}, grid.Down, "CERB", grid.Coord{Row: 0, Col: 0})

		res := New(testDict(t, "CERB")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "appears twice")
		assert.Contains(t, res.Messages[0], `"CERB"`)
	})

	t.Run("flags an unknown word", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "XQZW", grid.Coord{Row: 0, Col: 0})

		res := New(testDict(t, "LUP")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "not in the dictionary")
		assert.Contains(t, res.Messages[0], "XQZW")
	})

	t.Run("accepts an off-dictionary theme surface", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "XQZW", grid.Coord{Row: 0, Col: 0})

		res := New(testDict(t, "LUP")).Validate(ctx, g, map[string]bool{"XQZW": true})

		assert.True(t, res.OK)
	})

	t.Run("flags a run with no licensing box", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
		// The license ledger accepts the box, but no box sits at any of
		// the run's licensing offsets.
		place(t, g, "A0002", grid.Coord{Row: 4, Col: 0}, grid.Across, "LUP", grid.Coord{Row: 0, Col: 0})

		res := New(testDict(t, "CERB", "LUP")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "no licensing clue box")
		assert.Contains(t, res.Messages[0], "(4,0)")
	})

	t.Run("flags an invalid letter", func(t *testing.T) {
		g := testGrid(t)
		place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
		g.CellAt(0, 2).Letter = 'e'

		res := New(testDict(t, "CERB")).Validate(ctx, g, nil)

		require.False(t, res.OK)
		require.Len(t, res.Messages, 1)
		assert.Contains(t, res.Messages[0], "invalid letter")
		assert.Contains(t, res.Messages[0], "(0,2)")
	})
}

func TestLetterRuns(t *testing.T) {
	g := testGrid(t)
	place(t, g, "A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, "CERB", grid.Coord{Row: 0, Col: 0})
	place(t, g, "D0001", grid.Coord{Row: 1, Col: 0}, grid.Down, "LUP", grid.Coord{Row: 0, Col: 0})
	// Letters that start mid-run stay invisible until the run is filled
	// from its boundary.
	place(t, g, "A0002", grid.Coord{Row: 4, Col: 2}, grid.Across, "ARC", grid.Coord{Row: 0, Col: 0})

	runs := letterRuns(g)

	require.Len(t, runs, 2)
	assert.Equal(t, "CERB", runs[0].Text)
	assert.Equal(t, grid.Coord{Row: 0, Col: 1}, runs[0].Start)
	assert.Equal(t, grid.Across, runs[0].Dir)
	assert.Equal(t, "LUP", runs[1].Text)
	assert.Equal(t, grid.Coord{Row: 1, Col: 0}, runs[1].Start)
	assert.Equal(t, grid.Down, runs[1].Dir)
}
