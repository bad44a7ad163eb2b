package clue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/crossgridgo/internal/grid"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(context.Background(), grid.Config{Height: 6, Width: 6}, nil)
	require.NoError(t, err)
	return g
}

func TestTemplateGenerator(t *testing.T) {
	texts, err := TemplateGenerator{}.Generate(context.Background(), []Request{
		{SlotID: "A0001", Word: "CERB", Dir: grid.Across},
		{SlotID: "D0001", Word: "LUP", Dir: grid.Down},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"A0001": "Cerb (oriz.)",
		"D0001": "Lup (vert.)",
	}, texts)
}

func TestAttach(t *testing.T) {
	t.Run("replaces previous records with generated text", func(t *testing.T) {
		g := testGrid(t)
		slot := grid.NewWordSlot("A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, 4, grid.Coord{Row: 0, Col: 0})
		require.NoError(t, g.PlaceWord(slot, "CERB"))
		require.NoError(t, g.AttachClue(grid.Coord{Row: 0, Col: 0}, grid.Clue{ID: "A0001-theme", SlotID: "A0001", Text: "stale"}))

		err := Attach(g, []*grid.WordSlot{slot}, map[string]string{"A0001": "Animal cu coarne"})

		require.NoError(t, err)
		clues := g.CellAt(0, 0).Clues
		require.Len(t, clues, 1)
		assert.Equal(t, grid.Clue{
			ID:          "A0001-clue",
			SlotID:      "A0001",
			Text:        "Animal cu coarne",
			Length:      4,
			Dir:         grid.Across,
			StartOffset: grid.Coord{Row: 0, Col: 1},
		}, clues[0])
	})

	t.Run("falls back to the raw word", func(t *testing.T) {
		g := testGrid(t)
		slot := grid.NewWordSlot("A0001", grid.Coord{Row: 0, Col: 1}, grid.Across, 4, grid.Coord{Row: 0, Col: 0})
		require.NoError(t, g.PlaceWord(slot, "CERB"))

		require.NoError(t, Attach(g, []*grid.WordSlot{slot}, nil))

		clues := g.CellAt(0, 0).Clues
		require.Len(t, clues, 1)
		assert.Equal(t, "CERB", clues[0].Text)
	})

	t.Run("rejects a slot without a clue box cell", func(t *testing.T) {
		g := testGrid(t)
		slot := grid.NewWordSlot("A0001", grid.Coord{Row: 3, Col: 1}, grid.Across, 3, grid.Coord{Row: 3, Col: 0})
		require.NoError(t, g.PlaceWord(slot, "LUP"))

		err := Attach(g, []*grid.WordSlot{slot}, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, grid.ErrCluePlacement)
		assert.Contains(t, err.Error(), "A0001")
	})
}

func TestRenderCluePrompt(t *testing.T) {
	prompt := renderCluePrompt("", []Request{
		{SlotID: "A0001", Word: "CERB", Dir: grid.Across, ClueBox: grid.Coord{Row: 0, Col: 0}},
	})

	assert.Contains(t, prompt, "Romanian")
	assert.Contains(t, prompt, `"slot_id":"A0001"`)
	assert.Contains(t, prompt, `"word":"CERB"`)
	assert.Contains(t, prompt, `"direction":"across"`)
	assert.Contains(t, prompt, `"clue_box":[0,0]`)
}

func TestParseClueResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("reads well-formed entries", func(t *testing.T) {
		texts := parseClueResponse(ctx, `[
			{"slot_id": "A0001", "clue": "Animal cu coarne"},
			{"slot_id": "D0001", "clue": "Pradator cenusiu"}
		]`)

		assert.Equal(t, map[string]string{
			"A0001": "Animal cu coarne",
			"D0001": "Pradator cenusiu",
		}, texts)
	})

	t.Run("skips incomplete entries", func(t *testing.T) {
		texts := parseClueResponse(ctx, `[
			{"slot_id": "A0001"},
			{"clue": "orphan"},
			{"slot_id": "", "clue": "blank"},
			{"slot_id": "D0001", "clue": "Pradator"}
		]`)

		assert.Equal(t, map[string]string{"D0001": "Pradator"}, texts)
	})

	t.Run("tolerates garbage", func(t *testing.T) {
		assert.Empty(t, parseClueResponse(ctx, "not json at all"))
		assert.Empty(t, parseClueResponse(ctx, ""))
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Cerb", capitalize("CERB"))
	assert.Equal(t, "Lup", capitalize("lup"))
	assert.Equal(t, "", capitalize(""))
}
