// Package clue turns solved word slots into clue text and writes the
// records onto the licensing clue boxes. The Generator contract keeps
// the text source swappable: a deterministic template writer serves as
// the offline fallback for the Gemini-backed implementation.
package clue

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/crossgridgo/internal/grid"
)

// Request describes one solved slot that needs clue text.
type Request struct {
	SlotID  string
	Word    string
	Dir     grid.Direction
	ClueBox grid.Coord
}

// Generator produces clue text for a batch of slots. The result maps
// slot IDs to text; slots missing from the map fall back to their raw
// word when attached.
type Generator interface {
	Generate(ctx context.Context, reqs []Request) (map[string]string, error)
}

// TemplateGenerator writes deterministic placeholder clues from the
// word itself.
type TemplateGenerator struct{}

// Generate returns "Word (oriz.)" style text for every request.
func (TemplateGenerator) Generate(_ context.Context, reqs []Request) (map[string]string, error) {
	out := make(map[string]string, len(reqs))
	for _, req := range reqs {
		suffix := "(vert.)"
		if req.Dir == grid.Across {
			suffix = "(oriz.)"
		}
		out[req.SlotID] = capitalize(req.Word) + " " + suffix
	}
	return out, nil
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// Attach replaces every hosted clue record on the grid with one record
// per slot, written onto the slot's licensing clue box. Slots without
// generated text fall back to their raw word.
func Attach(g *grid.Grid, slots []*grid.WordSlot, texts map[string]string) error {
	g.ClearClues()
	for _, slot := range slots {
		text, ok := texts[slot.ID]
		if !ok {
			text = slot.Text
		}
		record := grid.Clue{
			ID:          slot.ID + "-clue",
			SlotID:      slot.ID,
			Text:        text,
			Length:      slot.Length,
			Dir:         slot.Dir,
			StartOffset: slot.ArrowOffset(),
		}
		if err := g.AttachClue(slot.ClueBox, record); err != nil {
			return fmt.Errorf("attaching clue for slot %s: %w", slot.ID, err)
		}
	}
	return nil
}
