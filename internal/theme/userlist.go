package theme

import (
	"context"
	"strings"
)

// UserListProvider serves a fixed word list supplied by the user. Each entry
// is either a bare word or the "WORD:clue" form. The whole list is returned
// on every call regardless of the requested limit, so user words always get
// first claim on the grid.
type UserListProvider struct {
	words []Word
}

// NewUserListProvider parses the raw entries, uppercasing words, trimming
// whitespace around both word and clue, and dropping blank entries.
func NewUserListProvider(entries []string) *UserListProvider {
	p := &UserListProvider{}
	for _, raw := range entries {
		wordPart, cluePart, _ := strings.Cut(raw, ":")
		word := strings.ToUpper(strings.TrimSpace(wordPart))
		if word == "" {
			continue
		}
		p.words = append(p.words, Word{
			Word:   word,
			Clue:   strings.TrimSpace(cluePart),
			Source: "user",
		})
	}
	return p
}

// Words returns a copy of the parsed list.
func (p *UserListProvider) Words(ctx context.Context, req Request) ([]Word, error) {
	out := make([]Word, len(p.words))
	copy(out, p.words)
	return out, nil
}
