package theme

import (
	"context"
	"strings"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

// Word is one theme-driven seed word together with its clue text.
type Word struct {
	Word   string
	Clue   string
	Source string
}

// Request carries the parameters of a theme word lookup.
type Request struct {
	// Theme names the topic, for example "mitologie".
	Theme string
	// Description is optional free-form context for LLM providers.
	Description string
	// Limit caps how many words the provider should return.
	Limit int
	// Difficulty is one of EASY, MEDIUM or HARD. Empty means MEDIUM.
	Difficulty string
	// Language of the produced clues. Empty means Romanian.
	Language string
}

// Provider produces candidate theme words for a request.
type Provider interface {
	Words(ctx context.Context, req Request) ([]Word, error)
}

// Output bundles provider results with optional presentation extras such as
// a generated puzzle title.
type Output struct {
	Words   []Word
	Title   string
	Content string
}

// Merge collects words from the primary provider and then each fallback in
// order until target entries are gathered, deduplicating by uppercased
// surface so the first provider to mention a word owns it. Provider failures
// are logged and skipped; a broken primary never sinks the run.
func Merge(ctx context.Context, primary Provider, fallbacks []Provider, req Request, target int) []Word {
	log := ctxlog.FromContext(ctx)
	collected := make([]Word, 0, target)
	seen := make(map[string]bool, target)

	extend := func(entries []Word) {
		for _, entry := range entries {
			key := strings.ToUpper(entry.Word)
			if key == "" || seen[key] {
				continue
			}
			collected = append(collected, entry)
			seen[key] = true
			if len(collected) >= target {
				return
			}
		}
	}

	req.Limit = target
	if primary != nil {
		words, err := primary.Words(ctx, req)
		if err != nil {
			log.Warn("Primary theme provider failed.", "error", err)
		} else {
			extend(words)
		}
	}
	for _, provider := range fallbacks {
		if len(collected) >= target {
			break
		}
		words, err := provider.Words(ctx, req)
		if err != nil {
			log.Warn("Fallback theme provider failed.", "error", err)
			continue
		}
		extend(words)
	}
	return collected
}
