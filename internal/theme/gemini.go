package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultAPIKeyEnv   = "GOOGLE_API_KEY"
)

const themeBasePrompt = "You are assisting with a %[1]s cryptic crossword. " +
	"Generate between 50 and %[2]d JSON lines describing unique theme words. " +
	"Theme: '%[3]s'. Each JSON line must contain fields: word, clue. " +
	"The clue must be 3-5 words in %[1]s, cryptic-friendly. " +
	"Output no more than %[2]d entries."

var themeDifficultyPrompts = map[string]string{
	"EASY": "Target audience: beginners. Use only well-known, common %s words. " +
		"Clues: straightforward definitions or simple wordplay. Avoid obscure words.",
	"MEDIUM": "Target audience: regular solvers. Mix common and moderately challenging %s words. " +
		"Clues: cryptic conventions (anagrams, double meanings, hidden words).",
	"HARD": "Target audience: experts. Prefer rare, literary, or domain-specific %s words. " +
		"Clues: advanced cryptic techniques (complex anagrams, misdirection, obscure references).",
}

// GeminiProvider asks a Gemini model for theme words. The API key is read
// from the environment on every call so construction never fails offline.
type GeminiProvider struct {
	// Model overrides the Gemini model name. Empty selects the default.
	Model string
	// APIKeyEnv names the environment variable holding the API key.
	// Empty selects GOOGLE_API_KEY.
	APIKeyEnv string
}

// Words renders the theme prompt, sends it to Gemini and parses the JSON
// lines of the reply. Lines that are not valid JSON objects with string
// word and clue fields are skipped.
func (p *GeminiProvider) Words(ctx context.Context, req Request) ([]Word, error) {
	env := p.APIKeyEnv
	if env == "" {
		env = defaultAPIKeyEnv
	}
	apiKey := os.Getenv(env)
	if apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key in environment variable %s", env)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := p.Model
	if model == "" {
		model = defaultGeminiModel
	}
	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: renderThemePrompt(req)}},
		}},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return parseThemeLines(resp.Text()), nil
}

func renderThemePrompt(req Request) string {
	limit := req.Limit
	if limit <= 0 {
		limit = 80
	}
	language := req.Language
	if language == "" {
		language = "Romanian"
	}
	base := fmt.Sprintf(themeBasePrompt, language, limit, req.Theme)
	addendum, ok := themeDifficultyPrompts[strings.ToUpper(req.Difficulty)]
	if !ok {
		addendum = themeDifficultyPrompts["MEDIUM"]
	}
	prompt := base + " " + fmt.Sprintf(addendum, language)
	if req.Description != "" {
		prompt += fmt.Sprintf(" Theme description: '%s'.", req.Description)
	}
	return prompt
}

// parseThemeLines reads one JSON object per line, tolerating trailing commas
// and garbage lines such as markdown fences.
func parseThemeLines(text string) []Word {
	var words []Word
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), ",")
		if line == "" {
			continue
		}
		var entry struct {
			Word *string `json:"word"`
			Clue *string `json:"clue"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Word == nil || entry.Clue == nil {
			continue
		}
		words = append(words, Word{Word: *entry.Word, Clue: *entry.Clue, Source: "gemini"})
	}
	return words
}
