package clue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/vk/crossgridgo/internal/ctxlog"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultAPIKeyEnv   = "GOOGLE_API_KEY"
	defaultLanguage    = "Romanian"
)

const cluePrompt = "Write one crossword clue in %s for every entry below. " +
	"Mix cryptic and direct styles, keep each clue under eight words and " +
	"never quote the solution word itself. " +
	"Respond with a JSON array of objects {slot_id, clue}. " +
	"Entries: %s"

// GeminiGenerator asks a Gemini model for clue text, batching all slots
// into a single request. The API key is read from the environment on
// every call so construction never fails offline.
type GeminiGenerator struct {
	// Model overrides the Gemini model name. Empty selects the default.
	Model string
	// APIKeyEnv names the environment variable holding the API key.
	// Empty selects GOOGLE_API_KEY.
	APIKeyEnv string
	// Language is the clue language. Empty selects Romanian.
	Language string
}

type clueEntry struct {
	SlotID    string `json:"slot_id"`
	Word      string `json:"word"`
	Direction string `json:"direction"`
	ClueBox   [2]int `json:"clue_box"`
}

// Generate sends the batch to Gemini and parses the JSON array of the
// reply. A malformed reply yields an empty map rather than an error, so
// the raw-word fallback still produces a usable puzzle.
func (p *GeminiGenerator) Generate(ctx context.Context, reqs []Request) (map[string]string, error) {
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
			Parts: []*genai.Part{{Text: renderCluePrompt(p.Language, reqs)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return parseClueResponse(ctx, resp.Text()), nil
}

func renderCluePrompt(language string, reqs []Request) string {
	if language == "" {
		language = defaultLanguage
	}
	entries := make([]clueEntry, len(reqs))
	for i, req := range reqs {
		entries[i] = clueEntry{
			SlotID:    req.SlotID,
			Word:      req.Word,
			Direction: string(req.Dir),
			ClueBox:   [2]int{req.ClueBox.Row, req.ClueBox.Col},
		}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		payload = []byte("[]")
	}
	return fmt.Sprintf(cluePrompt, language, payload)
}

func parseClueResponse(ctx context.Context, text string) map[string]string {
	out := map[string]string{}
	if text == "" {
		return out
	}
	var entries []struct {
		SlotID *string `json:"slot_id"`
		Clue   *string `json:"clue"`
	}
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		ctxlog.FromContext(ctx).Warn("Gemini clue payload is not valid JSON.", "error", err)
		return out
	}
	for _, entry := range entries {
		if entry.SlotID == nil || entry.Clue == nil || *entry.SlotID == "" || *entry.Clue == "" {
			continue
		}
		out[*entry.SlotID] = *entry.Clue
	}
	return out
}
