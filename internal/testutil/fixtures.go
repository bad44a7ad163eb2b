package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/crossgridgo/internal/puzzle"
)

// dictionaryHeader matches the raw TSV export of the dictionary tooling.
const dictionaryHeader = "entry_word\tlemma\tdefinition\tlexeme_frequency\tdifficulty_score\tis_compound\tis_stopword"

// DictionaryTSV writes a dictionary export holding the given surfaces,
// each with frequency 0.8 and difficulty score 0.45, and returns its
// path. The uniform scores keep candidate ranking down to the
// alphabetical tie-break, so fixtures fill deterministically.
func DictionaryTSV(t *testing.T, dir string, surfaces ...string) string {
	t.Helper()
	lines := []string{dictionaryHeader}
	for _, s := range surfaces {
		lower := strings.ToLower(s)
		lines = append(lines, fmt.Sprintf("%s\t%s\tdespre %s\t0.8\t0.45\t0\t0", s, lower, lower))
	}
	path := filepath.Join(dir, "dex_words.tsv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// WriteProfile writes an HCL run profile and returns its path.
func WriteProfile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// ReadDocument loads a stored puzzle document.
func ReadDocument(t *testing.T, path string) *puzzle.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc puzzle.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return &doc
}
