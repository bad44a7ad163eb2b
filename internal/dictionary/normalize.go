package dictionary

import "strings"

// NormalizeFunc converts a raw dictionary or theme word into the canonical
// surface form used everywhere in the engine: uppercase ASCII letters only.
type NormalizeFunc func(string) string

// romanianDiacritics maps both the comma-below and legacy cedilla forms.
var romanianDiacritics = map[rune]rune{
	'ă': 'a',
	'â': 'a',
	'î': 'i',
	'ș': 's',
	'ş': 's',
	'ț': 't',
	'ţ': 't',
	'Ă': 'A',
	'Â': 'A',
	'Î': 'I',
	'Ș': 'S',
	'Ş': 'S',
	'Ț': 'T',
	'Ţ': 'T',
}

// NormalizeRomanian folds Romanian diacritics to their ASCII base letter,
// drops every other non-ASCII-letter rune, and upper-cases the result.
// It is the default NormalizeFunc.
func NormalizeRomanian(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if mapped, ok := romanianDiacritics[r]; ok {
			r = mapped
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}
