package dictionary

// Config controls dictionary loading and filtering.
type Config struct {
	// Path points at the raw TSV export.
	Path string
	// MinLength and MaxLength bound the surface lengths kept in the index.
	MinLength int
	MaxLength int
	// MinFrequency drops rare noise below the threshold.
	MinFrequency float64
	ExcludeStopwords bool
	AllowCompounds   bool
	// MaxEntriesPerLength caps each length bucket, keeping the best-scored
	// entries. Zero keeps everything.
	MaxEntriesPerLength int
	// CachePath locates the processed cache. Empty derives a sibling of
	// Path with a "_processed" suffix.
	CachePath string
	// UseCache enables reading and writing the processed cache.
	UseCache bool
	// Difficulty is the tier candidates are ranked for.
	Difficulty Difficulty
	// Normalize overrides the normalization step. Nil means NormalizeRomanian.
	Normalize NormalizeFunc
}

// DefaultConfig returns the standard dictionary configuration.
func DefaultConfig() Config {
	return Config{
		MinLength:        2,
		MaxLength:        24,
		ExcludeStopwords: true,
		UseCache:         true,
		Difficulty:       DifficultyMedium,
	}
}

// withDefaults fills zero values that have non-zero defaults.
func (c Config) withDefaults() Config {
	if c.MinLength == 0 {
		c.MinLength = 2
	}
	if c.MaxLength == 0 {
		c.MaxLength = 24
	}
	return c
}

func (c Config) normalize() NormalizeFunc {
	if c.Normalize != nil {
		return c.Normalize
	}
	return NormalizeRomanian
}
