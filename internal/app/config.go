package app

import "errors"

// Config holds everything the CLI hands to an App instance. Zero and
// negative values mean "not set" so flag overrides never clobber
// profile values by accident.
type Config struct {
	// ProfilePath points at an HCL run profile. Optional when the grid
	// dimensions and theme are given directly.
	ProfilePath string

	Height int
	Width  int
	Theme  string

	DictionaryPath   string
	Seed             int64
	Difficulty       string
	Language         string
	CompletionTarget float64
	// MinThemeCoverage below zero means unset; zero is a real override.
	MinThemeCoverage float64
	Parallelism      int

	// NoBlocker disables the blocker zone. The pin fields below zero
	// mean unset.
	NoBlocker     bool
	BlockerRow    int
	BlockerCol    int
	BlockerHeight int
	BlockerWidth  int

	// OutputPath receives a copy of the puzzle document when set.
	OutputPath string

	LogFormat string
	LogLevel  string
}

// NewConfig checks that the config describes a loadable run: either a
// profile path or the full set of grid flags.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProfilePath == "" {
		if cfg.Height <= 0 || cfg.Width <= 0 || cfg.Theme == "" {
			return nil, errors.New("a profile path or --height, --width and --theme are required")
		}
	}
	return &cfg, nil
}
