package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/crossgridgo/internal/app"
)

// ExitError carries the process exit code a CLI failure should end with.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

var validDifficulties = map[string]bool{"EASY": true, "MEDIUM": true, "HARD": true}

// Parse reads the argument list into an app config. The bool reports a
// clean early exit (help was requested); failures come back as ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("crossgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
CrossGridGo - A themed barred-crossword generator.

Usage:
  crossgridgo [options] [PROFILE_PATH]

Arguments:
  PROFILE_PATH
    Path to an .hcl run profile. Optional when --height, --width and
    --theme are given.

Options:
`)
		flagSet.PrintDefaults()
	}

	profileFlag := flagSet.String("profile", "", "Path to the HCL run profile.")
	heightFlag := flagSet.Int("height", 0, "Grid height in cells.")
	widthFlag := flagSet.Int("width", 0, "Grid width in cells.")
	themeFlag := flagSet.String("theme", "", "Theme title the puzzle is built around.")
	dictionaryFlag := flagSet.String("dictionary", "", "Path to the dictionary TSV export.")
	seedFlag := flagSet.Int64("seed", 0, "Random seed. 0 draws one from the clock.")
	difficultyFlag := flagSet.String("difficulty", "", "Target difficulty. Options: 'easy', 'medium' or 'hard'.")
	languageFlag := flagSet.String("language", "", "Language of theme words and clues.")
	targetFlag := flagSet.Float64("completion-target", 0, "Minimum fill ratio the grid must reach.")
	coverageFlag := flagSet.Float64("min-theme-coverage", -1, "Minimum fraction of letter cells covered by theme words.")
	parallelismFlag := flagSet.Int("parallelism", 0, "Number of generation attempts raced concurrently.")
	outputFlag := flagSet.String("output", "", "Write a copy of the puzzle document to this file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Log verbosity. Options: 'debug', 'info', 'warn' or 'error'.")
	noBlockerFlag := flagSet.Bool("no-blocker-zone", false, "Disable the rectangular blocker zone.")
	blockerRowFlag := flagSet.Int("blocker-zone-row", -1, "Pin the blocker zone's top row.")
	blockerColFlag := flagSet.Int("blocker-zone-col", -1, "Pin the blocker zone's left column.")
	blockerHeightFlag := flagSet.Int("blocker-zone-height", -1, "Pin the blocker zone's height.")
	blockerWidthFlag := flagSet.Int("blocker-zone-width", -1, "Pin the blocker zone's width.")

	if len(args) == 0 {
		slog.Debug("No arguments provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Flags parsed.")

	profile := *profileFlag
	if profile == "" && flagSet.NArg() > 0 {
		profile = flagSet.Arg(0)
	}
	slog.Debug("Profile path determined.", "path", profile)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: choose 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: choose 'debug', 'info', 'warn' or 'error'"}
	}

	difficulty := strings.ToUpper(*difficultyFlag)
	if difficulty != "" && !validDifficulties[difficulty] {
		return nil, false, &ExitError{Code: 2, Message: "invalid difficulty: choose 'easy', 'medium' or 'hard'"}
	}

	if *noBlockerFlag && (*blockerRowFlag >= 0 || *blockerColFlag >= 0 || *blockerHeightFlag >= 0 || *blockerWidthFlag >= 0) {
		return nil, false, &ExitError{Code: 2, Message: "--no-blocker-zone cannot be combined with blocker zone overrides"}
	}
	slog.Debug("Flag validation complete.")

	config, err := app.NewConfig(app.Config{
		ProfilePath:      profile,
		Height:           *heightFlag,
		Width:            *widthFlag,
		Theme:            *themeFlag,
		DictionaryPath:   *dictionaryFlag,
		Seed:             *seedFlag,
		Difficulty:       difficulty,
		Language:         *languageFlag,
		CompletionTarget: *targetFlag,
		MinThemeCoverage: *coverageFlag,
		Parallelism:      *parallelismFlag,
		NoBlocker:        *noBlockerFlag,
		BlockerRow:       *blockerRowFlag,
		BlockerCol:       *blockerColFlag,
		BlockerHeight:    *blockerHeightFlag,
		BlockerWidth:     *blockerWidthFlag,
		OutputPath:       *outputFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "profile", config.ProfilePath)
	return config, false, nil
}
