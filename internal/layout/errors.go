package layout

import "errors"

var (
	// ErrNoThemeWords means every provider came back empty.
	ErrNoThemeWords = errors.New("no theme words available")

	// ErrThemeCoverage means too few theme letters landed on the grid.
	ErrThemeCoverage = errors.New("insufficient theme coverage")

	// ErrIsolatedCell means an empty cell with no playable neighbor
	// could not be converted into a clue box.
	ErrIsolatedCell = errors.New("isolated cell cannot be healed")

	// ErrPrefilledWord means crossing theme words spelled out a run that
	// is neither a theme surface nor a dictionary word.
	ErrPrefilledWord = errors.New("pre-filled run is not a known word")

	// ErrInfeasibleSlot means a run has no dictionary candidates and
	// could not be partitioned away.
	ErrInfeasibleSlot = errors.New("run admits no fill candidates")
)
