package grid

import "errors"

// Sentinel errors raised by grid mutations. Callers branch on these to
// tell a local, recoverable conflict from a structural failure.
var (
	// ErrOutOfBounds means a placement reaches past the grid edge.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrBlockedCell means a word path crosses a clue box or blocker cell.
	ErrBlockedCell = errors.New("cell is not playable")

	// ErrLetterConflict means a placement disagrees with a committed letter.
	ErrLetterConflict = errors.New("conflicting letter")

	// ErrLengthMismatch means the word text does not match the slot length.
	ErrLengthMismatch = errors.New("word length does not match slot")

	// ErrCluePlacement means a cell cannot legally become a clue box.
	ErrCluePlacement = errors.New("cell cannot host a clue box")

	// ErrNoLicense means no clue box exists or fits at any licensing
	// offset of a slot start.
	ErrNoLicense = errors.New("no clue box position available for slot")

	// ErrStrandedCells means planting a terminal clue box would leave a
	// run too short to ever hold a word.
	ErrStrandedCells = errors.New("terminal clue box would strand unusable cells")
)
