// Package grid owns the crossword cell matrix and every structural rule
// attached to it: the cell state machine, clue-box licensing, the blocker
// zone, word placement with undo support, and run detection. Higher layers
// (layout completion, theme search, fill) mutate the grid exclusively
// through the methods here so the invariants hold at every step, not just
// at the end.
package grid
