// Package fill turns the unfilled slots of a completed layout into a
// constraint model and solves it. Each slot becomes a variable over its
// candidate surfaces, crossings share letter cells, and no surface may
// appear twice, whether assigned by the solver or already placed on the
// board. The default solver is a deterministic backtracker that honors
// context deadlines.
package fill
