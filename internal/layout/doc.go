// Package layout turns an empty grid into a finished letter matrix. It
// runs the middle of the generation pipeline: sample a blocker layout,
// seed theme words, partition the remaining space with clue boxes until
// every run is licensed and feasible, then drive the fill solver over
// whatever stayed open.
//
// An Engine carries the working state of exactly one generation attempt.
// A retry gets a fresh Engine; nothing needs resetting.
package layout
