// Package app wires the generation pipeline together. It resolves the
// run configuration from profile and flags, loads the dictionary,
// assembles the theme and clue backends, drives the generator and
// finally persists and prints the resulting puzzle document.
package app
