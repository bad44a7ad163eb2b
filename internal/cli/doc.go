// Package cli turns command-line arguments into a runnable app.Config.
// It owns flag parsing, input validation and process-level concerns
// like exit codes; everything downstream works with the resulting
// configuration and never sees a flag.
package cli
