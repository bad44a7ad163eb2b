package config

import "context"

// A Loader parses one profile file into the validated Model.
// Implementations overlay the parsed values on Default() before
// validating, so a sparse profile is always complete.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
