package system

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/vk/crossgridgo/internal/app"
	"github.com/vk/crossgridgo/internal/cli"
	"github.com/vk/crossgridgo/internal/hclconf"
)

// runCLI drives the binary's whole pipeline in-process: the arguments go
// through the real flag parser and the resulting config through the real
// application. It returns whatever the run printed to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		t.Fatalf("parsing test arguments: %v", err)
	}
	if shouldExit {
		t.Fatalf("cli.Parse() asked for a clean exit, expected a runnable config")
	}

	a := app.New(out, &bytes.Buffer{}, cfg, hclconf.NewLoader())
	runErr := a.Run(context.Background())
	return out.String(), runErr
}

// fixtureProfile renders the 6x6 profile used across the generation tests.
// The blocker is pinned to the grid centre so every seed sees the same ring
// of twenty playable cells.
func fixtureProfile(seed int, outDir, dictPath, cacheDir string) string {
	return fmt.Sprintf(`
seed       = %d
output_dir = %q

grid {
  height = 6
  width  = 6
}

blocker {
  row    = 1
  col    = 1
  height = 4
  width  = 4
}

dictionary {
  path      = %q
  use_cache = false
}

theme {
  title     = "fauna"
  cache_dir = %q
}

words "fauna" {
  medium = ["CERBUL"]
}
`, seed, outDir, dictPath, cacheDir)
}
