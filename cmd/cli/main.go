package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/crossgridgo/internal/app"
	"github.com/vk/crossgridgo/internal/cli"
	"github.com/vk/crossgridgo/internal/hclconf"
)

func main() {
	// Bootstrap logger for anything emitted before the app builds its own.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// run wires the CLI, the profile loader and the app together so tests
// can drive the whole binary without exiting the process.
func run(outW, errW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.New(outW, errW, cfg, hclconf.NewLoader()).Run(context.Background())
}
