package app

import (
	"io"
	"log/slog"

	"github.com/vk/crossgridgo/internal/config"
)

// App encapsulates the application's dependencies, configuration and
// lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	cfg    *Config
	loader config.Loader
}

// New builds the application with its own isolated logger. The rendered
// puzzle goes to outW; logs go to errW so piping the result stays clean.
func New(outW, errW io.Writer, cfg *Config, loader config.Loader) *App {
	return &App{
		outW:   outW,
		errW:   errW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, errW),
		cfg:    cfg,
		loader: loader,
	}
}
