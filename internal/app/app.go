package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/patcher"
	"github.com/specialistvlad/fpgasweep/internal/report"
	"github.com/specialistvlad/fpgasweep/internal/runner"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	runner   *runner.Runner
	patcher  *patcher.Patcher
	reporter *report.Reporter
}

// NewApp is the constructor for the main application. Build progress, build
// output and the summary go to outW; logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	configFile := cfg.ConfigFile
	if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(cfg.WorkDir, configFile)
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		runner: &runner.Runner{
			WorkDir:  cfg.WorkDir,
			Tool:     cfg.Tool,
			Stdout:   outW,
			Stderr:   logW,
			Progress: outW,
		},
		patcher:  patcher.New(configFile),
		reporter: report.New(outW, isTerminal(outW)),
	}
}

// context attaches the app logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
