package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/naming"
	"github.com/specialistvlad/fpgasweep/internal/runner"
	"github.com/specialistvlad/fpgasweep/internal/sweep"
)

// Run loads the selected sweep, runs every point and prints the summary. It
// returns the number of failed points. When the sweep stops early the
// summary covers the points that ran and the error is returned as well.
func (a *App) Run(ctx context.Context) (int, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	def, err := a.load(ctx)
	if err != nil {
		return 0, err
	}
	ctx = ctxlog.With(ctx, "sweep", def.Name)
	mode, err := sweep.ModeByName(def.Mode)
	if err != nil {
		return 0, err
	}
	points, err := a.plan(ctx, def)
	if err != nil {
		return 0, err
	}

	driver := &sweep.Driver{Module: def.Module, Mode: mode, Patcher: a.patcher, Executor: a.runner}
	if err := driver.RunPreludes(ctx, def.Preludes); err != nil {
		return 0, err
	}
	results, runErr := driver.Run(ctx, points)
	failed := a.reporter.Summary(results)

	if runErr != nil {
		return failed, fmt.Errorf("sweep %q stopped: %w", def.Name, runErr)
	}
	a.logger.Info("Sweep complete.", "sweep", def.Name, "points", len(results), "failed", failed)
	return failed, nil
}

// List prints the points of the selected sweep without running anything.
func (a *App) List(ctx context.Context) error {
	ctx = a.context(ctx)

	def, err := a.load(ctx)
	if err != nil {
		return err
	}
	points, err := a.plan(ctx, def)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "POINT\tNAME\tOPTIONS\n")
	for _, p := range points {
		full := p.Options()
		name, ok := naming.DirName(full)
		if !ok {
			name = "None"
		}
		suffix := ""
		if p.ExpectFailure {
			suffix = " (expected failure)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s\n", p.Label, name, full, suffix)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "%d points in sweep %q (%s, module %s)\n", len(points), def.Name, def.Mode, def.Module)
	return nil
}

// Backend probes and prints the simulation backend of module.
func (a *App) Backend(ctx context.Context, module string) (string, error) {
	ctx = a.context(ctx)
	backend, err := runner.ProbeBackend(ctx, a.runner, module)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(a.outW, backend)
	return backend, nil
}

func (a *App) load(ctx context.Context) (*config.Sweep, error) {
	a.logger.Debug("Loading sweep definitions...", "paths", a.config.Paths)
	model, err := a.loader.Load(ctx, a.config.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load sweep definitions: %w", err)
	}
	def, err := model.Sweep(a.config.Sweep)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Sweep selected.", "sweep", def.Name, "source", def.Source, "module", def.Module, "mode", def.Mode)
	return def, nil
}

// plan expands def, probing the backend only when a group depends on it and
// none was configured. The probe queries the build system's default module.
func (a *App) plan(ctx context.Context, def *config.Sweep) ([]sweep.Point, error) {
	backend := a.config.Backend
	if backend == "" && def.NeedsBackend() {
		var err error
		backend, err = runner.ProbeBackend(ctx, a.runner, "")
		if err != nil {
			return nil, fmt.Errorf("failed to determine the simulation backend: %w", err)
		}
	}
	return sweep.Expand(ctx, def, backend), nil
}
