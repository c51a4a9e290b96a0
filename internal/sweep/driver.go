package sweep

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/naming"
	"github.com/specialistvlad/fpgasweep/internal/options"
	"github.com/specialistvlad/fpgasweep/internal/patcher"
	"github.com/specialistvlad/fpgasweep/internal/runner"
)

// Executor runs one build invocation. *runner.Runner implements it.
type Executor interface {
	Run(ctx context.Context, inv runner.Invocation) (*runner.Result, error)
}

// WidthPatcher writes the datapath width into the design before a build.
// *patcher.Patcher implements it.
type WidthPatcher interface {
	SetDatastreamWidth(ctx context.Context, width int64) error
}

// Result is the outcome of one point.
type Result struct {
	runner.Result

	// Options is the full merged option set of the point, including options
	// that were not exported to the build.
	Options options.Set
	// Name is the artifact directory name; empty when HasName is false.
	Name    string
	HasName bool
	Label   string
	// ExpectFailure records that Failed was inverted.
	ExpectFailure bool
}

// Driver runs sweep points against one module.
type Driver struct {
	Module   string
	Mode     Mode
	Patcher  WidthPatcher
	Executor Executor
}

// RunPoint patches the config package, runs the build for p and returns its
// result. A failed build is a result; errors mean the sweep cannot go on.
func (d *Driver) RunPoint(ctx context.Context, p Point) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("point", p.Label)

	full := p.Options()
	exported := full.Clone()

	width := int64(patcher.DefaultDatastreamWidth)
	if v, ok := exported.Pop(options.DatastreamDataWidth); ok {
		width, _ = v.AsInt()
	}
	if err := d.Patcher.SetDatastreamWidth(ctx, width); err != nil {
		return nil, fmt.Errorf("failed to configure point %s: %w", p.Label, err)
	}

	name, hasName := naming.DirName(full)
	inv := runner.Invocation{
		Module:        d.Module,
		Targets:       d.Mode.Targets,
		BinaryRootDir: name,
		Env:           d.Mode.Assignments(d.Module, exported),
	}

	logger.Debug("Running sweep point.", "name", name, "options", full.String())
	res, err := d.Executor.Run(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to run point %s: %w", p.Label, err)
	}

	out := &Result{
		Result:        *res,
		Options:       full,
		Name:          name,
		HasName:       hasName,
		Label:         p.Label,
		ExpectFailure: p.ExpectFailure,
	}
	if p.ExpectFailure {
		out.Failed = !res.Failed
		logger.Info("Build expected to fail.", "build_failed", res.Failed, "counted_as_failure", out.Failed)
	}
	return out, nil
}

// Run executes points in order. It keeps going past failed builds and stops
// at the first error or when ctx is done, returning the results gathered so
// far together with the error.
func (d *Driver) Run(ctx context.Context, points []Point) ([]*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Starting sweep.", "module", d.Module, "mode", d.Mode.Name, "points", len(points))

	results := make([]*Result, 0, len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("sweep interrupted before point %d of %d: %w", i+1, len(points), err)
		}
		res, err := d.RunPoint(ctx, p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	logger.Info("Sweep finished.", "points", len(results))
	return results, nil
}

// RunPreludes runs the preparatory invocations of a sweep. Their outcome is
// logged but not reported; only an executor error stops the sweep.
func (d *Driver) RunPreludes(ctx context.Context, preludes []*config.Prelude) error {
	logger := ctxlog.FromContext(ctx)
	for _, pr := range preludes {
		res, err := d.Executor.Run(ctx, runner.Invocation{Module: pr.Module, Targets: pr.Targets})
		if err != nil {
			return fmt.Errorf("failed to run prelude for %s: %w", pr.Module, err)
		}
		if res.Failed {
			logger.Warn("Prelude failed, continuing with the sweep.", "module", pr.Module, "targets", pr.Targets, "return_code", res.ReturnCode)
		}
	}
	return nil
}
