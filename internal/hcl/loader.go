package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/options"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of config.FileLoader.
type Loader struct{}

// NewLoader creates a new HCL sweep loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile parses one HCL file and translates its sweep blocks.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*config.Sweep, error) {
	logger := ctxlog.FromContext(ctx).With("file", path)
	logger.Debug("Parsing HCL sweep file.")

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return l.decode(ctx, path, file.Body)
}

// LoadBytes parses HCL source held in memory; filename is used in messages.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) ([]*config.Sweep, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, file.Body)
}

func (l *Loader) decode(ctx context.Context, path string, body hcl.Body) ([]*config.Sweep, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	evalCtx, err := l.evalContext(root.Locals)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}

	sweeps := make([]*config.Sweep, 0, len(root.Sweeps))
	for _, sb := range root.Sweeps {
		s, err := l.translateSweep(ctx, sb, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("in %s, sweep %q: %w", path, sb.Name, err)
		}
		sweeps = append(sweeps, s)
	}
	logger.Debug("HCL sweep file decoded.", "file", path, "sweeps", len(sweeps))
	return sweeps, nil
}

// evalContext evaluates all locals blocks into the `local` variable. Locals
// cannot refer to each other.
func (l *Loader) evalContext(blocks []*localsBlock) (*hcl.EvalContext, error) {
	locals := make(map[string]cty.Value)
	for _, b := range blocks {
		attrs, diags := b.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for name, attr := range attrs {
			if _, dup := locals[name]; dup {
				return nil, fmt.Errorf("%s: local %q defined more than once", attr.NameRange, name)
			}
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			locals[name] = val
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(locals)},
	}, nil
}

func (l *Loader) translateSweep(ctx context.Context, sb *sweepBlock, evalCtx *hcl.EvalContext) (*config.Sweep, error) {
	s := &config.Sweep{
		Name:   sb.Name,
		Module: sb.Module,
		Mode:   sb.Mode,
	}
	for _, pb := range sb.Preludes {
		s.Preludes = append(s.Preludes, &config.Prelude{Module: pb.Module, Targets: pb.Targets})
	}
	for _, gb := range sb.Groups {
		g, err := l.translateGroup(ctx, gb, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", gb.Name, err)
		}
		s.Groups = append(s.Groups, g)
	}
	return s, nil
}

func (l *Loader) translateGroup(ctx context.Context, gb *groupBlock, evalCtx *hcl.EvalContext) (*config.Group, error) {
	g := &config.Group{
		Name:         gb.Name,
		SkipBackends: gb.SkipBackends,
		Order:        config.Order(gb.Order),
	}

	var err error
	if isExprDefined(ctx, gb.Defaults, "defaults") {
		if g.Defaults, err = setFromExpr(gb.Defaults, evalCtx); err != nil {
			return nil, err
		}
	}
	if isExprDefined(ctx, gb.Tools, "tools") {
		if g.Tools, err = setsFromExpr(gb.Tools, evalCtx); err != nil {
			return nil, err
		}
	}

	for _, cb := range gb.Configs {
		c := &config.Config{Name: cb.Name, ExpectFailure: cb.ExpectFailure}
		if isExprDefined(ctx, cb.Generics, "generics") {
			if c.Generics, err = setFromExpr(cb.Generics, evalCtx); err != nil {
				return nil, fmt.Errorf("config %q: %w", cb.Name, err)
			}
		}
		if isExprDefined(ctx, cb.Tools, "tools") {
			if c.Tools, err = setsFromExpr(cb.Tools, evalCtx); err != nil {
				return nil, fmt.Errorf("config %q: %w", cb.Name, err)
			}
			if c.Tools == nil {
				c.Tools = []options.Set{}
			}
		}
		g.Configs = append(g.Configs, c)
	}
	return g, nil
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional expression fields with
// zero-width placeholder expressions, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}
