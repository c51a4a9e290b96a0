package sweep

import (
	"context"
	"fmt"

	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/options"
)

// Point is one build of a sweep.
type Point struct {
	// Label identifies the point in logs, e.g. "pipelines.aes_xts[1]".
	Label string
	// Config holds the hardware options: group defaults merged with the
	// config's generics.
	Config options.Set
	// Tools holds the tool options, merged over Config when the point runs.
	Tools options.Set
	// ExpectFailure inverts the outcome of the build.
	ExpectFailure bool
}

// Options returns the merged option set of p; tool options win.
func (p Point) Options() options.Set {
	return options.Merge(p.Config, p.Tools)
}

// Expand lists the points of def in run order. Groups that skip backend are
// left out; backend may be empty when it was not probed.
func Expand(ctx context.Context, def *config.Sweep, backend string) []Point {
	logger := ctxlog.FromContext(ctx).With("sweep", def.Name)

	var points []Point
	for _, g := range def.Groups {
		if backend != "" && g.Skips(backend) {
			logger.Info("Skipping group, backend not supported.", "group", g.Name, "backend", backend)
			continue
		}
		points = append(points, expandGroup(g)...)
	}
	logger.Debug("Sweep expanded.", "points", len(points))
	return points
}

func expandGroup(g *config.Group) []Point {
	tools := make([][]options.Set, len(g.Configs))
	longest := 0
	for i, c := range g.Configs {
		tools[i] = toolsFor(g, c)
		longest = max(longest, len(tools[i]))
	}

	point := func(ci, ti int) Point {
		c := g.Configs[ci]
		label := g.Name + "." + c.Name
		if len(tools[ci]) > 1 {
			label += fmt.Sprintf("[%d]", ti)
		}
		return Point{
			Label:         label,
			Config:        options.Merge(g.Defaults, c.Generics),
			Tools:         tools[ci][ti].Clone(),
			ExpectFailure: c.ExpectFailure,
		}
	}

	var points []Point
	if g.Order == config.ToolsFirst {
		for ti := 0; ti < longest; ti++ {
			for ci := range g.Configs {
				if ti < len(tools[ci]) {
					points = append(points, point(ci, ti))
				}
			}
		}
		return points
	}
	for ci := range g.Configs {
		for ti := range tools[ci] {
			points = append(points, point(ci, ti))
		}
	}
	return points
}

// toolsFor returns the tool option sets c runs with; never empty.
func toolsFor(g *config.Group, c *config.Config) []options.Set {
	tools := g.Tools
	if c.Tools != nil {
		tools = c.Tools
	}
	if len(tools) == 0 {
		return []options.Set{{}}
	}
	return tools
}
