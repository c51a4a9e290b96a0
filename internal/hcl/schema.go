package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of a sweep file.
type fileRoot struct {
	Locals []*localsBlock `hcl:"locals,block"`
	Sweeps []*sweepBlock  `hcl:"sweep,block"`
}

// localsBlock holds named values reachable as local.<name>.
type localsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type sweepBlock struct {
	Name     string          `hcl:"name,label"`
	Module   string          `hcl:"module"`
	Mode     string          `hcl:"mode"`
	Preludes []*preludeBlock `hcl:"prelude,block"`
	Groups   []*groupBlock   `hcl:"group,block"`
}

type preludeBlock struct {
	Module  string   `hcl:"module"`
	Targets []string `hcl:"targets"`
}

type groupBlock struct {
	Name         string         `hcl:"name,label"`
	Defaults     hcl.Expression `hcl:"defaults,optional"`
	Tools        hcl.Expression `hcl:"tools,optional"`
	SkipBackends []string       `hcl:"skip_backends,optional"`
	Order        string         `hcl:"order,optional"`
	Configs      []*configBlock `hcl:"config,block"`
}

type configBlock struct {
	Name          string         `hcl:"name,label"`
	Generics      hcl.Expression `hcl:"generics,optional"`
	Tools         hcl.Expression `hcl:"tools,optional"`
	ExpectFailure bool           `hcl:"expect_failure,optional"`
}
