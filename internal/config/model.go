package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/fpgasweep/internal/options"
)

var (
	// ErrSweepNotFound is returned when a requested sweep is not defined.
	ErrSweepNotFound = errors.New("sweep not found")
	// ErrAmbiguousSweep is returned when no sweep was named but several exist.
	ErrAmbiguousSweep = errors.New("several sweeps defined, pick one by name")
	// ErrDuplicateName is returned for repeated sweep or config names.
	ErrDuplicateName = errors.New("duplicate name")
)

// Order decides how configs and tool option sets of a group are nested.
type Order string

const (
	// ConfigsFirst runs every tool set for one config before the next config.
	ConfigsFirst Order = "configs_first"
	// ToolsFirst runs every config for one tool set before the next tool set.
	ToolsFirst Order = "tools_first"
)

// Model is the unified, format-agnostic representation of all loaded sweep
// definitions, in file order.
type Model struct {
	Sweeps []*Sweep
}

// Sweep is one named sweep: a module, a mode and the groups to run.
type Sweep struct {
	Name     string     `validate:"required"`
	Module   string     `validate:"required"`
	Mode     string     `validate:"oneof=build test"`
	Preludes []*Prelude `validate:"dive"`
	Groups   []*Group   `validate:"dive"`

	// Source is the file the sweep was read from.
	Source string
}

// Prelude is a build invocation run once before the sweep, such as packaging
// the IP core the bitstream builds depend on. Its outcome is not reported.
type Prelude struct {
	Module  string   `validate:"required"`
	Targets []string `validate:"min=1"`
}

// Group shares defaults, tool option sets and backend gating among configs.
type Group struct {
	Name string `validate:"required"`
	// Defaults are merged under every config's generics.
	Defaults options.Set
	// Tools is the tool option list crossed with each config. Empty means a
	// single empty set.
	Tools []options.Set
	// SkipBackends lists simulation backends the group cannot run on.
	SkipBackends []string
	Order        Order     `validate:"omitempty,oneof=configs_first tools_first"`
	Configs      []*Config `validate:"min=1,dive"`
}

// Config is one named hardware configuration.
type Config struct {
	Name     string `validate:"required"`
	Generics options.Set
	// Tools overrides the group's tool list when non-nil.
	Tools []options.Set
	// ExpectFailure marks a case whose build is known to fail; a failure then
	// counts as a pass.
	ExpectFailure bool
}

// Skips reports whether the group is disabled for backend.
func (g *Group) Skips(backend string) bool {
	for _, b := range g.SkipBackends {
		if b == backend {
			return true
		}
	}
	return false
}

// NeedsBackend reports whether any group is gated on the backend.
func (s *Sweep) NeedsBackend() bool {
	for _, g := range s.Groups {
		if len(g.SkipBackends) > 0 {
			return true
		}
	}
	return false
}

// Sweep returns the sweep called name. An empty name selects the only sweep.
func (m *Model) Sweep(name string) (*Sweep, error) {
	if name == "" {
		switch len(m.Sweeps) {
		case 0:
			return nil, ErrSweepNotFound
		case 1:
			return m.Sweeps[0], nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousSweep, strings.Join(m.Names(), ", "))
		}
	}
	for _, s := range m.Sweeps {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSweepNotFound, name)
}

// Names lists the sweep names in order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Sweeps))
	for _, s := range m.Sweeps {
		names = append(names, s.Name)
	}
	return names
}

var validate = validator.New()

// Validate checks the model's structure and name uniqueness.
func (m *Model) Validate() error {
	seen := make(map[string]string)
	for _, s := range m.Sweeps {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("invalid sweep %q in %s: %w", s.Name, s.Source, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return fmt.Errorf("%w: sweep %q defined in %s and %s", ErrDuplicateName, s.Name, prev, s.Source)
		}
		seen[s.Name] = s.Source

		configs := make(map[string]struct{})
		for _, g := range s.Groups {
			for _, c := range g.Configs {
				if _, ok := configs[c.Name]; ok {
					return fmt.Errorf("%w: config %q in sweep %q", ErrDuplicateName, c.Name, s.Name)
				}
				configs[c.Name] = struct{}{}
			}
		}
	}
	return nil
}
