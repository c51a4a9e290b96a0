// Package yamlconf reads sweep definitions written in YAML. It mirrors the
// HCL schema so that a sweep can be moved between formats unchanged.
package yamlconf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/options"
	"gopkg.in/yaml.v3"
)

type fileRoot struct {
	Sweeps []sweepDoc `yaml:"sweeps"`
}

type sweepDoc struct {
	Name     string       `yaml:"name"`
	Module   string       `yaml:"module"`
	Mode     string       `yaml:"mode"`
	Preludes []preludeDoc `yaml:"preludes"`
	Groups   []groupDoc   `yaml:"groups"`
}

type preludeDoc struct {
	Module  string   `yaml:"module"`
	Targets []string `yaml:"targets"`
}

type groupDoc struct {
	Name         string      `yaml:"name"`
	Defaults     optionMap   `yaml:"defaults"`
	Tools        []optionMap `yaml:"tools"`
	SkipBackends []string    `yaml:"skip_backends"`
	Order        string      `yaml:"order"`
	Configs      []configDoc `yaml:"configs"`
}

type configDoc struct {
	Name          string       `yaml:"name"`
	Generics      optionMap    `yaml:"generics"`
	Tools         *[]optionMap `yaml:"tools"`
	ExpectFailure bool         `yaml:"expect_failure"`
}

// Loader is the YAML implementation of config.FileLoader.
type Loader struct{}

// NewLoader creates a new YAML sweep loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads the sweeps of one YAML file.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*config.Sweep, error) {
	ctxlog.FromContext(ctx).Debug("Parsing YAML sweep file.", "file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep file %s: %w", path, err)
	}
	return l.LoadBytes(ctx, data, path)
}

// LoadBytes decodes YAML held in memory; filename is used in messages.
// Unknown fields are rejected.
func (l *Loader) LoadBytes(ctx context.Context, data []byte, filename string) ([]*config.Sweep, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var root fileRoot
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	sweeps := make([]*config.Sweep, 0, len(root.Sweeps))
	for _, sd := range root.Sweeps {
		sweeps = append(sweeps, sd.translate())
	}
	ctxlog.FromContext(ctx).Debug("YAML sweep file decoded.", "file", filename, "sweeps", len(sweeps))
	return sweeps, nil
}

func (sd sweepDoc) translate() *config.Sweep {
	s := &config.Sweep{Name: sd.Name, Module: sd.Module, Mode: sd.Mode}
	for _, pd := range sd.Preludes {
		s.Preludes = append(s.Preludes, &config.Prelude{Module: pd.Module, Targets: pd.Targets})
	}
	for _, gd := range sd.Groups {
		g := &config.Group{
			Name:         gd.Name,
			Defaults:     options.Set(gd.Defaults),
			Tools:        toSets(gd.Tools),
			SkipBackends: gd.SkipBackends,
			Order:        config.Order(gd.Order),
		}
		for _, cd := range gd.Configs {
			c := &config.Config{
				Name:          cd.Name,
				Generics:      options.Set(cd.Generics),
				ExpectFailure: cd.ExpectFailure,
			}
			if cd.Tools != nil {
				c.Tools = toSets(*cd.Tools)
				if c.Tools == nil {
					c.Tools = []options.Set{}
				}
			}
			g.Configs = append(g.Configs, c)
		}
		s.Groups = append(s.Groups, g)
	}
	return s
}

func toSets(maps []optionMap) []options.Set {
	if maps == nil {
		return nil
	}
	sets := make([]options.Set, len(maps))
	for i, m := range maps {
		sets[i] = options.Set(m)
	}
	return sets
}
