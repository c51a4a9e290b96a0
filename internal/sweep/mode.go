package sweep

import (
	"fmt"

	"github.com/specialistvlad/fpgasweep/internal/options"
)

// Mode describes how a sweep talks to the build system: which targets it
// runs and how hardware options are turned into make variables.
type Mode struct {
	Name    string
	Targets []string

	// variable names the make variable for a generic or system option.
	variable func(module string, key options.Key) string
	// quote wraps generic values in double quotes.
	quote bool
}

const (
	systemCell  = "processing_system7_0"
	genericCell = "memsec_0"
)

// BuildMode builds bitstreams. Generics are block design parameters of the
// core cell, clock settings belong to the processing system cell.
var BuildMode = Mode{
	Name:    "build",
	Targets: []string{"implcb", "clean"},
	variable: func(module string, key options.Key) string {
		cell := genericCell
		if key.Kind() == options.KindSystem {
			cell = systemCell
		}
		return fmt.Sprintf("%sFLOW_VIVADO_BD_GENERIC_%s_AT_%s", module, key, cell)
	},
}

// TestMode simulates the testbench named by FLOW_SIM_TOP.
var TestMode = Mode{
	Name:    "test",
	Targets: []string{"hdlsb", "clean"},
	variable: func(module string, key options.Key) string {
		return fmt.Sprintf("%sGENERIC_%s", module, key)
	},
	quote: true,
}

// ModeByName returns the mode called name.
func ModeByName(name string) (Mode, error) {
	switch name {
	case BuildMode.Name:
		return BuildMode, nil
	case TestMode.Name:
		return TestMode, nil
	}
	return Mode{}, fmt.Errorf("unknown sweep mode %q", name)
}

// Assignments renders set as NAME=value words for the build command line.
// Generic and system options come first, then tool options, each in set
// order. Config-file options are never exported.
func (m Mode) Assignments(module string, set options.Set) []string {
	var hw, tools []string
	for _, e := range set.Entries() {
		switch e.Key.Kind() {
		case options.KindGeneric, options.KindSystem:
			if m.quote {
				hw = append(hw, fmt.Sprintf("%s=\"%s\"", m.variable(module, e.Key), e.Value.Text()))
			} else {
				hw = append(hw, fmt.Sprintf("%s=%s", m.variable(module, e.Key), e.Value.Text()))
			}
		case options.KindTool:
			tools = append(tools, fmt.Sprintf("%s=\"%s\"", e.Key, e.Value.Text()))
		}
	}
	return append(hw, tools...)
}
