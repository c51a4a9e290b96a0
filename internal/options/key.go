package options

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned when an option name is not part of the vocabulary.
var ErrUnknownKey = errors.New("unknown option")

// Kind classifies how an option is handed to the build.
type Kind int

const (
	// KindGeneric is a generic of the memory-encryption core.
	KindGeneric Kind = iota
	// KindSystem is a parameter of the processing system cell (clocks).
	KindSystem
	// KindTool is a build-flow option exported under its own name.
	KindTool
	// KindConfigFile is written into the generated VHDL config package.
	KindConfigFile
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindSystem:
		return "system"
	case KindTool:
		return "tool"
	case KindConfigFile:
		return "config-file"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is the value type an option accepts.
type Type int

const (
	TypeInt Type = iota
	TypeString
)

func (t Type) String() string {
	if t == TypeString {
		return "string"
	}
	return "int"
}

// Key names one option of the vocabulary.
type Key string

const (
	CryptoConfig         Key = "CRYPTO_CONFIG"
	BlocksPerSector      Key = "BLOCKS_PER_SECTOR"
	DataBlockSize        Key = "DATA_BLOCK_SIZE"
	TreeRoots            Key = "TREE_ROOTS"
	TreeArity            Key = "TREE_ARITY"
	SimulationIterations Key = "SIMULATION_ITERATIONS"
	Rounds               Key = "ROUNDS"
	UnroledRounds        Key = "UNROLED_ROUNDS"

	FPGA0FreqMHz Key = "PCW_FPGA0_PERIPHERAL_FREQMHZ"
	FCLK0ClkSrc  Key = "PCW_FCLK0_PERIPHERAL_CLKSRC"

	SynthStrategy Key = "FLOW_VIVADO_SYNTH_STRATEGY"
	ImplStrategy  Key = "FLOW_VIVADO_IMPL_STRATEGY"
	SimTop        Key = "FLOW_SIM_TOP"

	DatastreamDataWidth Key = "DATASTREAM_DATA_WIDTH"
)

type keyInfo struct {
	kind Kind
	typ  Type
}

var vocabulary = map[Key]keyInfo{
	CryptoConfig:         {KindGeneric, TypeInt},
	BlocksPerSector:      {KindGeneric, TypeInt},
	DataBlockSize:        {KindGeneric, TypeInt},
	TreeRoots:            {KindGeneric, TypeInt},
	TreeArity:            {KindGeneric, TypeInt},
	SimulationIterations: {KindGeneric, TypeInt},
	Rounds:               {KindGeneric, TypeInt},
	UnroledRounds:        {KindGeneric, TypeInt},

	FPGA0FreqMHz: {KindSystem, TypeInt},
	FCLK0ClkSrc:  {KindSystem, TypeString},

	SynthStrategy: {KindTool, TypeString},
	ImplStrategy:  {KindTool, TypeString},
	SimTop:        {KindTool, TypeString},

	DatastreamDataWidth: {KindConfigFile, TypeInt},
}

// ParseKey resolves an option name against the vocabulary.
func ParseKey(name string) (Key, error) {
	k := Key(name)
	if _, ok := vocabulary[k]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, name)
	}
	return k, nil
}

// Valid reports whether k is part of the vocabulary.
func (k Key) Valid() bool {
	_, ok := vocabulary[k]
	return ok
}

// Kind returns the option's kind. It panics for keys outside the vocabulary,
// which can only be built by converting arbitrary strings.
func (k Key) Kind() Kind {
	return k.info().kind
}

// Type returns the value type the option accepts.
func (k Key) Type() Type {
	return k.info().typ
}

func (k Key) info() keyInfo {
	info, ok := vocabulary[k]
	if !ok {
		panic(fmt.Sprintf("options: key %q is not in the vocabulary", string(k)))
	}
	return info
}
