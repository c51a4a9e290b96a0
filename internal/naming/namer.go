package naming

import (
	"strings"

	"github.com/specialistvlad/fpgasweep/internal/options"
)

// Separator joins name tokens and prefixes the whole name.
const Separator = "_"

// step contributes at most one token for a single option.
type step struct {
	key    options.Key
	format func(v options.Value) (string, bool)
}

func prefixed(prefix string) func(options.Value) (string, bool) {
	return func(v options.Value) (string, bool) {
		return prefix + v.Text(), true
	}
}

func suffixed(suffix string) func(options.Value) (string, bool) {
	return func(v options.Value) (string, bool) {
		return v.Text() + suffix, true
	}
}

func strategy(prefix string, abbreviate func(string) (string, bool)) func(options.Value) (string, bool) {
	return func(v options.Value) (string, bool) {
		abbr, ok := abbreviate(v.Text())
		if !ok || abbr == "" {
			return "", false
		}
		return prefix + abbr, true
	}
}

// steps is the token order. Artifact directories of earlier sweeps were named
// with it, so it must not change.
var steps = []step{
	{options.CryptoConfig, prefixed("CONFIG")},
	{options.FPGA0FreqMHz, suffixed("MHZ")},
	{options.TreeRoots, prefixed("R")},
	{options.TreeArity, prefixed("A")},
	{options.BlocksPerSector, prefixed("BPS")},
	{options.DataBlockSize, prefixed("B")},
	{options.SynthStrategy, strategy("S", AbbreviateSynth)},
	{options.ImplStrategy, strategy("I", AbbreviateImpl)},
	{options.DatastreamDataWidth, prefixed("W")},
}

// Tokens returns the name tokens of set in their fixed order.
func Tokens(set options.Set) []string {
	var tokens []string
	for _, st := range steps {
		v, ok := set.Get(st.key)
		if !ok {
			continue
		}
		if tok, ok := st.format(v); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// DirName derives the identifier of an option set, e.g. "_CONFIG3_BPS4".
// It returns false when the set has none of the naming options.
func DirName(set options.Set) (string, bool) {
	tokens := Tokens(set)
	if len(tokens) == 0 {
		return "", false
	}
	return Separator + strings.Join(tokens, Separator), true
}
