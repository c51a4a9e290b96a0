// Package naming derives the short, stable identifiers used as artifact
// directory names and summary labels for a sweep point.
package naming

// A nil entry marks the vendor default strategy, which never shows up in names.
var synthStrategies = map[string]*string{
	"Vivado Synthesis Defaults": nil,
	"Flow_AlternateRoutability": ptr("FAR"),
	"Flow_AreaOptimized_medium": ptr("FAOm"),
	"Flow_AreaOptimized_high":   ptr("FAOh"),
	"Flow_PerfOptimized_high":   ptr("FPOh"),
	"Flow_PerfThresholdCarry":   ptr("FPTC"),
	"Flow_RuntimeOptimized":     ptr("FRO"),
}

var implStrategies = map[string]*string{
	"Vivado Implementation Defaults": nil,
	"Flow_RunPostRoutePhysOpt":       ptr("FRPRPO"),
	"Performance_Explore":            ptr("PE"),
	"Performance_NetDelay_high":      ptr("PNDh"),
	"Performance_NetDelay_low":       ptr("PNDl"),
}

func ptr(s string) *string { return &s }

// AbbreviateSynth maps a synthesis strategy to its short code. The boolean is
// false for the default strategy. Unknown names are returned unchanged.
func AbbreviateSynth(name string) (string, bool) {
	return lookup(synthStrategies, name)
}

// AbbreviateImpl maps an implementation strategy to its short code. The
// boolean is false for the default strategy. Unknown names are returned
// unchanged.
func AbbreviateImpl(name string) (string, bool) {
	return lookup(implStrategies, name)
}

func lookup(table map[string]*string, name string) (string, bool) {
	abbr, known := table[name]
	if !known {
		return name, true
	}
	if abbr == nil {
		return "", false
	}
	return *abbr, true
}
