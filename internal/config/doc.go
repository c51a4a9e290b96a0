// Package config defines the format-agnostic model of sweep definitions,
// along with the Loader interfaces for reading it from files.
//
// The `config.Model` is the single source of truth for the `sweep` package.
// Concrete file formats (HCL, YAML) are implemented in separate packages and
// plugged in through FileLoader.
package config
