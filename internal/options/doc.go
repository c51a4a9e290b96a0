// Package options defines the closed vocabulary of build options understood
// by the sweep driver and the ordered option set used to carry them.
//
// Every option has a Kind that decides how it reaches the build system: as a
// hardware generic, as a processing-system parameter, as a tool option passed
// through unchanged, or as a constant patched into the generated config file.
package options
