// Package sweep turns sweep definitions into an ordered list of points and
// drives the build system through them, one point at a time.
//
// A point is one hardware configuration combined with one set of tool
// options. For every point the driver patches the config package, derives the
// artifact directory name, exports the options as make variables and records
// the outcome. Failing builds do not stop the sweep; everything else does.
package sweep
