package testutil

import (
	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/fpgasweep/internal/options"
)

// SetComparer lets cmp compare option sets by their ordered rendering, so
// both key order and value types take part in the comparison.
var SetComparer = cmp.Comparer(func(a, b options.Set) bool {
	return a.String() == b.String()
})
