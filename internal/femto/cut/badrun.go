package cut

import (
	"maps"
	"slices"
)

// BadRunList is a set of run numbers excluded from analysis. It is loaded from
// configuration because it is specific to a data-taking period.
type BadRunList map[int]struct{}

// NewBadRunList builds a list from run numbers.
func NewBadRunList(runs ...int) BadRunList {
	l := make(BadRunList, len(runs))
	for _, r := range runs {
		l[r] = struct{}{}
	}
	return l
}

// Contains reports whether run is listed. A nil list contains nothing.
func (l BadRunList) Contains(run int) bool {
	_, ok := l[run]
	return ok
}

// Runs returns the listed runs in ascending order.
func (l BadRunList) Runs() []int {
	return slices.Sorted(maps.Keys(l))
}
