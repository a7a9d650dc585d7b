package layout

import (
	"cmp"
	"slices"
)

// SortFunc compares two sizes, returning -1, 0 or 1 like cmp.Compare.
type SortFunc func(a, b Size) int

// SortArea orders sizes by area, largest first.
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// sortScaled orders items with compare. The sort is stable so equal items
// keep their input order and runs stay reproducible.
func sortScaled(items []scaledItem, compare SortFunc) {
	slices.SortStableFunc(items, func(a, b scaledItem) int {
		return compare(a.size(), b.size())
	})
}
