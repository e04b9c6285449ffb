package model

import (
	"sort"

	"github.com/maruel/natural"
)

// The walker returns children in directory-enumeration order; sorting is
// a presentation concern applied by callers that want it.

// SortBySize sorts items largest-first. The sort is stable so equal-size
// entries keep their enumeration order.
func SortBySize(items []*DiskItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Size > items[j].Size
	})
}

// SortByName sorts items by name using natural ordering, directories first.
func SortByName(items []*DiskItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return natural.Less(a.Name, b.Name)
	})
}
