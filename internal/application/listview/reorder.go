package listview

import (
	"slices"

	"coursecatalog/internal/domain/course"
)

// Reorder moves the element at from to position to.
// PRE: none
// POST: Returns a new slice and true; if either index is out of range the
// returned slice is an unchanged copy and ok is false
// INVARIANT: list is not mutated
func Reorder(list []course.Course, from, to int) ([]course.Course, bool) {
	out := slices.Clone(list)
	if !inRange(from, len(list)) || !inRange(to, len(list)) {
		return out, false
	}
	if from == to {
		return out, true
	}
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, true
}

// ReorderSubset reorders the visible courses among themselves and writes the new
// relative order back into the full collection. Courses not in visible keep
// their positions; the visible courses fill the positions they occupied before.
// PRE: visible holds courses drawn from all, identified by ID
// POST: Returns the new full order and true, or an unchanged copy and false
// when an index is out of range or visible is not a subset of all
func ReorderSubset(all, visible []course.Course, from, to int) ([]course.Course, bool) {
	reordered, ok := Reorder(visible, from, to)
	if !ok {
		return slices.Clone(all), false
	}

	wanted := make(map[string]bool, len(visible))
	for _, c := range visible {
		wanted[c.ID] = true
	}
	slots := make([]int, 0, len(visible))
	for i, c := range all {
		if wanted[c.ID] {
			slots = append(slots, i)
		}
	}
	if len(slots) != len(reordered) {
		return slices.Clone(all), false
	}

	out := slices.Clone(all)
	for k, pos := range slots {
		out[pos] = reordered[k]
	}
	return out, true
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
