package internal

import (
	"iter"
)

// Ring yields up to count indices of a ring of the given size, starting at
// from and wrapping past the end. No index is yielded twice.
func Ring(size, from, count int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if size <= 0 || count <= 0 {
			return
		}
		start := from % size
		if start < 0 {
			start += size
		}
		for n := range min(count, size) {
			if !yield((start + n) % size) {
				return // Stop if the consumer stops
			}
		}
	}
}
