// Package shuffle produces random permutations of slices without touching the input.
package shuffle

import (
	"math/rand"
	"time"
)

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand satisfies it; tests substitute a fixed sequence.
type Source interface {
	Intn(n int) int
}

// NewSource returns a time-seeded random source
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle returns a copy of items in random order using Fisher-Yates.
// The input slice is never modified.
func Shuffle[T any](items []T, src Source) []T {
	if src == nil {
		src = NewSource()
	}

	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// ShuffleWithLimit shuffles items and keeps only the first limit of them.
// A limit of zero or less, or one above len(items), keeps everything.
func ShuffleWithLimit[T any](items []T, limit int, src Source) []T {
	shuffled := Shuffle(items, src)

	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}

	return shuffled[:limit]
}
