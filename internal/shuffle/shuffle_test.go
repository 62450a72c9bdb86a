package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSource replays a fixed list of picks, clamped to the requested range
type sequenceSource struct {
	picks []int
	calls []int
}

func (s *sequenceSource) Intn(n int) int {
	s.calls = append(s.calls, n)
	if len(s.picks) == 0 {
		return 0
	}
	pick := s.picks[0]
	s.picks = s.picks[1:]
	return pick % n
}

func TestShuffleDeterministicOrder(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		picks    []int
		expected []string
	}{
		{
			name:     "empty slice",
			items:    []string{},
			expected: []string{},
		},
		{
			name:     "single item",
			items:    []string{"a"},
			expected: []string{"a"},
		},
		{
			name:     "always pick zero rotates first item to the end",
			items:    []string{"a", "b", "c", "d"},
			picks:    []int{0, 0, 0},
			expected: []string{"b", "c", "d", "a"},
		},
		{
			name:     "picking i keeps the original order",
			items:    []string{"a", "b", "c", "d"},
			picks:    []int{3, 2, 1},
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "reverse",
			items:    []string{"a", "b", "c"},
			picks:    []int{0, 1},
			expected: []string{"c", "b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &sequenceSource{picks: tt.picks}
			result := Shuffle(tt.items, src)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestShuffleWalksFromEndToStart(t *testing.T) {
	src := &sequenceSource{}
	Shuffle([]int{1, 2, 3, 4, 5}, src)

	// Intn(i+1) for i = 4, 3, 2, 1
	assert.Equal(t, []int{5, 4, 3, 2}, src.calls)
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}
	original := slices.Clone(input)

	result := Shuffle(input, &sequenceSource{picks: []int{0, 0, 0, 0, 0, 0, 0}})

	assert.Equal(t, original, input, "input must be left untouched")
	require.Len(t, result, len(input))

	result[0] = 99
	assert.Equal(t, original, input, "result must not alias the input")
}

func TestShuffleIsPermutation(t *testing.T) {
	input := make([]int, 20)
	for i := range input {
		input[i] = i
	}

	src := NewSource()
	differentOrder := false
	for range 50 {
		result := Shuffle(input, src)

		sorted := slices.Clone(result)
		slices.Sort(sorted)
		require.Equal(t, input, sorted, "shuffle must keep the same elements")

		if !slices.Equal(input, result) {
			differentOrder = true
		}
	}
	assert.True(t, differentOrder, "50 shuffles of 20 items should produce at least one new order")
}

func TestShuffleNilSourceFallsBackToRandom(t *testing.T) {
	result := Shuffle([]string{"x", "y", "z"}, nil)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, result)
}

func TestShuffleWithLimit(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "zero keeps all", limit: 0, expected: 5},
		{name: "negative keeps all", limit: -1, expected: 5},
		{name: "above length keeps all", limit: 10, expected: 5},
		{name: "within range", limit: 3, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ShuffleWithLimit(items, tt.limit, NewSource())
			assert.Len(t, result, tt.expected)
			for _, v := range result {
				assert.Contains(t, items, v)
			}
		})
	}
}
