package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                  string
		total, page, pageSize int
		expected              Pagination
	}{
		{
			name: "first of three", total: 50, page: 1, pageSize: 20,
			expected: Pagination{Page: 1, PageSize: 20, TotalItems: 50, TotalPages: 3, Start: 0, End: 20},
		},
		{
			name: "partial last", total: 50, page: 3, pageSize: 20,
			expected: Pagination{Page: 3, PageSize: 20, TotalItems: 50, TotalPages: 3, Start: 40, End: 50},
		},
		{
			name: "exact multiple", total: 40, page: 2, pageSize: 20,
			expected: Pagination{Page: 2, PageSize: 20, TotalItems: 40, TotalPages: 2, Start: 20, End: 40},
		},
		{
			name: "empty list has one page", total: 0, page: 1, pageSize: 20,
			expected: Pagination{Page: 1, PageSize: 20, TotalItems: 0, TotalPages: 1, Start: 0, End: 0},
		},
		{
			name: "negative page clamps", total: 5, page: -3, pageSize: 20,
			expected: Pagination{Page: 1, PageSize: 20, TotalItems: 5, TotalPages: 1, Start: 0, End: 5},
		},
		{
			name: "zero size uses default", total: 25, page: 2, pageSize: 0,
			expected: Pagination{Page: 2, PageSize: DefaultPageSize, TotalItems: 25, TotalPages: 2, Start: 20, End: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Paginate(tt.total, tt.page, tt.pageSize))
		})
	}
}

func TestPaginationNavigation(t *testing.T) {
	first := Paginate(50, 1, 20)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	last := Paginate(50, 3, 20)
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())

	assert.Equal(t, []int{1, 2, 3}, last.Pages())
}
