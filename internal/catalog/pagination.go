package catalog

// DefaultPageSize is the number of topics shown per selection page
const DefaultPageSize = 20

// Pagination describes one page of a list; it is derived entirely from its inputs
type Pagination struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	// Start and End bound the page's items as a half-open slice range
	Start int
	End   int
}

// Paginate computes the page window for total items. Out of range pages are
// clamped and a non-positive size falls back to DefaultPageSize.
func Paginate(total, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}

// HasPrev reports whether a previous page exists
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Pages lists the page numbers 1..TotalPages
func (p Pagination) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
