package view

// DefaultPageSize is the number of rows shown per page unless a Spec overrides it.
const DefaultPageSize = 10

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed, clamped)
	PerPage    int
	Total      int // rows after filtering
	TotalPages int // ceil(Total / PerPage), at least 1
}

// NewPageInfo computes pagination metadata with Page clamped to [1, TotalPages].
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number, or 0 when there are no rows.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p PageInfo) PrevPage() int { return max(p.Page-1, 1) }

// NextPage returns the next page number.
func (p PageInfo) NextPage() int { return min(p.Page+1, p.TotalPages) }

// PageNumbers returns at most 5 page numbers centered on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := max(p.Page-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether pagination controls are worth rendering.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Paginate returns the slice of items for the page described by info.
// The returned slice shares no backing array with items.
func Paginate[T any](items []T, info PageInfo) []T {
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
