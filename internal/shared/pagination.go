package shared

import "math"

// DefaultPageSize applies when a page request carries no size.
const DefaultPageSize = 20

// PageRequest describes the pagination a caller asked for. Full bypasses
// slicing and returns every matching row.
type PageRequest struct {
	Current  int  `json:"current"`
	PageSize int  `json:"pageSize"`
	Full     bool `json:"full"`
}

// Normalize fills defaults for out-of-range values.
func (p PageRequest) Normalize() PageRequest {
	if p.Current <= 0 {
		p.Current = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the zero-based index of the first row of the page.
func (p PageRequest) Offset() int {
	return (p.Current - 1) * p.PageSize
}

// Slice returns the [offset, offset+pageSize) window over total rows,
// clamped to valid bounds. With Full set it spans everything.
func (p PageRequest) Slice(total int) (int, int) {
	if p.Full {
		return 0, total
	}
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}
