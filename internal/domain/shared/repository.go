package shared

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// HasPrevious reports whether a page precedes the current one
func (p Paginated[T]) HasPrevious() bool {
	return p.Page > 1
}

// HasNext reports whether a page follows the current one
func (p Paginated[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// PreviousPage returns the previous page number
func (p Paginated[T]) PreviousPage() int {
	return p.Page - 1
}

// NextPage returns the next page number
func (p Paginated[T]) NextPage() int {
	return p.Page + 1
}

// Offset returns the number of rows to skip for a 1-based page
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// Paginate slices an in-memory list the same way a repository pages a query.
// Out-of-range pages are clamped to the last page.
func Paginate[T any](items []T, page, pageSize int) Paginated[T] {
	total := int64(len(items))
	if page < 1 {
		page = 1
	}
	p := NewPaginated[T](nil, total, page, pageSize)
	if p.TotalPages > 0 && page > p.TotalPages {
		page = p.TotalPages
		p.Page = page
	}
	start := Offset(page, p.PageSize)
	if start >= len(items) {
		p.Items = []T{}
		return p
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end]
	return p
}
